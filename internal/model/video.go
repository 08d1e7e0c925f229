package model

import "time"

// Comment is a top-level YouTube comment.
type Comment struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	Text        string    `json:"comment"`
	PublishedAt time.Time `json:"date"`
	Likes       int64     `json:"likes"`
}

// VideoDetails is the metadata and statistics of a YouTube video.
type VideoDetails struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Channel      string    `json:"channel"`
	PublishedAt  time.Time `json:"published_at"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
}
