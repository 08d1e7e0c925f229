package model

import (
	"strings"
	"time"
)

// Emotion labels produced outside of the classifier itself.
const (
	EmotionUnknown = "unknown"
	EmotionError   = "error"
)

// ChartType selects how the emotion distribution is rendered.
type ChartType string

const (
	ChartBar ChartType = "bar"
	ChartPie ChartType = "pie"
)

// ParseChartType maps user input to a chart type. Only "pie" selects the pie chart.
func ParseChartType(s string) ChartType {
	if ChartType(strings.ToLower(strings.TrimSpace(s))) == ChartPie {
		return ChartPie
	}
	return ChartBar
}

// EmotionScore is one label/score pair reported by the classifier.
type EmotionScore struct {
	Emotion string  `json:"emotion"`
	Score   float64 `json:"score"`
}

// EmotionResult is the classification outcome for a single text.
type EmotionResult struct {
	Emotion     string         `json:"emotion"`
	Confidence  float64        `json:"confidence"`
	AllEmotions []EmotionScore `json:"all_emotions"`
	Error       string         `json:"error,omitempty"`
}

// EmotionCount is the number of comments assigned to one emotion.
type EmotionCount struct {
	Emotion string `json:"emotion"`
	Count   int    `json:"count"`
}

// AnalyzedComment is a comment together with its normalized text and emotion.
type AnalyzedComment struct {
	CommentID     string    `json:"comment_id"`
	Author        string    `json:"author"`
	Comment       string    `json:"comment"`
	ProcessedText string    `json:"processed_comment"`
	Emotion       string    `json:"emotion"`
	Confidence    float64   `json:"confidence"`
	PublishedAt   time.Time `json:"date"`
	Likes         int64     `json:"likes"`
}

// Analysis is one persisted emotion analysis of a video's comments.
type Analysis struct {
	ID            string            `json:"id"`
	VideoID       string            `json:"video_id"`
	VideoTitle    string            `json:"video_title,omitempty"`
	Channel       string            `json:"channel,omitempty"`
	ChartType     ChartType         `json:"chart_type"`
	Language      string            `json:"language"`
	ChartPath     string            `json:"chart_path"`
	TotalComments int               `json:"total_comments"`
	Distribution  []EmotionCount    `json:"distribution,omitempty"`
	Comments      []AnalyzedComment `json:"comments,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}
