// Package youtube reads video comments and metadata from the YouTube Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"ytemotion/internal/config"
	"ytemotion/internal/httpx"
	"ytemotion/internal/model"
)

// pageSize is the largest page commentThreads.list accepts.
const pageSize = 100

var (
	ErrQuotaExceeded    = errors.New("youtube api quota exceeded")
	ErrVideoNotFound    = errors.New("video not found")
	ErrCommentsDisabled = errors.New("comments are disabled for this video")
	ErrMissingAPIKey    = errors.New("youtube api key is required")
)

// Client is a YouTube Data API v3 client. It is safe for concurrent use.
type Client struct {
	http        *http.Client
	baseURL     string
	keys        []string
	maxComments int
	limiter     *rate.Limiter
	retry       httpx.RetryConfig
	log         zerolog.Logger
}

// New creates a Client. A nil httpClient uses http.DefaultClient.
// The fallback key, when set, is tried after the primary key runs out of quota.
func New(cfg config.YouTubeConfig, httpClient *http.Client, log zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	keys := []string{cfg.APIKey}
	if cfg.FallbackAPIKey != "" && cfg.FallbackAPIKey != cfg.APIKey {
		keys = append(keys, cfg.FallbackAPIKey)
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	maxComments := cfg.MaxComments
	if maxComments <= 0 {
		maxComments = 500
	}
	return &Client{
		http:        httpClient,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		keys:        keys,
		maxComments: maxComments,
		limiter:     rate.NewLimiter(limit, 1),
		retry:       httpx.DefaultRetryConfig,
		log:         log,
	}, nil
}

// --- Data API v3 response types ---

type commentThreadsResp struct {
	NextPageToken string          `json:"nextPageToken"`
	Items         []commentThread `json:"items"`
}

type commentThread struct {
	ID      string `json:"id"`
	Snippet struct {
		TopLevelComment struct {
			Snippet struct {
				AuthorDisplayName string    `json:"authorDisplayName"`
				TextDisplay       string    `json:"textDisplay"`
				PublishedAt       time.Time `json:"publishedAt"`
				LikeCount         int64     `json:"likeCount"`
			} `json:"snippet"`
		} `json:"topLevelComment"`
	} `json:"snippet"`
}

type videosResp struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string    `json:"title"`
			ChannelTitle string    `json:"channelTitle"`
			PublishedAt  time.Time `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type apiErrorResp struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// ExtractComments returns up to limit top-level comments in API order.
// limit <= 0 uses the configured default. When a later page fails the comments
// collected so far are returned together with the error.
func (c *Client) ExtractComments(ctx context.Context, videoID string, limit int) ([]model.Comment, error) {
	if limit <= 0 {
		limit = c.maxComments
	}

	comments := make([]model.Comment, 0, min(limit, pageSize))
	pageToken := ""
	for len(comments) < limit {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("videoId", videoID)
		params.Set("maxResults", strconv.Itoa(pageSize))
		params.Set("textFormat", "plainText")
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page commentThreadsResp
		if err := c.get(ctx, "/commentThreads", params, &page); err != nil {
			c.log.Error().
				Str("event", "youtube_comments_failed").
				Str("video_id", videoID).
				Int("collected", len(comments)).
				Err(err).
				Msg("")
			return comments, fmt.Errorf("list comment threads: %w", err)
		}

		for _, item := range page.Items {
			s := item.Snippet.TopLevelComment.Snippet
			comments = append(comments, model.Comment{
				ID:          item.ID,
				Author:      s.AuthorDisplayName,
				Text:        s.TextDisplay,
				PublishedAt: s.PublishedAt,
				Likes:       s.LikeCount,
			})
			if len(comments) >= limit {
				break
			}
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	c.log.Info().
		Str("event", "youtube_comments_extracted").
		Str("video_id", videoID).
		Int("count", len(comments)).
		Msg("")
	return comments, nil
}

// GetVideoDetails returns the title, channel and statistics of a video.
func (c *Client) GetVideoDetails(ctx context.Context, videoID string) (*model.VideoDetails, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", videoID)

	var resp videosResp
	if err := c.get(ctx, "/videos", params, &resp); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrVideoNotFound
	}

	v := resp.Items[0]
	return &model.VideoDetails{
		ID:           videoID,
		Title:        v.Snippet.Title,
		Channel:      v.Snippet.ChannelTitle,
		PublishedAt:  v.Snippet.PublishedAt,
		ViewCount:    parseCount(v.Statistics.ViewCount),
		LikeCount:    parseCount(v.Statistics.LikeCount),
		CommentCount: parseCount(v.Statistics.CommentCount),
	}, nil
}

// get performs a GET against the Data API, moving to the next key on quota errors.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	var lastErr error
	for i, key := range c.keys {
		err := c.getWithKey(ctx, path, params, key, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !errors.Is(err, ErrQuotaExceeded) || i == len(c.keys)-1 {
			break
		}
		c.log.Warn().
			Str("event", "youtube_quota_exceeded").
			Msg("primary api key exhausted, trying fallback key")
	}
	return lastErr
}

func (c *Client) getWithKey(ctx context.Context, path string, params url.Values, key string, out any) error {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("key", key)
	endpoint := c.baseURL + path + "?" + q.Encode()

	resp, err := httpx.RetryHTTP(ctx, c.retry, func() (*http.Response, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return c.http.Do(req)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return decodeAPIError(resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError maps a Data API error body to a sentinel error where one applies.
func decodeAPIError(status int, body []byte) error {
	var ae apiErrorResp
	_ = json.Unmarshal(body, &ae)
	for _, e := range ae.Error.Errors {
		switch e.Reason {
		case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded":
			return ErrQuotaExceeded
		case "commentsDisabled":
			return ErrCommentsDisabled
		case "videoNotFound":
			return ErrVideoNotFound
		}
	}
	if status == http.StatusNotFound {
		return ErrVideoNotFound
	}
	msg := ae.Error.Message
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	return fmt.Errorf("youtube api %d: %s", status, msg)
}

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
