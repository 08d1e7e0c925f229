package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"ytemotion/internal/httpx"
	"ytemotion/internal/model"
)

// InferenceClassifier calls a hosted text-classification model
// (Hugging Face Inference API compatible).
type InferenceClassifier struct {
	http    *http.Client
	baseURL string
	model   string
	token   string
	retry   httpx.RetryConfig
}

// NewInferenceClassifier returns a classifier for the named model. A nil
// httpClient uses http.DefaultClient and an empty token sends no Authorization header.
func NewInferenceClassifier(baseURL, modelName, token string, httpClient *http.Client) *InferenceClassifier {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &InferenceClassifier{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   modelName,
		token:   token,
		retry:   httpx.DefaultRetryConfig,
	}
}

// Model returns the model name requests are sent to.
func (c *InferenceClassifier) Model() string {
	return c.model
}

type inferenceRequest struct {
	Inputs  string          `json:"inputs"`
	Options map[string]bool `json:"options,omitempty"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns every label score for text, highest first.
func (c *InferenceClassifier) Classify(ctx context.Context, text string) ([]model.EmotionScore, error) {
	body, err := json.Marshal(inferenceRequest{
		Inputs:  text,
		Options: map[string]bool{"wait_for_model": true},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal inference request: %w", err)
	}
	endpoint := c.baseURL + "/models/" + (&url.URL{Path: c.model}).EscapedPath()

	resp, err := httpx.RetryHTTP(ctx, c.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		return c.http.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("inference %s: %w", c.model, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read inference response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return nil, fmt.Errorf("inference %s: status %d: %s", c.model, resp.StatusCode, msg)
	}

	labels, err := decodeLabels(raw)
	if err != nil {
		return nil, fmt.Errorf("decode inference response: %w", err)
	}

	scores := make([]model.EmotionScore, 0, len(labels))
	for _, l := range labels {
		scores = append(scores, model.EmotionScore{Emotion: strings.ToLower(l.Label), Score: l.Score})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return scores, nil
}

// decodeLabels accepts both the nested [[...]] and the flat [...] response shapes.
func decodeLabels(raw []byte) ([]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}
	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}
	return flat, nil
}
