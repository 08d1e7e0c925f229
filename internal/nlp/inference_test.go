package nlp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytemotion/internal/httpx"
)

func newTestInference(srv *httptest.Server, token string) *InferenceClassifier {
	c := NewInferenceClassifier(srv.URL+"/", "finiteautomata/beto-emotion-analysis", token, srv.Client())
	c.retry = httpx.RetryConfig{MaxRetries: 2, InitialWait: time.Millisecond, MaxWait: time.Millisecond, Multiplier: 1}
	return c
}

func TestInferenceClassifier_Nested(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/finiteautomata/beto-emotion-analysis", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req inferenceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "qué alegría", req.Inputs)
		assert.True(t, req.Options["wait_for_model"])

		_, _ = w.Write([]byte(`[[{"label":"others","score":0.1},{"label":"JOY","score":0.85},{"label":"sadness","score":0.05}]]`))
	}))
	defer srv.Close()

	c := newTestInference(srv, "secret")
	scores, err := c.Classify(context.Background(), "qué alegría")

	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.Equal(t, "joy", scores[0].Emotion)
	assert.InDelta(t, 0.85, scores[0].Score, 1e-9)
	assert.Equal(t, "sadness", scores[2].Emotion)
	assert.Equal(t, "finiteautomata/beto-emotion-analysis", c.Model())
}

func TestInferenceClassifier_FlatWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"label":"anger","score":0.6},{"label":"fear","score":0.4}]`))
	}))
	defer srv.Close()

	scores, err := newTestInference(srv, "").Classify(context.Background(), "grr")

	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "anger", scores[0].Emotion)
}

func TestInferenceClassifier_RetriesModelLoading(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model is currently loading"}`))
			return
		}
		_, _ = w.Write([]byte(`[[{"label":"joy","score":1}]]`))
	}))
	defer srv.Close()

	scores, err := newTestInference(srv, "").Classify(context.Background(), "hola")

	require.NoError(t, err)
	assert.Len(t, scores, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInferenceClassifier_Errors(t *testing.T) {
	t.Run("api error message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad input"}`))
		}))
		defer srv.Close()

		_, err := newTestInference(srv, "").Classify(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 400: bad input")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"unexpected":true}`))
		}))
		defer srv.Close()

		_, err := newTestInference(srv, "").Classify(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode inference response")
	})

	t.Run("exhausted retries", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := newTestInference(srv, "").Classify(context.Background(), "x")
		var se *httpx.StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	})
}

func TestDecodeLabels_EmptyNested(t *testing.T) {
	labels, err := decodeLabels([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, labels)
}
