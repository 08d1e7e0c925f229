package nlp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytemotion/internal/config"
	"ytemotion/internal/logger"
	"ytemotion/internal/model"
)

type stubClassifier struct {
	mu     sync.Mutex
	inputs []string
	fn     func(text string) ([]model.EmotionScore, error)
}

func (s *stubClassifier) Classify(_ context.Context, text string) ([]model.EmotionScore, error) {
	s.mu.Lock()
	s.inputs = append(s.inputs, text)
	s.mu.Unlock()
	return s.fn(text)
}

func TestAnalyzer_Analyze(t *testing.T) {
	t.Run("picks highest score", func(t *testing.T) {
		c := &stubClassifier{fn: func(string) ([]model.EmotionScore, error) {
			return []model.EmotionScore{{Emotion: "anger", Score: 0.2}, {Emotion: "joy", Score: 0.7}, {Emotion: "fear", Score: 0.1}}, nil
		}}
		a := NewAnalyzer(c, 512, 1, logger.Nop())

		res := a.Analyze(context.Background(), "me encanta")
		assert.Equal(t, "joy", res.Emotion)
		assert.InDelta(t, 0.7, res.Confidence, 1e-9)
		assert.Len(t, res.AllEmotions, 3)
		assert.Empty(t, res.Error)
	})

	t.Run("blank text is unknown", func(t *testing.T) {
		c := &stubClassifier{fn: func(string) ([]model.EmotionScore, error) {
			t.Fatal("classifier must not be called")
			return nil, nil
		}}
		a := NewAnalyzer(c, 512, 1, logger.Nop())

		res := a.Analyze(context.Background(), "   ")
		assert.Equal(t, model.EmotionUnknown, res.Emotion)
		assert.Zero(t, res.Confidence)
		assert.Empty(t, res.AllEmotions)
	})

	t.Run("classifier failure is error", func(t *testing.T) {
		c := &stubClassifier{fn: func(string) ([]model.EmotionScore, error) {
			return nil, errors.New("model loading")
		}}
		a := NewAnalyzer(c, 512, 1, logger.Nop())

		res := a.Analyze(context.Background(), "hola")
		assert.Equal(t, model.EmotionError, res.Emotion)
		assert.Zero(t, res.Confidence)
		assert.Equal(t, "model loading", res.Error)
	})

	t.Run("empty scores is error", func(t *testing.T) {
		c := &stubClassifier{fn: func(string) ([]model.EmotionScore, error) { return nil, nil }}
		a := NewAnalyzer(c, 512, 1, logger.Nop())

		res := a.Analyze(context.Background(), "hola")
		assert.Equal(t, model.EmotionError, res.Emotion)
	})

	t.Run("long text truncated by runes", func(t *testing.T) {
		c := &stubClassifier{fn: func(string) ([]model.EmotionScore, error) {
			return []model.EmotionScore{{Emotion: "joy", Score: 1}}, nil
		}}
		a := NewAnalyzer(c, 5, 1, logger.Nop())

		a.Analyze(context.Background(), "ñañañañaña")
		require.Len(t, c.inputs, 1)
		assert.Equal(t, "ñañañ", c.inputs[0])
	})
}

func TestAnalyzer_AnalyzeBatch(t *testing.T) {
	var inFlight, peak atomic.Int32
	c := &stubClassifier{fn: func(text string) ([]model.EmotionScore, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return []model.EmotionScore{{Emotion: strings.ToUpper(text), Score: 1}}, nil
	}}
	a := NewAnalyzer(c, 512, 2, logger.Nop())

	texts := []string{"a", "b", "", "c", "d", "e"}
	results, err := a.AnalyzeBatch(context.Background(), texts)

	require.NoError(t, err)
	require.Len(t, results, len(texts))
	assert.Equal(t, "A", results[0].Emotion)
	assert.Equal(t, model.EmotionUnknown, results[2].Emotion)
	assert.Equal(t, "E", results[5].Emotion)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestAnalyzer_AnalyzeBatchCanceled(t *testing.T) {
	c := &stubClassifier{fn: func(string) ([]model.EmotionScore, error) {
		return []model.EmotionScore{{Emotion: "joy", Score: 1}}, nil
	}}
	a := NewAnalyzer(c, 512, 2, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.AnalyzeBatch(ctx, []string{"a", "b"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestModelFor(t *testing.T) {
	cfg := config.NLPConfig{ModelSpanish: "es-model", ModelEnglish: "en-model"}

	assert.Equal(t, "es-model", ModelFor(cfg, "spanish"))
	assert.Equal(t, "es-model", ModelFor(cfg, " Spanish "))
	assert.Equal(t, "en-model", ModelFor(cfg, "english"))
	assert.Equal(t, "en-model", ModelFor(cfg, "french"))
}

func TestLexiconClassifier(t *testing.T) {
	c := NewLexiconClassifier()

	t.Run("joy", func(t *testing.T) {
		scores, err := c.Classify(context.Background(), "Me encanta, genial!")
		require.NoError(t, err)
		require.Len(t, scores, len(lexiconLabels))
		assert.Equal(t, "joy", scores[0].Emotion)
		assert.InDelta(t, 1.0, scores[0].Score, 1e-9)
	})

	t.Run("mixed", func(t *testing.T) {
		scores, err := c.Classify(context.Background(), "i hate this, so sad and sad")
		require.NoError(t, err)
		assert.Equal(t, "sadness", scores[0].Emotion)
		assert.InDelta(t, 2.0/3.0, scores[0].Score, 1e-9)
		assert.Equal(t, "anger", scores[1].Emotion)
	})

	t.Run("no cue words", func(t *testing.T) {
		scores, err := c.Classify(context.Background(), "video subido ayer")
		require.NoError(t, err)
		assert.Equal(t, EmotionOthers, scores[0].Emotion)
		assert.InDelta(t, 1.0, scores[0].Score, 1e-9)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.Classify(ctx, "love")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
