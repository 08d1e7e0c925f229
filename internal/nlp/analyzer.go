// Package nlp normalizes comment text and classifies its dominant emotion.
package nlp

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ytemotion/internal/config"
	"ytemotion/internal/model"
)

var errEmptyScores = errors.New("classifier returned no scores")

// Classifier scores a text against every emotion label the model knows.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]model.EmotionScore, error)
}

// Analyzer turns classifier scores into per-comment emotion results.
type Analyzer struct {
	classifier Classifier
	maxLength  int
	workers    int
	log        zerolog.Logger
}

// NewAnalyzer wraps a classifier. Texts longer than maxLength runes are truncated
// and batches run on at most workers goroutines.
func NewAnalyzer(c Classifier, maxLength, workers int, log zerolog.Logger) *Analyzer {
	if maxLength <= 0 {
		maxLength = 512
	}
	if workers <= 0 {
		workers = 1
	}
	return &Analyzer{classifier: c, maxLength: maxLength, workers: workers, log: log}
}

// ModelFor returns the model name configured for the language.
// Spanish selects the Spanish model; everything else the English one.
func ModelFor(cfg config.NLPConfig, language string) string {
	if strings.EqualFold(strings.TrimSpace(language), "spanish") {
		return cfg.ModelSpanish
	}
	return cfg.ModelEnglish
}

// Analyze classifies a single text. It never fails: blank input yields the
// "unknown" emotion and classifier failures yield the "error" emotion.
func (a *Analyzer) Analyze(ctx context.Context, text string) model.EmotionResult {
	if strings.TrimSpace(text) == "" {
		return model.EmotionResult{Emotion: model.EmotionUnknown, AllEmotions: []model.EmotionScore{}}
	}

	scores, err := a.classifier.Classify(ctx, truncate(text, a.maxLength))
	if err == nil && len(scores) == 0 {
		err = errEmptyScores
	}
	if err != nil {
		a.log.Error().Str("event", "emotion_analysis_failed").Err(err).Msg("")
		return model.EmotionResult{
			Emotion:     model.EmotionError,
			AllEmotions: []model.EmotionScore{},
			Error:       err.Error(),
		}
	}

	top := scores[0]
	for _, s := range scores[1:] {
		if s.Score > top.Score {
			top = s
		}
	}
	return model.EmotionResult{
		Emotion:     top.Emotion,
		Confidence:  top.Score,
		AllEmotions: scores,
	}
}

// AnalyzeBatch classifies texts concurrently. Results keep the input order.
// Only context cancellation makes it fail.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, texts []string) ([]model.EmotionResult, error) {
	results := make([]model.EmotionResult, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, text := range texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.Analyze(gctx, text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
