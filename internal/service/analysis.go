package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"ytemotion/internal/cache"
	"ytemotion/internal/chart"
	"ytemotion/internal/metrics"
	"ytemotion/internal/model"
	"ytemotion/internal/repository"
	"ytemotion/internal/storage"
	"ytemotion/internal/youtube"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("analysis not found")
	ErrInvalidURL = errors.New("invalid YouTube URL")
	ErrNoComments = errors.New("no comments found for this video")
)

// CommentSource fetches comments and metadata for a video.
type CommentSource interface {
	ExtractComments(ctx context.Context, videoID string, limit int) ([]model.Comment, error)
	GetVideoDetails(ctx context.Context, videoID string) (*model.VideoDetails, error)
}

// TextPreprocessor normalizes comment text before classification.
type TextPreprocessor interface {
	Preprocess(text string) string
	Language() string
}

// EmotionAnalyzer classifies texts, keeping their order.
type EmotionAnalyzer interface {
	AnalyzeBatch(ctx context.Context, texts []string) ([]model.EmotionResult, error)
}

// ChartRenderer draws an emotion distribution as a PNG.
type ChartRenderer interface {
	Render(ct model.ChartType, counts []model.EmotionCount, title string) ([]byte, error)
}

// AnalysisCache stores finished analyses. Implementations swallow their own failures.
type AnalysisCache interface {
	GetAnalysis(ctx context.Context, key string) *model.Analysis
	SetAnalysis(ctx context.Context, key string, a *model.Analysis)
	Invalidate(ctx context.Context, analysisID string)
}

// AnalyzeRequest is the input of AnalysisService.Analyze.
type AnalyzeRequest struct {
	VideoURL    string
	MaxComments int
	ChartType   model.ChartType
}

// AnalyzeResult is a finished analysis together with its rendered chart.
type AnalyzeResult struct {
	Analysis *model.Analysis
	Chart    []byte
	Cached   bool
}

// AnalysisListResult is the service-level DTO for paginated analyses.
type AnalysisListResult struct {
	Items []model.Analysis `json:"data"`
	Total int              `json:"total"`
}

// AnalysisService defines the emotion analysis use cases.
type AnalysisService interface {
	// Analyze fetches the video's comments, classifies them, renders and stores the chart,
	// and persists the analysis. The chart object is removed again if persisting fails.
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error)

	// List returns analyses (without comments) using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*AnalysisListResult, error)

	// Get returns a single analysis with its comments and distribution.
	Get(ctx context.Context, id string) (*model.Analysis, error)

	// Delete removes an analysis chart from storage, then its record.
	Delete(ctx context.Context, id string) error

	// Chart streams the stored chart of an analysis.
	Chart(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error)

	// ChartURL returns a presigned download URL for the chart. Non-positive expiry uses the default.
	ChartURL(ctx context.Context, id string, expiry time.Duration) (string, error)
}

// Options tunes the analysis service.
type Options struct {
	ChartPrefix        string
	URLExpiry          time.Duration
	DefaultMaxComments int
}

// Deps are the collaborators of the analysis service. Cache and Metrics are optional.
type Deps struct {
	Comments     CommentSource
	Preprocessor TextPreprocessor
	Analyzer     EmotionAnalyzer
	Renderer     ChartRenderer
	Store        storage.Storage
	Repo         repository.AnalysisRepository
	Cache        AnalysisCache
	Metrics      *metrics.Metrics
	Log          zerolog.Logger
}

type analysisService struct {
	Deps
	opts   Options
	tracer trace.Tracer
	now    func() time.Time
	newID  func() string
}

// NewAnalysisService constructs a new AnalysisService.
func NewAnalysisService(d Deps, opts Options) AnalysisService {
	if opts.ChartPrefix == "" {
		opts.ChartPrefix = "charts"
	}
	if opts.URLExpiry <= 0 {
		opts.URLExpiry = 15 * time.Minute
	}
	if opts.DefaultMaxComments <= 0 {
		opts.DefaultMaxComments = 100
	}
	return &analysisService{
		Deps:   d,
		opts:   opts,
		tracer: otel.Tracer("ytemotion/service"),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

func (s *analysisService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	ctx, span := s.tracer.Start(ctx, "AnalysisService.Analyze")
	defer span.End()

	ct := req.ChartType
	if ct != model.ChartPie {
		ct = model.ChartBar
	}

	res, err := s.analyze(ctx, span, req, ct)
	if err != nil {
		s.Metrics.ObserveAnalysis(string(ct), metrics.OutcomeFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if res.Cached {
		s.Metrics.ObserveAnalysis(string(ct), metrics.OutcomeCached)
	} else {
		s.Metrics.ObserveAnalysis(string(ct), metrics.OutcomeSuccess)
	}
	return res, nil
}

func (s *analysisService) analyze(ctx context.Context, span trace.Span, req AnalyzeRequest, ct model.ChartType) (*AnalyzeResult, error) {
	videoID, ok := youtube.ExtractVideoID(req.VideoURL)
	if !ok {
		return nil, ErrInvalidURL
	}
	limit := req.MaxComments
	if limit <= 0 {
		limit = s.opts.DefaultMaxComments
	}
	language := s.Preprocessor.Language()
	span.SetAttributes(
		attribute.String("video.id", videoID),
		attribute.Int("comments.limit", limit),
		attribute.String("chart.type", string(ct)),
	)

	log := s.Log.With().Str("video_id", videoID).Logger()
	cacheKey := cache.Key(videoID, limit, language, ct)

	if res := s.fromCache(ctx, cacheKey); res != nil {
		log.Info().Str("event", "analysis_cache_hit").Str("analysis_id", res.Analysis.ID).Msg("")
		return res, nil
	}

	var (
		comments []model.Comment
		details  *model.VideoDetails
		fetchErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		comments, fetchErr = s.Comments.ExtractComments(gctx, videoID, limit)
		return nil
	})
	g.Go(func() error {
		d, err := s.Comments.GetVideoDetails(gctx, videoID)
		if err != nil {
			log.Warn().Str("event", "video_details_failed").Err(err).Msg("")
			return nil
		}
		details = d
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		if fetchErr == nil || errors.Is(fetchErr, youtube.ErrCommentsDisabled) {
			return nil, ErrNoComments
		}
		return nil, fmt.Errorf("fetch comments: %w", fetchErr)
	}
	if fetchErr != nil {
		log.Warn().Str("event", "comments_partial").Int("fetched", len(comments)).Err(fetchErr).Msg("")
	}
	s.Metrics.AddComments(len(comments))

	texts := make([]string, len(comments))
	for i, c := range comments {
		texts[i] = s.Preprocessor.Preprocess(c.Text)
	}

	start := time.Now()
	results, err := s.Analyzer.AnalyzeBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("classify comments: %w", err)
	}
	s.Metrics.ObserveClassifyDuration(time.Since(start))

	analyzed := make([]model.AnalyzedComment, len(comments))
	emotions := make([]string, len(comments))
	for i, c := range comments {
		r := results[i]
		analyzed[i] = model.AnalyzedComment{
			CommentID:     c.ID,
			Author:        c.Author,
			Comment:       c.Text,
			ProcessedText: texts[i],
			Emotion:       r.Emotion,
			Confidence:    r.Confidence,
			PublishedAt:   c.PublishedAt,
			Likes:         c.Likes,
		}
		emotions[i] = r.Emotion
		s.Metrics.ObserveClassification(r.Emotion)
	}
	counts := chart.CountEmotions(emotions)

	a := &model.Analysis{
		ID:            s.newID(),
		VideoID:       videoID,
		ChartType:     ct,
		Language:      language,
		TotalComments: len(analyzed),
		Distribution:  counts,
		Comments:      analyzed,
		CreatedAt:     s.now(),
	}
	chartTitle := chart.DefaultTitle
	if details != nil {
		a.VideoTitle = details.Title
		a.Channel = details.Channel
		// Untitled videos are named by their id.
		name := details.Title
		if name == "" {
			name = videoID
		}
		chartTitle = chart.Title(name)
	}
	a.ChartPath = storage.ChartKey(s.opts.ChartPrefix, a.ID)

	png, err := s.Renderer.Render(ct, counts, chartTitle)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	if err := s.persist(ctx, a, png); err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.SetAnalysis(ctx, cacheKey, a)
	}

	log.Info().
		Str("event", "analysis_completed").
		Str("analysis_id", a.ID).
		Int("comments", a.TotalComments).
		Str("chart_type", string(ct)).
		Msg("")

	return &AnalyzeResult{Analysis: a, Chart: png}, nil
}

// persist uploads the chart and saves the analysis, removing the chart if the save fails.
func (s *analysisService) persist(ctx context.Context, a *model.Analysis, png []byte) error {
	if _, err := s.Store.Put(ctx, a.ChartPath, bytes.NewReader(png), storage.PutObjectOptions{
		Size:        int64(len(png)),
		ContentType: storage.ChartContentType,
		Metadata: map[string]string{
			"video-id": a.VideoID,
		},
	}); err != nil {
		return fmt.Errorf("upload to storage: %w", err)
	}

	if err := s.Repo.Create(ctx, a); err != nil {
		if delErr := s.Store.Delete(ctx, a.ChartPath); delErr != nil {
			return fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return fmt.Errorf("db save failed: %w", err)
	}
	return nil
}

// fromCache returns the cached analysis and its stored chart, or nil.
func (s *analysisService) fromCache(ctx context.Context, key string) *AnalyzeResult {
	if s.Cache == nil {
		return nil
	}
	a := s.Cache.GetAnalysis(ctx, key)
	if a == nil {
		return nil
	}

	rc, _, err := s.Store.Get(ctx, a.ChartPath)
	if err != nil {
		s.Log.Warn().Str("event", "cached_chart_unavailable").Str("analysis_id", a.ID).Err(err).Msg("")
		return nil
	}
	defer rc.Close()

	png, err := io.ReadAll(rc)
	if err != nil {
		return nil
	}
	return &AnalyzeResult{Analysis: a, Chart: png, Cached: true}
}

// List returns paginated analyses without exposing repository types.
func (s *analysisService) List(ctx context.Context, limit, offset int) (*AnalysisListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.Repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &AnalysisListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *analysisService) Get(ctx context.Context, id string) (*model.Analysis, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	emotions := make([]string, len(a.Comments))
	for i, c := range a.Comments {
		emotions[i] = c.Emotion
	}
	a.Distribution = chart.CountEmotions(emotions)
	return a, nil
}

// Delete removes the chart from storage, then deletes the record.
func (s *analysisService) Delete(ctx context.Context, id string) error {
	a, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	// Keep the row when storage fails so the chart reference is not lost.
	if err := s.Store.Delete(ctx, a.ChartPath); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, id)
	}
	return nil
}

func (s *analysisService) Chart(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	rc, info, err := s.Store.Get(ctx, a.ChartPath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.ObjectInfo{}, ErrNotFound
		}
		return nil, storage.ObjectInfo{}, fmt.Errorf("get chart: %w", err)
	}
	return rc, info, nil
}

func (s *analysisService) ChartURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	if expiry <= 0 {
		expiry = s.opts.URLExpiry
	}
	u, err := s.Store.PresignGet(ctx, a.ChartPath, expiry)
	if err != nil {
		return "", fmt.Errorf("presign chart: %w", err)
	}
	return u, nil
}

func (s *analysisService) find(ctx context.Context, id string) (*model.Analysis, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}
