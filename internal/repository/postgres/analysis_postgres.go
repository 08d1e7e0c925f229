package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"ytemotion/internal/model"
	"ytemotion/internal/repository"
)

// AnalysisPostgres is a PostgreSQL implementation of repository.AnalysisRepository.
type AnalysisPostgres struct {
	db *sql.DB
}

// NewAnalysisPostgres creates a new AnalysisPostgres repository.
func NewAnalysisPostgres(db *sql.DB) *AnalysisPostgres {
	return &AnalysisPostgres{db: db}
}

var _ repository.AnalysisRepository = (*AnalysisPostgres)(nil)

// Create inserts the analysis row and its comments in one transaction.
func (r *AnalysisPostgres) Create(ctx context.Context, a *model.Analysis) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const qAnalysis = `
		INSERT INTO analyses (id, video_id, video_title, channel, chart_type, language, chart_path, total_comments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := tx.ExecContext(ctx, qAnalysis,
		a.ID,
		a.VideoID,
		a.VideoTitle,
		a.Channel,
		string(a.ChartType),
		a.Language,
		a.ChartPath,
		a.TotalComments,
		a.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}

	if len(a.Comments) > 0 {
		const qComment = `
			INSERT INTO analysis_comments
				(analysis_id, position, comment_id, author, text, processed_text, emotion, confidence, published_at, likes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		stmt, err := tx.PrepareContext(ctx, qComment)
		if err != nil {
			return fmt.Errorf("prepare comment insert: %w", err)
		}
		defer stmt.Close()

		for i, c := range a.Comments {
			published := sql.NullTime{Time: c.PublishedAt, Valid: !c.PublishedAt.IsZero()}
			if _, err := stmt.ExecContext(ctx,
				a.ID,
				i,
				c.CommentID,
				c.Author,
				c.Comment,
				c.ProcessedText,
				c.Emotion,
				c.Confidence,
				published,
				c.Likes,
			); err != nil {
				return fmt.Errorf("insert comment %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

const analysisColumns = `id, video_id, video_title, channel, chart_type, language, chart_path, total_comments, created_at`

func scanAnalysis(s interface{ Scan(...any) error }, a *model.Analysis) error {
	var chartType string
	if err := s.Scan(
		&a.ID,
		&a.VideoID,
		&a.VideoTitle,
		&a.Channel,
		&chartType,
		&a.Language,
		&a.ChartPath,
		&a.TotalComments,
		&a.CreatedAt,
	); err != nil {
		return err
	}
	a.ChartType = model.ChartType(chartType)
	return nil
}

// FindByID fetches an analysis with its comments. It returns sql.ErrNoRows when missing.
func (r *AnalysisPostgres) FindByID(ctx context.Context, id string) (*model.Analysis, error) {
	q := `SELECT ` + analysisColumns + ` FROM analyses WHERE id = $1`
	var a model.Analysis
	if err := scanAnalysis(r.db.QueryRowContext(ctx, q, id), &a); err != nil {
		return nil, err
	}

	const qComments = `
		SELECT comment_id, author, text, processed_text, emotion, confidence, published_at, likes
		FROM analysis_comments
		WHERE analysis_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, qComments, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	a.Comments = make([]model.AnalyzedComment, 0, a.TotalComments)
	for rows.Next() {
		var (
			c         model.AnalyzedComment
			published sql.NullTime
		)
		if err := rows.Scan(
			&c.CommentID,
			&c.Author,
			&c.Comment,
			&c.ProcessedText,
			&c.Emotion,
			&c.Confidence,
			&published,
			&c.Likes,
		); err != nil {
			return nil, err
		}
		if published.Valid {
			c.PublishedAt = published.Time
		}
		a.Comments = append(a.Comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns analyses using LIMIT/OFFSET pagination and a total count.
func (r *AnalysisPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Analysis], error) {
	const qCount = `SELECT COUNT(*) FROM analyses`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	qList := `SELECT ` + analysisColumns + ` FROM analyses ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Analysis, 0)
	for rows.Next() {
		var a model.Analysis
		if err := scanAnalysis(rows, &a); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Analysis]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes an analysis by ID. Comments go with it through ON DELETE CASCADE.
func (r *AnalysisPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM analyses WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
