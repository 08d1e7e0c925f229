package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytemotion/internal/model"
	"ytemotion/internal/repository"
)

var analysisCols = []string{"id", "video_id", "video_title", "channel", "chart_type", "language", "chart_path", "total_comments", "created_at"}

func sampleAnalysis(now time.Time) *model.Analysis {
	return &model.Analysis{
		ID:            "an-1",
		VideoID:       "vid",
		VideoTitle:    "Title",
		Channel:       "Chan",
		ChartType:     model.ChartPie,
		Language:      "spanish",
		ChartPath:     "charts/an-1.png",
		TotalComments: 2,
		CreatedAt:     now,
		Comments: []model.AnalyzedComment{
			{CommentID: "c1", Author: "a", Comment: "Me encanta", ProcessedText: "encanta", Emotion: "joy", Confidence: 0.9, PublishedAt: now, Likes: 4},
			{CommentID: "c2", Author: "b", Comment: "", ProcessedText: "", Emotion: model.EmotionUnknown},
		},
	}
}

func TestAnalysisPostgres_Create(t *testing.T) {
	now := time.Now().UTC()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		a := sampleAnalysis(now)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO analyses").
			WithArgs(a.ID, a.VideoID, a.VideoTitle, a.Channel, "pie", a.Language, a.ChartPath, a.TotalComments, a.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		prep := mock.ExpectPrepare("INSERT INTO analysis_comments")
		prep.ExpectExec().
			WithArgs(a.ID, 0, "c1", "a", "Me encanta", "encanta", "joy", 0.9, sqlmock.AnyArg(), int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		prep.ExpectExec().
			WithArgs(a.ID, 1, "c2", "b", "", "", model.EmotionUnknown, 0.0, nil, int64(0)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = NewAnalysisPostgres(db).Create(context.Background(), a)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("comment insert failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		a := sampleAnalysis(now)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO analyses").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectPrepare("INSERT INTO analysis_comments").
			ExpectExec().
			WillReturnError(errors.New("constraint violation"))
		mock.ExpectRollback()

		err = NewAnalysisPostgres(db).Create(context.Background(), a)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "insert comment 0")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no comments", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		a := sampleAnalysis(now)
		a.Comments = nil
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO analyses").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, NewAnalysisPostgres(db).Create(context.Background(), a))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAnalysisPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAnalysisPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM analyses WHERE id = ?").
			WithArgs("an-1").
			WillReturnRows(sqlmock.NewRows(analysisCols).
				AddRow("an-1", "vid", "Title", "Chan", "bar", "spanish", "charts/an-1.png", 2, now))
		mock.ExpectQuery("SELECT (.+) FROM analysis_comments WHERE analysis_id = ?").
			WithArgs("an-1").
			WillReturnRows(sqlmock.NewRows([]string{"comment_id", "author", "text", "processed_text", "emotion", "confidence", "published_at", "likes"}).
				AddRow("c1", "a", "Me encanta", "encanta", "joy", 0.9, now, 4).
				AddRow("c2", "b", "", "", "unknown", 0.0, nil, 0))

		a, err := repo.FindByID(ctx, "an-1")

		require.NoError(t, err)
		assert.Equal(t, model.ChartBar, a.ChartType)
		require.Len(t, a.Comments, 2)
		assert.Equal(t, "joy", a.Comments[0].Emotion)
		assert.Equal(t, now, a.Comments[0].PublishedAt)
		assert.True(t, a.Comments[1].PublishedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM analyses WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		a, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, a)
	})
}

func TestAnalysisPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM analyses").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT (.+) FROM analyses ORDER BY created_at DESC").
		WithArgs(2, 1).
		WillReturnRows(sqlmock.NewRows(analysisCols).
			AddRow("an-2", "v2", "", "", "pie", "english", "charts/an-2.png", 5, time.Now()).
			AddRow("an-1", "v1", "", "", "bar", "spanish", "charts/an-1.png", 7, time.Now()))

	res, err := NewAnalysisPostgres(db).List(context.Background(), repository.PageQuery{Limit: 2, Offset: 1})

	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "an-2", res.Items[0].ID)
	assert.Equal(t, model.ChartPie, res.Items[0].ChartType)
	assert.Nil(t, res.Items[0].Comments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM analyses WHERE id = ?").
		WithArgs("an-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewAnalysisPostgres(db).Delete(context.Background(), "an-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
