package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// sentinelTable marks an initialized schema.
const sentinelTable = "analyses"

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_analyses",
		SQL: `CREATE TABLE IF NOT EXISTS analyses (
  id             UUID        PRIMARY KEY,
  video_id       TEXT        NOT NULL,
  video_title    TEXT        NOT NULL DEFAULT '',
  channel        TEXT        NOT NULL DEFAULT '',
  chart_type     TEXT        NOT NULL CHECK (chart_type IN ('bar', 'pie')),
  language       TEXT        NOT NULL,
  chart_path     TEXT        NOT NULL UNIQUE,
  total_comments INTEGER     NOT NULL CHECK (total_comments >= 0),
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_analysis_comments",
		SQL: `CREATE TABLE IF NOT EXISTS analysis_comments (
  analysis_id    UUID             NOT NULL REFERENCES analyses (id) ON DELETE CASCADE,
  position       INTEGER          NOT NULL,
  comment_id     TEXT             NOT NULL,
  author         TEXT             NOT NULL,
  text           TEXT             NOT NULL,
  processed_text TEXT             NOT NULL,
  emotion        TEXT             NOT NULL,
  confidence     DOUBLE PRECISION NOT NULL,
  published_at   TIMESTAMPTZ,
  likes          BIGINT           NOT NULL DEFAULT 0,
  PRIMARY KEY (analysis_id, position)
);`,
	},
	{
		Name: "create_index_analyses_video_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_analyses_video_id ON analyses (video_id);`,
	},
	{
		Name: "create_index_analyses_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at);`,
	},
	{
		Name: "create_index_analysis_comments_emotion",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_analysis_comments_emotion ON analysis_comments (emotion);`,
	},
}

// EnsureMigrated creates the schema in a single transaction when the 'analyses' table is missing.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With().Str("component", "database").Str("db_host", dbHost).Logger()

	log.Info().Str("event", "db_migration_check").Str("status", "starting").Msg("")

	var exists bool
	query := "SELECT to_regclass('public." + sentinelTable + "') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error().
			Str("event", "db_migration_failed").
			Str("status", "error").
			Str("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Str("status", "in_progress").Msg("")

	// DDL is transactional in PostgreSQL: a failed step leaves no sentinel behind.
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error().
			Str("event", "db_migration_failed").
			Str("status", "error").
			Str("error_message", err.Error()).
			Msg("")
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
			log.Error().
				Str("event", "db_migration_failed").
				Str("status", "error").
				Str("migration_step", step.Name).
				Str("error_message", err.Error()).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Msg("")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info().
			Str("event", "db_migration_step").
			Str("status", "success").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("")
	}

	if err := tx.Commit(); err != nil {
		log.Error().
			Str("event", "db_migration_failed").
			Str("status", "error").
			Str("error_message", err.Error()).
			Msg("")
		return fmt.Errorf("commit migration: %w", err)
	}

	log.Info().
		Str("event", "db_migration_success").
		Str("status", "success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("")

	return nil
}
