package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  first_name TEXT        NOT NULL,
  last_name  TEXT        NOT NULL,
  email      TEXT        NOT NULL UNIQUE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  uploaded_by  UUID        NOT NULL REFERENCES users(id),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_sents",
		SQL: `CREATE TABLE IF NOT EXISTS sents (
  id                UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  parent_sent_id    UUID        REFERENCES sents(id),
  thread_id         UUID        NOT NULL,
  depth             INTEGER     NOT NULL CHECK (depth >= 0),
  sender_id         UUID        NOT NULL REFERENCES users(id),
  receiver_id       UUID        NOT NULL REFERENCES users(id),
  is_forwarded      BOOLEAN     NOT NULL DEFAULT false,
  status            TEXT        NOT NULL,
  number            TEXT        NOT NULL DEFAULT '',
  category          TEXT        NOT NULL DEFAULT '',
  subject           TEXT        NOT NULL DEFAULT '',
  description       TEXT        NOT NULL DEFAULT '',
  remark            TEXT        NOT NULL DEFAULT '',
  sent_at           TIMESTAMPTZ NOT NULL,
  received_at       TIMESTAMPTZ,
  read_at           TIMESTAMPTZ,
  archived_at       TIMESTAMPTZ,
  status_changed_at TIMESTAMPTZ NOT NULL,
  status_by_id      UUID        REFERENCES users(id),
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		// One actor may act at most once on a given hand-off. NULL parents
		// never collide, so a sender can still open any number of threads.
		Name: "create_unique_index_sents_parent_sender",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS ux_sents_parent_sender ON sents (parent_sent_id, sender_id);`,
	},
	{
		Name: "create_index_sents_thread_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_sents_thread_id ON sents (thread_id);`,
	},
	{
		Name: "create_index_sents_receiver_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_sents_receiver_id ON sents (receiver_id);`,
	},
	{
		Name: "create_table_sent_documents",
		SQL: `CREATE TABLE IF NOT EXISTS sent_documents (
  sent_id     UUID NOT NULL REFERENCES sents(id),
  document_id UUID NOT NULL REFERENCES documents(id),
  PRIMARY KEY (sent_id, document_id)
);`,
	},
	{
		Name: "create_table_sent_status_history",
		SQL: `CREATE TABLE IF NOT EXISTS sent_status_history (
  id            BIGSERIAL   PRIMARY KEY,
  sent_id       UUID        NOT NULL REFERENCES sents(id),
  from_status   TEXT        NOT NULL,
  to_status     TEXT        NOT NULL,
  changed_by_id UUID        NOT NULL REFERENCES users(id),
  changed_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_sent_status_history_sent_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_sent_status_history_sent_id ON sent_status_history (sent_id);`,
	},
}

// EnsureMigrated checks if the 'sents' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	start := time.Now()

	var exists bool
	query := "SELECT to_regclass('public.sents') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("stage", "sentinel_check"),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("msg", "schema already exists"),
			zap.Duration("duration", time.Since(start)))
		return nil
	}

	log.Info("db_migration_start")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Duration("duration", time.Since(start)))
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step",
			zap.String("migration_step", step.Name),
			zap.Duration("step_duration", time.Since(stepStart)))
	}

	log.Info("db_migration_success", zap.Duration("duration", time.Since(start)))
	return nil
}
