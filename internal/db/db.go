package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/slidescope/slidescope/internal/config"
)

type DB struct {
	*sql.DB
}

func Connect(cfg config.DatabaseConfig) (*DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	return &DB{db}, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS videos (
		id               UUID PRIMARY KEY,
		title            TEXT NOT NULL,
		file_name        TEXT NOT NULL,
		file_path        TEXT NOT NULL,
		size_bytes       BIGINT NOT NULL DEFAULT 0,
		duration_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
		frame_rate       DOUBLE PRECISION NOT NULL DEFAULT 0,
		width            INTEGER NOT NULL DEFAULT 0,
		height           INTEGER NOT NULL DEFAULT 0,
		codec            TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'pending',
		status_message   TEXT NOT NULL DEFAULT '',
		segment_count    INTEGER NOT NULL DEFAULT 0,
		uploaded_by      UUID REFERENCES users(id) ON DELETE SET NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS slide_segments (
		id             UUID PRIMARY KEY,
		video_id       UUID NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
		frame_index    INTEGER NOT NULL,
		timestamp_sec  DOUBLE PRECISION NOT NULL,
		change_ratio   DOUBLE PRECISION NOT NULL,
		thumbnail_path TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (video_id, frame_index)
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_slide_segments_video
		ON slide_segments (video_id, frame_index)`,
	`CREATE INDEX IF NOT EXISTS idx_videos_status ON videos (status)`,
	`CREATE INDEX IF NOT EXISTS idx_videos_created ON videos (created_at)`,
}

// Migrate applies the schema. Statements are idempotent so this is safe to
// run on every startup.
func Migrate(db *DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
