package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/slidescope/slidescope/internal/models"
)

// testDB opens an in-memory database with the videos table so query
// predicates can be exercised without postgres.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE videos (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		file_name        TEXT NOT NULL,
		file_path        TEXT NOT NULL,
		size_bytes       INTEGER NOT NULL DEFAULT 0,
		duration_seconds REAL NOT NULL DEFAULT 0,
		frame_rate       REAL NOT NULL DEFAULT 0,
		width            INTEGER NOT NULL DEFAULT 0,
		height           INTEGER NOT NULL DEFAULT 0,
		codec            TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'pending',
		status_message   TEXT NOT NULL DEFAULT '',
		segment_count    INTEGER NOT NULL DEFAULT 0,
		uploaded_by      TEXT,
		created_at       TIMESTAMP NOT NULL,
		updated_at       TIMESTAMP NOT NULL
	)`)
	require.NoError(t, err)
	return db
}

func insertVideo(t *testing.T, db *sql.DB, status models.VideoStatus, createdAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(`INSERT INTO videos
		(id, title, file_name, file_path, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, "talk", "talk.mp4", "/data/videos/"+id.String()+".mp4",
		status, createdAt, createdAt)
	require.NoError(t, err)
	return id
}

func TestListOlderThanSkipsRunningScans(t *testing.T) {
	db := testDB(t)
	repo := NewVideoRepository(db)

	now := time.Now().UTC().Truncate(time.Second)
	expired := insertVideo(t, db, models.VideoStatusReady, now.Add(-48*time.Hour))
	insertVideo(t, db, models.VideoStatusProcessing, now.Add(-48*time.Hour))
	insertVideo(t, db, models.VideoStatusReady, now)

	videos, err := repo.ListOlderThan(now.Add(-24 * time.Hour))
	require.NoError(t, err)

	require.Len(t, videos, 1, "running scans and fresh videos must not be swept")
	assert.Equal(t, expired, videos[0].ID)
	assert.Equal(t, models.VideoStatusReady, videos[0].Status)
}

func TestListOlderThanIncludesTerminalStatuses(t *testing.T) {
	db := testDB(t)
	repo := NewVideoRepository(db)

	now := time.Now().UTC().Truncate(time.Second)
	for _, status := range []models.VideoStatus{
		models.VideoStatusPending, models.VideoStatusReady,
		models.VideoStatusPartial, models.VideoStatusFailed,
	} {
		insertVideo(t, db, status, now.Add(-48*time.Hour))
	}

	videos, err := repo.ListOlderThan(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Len(t, videos, 4)
}
