package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/slidescope/slidescope/internal/models"
)

type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

const videoColumns = `id, title, file_name, file_path, size_bytes, duration_seconds,
	frame_rate, width, height, codec, status, status_message, segment_count,
	uploaded_by, created_at, updated_at`

func scanVideo(row interface{ Scan(...interface{}) error }) (*models.Video, error) {
	v := &models.Video{}
	var uploadedBy sql.NullString
	err := row.Scan(&v.ID, &v.Title, &v.FileName, &v.FilePath, &v.SizeBytes,
		&v.DurationSeconds, &v.FrameRate, &v.Width, &v.Height, &v.Codec,
		&v.Status, &v.StatusMessage, &v.SegmentCount, &uploadedBy,
		&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if uploadedBy.Valid {
		v.UploadedBy, _ = uuid.Parse(uploadedBy.String)
	}
	return v, nil
}

func (r *VideoRepository) Create(v *models.Video) error {
	query := `
		INSERT INTO videos (id, title, file_name, file_path, size_bytes, status, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`
	var uploadedBy interface{}
	if v.UploadedBy != uuid.Nil {
		uploadedBy = v.UploadedBy
	}
	return r.db.QueryRow(query, v.ID, v.Title, v.FileName, v.FilePath,
		v.SizeBytes, v.Status, uploadedBy).Scan(&v.CreatedAt, &v.UpdatedAt)
}

func (r *VideoRepository) GetByID(id uuid.UUID) (*models.Video, error) {
	row := r.db.QueryRow(`SELECT `+videoColumns+` FROM videos WHERE id = $1`, id)
	return scanVideo(row)
}

func (r *VideoRepository) List(limit, offset int) ([]*models.Video, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM videos`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(`SELECT `+videoColumns+` FROM videos
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, 0, err
		}
		videos = append(videos, v)
	}
	return videos, total, rows.Err()
}

// UpdateProbe stores the metadata read from ffprobe after upload.
func (r *VideoRepository) UpdateProbe(id uuid.UUID, durationSec, frameRate float64, width, height int, codec string) error {
	_, err := r.db.Exec(`
		UPDATE videos SET duration_seconds = $2, frame_rate = $3, width = $4,
			height = $5, codec = $6, updated_at = NOW()
		WHERE id = $1`, id, durationSec, frameRate, width, height, codec)
	return err
}

func (r *VideoRepository) UpdateStatus(id uuid.UUID, status models.VideoStatus, message string) error {
	res, err := r.db.Exec(`
		UPDATE videos SET status = $2, status_message = $3, updated_at = NOW()
		WHERE id = $1`, id, status, message)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("video not found")
	}
	return nil
}

func (r *VideoRepository) SetSegmentCount(id uuid.UUID, count int) error {
	_, err := r.db.Exec(`
		UPDATE videos SET segment_count = $2, updated_at = NOW()
		WHERE id = $1`, id, count)
	return err
}

func (r *VideoRepository) Delete(id uuid.UUID) error {
	res, err := r.db.Exec(`DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("video not found")
	}
	return nil
}

// ListOlderThan returns videos uploaded before the cutoff, for the retention
// sweep. Videos whose scan is still running are skipped; the sweep picks
// them up on its next pass.
func (r *VideoRepository) ListOlderThan(cutoff time.Time) ([]*models.Video, error) {
	rows, err := r.db.Query(`SELECT `+videoColumns+` FROM videos
		WHERE created_at < $1 AND status <> $2 ORDER BY created_at`,
		cutoff, models.VideoStatusProcessing)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}
