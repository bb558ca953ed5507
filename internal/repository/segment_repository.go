package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/slidescope/slidescope/internal/models"
)

type SegmentRepository struct {
	db *sql.DB
}

func NewSegmentRepository(db *sql.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

// GetByVideoID returns all slide segments for a video in frame order.
func (r *SegmentRepository) GetByVideoID(videoID uuid.UUID) ([]*models.SlideSegment, error) {
	rows, err := r.db.Query(`
		SELECT id, video_id, frame_index, timestamp_sec, change_ratio, thumbnail_path, created_at
		FROM slide_segments
		WHERE video_id = $1
		ORDER BY frame_index`, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segments []*models.SlideSegment
	for rows.Next() {
		seg := &models.SlideSegment{}
		if err := rows.Scan(&seg.ID, &seg.VideoID, &seg.FrameIndex,
			&seg.TimestampSec, &seg.ChangeRatio, &seg.ThumbnailPath, &seg.CreatedAt); err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

// GetByFrameIndex returns the segment at an exact frame index, or nil.
func (r *SegmentRepository) GetByFrameIndex(videoID uuid.UUID, frameIndex int) (*models.SlideSegment, error) {
	seg := &models.SlideSegment{}
	err := r.db.QueryRow(`
		SELECT id, video_id, frame_index, timestamp_sec, change_ratio, thumbnail_path, created_at
		FROM slide_segments
		WHERE video_id = $1 AND frame_index = $2`, videoID, frameIndex).
		Scan(&seg.ID, &seg.VideoID, &seg.FrameIndex, &seg.TimestampSec,
			&seg.ChangeRatio, &seg.ThumbnailPath, &seg.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return seg, nil
}

// ReplaceForVideo atomically replaces all segments of a video with the given
// set. Used after every (re)scan so stale results never mix with new ones.
func (r *SegmentRepository) ReplaceForVideo(videoID uuid.UUID, segments []*models.SlideSegment) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM slide_segments WHERE video_id = $1`, videoID); err != nil {
		return fmt.Errorf("clear segments: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO slide_segments (id, video_id, frame_index, timestamp_sec, change_ratio, thumbnail_path)
		VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, seg := range segments {
		if seg.ID == uuid.Nil {
			seg.ID = uuid.New()
		}
		if _, err := stmt.Exec(seg.ID, videoID, seg.FrameIndex,
			seg.TimestampSec, seg.ChangeRatio, seg.ThumbnailPath); err != nil {
			return fmt.Errorf("insert segment at frame %d: %w", seg.FrameIndex, err)
		}
	}

	return tx.Commit()
}

func (r *SegmentRepository) DeleteAllForVideo(videoID uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM slide_segments WHERE video_id = $1`, videoID)
	return err
}

func (r *SegmentRepository) CountByVideo(videoID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM slide_segments WHERE video_id = $1`, videoID).Scan(&count)
	return count, err
}
