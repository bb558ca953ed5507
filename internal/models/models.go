package models

import (
	"time"

	"github.com/google/uuid"
)

// ──────────────────── Videos ────────────────────

type VideoStatus string

const (
	VideoStatusPending    VideoStatus = "pending"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusReady      VideoStatus = "ready"
	// VideoStatusPartial means the scan hit a decode fault mid-stream; the
	// segments accepted before the fault are stored.
	VideoStatusPartial VideoStatus = "partial"
	VideoStatusFailed  VideoStatus = "failed"
)

type Video struct {
	ID              uuid.UUID   `json:"id"`
	Title           string      `json:"title"`
	FileName        string      `json:"file_name"`
	FilePath        string      `json:"-"`
	SizeBytes       int64       `json:"size_bytes"`
	DurationSeconds float64     `json:"duration_seconds"`
	FrameRate       float64     `json:"frame_rate"`
	Width           int         `json:"width"`
	Height          int         `json:"height"`
	Codec           string      `json:"codec"`
	Status          VideoStatus `json:"status"`
	StatusMessage   string      `json:"status_message,omitempty"`
	SegmentCount    int         `json:"segment_count"`
	UploadedBy      uuid.UUID   `json:"uploaded_by"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// SlideSegment is a persisted slide-transition event for a video.
type SlideSegment struct {
	ID            uuid.UUID `json:"id"`
	VideoID       uuid.UUID `json:"video_id"`
	FrameIndex    int       `json:"frame_index"`
	TimestampSec  float64   `json:"timestamp_sec"`
	ChangeRatio   float64   `json:"change_ratio"`
	ThumbnailPath string    `json:"thumbnail_path,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ──────────────────── Settings ────────────────────

// Setting is an operator-tunable key/value pair stored in the database.
// Known keys are defined in the repository package; values merge over the
// env config at startup.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ──────────────────── Users ────────────────────

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
