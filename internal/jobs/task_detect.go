package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/slidescope/slidescope/internal/cache"
	"github.com/slidescope/slidescope/internal/detector"
	"github.com/slidescope/slidescope/internal/models"
	"github.com/slidescope/slidescope/internal/preview"
	"github.com/slidescope/slidescope/internal/repository"
)

// ──────── Detect Slides Handler ────────

type DetectSlidesHandler struct {
	det       *detector.Detector
	videoRepo *repository.VideoRepository
	segRepo   *repository.SegmentRepository
	previews  *preview.Generator
	cache     *cache.Cache
	notifier  EventNotifier
}

func NewDetectSlidesHandler(det *detector.Detector, videoRepo *repository.VideoRepository,
	segRepo *repository.SegmentRepository, previews *preview.Generator,
	segmentCache *cache.Cache, notifier EventNotifier) *DetectSlidesHandler {
	return &DetectSlidesHandler{
		det:       det,
		videoRepo: videoRepo,
		segRepo:   segRepo,
		previews:  previews,
		cache:     segmentCache,
		notifier:  notifier,
	}
}

func (h *DetectSlidesHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p DetectSlidesPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	videoID, err := uuid.Parse(p.VideoID)
	if err != nil {
		return fmt.Errorf("invalid video ID %q: %w", p.VideoID, err)
	}

	video, err := h.videoRepo.GetByID(videoID)
	if err != nil {
		log.Printf("Job: video %s not found, dropping task: %v", videoID, err)
		return nil
	}

	taskID := "detect:" + p.VideoID
	log.Printf("Job: detecting slides in %s (%s)", video.Title, videoID)
	h.setStatus(videoID, models.VideoStatusProcessing, "")
	h.broadcast(taskID, "running", 0, "Scanning for slide changes")

	segments, runErr := h.det.Run(ctx, video.FilePath)

	var decodeErr *detector.DecodeError
	switch {
	case runErr == nil:
		// Full scan.
	case errors.Is(runErr, detector.ErrSourceUnavailable):
		log.Printf("Job: video %s unreadable: %v", videoID, runErr)
		h.setStatus(videoID, models.VideoStatusFailed, runErr.Error())
		h.broadcast(taskID, "failed", 0, "Video could not be opened")
		return nil // corrupt input; retrying cannot help
	case errors.As(runErr, &decodeErr):
		// Keep the segments accepted before the fault; the video is
		// marked partial so the caller can tell it apart from a clean
		// scan.
		log.Printf("Job: decode fault in %s at frame %d, keeping %d partial segments",
			videoID, decodeErr.FrameIndex, len(decodeErr.Segments))
		segments = decodeErr.Segments
	default:
		h.setStatus(videoID, models.VideoStatusFailed, runErr.Error())
		h.broadcast(taskID, "failed", 0, "Slide detection failed")
		return nil
	}

	records := make([]*models.SlideSegment, 0, len(segments))
	for i, seg := range segments {
		still, stillErr := h.previews.SlideStill(videoID.String(), video.FilePath, seg.FrameIndex)
		if stillErr != nil {
			log.Printf("Job: slide still for %s frame %d: %v", videoID, seg.FrameIndex, stillErr)
		}
		records = append(records, &models.SlideSegment{
			ID:            uuid.New(),
			VideoID:       videoID,
			FrameIndex:    seg.FrameIndex,
			TimestampSec:  seg.TimestampSec,
			ChangeRatio:   seg.ChangeRatio,
			ThumbnailPath: still,
		})
		if len(segments) > 0 {
			pct := (i + 1) * 100 / len(segments)
			h.broadcast(taskID, "running", pct, fmt.Sprintf("Extracting slide stills · %d/%d", i+1, len(segments)))
		}
	}

	if err := h.segRepo.ReplaceForVideo(videoID, records); err != nil {
		h.setStatus(videoID, models.VideoStatusFailed, err.Error())
		h.broadcast(taskID, "failed", 0, "Could not store segments")
		return fmt.Errorf("store segments: %w", err)
	}
	if err := h.videoRepo.SetSegmentCount(videoID, len(records)); err != nil {
		log.Printf("Job: update segment count for %s: %v", videoID, err)
	}
	h.cache.InvalidateSegments(ctx, videoID)

	if decodeErr != nil {
		h.setStatus(videoID, models.VideoStatusPartial,
			fmt.Sprintf("decode fault at frame %d", decodeErr.FrameIndex))
		h.broadcast(taskID, "complete", 100, fmt.Sprintf("Partial scan: %d slides", len(records)))
	} else {
		h.setStatus(videoID, models.VideoStatusReady, "")
		h.broadcast(taskID, "complete", 100, fmt.Sprintf("Detected %d slides", len(records)))
	}

	log.Printf("Job: stored %d segments for %s", len(records), videoID)
	return nil
}

func (h *DetectSlidesHandler) setStatus(videoID uuid.UUID, status models.VideoStatus, message string) {
	if err := h.videoRepo.UpdateStatus(videoID, status, message); err != nil {
		log.Printf("Job: update status for %s: %v", videoID, err)
	}
}

func (h *DetectSlidesHandler) broadcast(taskID, status string, progress int, description string) {
	if h.notifier == nil {
		return
	}
	h.notifier.Broadcast("task:update", map[string]interface{}{
		"task_id":     taskID,
		"task_type":   TaskDetectSlides,
		"status":      status,
		"progress":    progress,
		"description": description,
	})
}
