package jobs

import (
	"github.com/slidescope/slidescope/internal/cache"
	"github.com/slidescope/slidescope/internal/detector"
	"github.com/slidescope/slidescope/internal/preview"
	"github.com/slidescope/slidescope/internal/repository"
)

// ──────── Payloads ────────

type DetectSlidesPayload struct {
	VideoID string `json:"video_id"`
}

// EventNotifier broadcasts task progress to connected clients.
type EventNotifier interface {
	Broadcast(event string, data interface{})
}

// ──────── Register all handlers ────────

func RegisterHandlers(q *Queue, det *detector.Detector, videoRepo *repository.VideoRepository,
	segRepo *repository.SegmentRepository, previews *preview.Generator,
	segmentCache *cache.Cache, notifier EventNotifier) {

	q.RegisterHandler(TaskDetectSlides, NewDetectSlidesHandler(det, videoRepo, segRepo, previews, segmentCache, notifier))
}
