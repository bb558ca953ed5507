package scheduler

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/slidescope/slidescope/internal/cache"
	"github.com/slidescope/slidescope/internal/preview"
	"github.com/slidescope/slidescope/internal/repository"
)

// Scheduler runs the retention sweep: uploaded recordings older than the
// configured age are removed together with their segments, stills and cache
// entries.
type Scheduler struct {
	cron      *cron.Cron
	videoRepo *repository.VideoRepository
	segRepo   *repository.SegmentRepository
	previews  *preview.Generator
	cache     *cache.Cache
	maxAge    time.Duration
}

func New(videoRepo *repository.VideoRepository, segRepo *repository.SegmentRepository,
	previews *preview.Generator, segmentCache *cache.Cache, maxAge time.Duration) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		videoRepo: videoRepo,
		segRepo:   segRepo,
		previews:  previews,
		cache:     segmentCache,
		maxAge:    maxAge,
	}
}

// Start registers the sweep on the given cron schedule. A zero max age
// disables retention entirely.
func (s *Scheduler) Start(schedule string) error {
	if s.maxAge <= 0 {
		log.Println("[scheduler] retention disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[scheduler] retention sweep registered (%s, max age %s)", schedule, s.maxAge)
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[scheduler] stopped")
}

func (s *Scheduler) sweep() {
	cutoff := time.Now().Add(-s.maxAge)
	videos, err := s.videoRepo.ListOlderThan(cutoff)
	if err != nil {
		log.Printf("[scheduler] retention query failed: %v", err)
		return
	}
	if len(videos) == 0 {
		return
	}

	log.Printf("[scheduler] removing %d expired videos (cutoff %s)", len(videos), cutoff.Format(time.RFC3339))
	for _, v := range videos {
		if err := os.Remove(v.FilePath); err != nil && !os.IsNotExist(err) {
			log.Printf("[scheduler] remove %s: %v", v.FilePath, err)
		}
		if err := s.previews.RemoveAll(v.ID.String()); err != nil {
			log.Printf("[scheduler] remove stills for %s: %v", v.ID, err)
		}
		if err := s.segRepo.DeleteAllForVideo(v.ID); err != nil {
			log.Printf("[scheduler] delete segments for %s: %v", v.ID, err)
		}
		if err := s.videoRepo.Delete(v.ID); err != nil {
			log.Printf("[scheduler] delete video row %s: %v", v.ID, err)
			continue
		}
		s.cache.InvalidateSegments(context.Background(), v.ID)
	}
}
