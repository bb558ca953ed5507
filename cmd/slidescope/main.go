package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/slidescope/slidescope/internal/api"
	"github.com/slidescope/slidescope/internal/cache"
	"github.com/slidescope/slidescope/internal/config"
	"github.com/slidescope/slidescope/internal/db"
	"github.com/slidescope/slidescope/internal/detector"
	"github.com/slidescope/slidescope/internal/jobs"
	"github.com/slidescope/slidescope/internal/preview"
	"github.com/slidescope/slidescope/internal/repository"
	"github.com/slidescope/slidescope/internal/scheduler"
	"github.com/slidescope/slidescope/internal/version"
	"github.com/slidescope/slidescope/internal/watcher"
)

func main() {
	ver := version.Load()
	log.Printf("SlideScope %s starting...", ver.Version)

	cfg := config.Load()
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatalf("data directories: %v", err)
	}

	database, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	cfg.MergeFromDB(database.DB)

	segmentCache := cache.New(cfg.Redis.Addr, cfg.Redis.CacheTTL)
	defer segmentCache.Close()

	detCfg := detector.DefaultConfig()
	if cfg.Detector.MinSceneDuration > 0 {
		detCfg.MinSceneDuration = cfg.Detector.MinSceneDuration
	}
	if cfg.Detector.MinAreaRatio > 0 {
		detCfg.MinAreaRatio = cfg.Detector.MinAreaRatio
	}
	if cfg.Detector.ResizeWidth > 0 {
		detCfg.ResizeWidth = cfg.Detector.ResizeWidth
	}
	det := detector.New(detCfg)

	previews := preview.NewGenerator(det, cfg.Paths.Slides)
	jobQueue := jobs.NewQueue(cfg.Redis.Addr)

	srv, err := api.NewServer(cfg, database, det, previews, segmentCache, jobQueue)
	if err != nil {
		log.Fatalf("server setup failed: %v", err)
	}

	videoRepo := repository.NewVideoRepository(database.DB)
	segRepo := repository.NewSegmentRepository(database.DB)
	jobs.RegisterHandlers(jobQueue, det, videoRepo, segRepo, previews, segmentCache, srv.WSHub())
	if err := jobQueue.Start(); err != nil {
		log.Fatalf("job queue failed: %v", err)
	}
	defer jobQueue.Stop()

	sweeper := scheduler.New(videoRepo, segRepo, previews, segmentCache, cfg.Retention.MaxAge)
	if err := sweeper.Start(cfg.Retention.Schedule); err != nil {
		log.Fatalf("retention scheduler failed: %v", err)
	}
	defer sweeper.Stop()

	inbox, err := watcher.New(cfg.Paths.Inbox, srv.Ingestor())
	if err != nil {
		log.Fatalf("inbox watcher failed: %v", err)
	}
	if err := inbox.Start(); err != nil {
		log.Fatalf("inbox watcher failed: %v", err)
	}
	defer inbox.Stop()

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // uploads and frame extraction can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
}
