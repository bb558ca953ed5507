package ingest

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/slidescope/slidescope/internal/ffmpeg"
	"github.com/slidescope/slidescope/internal/jobs"
	"github.com/slidescope/slidescope/internal/models"
	"github.com/slidescope/slidescope/internal/repository"
)

var videoExts = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true, ".webm": true,
}

// IsVideoExt reports whether ext (lowercase, with dot) is an accepted
// video container extension.
func IsVideoExt(ext string) bool {
	return videoExts[ext]
}

// Ingestor registers a video file, validates it with ffprobe and queues
// slide detection. Both the upload endpoint and the inbox watcher feed
// files through here.
type Ingestor struct {
	videoRepo *repository.VideoRepository
	ffprobe   *ffmpeg.FFprobe
	queue     *jobs.Queue
	videosDir string
}

func New(videoRepo *repository.VideoRepository, ffprobe *ffmpeg.FFprobe,
	queue *jobs.Queue, videosDir string) *Ingestor {
	return &Ingestor{
		videoRepo: videoRepo,
		ffprobe:   ffprobe,
		queue:     queue,
		videosDir: videosDir,
	}
}

// IngestFile takes ownership of the file at srcPath: it is moved into the
// videos directory, probed, recorded and queued for scanning. On any
// failure the source file is left where it was. originalName is the
// user-facing filename when srcPath is a temp file; empty means srcPath's
// own name.
func (ing *Ingestor) IngestFile(srcPath, originalName, title string, uploadedBy uuid.UUID) (*models.Video, error) {
	if originalName == "" {
		originalName = filepath.Base(srcPath)
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	if !IsVideoExt(ext) {
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}

	// Probe before moving so a rejected file stays put.
	probe, err := ing.ffprobe.Probe(srcPath)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	stream := probe.GetVideoStream()
	if stream == nil {
		return nil, fmt.Errorf("no video stream in %s", originalName)
	}

	info, err := os.Stat(srcPath)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}

	videoID := uuid.New()
	destPath := filepath.Join(ing.videosDir, videoID.String()+ext)
	if err := moveFile(srcPath, destPath); err != nil {
		return nil, fmt.Errorf("move into videos dir: %w", err)
	}

	if title == "" {
		title = strings.TrimSuffix(originalName, ext)
	}

	video := &models.Video{
		ID:         videoID,
		Title:      title,
		FileName:   originalName,
		FilePath:   destPath,
		SizeBytes:  info.Size(),
		Status:     models.VideoStatusPending,
		UploadedBy: uploadedBy,
	}
	if err := ing.videoRepo.Create(video); err != nil {
		os.Rename(destPath, srcPath)
		return nil, fmt.Errorf("create record: %w", err)
	}
	if err := ing.videoRepo.UpdateProbe(videoID, probe.GetDurationSeconds(),
		stream.FrameRate(), stream.Width, stream.Height, stream.CodecName); err != nil {
		log.Printf("ingest: store probe for %s: %v", videoID, err)
	}

	if err := ing.Enqueue(videoID); err != nil {
		log.Printf("ingest: enqueue scan for %s: %v", videoID, err)
	}

	return ing.videoRepo.GetByID(videoID)
}

// Enqueue queues a slide-detection scan for an already registered video.
func (ing *Ingestor) Enqueue(videoID uuid.UUID) error {
	_, err := ing.queue.EnqueueUnique(
		jobs.TaskDetectSlides,
		jobs.DetectSlidesPayload{VideoID: videoID.String()},
		"detect:"+videoID.String(),
	)
	return err
}

// moveFile renames when possible and falls back to copy+remove for
// cross-device sources.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return os.Remove(src)
}
