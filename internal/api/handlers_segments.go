package api

import (
	"net/http"
	"os"
	"strconv"

	"github.com/slidescope/slidescope/internal/httputil"
	"github.com/slidescope/slidescope/internal/models"
)

// ──────────────────── Segments ────────────────────

// handleGetSegments returns the detected slide segments for a video,
// serving from the Redis cache when the scan result is already there.
func (s *Server) handleGetSegments(w http.ResponseWriter, r *http.Request) {
	video, ok := s.videoFromPath(w, r)
	if !ok {
		return
	}

	if segments, hit := s.cache.GetSegments(r.Context(), video.ID); hit {
		s.respondJSON(w, http.StatusOK, Response{Success: true, Data: segments})
		return
	}

	segments, err := s.segRepo.GetByVideoID(video.ID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load segments")
		return
	}
	if segments == nil {
		segments = []*models.SlideSegment{}
	}
	s.cache.SetSegments(r.Context(), video.ID, segments)

	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: segments})
}

// handleGetFrame decodes a single frame on demand and serves it as JPEG.
func (s *Server) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	video, ok := s.videoFromPath(w, r)
	if !ok {
		return
	}
	frameIndex, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || frameIndex < 0 {
		s.respondError(w, http.StatusBadRequest, "invalid frame index")
		return
	}

	data, ok := s.previews.EncodeFrame(video.FilePath, frameIndex)
	if !ok {
		s.respondError(w, http.StatusNotFound, "frame not available")
		return
	}
	httputil.WriteImage(w, "image/jpeg", data)
}

// handleGetSlideStill serves the thumbnail generated during the scan for
// the segment at the given frame index.
func (s *Server) handleGetSlideStill(w http.ResponseWriter, r *http.Request) {
	video, ok := s.videoFromPath(w, r)
	if !ok {
		return
	}
	frameIndex, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || frameIndex < 0 {
		s.respondError(w, http.StatusBadRequest, "invalid frame index")
		return
	}

	segment, err := s.segRepo.GetByFrameIndex(video.ID, frameIndex)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load segment")
		return
	}
	if segment == nil || segment.ThumbnailPath == "" {
		s.respondError(w, http.StatusNotFound, "no slide still for frame")
		return
	}

	data, err := os.ReadFile(segment.ThumbnailPath)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "slide still missing from disk")
		return
	}
	httputil.WriteImage(w, "image/jpeg", data)
}
