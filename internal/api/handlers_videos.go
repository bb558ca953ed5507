package api

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/slidescope/slidescope/internal/ingest"
	"github.com/slidescope/slidescope/internal/models"
)

// ──────────────────── Videos ────────────────────

// handleUploadVideo accepts a multipart upload, stages it to disk and
// runs it through the ingest pipeline.
func (s *Server) handleUploadVideo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.Server.MaxUploadBytes)

	file, header, err := r.FormFile("video")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "multipart field 'video' required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !ingest.IsVideoExt(ext) {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type %q", ext))
		return
	}

	// Stage next to the videos dir so ingestion is a rename, not a copy.
	stagePath := filepath.Join(s.config.Paths.Videos, ".upload-"+uuid.NewString()+ext)
	stage, err := os.Create(stagePath)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	_, err = io.Copy(stage, file)
	stage.Close()
	if err != nil {
		os.Remove(stagePath)
		s.respondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	video, err := s.ingestor.IngestFile(stagePath, header.Filename, r.FormValue("title"), s.getUserID(r))
	if err != nil {
		os.Remove(stagePath)
		s.respondError(w, http.StatusBadRequest, "file is not a readable video")
		return
	}

	s.respondJSON(w, http.StatusCreated, Response{Success: true, Data: video})
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	videos, total, err := s.videoRepo.List(pageSize, (page-1)*pageSize)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list videos")
		return
	}
	if videos == nil {
		videos = []*models.Video{}
	}

	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: map[string]interface{}{
		"videos": videos,
		"total":  total,
		"page":   page,
	}})
}

func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	video, ok := s.videoFromPath(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: video})
}

func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	video, ok := s.videoFromPath(w, r)
	if !ok {
		return
	}

	if err := s.videoRepo.Delete(video.ID); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to delete video")
		return
	}
	if err := os.Remove(video.FilePath); err != nil && !os.IsNotExist(err) {
		log.Printf("delete: remove %s: %v", video.FilePath, err)
	}
	if err := s.previews.RemoveAll(video.ID.String()); err != nil {
		log.Printf("delete: remove stills for %s: %v", video.ID, err)
	}
	s.cache.InvalidateSegments(r.Context(), video.ID)

	s.respondJSON(w, http.StatusOK, Response{Success: true})
}

// handleProcessVideo (re)queues slide detection for a video.
func (s *Server) handleProcessVideo(w http.ResponseWriter, r *http.Request) {
	video, ok := s.videoFromPath(w, r)
	if !ok {
		return
	}
	if video.Status == models.VideoStatusProcessing {
		s.respondError(w, http.StatusConflict, "video is already being processed")
		return
	}

	if err := s.ingestor.Enqueue(video.ID); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to queue processing")
		return
	}
	s.cache.InvalidateSegments(r.Context(), video.ID)

	s.respondJSON(w, http.StatusAccepted, Response{Success: true, Data: map[string]string{
		"task_id": "detect:" + video.ID.String(),
	}})
}

func (s *Server) videoFromPath(w http.ResponseWriter, r *http.Request) (*models.Video, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid video ID")
		return nil, false
	}
	video, err := s.videoRepo.GetByID(id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "video not found")
		return nil, false
	}
	return video, true
}
