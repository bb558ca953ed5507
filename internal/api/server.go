package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/slidescope/slidescope/internal/auth"
	"github.com/slidescope/slidescope/internal/cache"
	"github.com/slidescope/slidescope/internal/config"
	"github.com/slidescope/slidescope/internal/db"
	"github.com/slidescope/slidescope/internal/detector"
	"github.com/slidescope/slidescope/internal/ffmpeg"
	"github.com/slidescope/slidescope/internal/ingest"
	"github.com/slidescope/slidescope/internal/jobs"
	"github.com/slidescope/slidescope/internal/models"
	"github.com/slidescope/slidescope/internal/preview"
	"github.com/slidescope/slidescope/internal/repository"
)

type Server struct {
	config       *config.Config
	db           *db.DB
	auth         *auth.Auth
	userRepo     *repository.UserRepository
	videoRepo    *repository.VideoRepository
	segRepo      *repository.SegmentRepository
	settingsRepo *repository.SettingsRepository
	ffprobe      *ffmpeg.FFprobe
	detector     *detector.Detector
	previews     *preview.Generator
	cache        *cache.Cache
	jobQueue     *jobs.Queue
	ingestor     *ingest.Ingestor
	wsHub        *WSHub
	router       *http.ServeMux
}

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func NewServer(cfg *config.Config, database *db.DB, det *detector.Detector,
	previews *preview.Generator, segmentCache *cache.Cache, jobQueue *jobs.Queue) (*Server, error) {

	authService, err := auth.NewAuth(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:       cfg,
		db:           database,
		auth:         authService,
		userRepo:     repository.NewUserRepository(database.DB),
		videoRepo:    repository.NewVideoRepository(database.DB),
		segRepo:      repository.NewSegmentRepository(database.DB),
		settingsRepo: repository.NewSettingsRepository(database.DB),
		ffprobe:      ffmpeg.NewFFprobe(cfg.FFmpeg.FFprobePath),
		detector:     det,
		previews:     previews,
		cache:        segmentCache,
		jobQueue:     jobQueue,
		wsHub:        NewWSHub(),
		router:       http.NewServeMux(),
	}
	s.ingestor = ingest.New(s.videoRepo, s.ffprobe, jobQueue, cfg.Paths.Videos)

	s.setupRoutes()
	return s, nil
}

func (s *Server) WSHub() *WSHub {
	return s.wsHub
}

// Ingestor exposes the ingest pipeline so the inbox watcher can share it.
func (s *Server) Ingestor() *ingest.Ingestor {
	return s.ingestor
}

func (s *Server) setupRoutes() {
	// Public
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /api/v1/status", s.handleStatus)
	s.router.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	// WebSocket (token via query param)
	s.router.HandleFunc("GET /api/v1/ws", s.handleWebSocket)

	// Profile
	s.router.HandleFunc("GET /api/v1/profile", s.authMiddleware(s.handleGetProfile, models.RoleUser))

	// Videos
	s.router.HandleFunc("POST /api/v1/videos", s.authMiddleware(s.handleUploadVideo, models.RoleUser))
	s.router.HandleFunc("GET /api/v1/videos", s.authMiddleware(s.handleListVideos, models.RoleUser))
	s.router.HandleFunc("GET /api/v1/videos/{id}", s.authMiddleware(s.handleGetVideo, models.RoleUser))
	s.router.HandleFunc("DELETE /api/v1/videos/{id}", s.authMiddleware(s.handleDeleteVideo, models.RoleAdmin))
	s.router.HandleFunc("POST /api/v1/videos/{id}/process", s.authMiddleware(s.handleProcessVideo, models.RoleUser))

	// Segments and frames
	s.router.HandleFunc("GET /api/v1/videos/{id}/segments", s.authMiddleware(s.handleGetSegments, models.RoleUser))
	s.router.HandleFunc("GET /api/v1/videos/{id}/frames/{index}", s.authMiddleware(s.handleGetFrame, models.RoleUser))
	s.router.HandleFunc("GET /api/v1/videos/{id}/slides/{index}", s.authMiddleware(s.handleGetSlideStill, models.RoleUser))

	// Settings (admin)
	s.router.HandleFunc("GET /api/v1/settings", s.authMiddleware(s.handleGetSettings, models.RoleAdmin))
	s.router.HandleFunc("PUT /api/v1/settings", s.authMiddleware(s.handleUpdateSettings, models.RoleAdmin))
}

// ServeHTTP lets the server be used directly as an http.Handler, with the
// global middleware applied.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.securityHeadersMiddleware(s.corsMiddleware(s.router)).ServeHTTP(w, r)
}

// ──────────────────── Middleware ────────────────────

func (s *Server) authMiddleware(next http.HandlerFunc, requiredRole models.UserRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			s.respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := s.auth.ValidateToken(token)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		if !s.auth.CheckPermission(claims.Role, requiredRole) {
			s.respondError(w, http.StatusForbidden, "insufficient permissions")
			return
		}

		r.Header.Set("X-User-ID", claims.UserID.String())
		r.Header.Set("X-User-Role", string(claims.Role))

		next(w, r)
	}
}

func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	// WebSocket clients cannot set headers from the browser.
	return r.URL.Query().Get("token")
}

// securityHeadersMiddleware adds standard security headers to all responses.
func (s *Server) securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware handles CORS preflight and response headers globally.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ──────────────────── Helpers ────────────────────

func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, Response{Success: false, Error: message})
}

func (s *Server) getUserID(r *http.Request) uuid.UUID {
	id, _ := uuid.Parse(r.Header.Get("X-User-ID"))
	return id
}
