package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/slidescope/slidescope/internal/auth"
	"github.com/slidescope/slidescope/internal/httputil"
	"github.com/slidescope/slidescope/internal/models"
	"github.com/slidescope/slidescope/internal/version"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "slidescope"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: map[string]interface{}{
		"status":  "online",
		"service": "slidescope",
		"version": version.Load().Version,
	}})
}

// handleRegister creates a user. The first registered user becomes admin.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := auth.NormalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		s.respondError(w, http.StatusBadRequest, "valid email required")
		return
	}
	if len(req.Password) < 8 {
		s.respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to check email")
		return
	}
	if existing != nil {
		s.respondError(w, http.StatusConflict, "email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	role := models.RoleUser
	if count, err := s.userRepo.Count(); err == nil && count == 0 {
		role = models.RoleAdmin
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.respondJSON(w, http.StatusCreated, Response{Success: true, Data: map[string]interface{}{
		"user":  user,
		"token": token,
	}})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.userRepo.GetByEmail(auth.NormalizeEmail(req.Email))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: map[string]interface{}{
		"user":  user,
		"token": token,
	}})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.userRepo.GetByID(s.getUserID(r))
	if err != nil || user == nil {
		s.respondError(w, http.StatusNotFound, "user not found")
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: user})
}
