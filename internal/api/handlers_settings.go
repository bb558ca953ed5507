package api

import (
	"fmt"
	"net/http"

	"github.com/slidescope/slidescope/internal/httputil"
	"github.com/slidescope/slidescope/internal/repository"
)

// ──────────────────── Settings ────────────────────

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	all, err := s.settingsRepo.GetAll()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	settings := make(map[string]string, len(all))
	for _, setting := range all {
		settings[setting.Key] = setting.Value
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: settings})
}

// handleUpdateSettings stores tunables that overlay the env config on the
// next startup.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := httputil.ReadJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for key := range req {
		if !repository.IsKnownSetting(key) {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown setting %q", key))
			return
		}
	}
	for key, value := range req {
		if err := s.settingsRepo.Set(key, value); err != nil {
			s.respondError(w, http.StatusInternalServerError, "failed to save setting")
			return
		}
	}

	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: map[string]string{
		"note": "settings apply on next restart",
	}})
}
