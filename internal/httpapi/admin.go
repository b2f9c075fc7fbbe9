package httpapi

import (
	"encoding/json"
	"net/http"
)

type networkStatus struct {
	Enabled   bool `json:"enabled"`
	Available bool `json:"available"`
}

func (s *Server) handleNetworkStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, networkStatus{
		Enabled:   s.network.IsEnabled(),
		Available: s.network.IsAvailable(),
	})
}

type networkToggleRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleNetworkToggle(w http.ResponseWriter, r *http.Request) {
	var req networkToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	s.network.SetEnabled(req.Enabled)
	if req.Enabled {
		s.network.CheckAndReconnect(r.Context())
	}

	writeJSON(w, http.StatusOK, networkStatus{
		Enabled:   s.network.IsEnabled(),
		Available: s.network.IsAvailable(),
	})
}
