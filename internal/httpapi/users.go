package httpapi

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	user, err := s.users.Profile(r.Context(), token)
	if err != nil {
		writeJSON(w, statusForServiceError(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type setGenresRequest struct {
	Genres []string `json:"genres"`
}

func (s *Server) handleGetGenres(w http.ResponseWriter, r *http.Request) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	user, err := s.users.Profile(r.Context(), token)
	if err != nil {
		writeJSON(w, statusForServiceError(err), errorResponse{Error: err.Error()})
		return
	}
	genres := user.FavoriteGenres
	if genres == nil {
		genres = []string{}
	}

	writeJSON(w, http.StatusOK, struct {
		Genres []string `json:"genres"`
	}{Genres: genres})
}

func (s *Server) handleSetGenres(w http.ResponseWriter, r *http.Request) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	var req setGenresRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if err := s.users.SetFavoriteGenres(r.Context(), token, req.Genres); err != nil {
		writeJSON(w, statusForServiceError(err), errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type importGenresRequest struct {
	SpotifyToken string `json:"spotifyToken"`
}

type importGenresResponse struct {
	Genres []string `json:"genres"`
}

func (s *Server) handleImportGenres(w http.ResponseWriter, r *http.Request) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	var req importGenresRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if req.SpotifyToken == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "spotifyToken is required"})
		return
	}

	genres, err := s.users.ImportFavoriteGenres(r.Context(), token, req.SpotifyToken)
	if err != nil {
		writeJSON(w, statusForServiceError(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, importGenresResponse{Genres: genres})
}
