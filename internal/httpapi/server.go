// Package httpapi wires HTTP handlers to the application services.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"stagenextdoor/internal/app/concerts"
	"stagenextdoor/internal/app/users"
	"stagenextdoor/internal/discover"
	"stagenextdoor/internal/fetcher"
	"stagenextdoor/internal/models"
	"stagenextdoor/internal/store"
)

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Signup(ctx context.Context, username, password string, favoriteGenres []string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, token string) (models.User, error)
	SetFavoriteGenres(ctx context.Context, token string, selection []string) error
	ImportFavoriteGenres(ctx context.Context, token, streamingToken string) ([]string, error)
}

// ConcertService coordinates concert discovery operations.
type ConcertService interface {
	List(ctx context.Context, criteria discover.Criteria, forceRefresh bool) (concerts.Listing, error)
	Get(ctx context.Context, id string) (models.Concert, bool, error)
	Refresh(ctx context.Context) (concerts.Listing, error)
	Trending(ctx context.Context, limit int) ([]models.Concert, error)
	Recommended(ctx context.Context, token string, limit int) ([]models.Concert, error)
	SetAttendance(ctx context.Context, token, concertID string, attending bool) (concerts.AttendanceInfo, error)
	GetAttendance(ctx context.Context, token, concertID string) (concerts.AttendanceInfo, error)
	Attended(ctx context.Context, token string) ([]models.Concert, error)
	LinkTrack(ctx context.Context, concertID string, track models.MusicTrack) error
}

// PhotoService handles concert photo uploads and listing.
type PhotoService interface {
	Upload(ctx context.Context, token, concertID, filename string, r io.Reader) (models.ConcertPhoto, error)
	List(ctx context.Context, concertID string) ([]models.ConcertPhoto, error)
}

// NetworkAdmin exposes the connectivity monitor to operators.
type NetworkAdmin interface {
	IsAvailable() bool
	IsEnabled() bool
	CheckAndReconnect(ctx context.Context) bool
	SetEnabled(enabled bool)
}

// BlobReader serves stored photo bytes.
type BlobReader interface {
	Open(key string) (io.ReadCloser, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users    UserService
	concerts ConcertService
	photos   PhotoService
	network  NetworkAdmin
	blobs    BlobReader
}

// New configures a Server with the given service implementations.
func New(users UserService, concertSvc ConcertService, photos PhotoService, network NetworkAdmin, blobs BlobReader) *Server {
	return &Server{
		users:    users,
		concerts: concertSvc,
		photos:   photos,
		network:  network,
		blobs:    blobs,
	}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Auth routes
	mux.HandleFunc("POST /api/v1/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/logout", s.handleLogout)

	// Profile routes
	mux.HandleFunc("GET /api/v1/me/profile", s.handleProfile)
	mux.HandleFunc("GET /api/v1/me/genres", s.handleGetGenres)
	mux.HandleFunc("PUT /api/v1/me/genres", s.handleSetGenres)
	mux.HandleFunc("POST /api/v1/me/genres/import", s.handleImportGenres)
	mux.HandleFunc("GET /api/v1/me/attendance", s.handleAttendedConcerts)

	// Concert routes
	mux.HandleFunc("GET /api/v1/concerts", s.handleListConcerts)
	mux.HandleFunc("POST /api/v1/concerts/refresh", s.handleRefreshConcerts)
	mux.HandleFunc("GET /api/v1/concerts/trending", s.handleTrendingConcerts)
	mux.HandleFunc("GET /api/v1/concerts/recommended", s.handleRecommendedConcerts)
	mux.HandleFunc("GET /api/v1/concerts/{id}", s.handleGetConcert)
	mux.HandleFunc("POST /api/v1/concerts/{id}/attend", s.handleAttendConcert)
	mux.HandleFunc("DELETE /api/v1/concerts/{id}/attend", s.handleUnattendConcert)
	mux.HandleFunc("GET /api/v1/concerts/{id}/attendance", s.handleGetAttendance)
	mux.HandleFunc("POST /api/v1/concerts/{id}/track", s.handleLinkTrack)

	// Photo routes
	mux.HandleFunc("POST /api/v1/concerts/{id}/photos", s.handleUploadPhoto)
	mux.HandleFunc("GET /api/v1/concerts/{id}/photos", s.handleListPhotos)
	mux.HandleFunc("GET /photos/{key}", s.handleServePhoto)

	// Operator routes
	mux.HandleFunc("GET /api/v1/admin/network", s.handleNetworkStatus)
	mux.HandleFunc("POST /api/v1/admin/network", s.handleNetworkToggle)

	return mux
}

type signupRequest struct {
	Username        string   `json:"username"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirmPassword"`
	FavoriteGenres  []string `json:"favoriteGenres"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "passwords do not match"})
		return
	}

	token, err := s.users.Signup(r.Context(), req.Username, req.Password, req.FavoriteGenres)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserExists):
			writeJSON(w, http.StatusConflict, errorResponse{Error: "username already taken"})
		default:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, store.ErrInvalidCredentials) {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	if err := s.users.Logout(r.Context(), token); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// statusForServiceError maps service failures onto HTTP statuses shared by
// most authenticated handlers.
func statusForServiceError(err error) int {
	switch {
	case errors.Is(err, store.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrConcertNotFound):
		return http.StatusNotFound
	case errors.Is(err, fetcher.ErrNoData):
		return http.StatusServiceUnavailable
	case errors.Is(err, users.ErrImportUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
