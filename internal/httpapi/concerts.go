package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stagenextdoor/internal/discover"
	"stagenextdoor/internal/models"
)

type concertsResponse struct {
	Concerts  []models.Concert `json:"concerts"`
	Cached    bool             `json:"cached"`
	FetchedAt time.Time        `json:"fetchedAt,omitzero"`
	NoMatches bool             `json:"noMatches,omitempty"`
}

type concertResponse struct {
	Concert models.Concert `json:"concert"`
	Cached  bool           `json:"cached"`
}

// parseCriteria builds filter criteria from query parameters. Absent
// parameters leave their dimension unrestricted; a negative price tells the
// service to substitute the listing's maximum.
func parseCriteria(r *http.Request) (discover.Criteria, error) {
	query := r.URL.Query()

	criteria := discover.Criteria{
		Price:    -1,
		Date:     discover.ParseDateBucket(query.Get("date")),
		Location: discover.ParseLocationBucket(query.Get("location")),
	}

	if priceStr := query.Get("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			return discover.Criteria{}, errors.New("invalid price parameter")
		}
		criteria.Price = price
	}

	if genresStr := query.Get("genres"); genresStr != "" {
		for _, g := range strings.Split(genresStr, ",") {
			if g = strings.TrimSpace(g); g != "" {
				criteria.Genres = append(criteria.Genres, g)
			}
		}
	}
	return criteria, nil
}

func (s *Server) handleListConcerts(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	forceRefresh := r.URL.Query().Get("refresh") == "true"

	listing, err := s.concerts.List(r.Context(), criteria, forceRefresh)
	if err != nil {
		if errors.Is(err, discover.ErrNoMatches) {
			writeJSON(w, http.StatusOK, concertsResponse{Concerts: []models.Concert{}, NoMatches: true})
			return
		}
		writeJSON(w, statusForServiceError(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, concertsResponse{
		Concerts:  listing.Concerts,
		Cached:    listing.FromCache,
		FetchedAt: listing.FetchedAt,
	})
}

func (s *Server) handleRefreshConcerts(w http.ResponseWriter, r *http.Request) {
	listing, err := s.concerts.Refresh(r.Context())
	if err != nil {
		writeJSON(w, statusForServiceError(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, concertsResponse{
		Concerts:  listing.Concerts,
		Cached:    listing.FromCache,
		FetchedAt: listing.FetchedAt,
	})
}

// parseLimit reads an optional positive limit query parameter; zero means
// "use the service default".
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, errors.New("invalid limit parameter")
	}
	return limit, nil
}

func (s *Server) handleTrendingConcerts(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	trending, err := s.concerts.Trending(r.Context(), limit)
	if err != nil {
		writeJSON(w, statusForServiceError(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Concerts []models.Concert `json:"concerts"`
	}{Concerts: trending})
}

func (s *Server) handleRecommendedConcerts(w http.ResponseWriter, r *http.Request) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	recommended, err := s.concerts.Recommended(r.Context(), token, limit)
	if err != nil {
		writeJSON(w, statusForServiceError(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Concerts []models.Concert `json:"concerts"`
	}{Concerts: recommended})
}

func (s *Server) handleGetConcert(w http.ResponseWriter, r *http.Request) {
	concert, fromCache, err := s.concerts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeJSON(w, statusForServiceError(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, concertResponse{Concert: concert, Cached: fromCache})
}

type attendRequest struct {
	Attending bool `json:"attending"`
}

func (s *Server) handleAttendConcert(w http.ResponseWriter, r *http.Request) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	// Empty body means "mark attending".
	req := attendRequest{Attending: true}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
			return
		}
	}

	info, err := s.concerts.SetAttendance(r.Context(), token, r.PathValue("id"), req.Attending)
	if err != nil {
		writeJSON(w, statusForServiceError(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleUnattendConcert(w http.ResponseWriter, r *http.Request) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	info, err := s.concerts.SetAttendance(r.Context(), token, r.PathValue("id"), false)
	if err != nil {
		writeJSON(w, statusForServiceError(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleAttendedConcerts(w http.ResponseWriter, r *http.Request) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	attended, err := s.concerts.Attended(r.Context(), token)
	if err != nil {
		writeJSON(w, statusForServiceError(err), errorResponse{Error: err.Error()})
		return
	}
	if attended == nil {
		attended = []models.Concert{}
	}

	writeJSON(w, http.StatusOK, struct {
		Concerts []models.Concert `json:"concerts"`
	}{Concerts: attended})
}

func (s *Server) handleGetAttendance(w http.ResponseWriter, r *http.Request) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	info, err := s.concerts.GetAttendance(r.Context(), token, r.PathValue("id"))
	if err != nil {
		writeJSON(w, statusForServiceError(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, info)
}

type linkTrackRequest struct {
	URL    string `json:"url"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

func (s *Server) handleLinkTrack(w http.ResponseWriter, r *http.Request) {
	var req linkTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "track url is required"})
		return
	}

	track := models.MusicTrack{
		URL:        req.URL,
		Name:       req.Name,
		Artist:     req.Artist,
		UploadedAt: time.Now(),
	}
	if err := s.concerts.LinkTrack(r.Context(), r.PathValue("id"), track); err != nil {
		writeJSON(w, statusForServiceError(err), errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
