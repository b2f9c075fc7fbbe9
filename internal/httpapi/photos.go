package httpapi

import (
	"io"
	"net/http"

	"stagenextdoor/internal/models"
)

// maxPhotoBytes caps a single upload.
const maxPhotoBytes = 10 << 20

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart payload"})
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "photo file is required"})
		return
	}
	defer file.Close()

	photo, err := s.photos.Upload(r.Context(), token, r.PathValue("id"), header.Filename, file)
	if err != nil {
		writeJSON(w, statusForServiceError(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, photo)
}

func (s *Server) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := s.photos.List(r.Context(), r.PathValue("id"))
	if err != nil {
		writeJSON(w, statusForServiceError(err), errorResponse{Error: err.Error()})
		return
	}
	if photos == nil {
		photos = []models.ConcertPhoto{}
	}

	writeJSON(w, http.StatusOK, struct {
		Photos []models.ConcertPhoto `json:"photos"`
	}{Photos: photos})
}

func (s *Server) handleServePhoto(w http.ResponseWriter, r *http.Request) {
	rc, err := s.blobs.Open(r.PathValue("key"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer rc.Close()

	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = io.Copy(w, rc)
}
