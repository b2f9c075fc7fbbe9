package photos

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"stagenextdoor/internal/models"
)

// allowedExtensions are the photo formats accepted for upload.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Store defines the persistence operations required by the photo service.
type Store interface {
	UserIDByToken(ctx context.Context, token string) (int64, error)
	GetConcert(ctx context.Context, id string) (models.Concert, error)
	AddPhoto(ctx context.Context, photo models.ConcertPhoto) (models.ConcertPhoto, error)
	PhotosByConcert(ctx context.Context, concertID string) ([]models.ConcertPhoto, error)
}

// Blobs stores the photo bytes.
type Blobs interface {
	Put(key string, r io.Reader) (url string, err error)
}

// Service handles concert photo uploads and listing.
type Service interface {
	Upload(ctx context.Context, token, concertID, filename string, r io.Reader) (models.ConcertPhoto, error)
	List(ctx context.Context, concertID string) ([]models.ConcertPhoto, error)
}

type service struct {
	store Store
	blobs Blobs
}

// New constructs a photos Service.
func New(store Store, blobs Blobs) Service {
	return &service{store: store, blobs: blobs}
}

func (s *service) Upload(ctx context.Context, token, concertID, filename string, r io.Reader) (models.ConcertPhoto, error) {
	if err := ctx.Err(); err != nil {
		return models.ConcertPhoto{}, err
	}

	userID, err := s.store.UserIDByToken(ctx, token)
	if err != nil {
		return models.ConcertPhoto{}, err
	}

	if _, err := s.store.GetConcert(ctx, concertID); err != nil {
		return models.ConcertPhoto{}, err
	}

	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return models.ConcertPhoto{}, fmt.Errorf("filename %q has no extension", filename)
	}
	ext := strings.ToLower(filename[idx:])
	if !allowedExtensions[ext] {
		return models.ConcertPhoto{}, fmt.Errorf("unsupported photo type %q", ext)
	}

	photoID := uuid.New().String()
	key := fmt.Sprintf("%s-%d-%s%s", concertID, userID, photoID, ext)

	url, err := s.blobs.Put(key, r)
	if err != nil {
		return models.ConcertPhoto{}, fmt.Errorf("store photo: %w", err)
	}

	return s.store.AddPhoto(ctx, models.ConcertPhoto{
		ID:        photoID,
		ConcertID: concertID,
		UserID:    userID,
		URL:       url,
	})
}

func (s *service) List(ctx context.Context, concertID string) ([]models.ConcertPhoto, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.PhotosByConcert(ctx, concertID)
}
