package photos

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"stagenextdoor/internal/models"
	"stagenextdoor/internal/store"
)

type stubStore struct {
	concertExists bool
	added         []models.ConcertPhoto
}

func (s *stubStore) UserIDByToken(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, store.ErrUnauthorized
	}
	return 7, nil
}

func (s *stubStore) GetConcert(ctx context.Context, id string) (models.Concert, error) {
	if !s.concertExists {
		return models.Concert{}, store.ErrConcertNotFound
	}
	return models.Concert{ID: id}, nil
}

func (s *stubStore) AddPhoto(ctx context.Context, photo models.ConcertPhoto) (models.ConcertPhoto, error) {
	s.added = append(s.added, photo)
	return photo, nil
}

func (s *stubStore) PhotosByConcert(ctx context.Context, concertID string) ([]models.ConcertPhoto, error) {
	return s.added, nil
}

type stubBlobs struct {
	keys []string
}

func (b *stubBlobs) Put(key string, r io.Reader) (string, error) {
	b.keys = append(b.keys, key)
	return "/photos/" + key, nil
}

func TestUpload(t *testing.T) {
	st := &stubStore{concertExists: true}
	blobs := &stubBlobs{}
	svc := New(st, blobs)

	photo, err := svc.Upload(context.Background(), "tok", "c1", "shot.JPG", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if photo.ConcertID != "c1" || photo.UserID != 7 {
		t.Errorf("photo = %+v", photo)
	}
	if len(blobs.keys) != 1 || !strings.HasSuffix(blobs.keys[0], ".jpg") {
		t.Errorf("blob keys = %v", blobs.keys)
	}
	if photo.URL != "/photos/"+blobs.keys[0] {
		t.Errorf("url = %q", photo.URL)
	}
}

func TestUploadRejectsUnknownConcert(t *testing.T) {
	svc := New(&stubStore{}, &stubBlobs{})

	_, err := svc.Upload(context.Background(), "tok", "ghost", "shot.jpg", strings.NewReader("x"))
	if !errors.Is(err, store.ErrConcertNotFound) {
		t.Fatalf("expected ErrConcertNotFound, got %v", err)
	}
}

func TestUploadRejectsBadExtension(t *testing.T) {
	svc := New(&stubStore{concertExists: true}, &stubBlobs{})

	for _, name := range []string{"script.exe", "noext", "archive.tar.gz"} {
		if _, err := svc.Upload(context.Background(), "tok", "c1", name, strings.NewReader("x")); err == nil {
			t.Errorf("Upload(%q) should fail", name)
		}
	}
}

func TestUploadRequiresAuth(t *testing.T) {
	svc := New(&stubStore{concertExists: true}, &stubBlobs{})

	_, err := svc.Upload(context.Background(), "", "c1", "shot.jpg", strings.NewReader("x"))
	if !errors.Is(err, store.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
