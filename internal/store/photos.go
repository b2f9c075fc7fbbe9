package store

import (
	"context"
	"fmt"

	"stagenextdoor/internal/models"
)

// AddPhoto records an uploaded concert photo and returns it with the
// generated timestamp filled in.
func (s *Store) AddPhoto(ctx context.Context, photo models.ConcertPhoto) (models.ConcertPhoto, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO concert_photos (id, concert_id, user_id, url)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, photo.ID, photo.ConcertID, photo.UserID, photo.URL).Scan(&photo.CreatedAt)
	if err != nil {
		return models.ConcertPhoto{}, fmt.Errorf("insert photo: %w", err)
	}
	return photo, nil
}

// PhotosByConcert lists photos for a concert, newest first.
func (s *Store) PhotosByConcert(ctx context.Context, concertID string) ([]models.ConcertPhoto, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, concert_id, user_id, url, created_at
		FROM concert_photos
		WHERE concert_id = $1
		ORDER BY created_at DESC
	`, concertID)
	if err != nil {
		return nil, fmt.Errorf("select photos: %w", err)
	}
	defer rows.Close()

	var photos []models.ConcertPhoto
	for rows.Next() {
		var p models.ConcertPhoto
		if err := rows.Scan(&p.ID, &p.ConcertID, &p.UserID, &p.URL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}
