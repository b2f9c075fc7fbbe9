package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stagenextdoor/internal/models"
)

// ErrConcertNotFound signals the requested concert does not exist.
var ErrConcertNotFound = errors.New("concert not found")

// listPageSize bounds a single listing read, newest first.
const listPageSize = 50

const concertColumns = `
	id, artist_name, venue_name, genre, date, date_ts, price, image_url,
	track_url, track_name, track_artist, track_uploaded_at,
	created_at, updated_at
`

// ListConcerts returns the newest concerts, ordered by date descending.
func (s *Store) ListConcerts(ctx context.Context) ([]models.Concert, error) {
	query := `
		SELECT ` + concertColumns + `
		FROM concerts
		ORDER BY date_ts DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, listPageSize)
	if err != nil {
		return nil, fmt.Errorf("select concerts: %w", err)
	}
	defer rows.Close()

	var concerts []models.Concert
	for rows.Next() {
		c, err := scanConcert(rows)
		if err != nil {
			return nil, err
		}
		concerts = append(concerts, c)
	}
	return concerts, rows.Err()
}

// GetConcert retrieves a single concert by ID.
func (s *Store) GetConcert(ctx context.Context, id string) (models.Concert, error) {
	query := `
		SELECT ` + concertColumns + `
		FROM concerts
		WHERE id = $1
	`

	c, err := scanConcert(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Concert{}, ErrConcertNotFound
	}
	if err != nil {
		return models.Concert{}, err
	}
	return c, nil
}

// SyncConcerts performs a full sync: every concert in the list is upserted
// and rows absent from it are removed.
func (s *Store) SyncConcerts(ctx context.Context, concerts []models.Concert) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	ids := make([]string, 0, len(concerts))
	for _, c := range concerts {
		ids = append(ids, c.ID)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO concerts (id, artist_name, venue_name, genre, date, date_ts, price, image_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE
			SET artist_name = EXCLUDED.artist_name,
			    venue_name = EXCLUDED.venue_name,
			    genre = EXCLUDED.genre,
			    date = EXCLUDED.date,
			    date_ts = EXCLUDED.date_ts,
			    price = EXCLUDED.price,
			    image_url = EXCLUDED.image_url,
			    updated_at = CURRENT_TIMESTAMP
		`, c.ID, c.ArtistName, c.VenueName, c.Genre, c.Date, c.DateTS, c.Price, c.ImageURL); err != nil {
			return fmt.Errorf("upsert concert %s: %w", c.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM concerts
		WHERE id != ALL($1)
	`, ids); err != nil {
		return fmt.Errorf("prune concerts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return nil
}

// UpdateConcertDate rewrites the display date and sortable timestamp of one
// concert.
func (s *Store) UpdateConcertDate(ctx context.Context, id, date string, dateTS int64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE concerts
		SET date = $1, date_ts = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`, date, dateTS, id)
	if err != nil {
		return fmt.Errorf("update date: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrConcertNotFound
	}
	return nil
}

// SetMusicTrack attaches a preview track to a concert, replacing any
// existing one.
func (s *Store) SetMusicTrack(ctx context.Context, id string, track models.MusicTrack) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE concerts
		SET track_url = $1, track_name = $2, track_artist = $3,
		    track_uploaded_at = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
	`, track.URL, track.Name, track.Artist, track.UploadedAt, id)
	if err != nil {
		return fmt.Errorf("set track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrConcertNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConcert(row rowScanner) (models.Concert, error) {
	var (
		c               models.Concert
		trackURL        sql.NullString
		trackName       sql.NullString
		trackArtist     sql.NullString
		trackUploadedAt sql.NullTime
	)

	err := row.Scan(
		&c.ID, &c.ArtistName, &c.VenueName, &c.Genre, &c.Date, &c.DateTS,
		&c.Price, &c.ImageURL,
		&trackURL, &trackName, &trackArtist, &trackUploadedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return models.Concert{}, err
	}

	if trackURL.Valid {
		c.MusicTrack = &models.MusicTrack{
			URL:        trackURL.String,
			Name:       trackName.String,
			Artist:     trackArtist.String,
			UploadedAt: trackUploadedAt.Time,
		}
	}
	return c, nil
}
