package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stagenextdoor/internal/models"
)

// GetUser returns the profile for userID, including favorite genres in the
// order they were picked.
func (s *Store) GetUser(ctx context.Context, userID int64) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, created_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&u.ID, &u.Username, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, fmt.Errorf("lookup user: %w", err)
	}

	u.FavoriteGenres, err = s.FavoriteGenres(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// FavoriteGenres returns the user's favorite genres in selection order.
func (s *Store) FavoriteGenres(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT genre
		FROM user_genres
		WHERE user_id = $1
		ORDER BY position ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select genres: %w", err)
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genres: %w", err)
	}
	return genres, nil
}

// SetFavoriteGenres replaces the user's favorite genre list.
func (s *Store) SetFavoriteGenres(ctx context.Context, userID int64, genres []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM user_genres
		WHERE user_id = $1
	`, userID); err != nil {
		return fmt.Errorf("delete genres: %w", err)
	}

	for i, genre := range genres {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_genres (user_id, position, genre)
			VALUES ($1, $2, $3)
		`, userID, i, genre); err != nil {
			return fmt.Errorf("insert genre: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return nil
}

// SetAttendance marks or unmarks the user as attending a concert. Marking
// twice is a no-op.
func (s *Store) SetAttendance(ctx context.Context, userID int64, concertID string, attending bool) error {
	if attending {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO user_attendance (user_id, concert_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, concert_id) DO NOTHING
		`, userID, concertID)
		if err != nil {
			return fmt.Errorf("insert attendance: %w", err)
		}
		return nil
	}

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM user_attendance
		WHERE user_id = $1 AND concert_id = $2
	`, userID, concertID); err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	return nil
}

// Attendance reports whether the user marked the concert and how many users
// did in total.
func (s *Store) Attendance(ctx context.Context, userID int64, concertID string) (attending bool, total int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE user_id = $1) > 0
		FROM user_attendance
		WHERE concert_id = $2
	`, userID, concertID).Scan(&total, &attending)
	if err != nil {
		return false, 0, fmt.Errorf("count attendance: %w", err)
	}
	return attending, total, nil
}

// AttendedConcertIDs returns the IDs of concerts the user marked attending.
func (s *Store) AttendedConcertIDs(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT concert_id
		FROM user_attendance
		WHERE user_id = $1
		ORDER BY marked_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select attendance: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
