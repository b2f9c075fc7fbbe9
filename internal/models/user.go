package models

import "time"

// User is an account profile. FavoriteGenres keeps the order the user picked
// them in; matching does not care but display does.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	FavoriteGenres []string  `json:"favoriteGenres"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConcertPhoto is a user-uploaded photo attached to a concert.
type ConcertPhoto struct {
	ID        string    `json:"id"`
	ConcertID string    `json:"concert_id"`
	UserID    int64     `json:"user_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
