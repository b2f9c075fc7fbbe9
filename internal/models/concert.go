package models

import "time"

// Concert represents one listed live-music event with display metadata.
type Concert struct {
	ID         string  `json:"id"`
	ArtistName string  `json:"artistName"`
	VenueName  string  `json:"venueName"`
	Genre      string  `json:"genre,omitempty"` // free text, not an enum
	Date       string  `json:"date"`            // human-readable display string
	DateTS     int64   `json:"dateTimestamp,omitempty"`
	Price      float64 `json:"price"`
	ImageURL   string  `json:"imageUrl,omitempty"`

	MusicTrack *MusicTrack `json:"musicTrack,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// MusicTrack is a short preview track linked to a concert.
type MusicTrack struct {
	URL        string    `json:"url"`
	Name       string    `json:"name"`
	Artist     string    `json:"artist,omitempty"`
	UploadedAt time.Time `json:"uploadedAt,omitempty"`
}

// Snapshot is a full-replacement cached concert list plus the time it was
// fetched. A new successful fetch overwrites the whole sequence.
type Snapshot struct {
	Concerts  []Concert `json:"concerts"`
	FetchedAt time.Time `json:"fetchedAt"`
}
