// Package musicapi talks to external music streaming services. It backs the
// favorite-genre import (a listener's top artists) and preview-track lookup
// for concert artists.
package musicapi

import (
	"context"
	"time"
)

// Artist is an artist profile from a streaming service.
type Artist struct {
	ExternalID string   `json:"external_id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres,omitempty"`
}

// Track is a playable track reference from a streaming service.
type Track struct {
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// Client defines the operations the app needs from a streaming service.
type Client interface {
	// TopArtists lists the listener's most-played artists using their own
	// access token from the service's OAuth flow.
	TopArtists(ctx context.Context, userToken string, limit int) ([]Artist, error)

	// PreviewTrack finds a playable preview for the named artist, or nil
	// when the service has none.
	PreviewTrack(ctx context.Context, artistName string) (*Track, error)
}

// Config holds credentials for music API clients.
type Config struct {
	SpotifyClientID     string
	SpotifyClientSecret string

	RequestTimeout time.Duration
}
