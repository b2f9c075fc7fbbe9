package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"stagenextdoor/internal/models"
	"stagenextdoor/internal/musicapi"
	"stagenextdoor/internal/store"
)

// runLinkTracks attaches a playable Spotify preview to every concert that
// does not have one yet. Artists without a playable preview are left alone.
func runLinkTracks(ctx context.Context, dataStore *store.Store, log zerolog.Logger) error {
	clientID := os.Getenv("SPOTIFY_CLIENT_ID")
	clientSecret := os.Getenv("SPOTIFY_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return errors.New("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET env vars are required")
	}

	spotify := musicapi.NewSpotifyClient(musicapi.Config{
		SpotifyClientID:     clientID,
		SpotifyClientSecret: clientSecret,
	})

	concerts, err := dataStore.ListConcerts(ctx)
	if err != nil {
		return fmt.Errorf("list concerts: %w", err)
	}

	linked := 0
	for _, concert := range concerts {
		if concert.MusicTrack != nil {
			continue
		}

		track, err := spotify.PreviewTrack(ctx, concert.ArtistName)
		if err != nil {
			return fmt.Errorf("search preview for %s: %w", concert.ArtistName, err)
		}
		if track == nil {
			log.Warn().Str("artist", concert.ArtistName).Msg("no playable preview found")
			continue
		}

		err = dataStore.SetMusicTrack(ctx, concert.ID, models.MusicTrack{
			URL:        track.PreviewURL,
			Name:       track.Title,
			Artist:     track.Artist,
			UploadedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("link track for %s: %w", concert.ArtistName, err)
		}
		linked++
	}

	log.Info().Int("linked", linked).Int("concerts", len(concerts)).Msg("track linking complete")
	return nil
}
