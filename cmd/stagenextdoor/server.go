package main

import (
	"net/http"

	"github.com/rs/zerolog"

	"stagenextdoor/internal/app/concerts"
	"stagenextdoor/internal/app/photos"
	"stagenextdoor/internal/app/users"
	"stagenextdoor/internal/blob"
	"stagenextdoor/internal/cache"
	"stagenextdoor/internal/connectivity"
	"stagenextdoor/internal/fetcher"
	"stagenextdoor/internal/httpapi"
	"stagenextdoor/internal/middleware"
	"stagenextdoor/internal/musicapi"
	"stagenextdoor/internal/store"
)

func newHTTPHandler(cfg Config, log zerolog.Logger, dataStore *store.Store, cacheStore *cache.Store, monitor *connectivity.Monitor) (http.Handler, error) {
	photoBlobs, err := blob.NewDiskStore(cfg.PhotosDir, "/photos")
	if err != nil {
		return nil, err
	}

	concertFetcher := fetcher.New(dataStore, cacheStore, monitor, log)

	// Genre import stays disabled without Spotify credentials.
	var music users.Music
	if cfg.SpotifyClientID != "" && cfg.SpotifyClientSecret != "" {
		music = musicapi.NewSpotifyClient(musicapi.Config{
			SpotifyClientID:     cfg.SpotifyClientID,
			SpotifyClientSecret: cfg.SpotifyClientSecret,
		})
		log.Info().Msg("spotify client initialized")
	} else {
		log.Info().Msg("spotify credentials not provided, genre import disabled")
	}

	userSvc := users.New(dataStore, music)
	concertSvc := concerts.New(dataStore, concertFetcher)
	photoSvc := photos.New(dataStore, photoBlobs)

	handler := httpapi.New(userSvc, concertSvc, photoSvc, monitor, photoBlobs).Routes()
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = middleware.RequestLogging(log)(handler)
	handler = middleware.Recovery(log)(handler)
	return handler, nil
}
