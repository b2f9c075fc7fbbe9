package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stagenextdoor/internal/cache"
	"stagenextdoor/internal/connectivity"
	"stagenextdoor/internal/logging"
	"stagenextdoor/internal/store"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := openDatabase(context.Background(), cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()

	cacheDB, err := cache.Open(cfg.CacheDir)
	if err != nil {
		log.Fatal().Err(err).Msg("cache unavailable")
	}
	defer cacheDB.Close()

	dataStore := store.New(db, []byte(cfg.JWTSecret))
	cacheStore := cache.New(cacheDB, log)
	monitor := connectivity.NewMonitor(db, log)

	handler, err := newHTTPHandler(cfg, log, dataStore, cacheStore, monitor)
	if err != nil {
		log.Fatal().Err(err).Msg("wiring failed")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-shutdown
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
