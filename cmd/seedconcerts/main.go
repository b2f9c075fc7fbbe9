// Command seedconcerts maintains the concert catalog: seeding sample data,
// backfilling sortable timestamps from display dates, and attaching preview
// tracks from Spotify.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"stagenextdoor/internal/logging"
	"stagenextdoor/internal/store"
)

func main() {
	_ = godotenv.Load("config/local.env")

	log := logging.New(logging.Config{
		Level:  envOrDefault("LOG_LEVEL", "info"),
		Format: envOrDefault("LOG_FORMAT", "text"),
	})

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: seedconcerts <seed [concerts.json]|backfill-dates|link-tracks>")
		os.Exit(2)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal().Msg("DATABASE_URL env var is required")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}

	dataStore := store.New(db, []byte(envOrDefault("JWT_SECRET", "seedconcerts")))

	switch os.Args[1] {
	case "seed":
		path := ""
		if len(os.Args) > 2 {
			path = os.Args[2]
		}
		err = runSeed(ctx, dataStore, log, path)
	case "backfill-dates":
		err = runBackfillDates(ctx, db, dataStore, log)
	case "link-tracks":
		err = runLinkTracks(ctx, dataStore, log)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg(os.Args[1] + " failed")
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
