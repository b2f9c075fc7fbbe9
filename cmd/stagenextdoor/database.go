package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

const (
	dbPingTimeout    = 5 * time.Second
	dbConnectWindow  = 30 * time.Second
	dbInitialBackoff = 500 * time.Millisecond
	dbMaxBackoff     = 5 * time.Second
)

// openDatabase opens the concert database and waits for it to respond,
// backing off between pings so an orchestrated Postgres instance has time to
// come up before the service gives up.
func openDatabase(ctx context.Context, dsn string, log zerolog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	deadline := time.Now().Add(dbConnectWindow)
	backoff := dbInitialBackoff
	attempts := 0
	var lastErr error

	for {
		attempts++
		pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
		lastErr = db.PingContext(pingCtx)
		cancel()

		if lastErr == nil {
			if attempts > 1 {
				log.Info().Int("attempts", attempts).Msg("database reachable")
			}
			return db, nil
		}

		if ctx.Err() != nil || time.Now().After(deadline) {
			break
		}

		log.Warn().Err(lastErr).
			Int("attempt", attempts).
			Dur("backoff", backoff).
			Msg("database not ready, retrying")
		time.Sleep(backoff)
		backoff = min(backoff*2, dbMaxBackoff)
	}

	_ = db.Close()
	return nil, fmt.Errorf("ping database: %w", lastErr)
}
