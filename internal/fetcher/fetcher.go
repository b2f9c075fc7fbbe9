// Package fetcher coordinates concert retrieval across the remote source, the
// local snapshot cache, and the connectivity monitor. It owns the staleness
// policy: fresh cache is served directly, a failed remote fetch falls back to
// whatever snapshot exists, and only when both are empty does a read fail.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"stagenextdoor/internal/models"
)

// ErrNoData means the remote fetch failed and no cached snapshot exists.
var ErrNoData = errors.New("concerts unavailable and no cached snapshot")

// Remote loads the live concert listing, newest first, bounded by the source's
// page size.
type Remote interface {
	ListConcerts(ctx context.Context) ([]models.Concert, error)
}

// Cache is the snapshot store the fetcher reads through and writes back to.
type Cache interface {
	Load() ([]models.Concert, bool)
	Save(concerts []models.Concert, fetchedAt time.Time) error
	LastFetch() (time.Time, bool)
	IsExpired() bool
}

// Connectivity gates remote attempts.
type Connectivity interface {
	IsAvailable() bool
	CheckAndReconnect(ctx context.Context) bool
}

// Result is one resolved concert read.
type Result struct {
	Concerts  []models.Concert
	FromCache bool
	FetchedAt time.Time
}

// Fetcher resolves concert reads. Safe for concurrent use; overlapping
// fetches are arbitrated so a slow stale response never overwrites the
// snapshot written by a newer one.
type Fetcher struct {
	remote  Remote
	cache   Cache
	monitor Connectivity
	log     zerolog.Logger
	breaker *gobreaker.CircuitBreaker[[]models.Concert]

	retryDelay time.Duration
	now        func() time.Time

	// seq issues a token per fetch; only the holder of the newest token
	// writes its result back to the cache.
	seq atomic.Uint64
}

// Option adjusts Fetcher construction.
type Option func(*Fetcher)

// WithRetryDelay overrides the pause before the single retry.
func WithRetryDelay(d time.Duration) Option {
	return func(f *Fetcher) { f.retryDelay = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// New wires a Fetcher over the remote source, cache, and monitor.
func New(remote Remote, cache Cache, monitor Connectivity, log zerolog.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		remote:     remote,
		cache:      cache,
		monitor:    monitor,
		log:        log,
		retryDelay: 2 * time.Second,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.breaker = gobreaker.NewCircuitBreaker[[]models.Concert](gobreaker.Settings{
		Name:    "concert-remote",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})
	return f
}

// Fetch resolves the current concert listing. With forceRefresh the monitor
// re-probes the upstream and the cache freshness check is skipped, so the
// remote is always attempted.
func (f *Fetcher) Fetch(ctx context.Context, forceRefresh bool) (Result, error) {
	if forceRefresh {
		f.monitor.CheckAndReconnect(ctx)
	}

	if !forceRefresh && !f.cache.IsExpired() {
		if concerts, ok := f.cache.Load(); ok {
			fetchedAt, _ := f.cache.LastFetch()
			return Result{Concerts: concerts, FromCache: true, FetchedAt: fetchedAt}, nil
		}
	}

	if !f.monitor.IsAvailable() && !f.monitor.CheckAndReconnect(ctx) {
		f.log.Warn().Msg("upstream unreachable, serving cached concerts")
		return f.fallback(errors.New("upstream unreachable"))
	}

	token := f.seq.Add(1)

	concerts, err := f.fetchRemote(ctx)
	if err != nil {
		f.log.Warn().Err(err).Msg("remote concert fetch failed, falling back to cache")
		return f.fallback(err)
	}

	fetchedAt := f.now()
	if f.seq.Load() == token {
		if err := f.cache.Save(concerts, fetchedAt); err != nil {
			f.log.Warn().Err(err).Msg("failed to cache concert snapshot")
		}
	} else {
		f.log.Debug().Uint64("token", token).Msg("discarding stale fetch result")
	}

	return Result{Concerts: concerts, FetchedAt: fetchedAt}, nil
}

// fetchRemote calls the remote through the breaker, retrying exactly once
// after a short pause. An open breaker fails fast without a retry.
func (f *Fetcher) fetchRemote(ctx context.Context) ([]models.Concert, error) {
	concerts, err := f.breaker.Execute(func() ([]models.Concert, error) {
		return f.remote.ListConcerts(ctx)
	})
	if err == nil {
		return concerts, nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, err
	}

	if f.retryDelay > 0 {
		timer := time.NewTimer(f.retryDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	f.log.Debug().Err(err).Msg("retrying concert fetch")
	return f.breaker.Execute(func() ([]models.Concert, error) {
		return f.remote.ListConcerts(ctx)
	})
}

// fallback serves the cached snapshot regardless of age. Only when no
// snapshot exists does the original failure surface, wrapped in ErrNoData.
func (f *Fetcher) fallback(cause error) (Result, error) {
	if concerts, ok := f.cache.Load(); ok {
		fetchedAt, _ := f.cache.LastFetch()
		return Result{Concerts: concerts, FromCache: true, FetchedAt: fetchedAt}, nil
	}
	return Result{}, fmt.Errorf("%w: %w", ErrNoData, cause)
}
