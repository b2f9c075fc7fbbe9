// Package connectivity tracks whether the upstream concert source is
// reachable. The monitor keeps the last observed state so read paths can make
// a cheap availability check without probing, and lets operators force the
// link up or down for maintenance.
package connectivity

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Pinger probes the upstream source. *sql.DB satisfies it via PingContext.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Monitor caches the last known reachability of a Pinger.
type Monitor struct {
	pinger Pinger
	log    zerolog.Logger

	mu        sync.Mutex
	available bool
	enabled   bool
}

// NewMonitor returns a Monitor that starts enabled and assumes the upstream
// is reachable until a probe says otherwise.
func NewMonitor(pinger Pinger, log zerolog.Logger) *Monitor {
	return &Monitor{
		pinger:    pinger,
		log:       log,
		available: true,
		enabled:   true,
	}
}

// IsAvailable reports the last observed state without probing.
func (m *Monitor) IsAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled && m.available
}

// IsEnabled reports whether the monitor is administratively enabled.
func (m *Monitor) IsEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// CheckAndReconnect probes the upstream and updates the cached state. While
// the monitor is disabled it reports false without probing.
func (m *Monitor) CheckAndReconnect(ctx context.Context) bool {
	m.mu.Lock()
	if !m.enabled {
		m.mu.Unlock()
		return false
	}
	m.mu.Unlock()

	err := m.pinger.PingContext(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	was := m.available
	m.available = err == nil
	if m.available != was {
		m.log.Info().Bool("available", m.available).Msg("upstream reachability changed")
	}
	if err != nil {
		m.log.Debug().Err(err).Msg("upstream probe failed")
	}
	return m.enabled && m.available
}

// SetEnabled turns the monitor on or off. Disabling marks the upstream
// unavailable immediately; enabling restores the optimistic default so the
// next fetch attempts the network.
func (m *Monitor) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.enabled == enabled {
		return
	}
	m.enabled = enabled
	m.available = enabled
	m.log.Info().Bool("enabled", enabled).Msg("connectivity monitor toggled")
}
