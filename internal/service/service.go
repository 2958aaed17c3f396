// Package service owns the published snapshot: it runs refresh ticks
// against the coordinator and atomically swaps in each new result,
// keeping the last good snapshot visible when a tick fails.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/welkom-home/welkom-presence/internal/coordinator"
	"github.com/welkom-home/welkom-presence/internal/zones"
)

// SnapshotRefresher is the coordinator surface the service drives.
type SnapshotRefresher interface {
	Refresh(ctx context.Context, zoneCoords map[string]zones.Coordinates) (*coordinator.Snapshot, error)
}

// ZoneSource supplies the host platform's zone coordinates, fetched
// fresh for every tick.
type ZoneSource interface {
	Zones(ctx context.Context) (map[string]zones.Coordinates, error)
}

// SnapshotCache persists the latest snapshot across restarts. Optional.
type SnapshotCache interface {
	SaveSnapshot(ctx context.Context, snap *coordinator.Snapshot) error
}

// Status describes the health of the refresh cycle for the API surface.
type Status struct {
	HasData     bool      `json:"has_data"`
	Stale       bool      `json:"stale"`
	LastSuccess time.Time `json:"last_success,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
}

type Service struct {
	refresher SnapshotRefresher
	zones     ZoneSource
	cache     SnapshotCache
	logger    *slog.Logger

	mu          sync.RWMutex
	current     *coordinator.Snapshot
	lastSuccess time.Time
	lastErr     error
}

func New(refresher SnapshotRefresher, zoneSource ZoneSource, cache SnapshotCache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{refresher: refresher, zones: zoneSource, cache: cache, logger: logger}
}

// Seed installs a previously cached snapshot as the starting data,
// unless a live refresh already published one.
func (s *Service) Seed(snap *coordinator.Snapshot) {
	if snap == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		s.current = snap
	}
}

// RefreshOnce executes one tick. On failure the previous snapshot stays
// published and the error is recorded as staleness; nothing partial is
// ever exposed.
func (s *Service) RefreshOnce(ctx context.Context) error {
	zoneCoords, err := s.zones.Zones(ctx)
	if err != nil {
		// Coordinates are enrichment; presence aggregation still works
		// without them.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("zone fetch failed, refreshing without coordinates", "err", err)
		zoneCoords = nil
	}

	snap, err := s.refresher.Refresh(ctx, zoneCoords)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.current = snap
	s.lastSuccess = snap.FetchedAt
	s.lastErr = nil
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.SaveSnapshot(ctx, snap); err != nil {
			s.logger.Warn("snapshot cache write failed", "err", err)
		}
	}
	return nil
}

// Snapshot returns the currently published snapshot. May be nil before
// the first successful tick; the Snapshot accessors handle nil.
func (s *Service) Snapshot() *coordinator.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := Status{
		HasData:     s.current != nil,
		Stale:       s.lastErr != nil,
		LastSuccess: s.lastSuccess,
	}
	if s.lastErr != nil {
		status.LastError = s.lastErr.Error()
	}
	return status
}
