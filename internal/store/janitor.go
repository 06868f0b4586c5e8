// Package store provides session storage for MindGuide.
//
// This file implements the idle-session janitor.
package store

import (
	"context"
	"log/slog"
	"time"
)

// StartJanitor launches a goroutine that periodically evicts sessions idle
// past the configured TTL. It stops when the context is cancelled.
func (s *InMemoryStore) StartJanitor(ctx context.Context) {
	go func() {
		slog.Info("store.StartJanitor: janitor started", "ttl", s.opts.SessionTTL, "interval", s.opts.SweepInterval)
		ticker := time.NewTicker(s.opts.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.Debug("store.StartJanitor: janitor stopped")
				return
			case <-ticker.C:
				evicted := s.sweep(time.Now())
				if evicted > 0 {
					slog.Info("store.StartJanitor: evicted idle sessions", "count", evicted)
				}
			}
		}
	}()
}

// sweep removes sessions whose last update is older than the TTL and
// returns how many were evicted.
func (s *InMemoryStore) sweep(now time.Time) int {
	cutoff := now.Add(-s.opts.SessionTTL)
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}
