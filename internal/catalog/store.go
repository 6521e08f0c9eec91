// internal/catalog/store.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"festival-matcher/internal/common/logger"
	"festival-matcher/internal/common/metrics"
	"festival-matcher/internal/matching"
)

// Snapshot is an immutable view of the catalog. A ranking call holds one
// snapshot for its whole duration.
type Snapshot struct {
	Version    string
	Source     string
	LoadedAt   time.Time
	Candidates []matching.Candidate
	Stats      Stats
}

type Stats struct {
	Count     int                   `json:"count"`
	Costs     matching.CatalogStats `json:"costs"`
	Genres    int                   `json:"genres"`
	Countries int                   `json:"countries"`
	Dropped   int                   `json:"dropped"`
}

// Store holds the current snapshot and swaps it atomically on Refresh.
type Store struct {
	source  Source
	logger  logger.Logger
	current atomic.Pointer[Snapshot]
	now     func() time.Time
}

func NewStore(source Source, log logger.Logger) *Store {
	return &Store{
		source: source,
		logger: log.WithFields(map[string]interface{}{"component": "catalog", "source": source.Name()}),
		now:    time.Now,
	}
}

// Snapshot returns the current snapshot, or nil before the first successful refresh.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Ready reports whether a snapshot has been loaded.
func (s *Store) Ready() bool {
	return s.current.Load() != nil
}

// Refresh loads the source and installs a new snapshot. On failure the
// previous snapshot stays in place.
func (s *Store) Refresh(ctx context.Context) (*Snapshot, error) {
	start := s.now()

	doc, err := s.source.Load(ctx)
	if err != nil {
		metrics.CatalogRefreshes.WithLabelValues(s.source.Name(), "error").Inc()
		s.logger.Error("catalog refresh failed", map[string]interface{}{"error": err})
		return nil, err
	}

	festivals, dropped := s.sanitize(doc.Festivals)
	if len(festivals) == 0 {
		metrics.CatalogRefreshes.WithLabelValues(s.source.Name(), "empty").Inc()
		s.logger.Error("catalog refresh rejected", map[string]interface{}{"dropped": dropped})
		return nil, fmt.Errorf("%w: %v", ErrCatalogInvalid, ErrCatalogEmpty)
	}

	snap := &Snapshot{
		Version:    doc.Version,
		Source:     s.source.Name(),
		LoadedAt:   s.now(),
		Candidates: festivals,
		Stats:      computeStats(festivals, dropped),
	}

	prev := s.current.Swap(snap)
	metrics.CatalogRefreshes.WithLabelValues(s.source.Name(), "ok").Inc()
	metrics.CatalogSize.Set(float64(len(festivals)))
	metrics.CatalogLastRefresh.Set(float64(snap.LoadedAt.Unix()))

	fields := map[string]interface{}{
		"version":    snap.Version,
		"festivals":  len(festivals),
		"dropped":    dropped,
		"durationMs": s.now().Sub(start).Milliseconds(),
	}
	if prev != nil {
		fields["previousVersion"] = prev.Version
	}
	s.logger.Info("catalog refreshed", fields)
	return snap, nil
}

// Run refreshes every interval until ctx ends. Failures are logged and the
// last good snapshot keeps serving.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Warn("keeping previous catalog snapshot", map[string]interface{}{"error": err})
			}
		}
	}
}

func (s *Store) sanitize(in []matching.Candidate) ([]matching.Candidate, int) {
	seen := make(map[string]bool, len(in))
	out := make([]matching.Candidate, 0, len(in))
	dropped := 0
	for _, c := range in {
		switch {
		case c.ID == "":
			dropped++
			s.logger.Warn("dropping festival without id", map[string]interface{}{"name": c.Name})
		case seen[c.ID]:
			dropped++
			s.logger.Warn("dropping duplicate festival", map[string]interface{}{"festivalId": c.ID})
		default:
			seen[c.ID] = true
			out = append(out, c)
		}
	}
	return out, dropped
}

func computeStats(festivals []matching.Candidate, dropped int) Stats {
	genres := make(map[string]bool)
	countries := make(map[string]bool)
	for _, c := range festivals {
		for _, g := range c.Genres {
			genres[g] = true
		}
		if c.Country != "" {
			countries[c.Country] = true
		}
	}
	return Stats{
		Count:     len(festivals),
		Costs:     matching.ComputeStats(festivals),
		Genres:    len(genres),
		Countries: len(countries),
		Dropped:   dropped,
	}
}
