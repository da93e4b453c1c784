package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"okx_bridge/internal/domain"
	"okx_bridge/internal/infra"
)

// InstrumentCache holds per-instrument size constraints with a TTL.
// Entries are refreshed lazily on access; concurrent refreshes for the same
// instrument collapse into a single upstream lookup shared by all waiters.
// Unrelated instruments never block each other.
type InstrumentCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.InstrumentConstraints

	ttl    time.Duration
	lookup domain.InstrumentLookup
	store  domain.SnapshotStore // optional, may be nil
	group  singleflight.Group
	logger *slog.Logger
	now    func() time.Time
}

// NewInstrumentCache creates a cache over the given lookup. store may be nil;
// when present it seeds the cache and receives every refreshed snapshot.
// Seeded entries keep their persisted FetchedAt, so stale snapshots still
// refresh on first use.
func NewInstrumentCache(lookup domain.InstrumentLookup, store domain.SnapshotStore, ttl time.Duration) *InstrumentCache {
	c := &InstrumentCache{
		entries: make(map[string]*domain.InstrumentConstraints),
		ttl:     ttl,
		lookup:  lookup,
		store:   store,
		logger:  slog.Default().With("module", "instrument_cache"),
		now:     time.Now,
	}

	if store != nil {
		snapshots, err := store.LoadSnapshots()
		if err != nil {
			c.logger.Warn("failed to seed cache from storage", slog.Any("error", err))
			return c
		}
		for _, snap := range snapshots {
			c.entries[snap.InstID] = snap
		}
		if len(snapshots) > 0 {
			c.logger.Info("cache seeded from storage", slog.Int("instruments", len(snapshots)))
		}
	}

	return c
}

// GetConstraints returns the constraints for one instrument, refreshing from
// upstream when the cached record is missing or past its TTL.
func (c *InstrumentCache) GetConstraints(ctx context.Context, instID string) (*domain.InstrumentConstraints, error) {
	if cached, ok := c.fresh(instID); ok {
		return cached, nil
	}

	v, err, _ := c.group.Do(instID, func() (any, error) {
		// A waiter that queued behind the winning refresh sees the fresh
		// entry here and skips a redundant lookup.
		if cached, ok := c.fresh(instID); ok {
			return cached, nil
		}
		return c.refresh(ctx, instID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.InstrumentConstraints), nil
}

func (c *InstrumentCache) fresh(instID string) (*domain.InstrumentConstraints, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, ok := c.entries[instID]
	if !ok || !cached.FreshAt(c.now(), c.ttl) {
		return nil, false
	}
	return cached, true
}

func (c *InstrumentCache) refresh(ctx context.Context, instID string) (*domain.InstrumentConstraints, error) {
	fetched, err := c.lookup.FetchConstraints(ctx, instID)
	if err != nil {
		return nil, err
	}
	infra.GlobalMetrics.RecordMetadataRefresh()

	c.mu.Lock()
	c.entries[instID] = fetched
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.UpsertSnapshot(fetched); err != nil {
			// Persistence is best-effort; the in-memory entry is authoritative.
			c.logger.Warn("failed to persist constraint snapshot",
				slog.String("instId", instID), slog.Any("error", err))
		}
	}

	c.logger.Debug("constraints refreshed",
		slog.String("instId", instID),
		slog.String("lotSz", fetched.LotSize.String()),
		slog.String("minSz", fetched.MinSize.String()),
	)
	return fetched, nil
}
