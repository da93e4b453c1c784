package domain

import "context"

// Exchange is the outbound order surface. Both calls are blocking network
// operations with a bounded per-call timeout imposed by the implementation.
type Exchange interface {
	// PlaceOrder submits a market entry order.
	PlaceOrder(ctx context.Context, intent OrderIntent) (*OrderOutcome, error)
	// PlaceAlgoOrder submits a conditional (trigger) exit order.
	PlaceAlgoOrder(ctx context.Context, intent OrderIntent) (*OrderOutcome, error)
}

// InstrumentLookup fetches instrument size rules from the exchange.
type InstrumentLookup interface {
	FetchConstraints(ctx context.Context, instID string) (*InstrumentConstraints, error)
}

// ConstraintSource is what the orchestrator resolves sizes against; the
// TTL cache implements it on top of an InstrumentLookup.
type ConstraintSource interface {
	GetConstraints(ctx context.Context, instID string) (*InstrumentConstraints, error)
}

// SnapshotStore persists instrument constraint snapshots so the cache can
// warm-start across restarts.
type SnapshotStore interface {
	UpsertSnapshot(c *InstrumentConstraints) error
	LoadSnapshots() ([]*InstrumentConstraints, error)
}
