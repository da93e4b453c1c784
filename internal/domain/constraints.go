package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstrumentConstraints holds the size rules for one instrument as reported
// by the exchange. Owned exclusively by the metadata cache; a refresh
// replaces the whole record, never a single field.
type InstrumentConstraints struct {
	InstID    string
	LotSize   decimal.Decimal // smallest tradable increment
	MinSize   decimal.Decimal // smallest absolute order size
	FetchedAt time.Time
}

// FreshAt reports whether the record is still within its TTL at the given
// instant.
func (c *InstrumentConstraints) FreshAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.FetchedAt) < ttl
}
