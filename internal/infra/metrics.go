package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	signalsReceived     atomic.Uint64
	signalsUnauthorized atomic.Uint64
	signalsInvalid      atomic.Uint64
	entriesPlaced       atomic.Uint64
	entriesRejected     atomic.Uint64
	exitsPlaced         atomic.Uint64
	exitsFailed         atomic.Uint64
	metadataRefreshes   atomic.Uint64
	errorsTotal         atomic.Uint64
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordSignal records one inbound signal.
func (m *Metrics) RecordSignal() {
	m.signalsReceived.Add(1)
}

// RecordUnauthorized records a signal rejected at the auth step.
func (m *Metrics) RecordUnauthorized() {
	m.signalsUnauthorized.Add(1)
}

// RecordInvalidSignal records a signal rejected at the validation step.
func (m *Metrics) RecordInvalidSignal() {
	m.signalsInvalid.Add(1)
}

// RecordEntryPlaced records a successful entry order.
func (m *Metrics) RecordEntryPlaced() {
	m.entriesPlaced.Add(1)
}

// RecordEntryRejected records an entry refused or lost before the exchange
// accepted it.
func (m *Metrics) RecordEntryRejected() {
	m.entriesRejected.Add(1)
}

// RecordExitPlaced records a successful protective exit order.
func (m *Metrics) RecordExitPlaced() {
	m.exitsPlaced.Add(1)
}

// RecordExitFailed records a protective exit attempt that did not stick.
func (m *Metrics) RecordExitFailed() {
	m.exitsFailed.Add(1)
}

// RecordMetadataRefresh records one upstream instrument lookup.
func (m *Metrics) RecordMetadataRefresh() {
	m.metadataRefreshes.Add(1)
}

// RecordError records an error occurrence.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	SignalsReceived     uint64    `json:"signals_received"`
	SignalsUnauthorized uint64    `json:"signals_unauthorized"`
	SignalsInvalid      uint64    `json:"signals_invalid"`
	EntriesPlaced       uint64    `json:"entries_placed"`
	EntriesRejected     uint64    `json:"entries_rejected"`
	ExitsPlaced         uint64    `json:"exits_placed"`
	ExitsFailed         uint64    `json:"exits_failed"`
	MetadataRefreshes   uint64    `json:"metadata_refreshes"`
	ErrorsTotal         uint64    `json:"errors_total"`
	Timestamp           time.Time `json:"timestamp"`
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		SignalsReceived:     m.signalsReceived.Load(),
		SignalsUnauthorized: m.signalsUnauthorized.Load(),
		SignalsInvalid:      m.signalsInvalid.Load(),
		EntriesPlaced:       m.entriesPlaced.Load(),
		EntriesRejected:     m.entriesRejected.Load(),
		ExitsPlaced:         m.exitsPlaced.Load(),
		ExitsFailed:         m.exitsFailed.Load(),
		MetadataRefreshes:   m.metadataRefreshes.Load(),
		ErrorsTotal:         m.errorsTotal.Load(),
		Timestamp:           time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.signalsReceived.Store(0)
	m.signalsUnauthorized.Store(0)
	m.signalsInvalid.Store(0)
	m.entriesPlaced.Store(0)
	m.entriesRejected.Store(0)
	m.exitsPlaced.Store(0)
	m.exitsFailed.Store(0)
	m.metadataRefreshes.Store(0)
	m.errorsTotal.Store(0)
}
