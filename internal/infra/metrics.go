package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	started time.Time

	// Counters
	ticksTotal      atomic.Uint64
	ticksSkipped    atomic.Uint64
	tickErrors      atomic.Uint64
	tradesBooked    atomic.Uint64
	tradesCancelled atomic.Uint64
	broadcastsSent  atomic.Uint64
	broadcastErrors atomic.Uint64

	// Gauges
	subscribers atomic.Int32
}

// NewMetrics creates a metrics collector anchored at the current time.
func NewMetrics() *Metrics {
	return &Metrics{started: time.Now()}
}

// RecordTick records one completed simulation tick.
func (m *Metrics) RecordTick() {
	m.ticksTotal.Add(1)
}

// RecordTickSkipped records a tick dropped because the previous one was
// still running.
func (m *Metrics) RecordTickSkipped() {
	m.ticksSkipped.Add(1)
}

// RecordTickError records a failed tick.
func (m *Metrics) RecordTickError() {
	m.tickErrors.Add(1)
}

// RecordTradeBooked records a successfully booked trade.
func (m *Metrics) RecordTradeBooked() {
	m.tradesBooked.Add(1)
}

// RecordTradeCancelled records a successful cancellation.
func (m *Metrics) RecordTradeCancelled() {
	m.tradesCancelled.Add(1)
}

// RecordBroadcast records one topic publish.
func (m *Metrics) RecordBroadcast() {
	m.broadcastsSent.Add(1)
}

// RecordBroadcastError records a failed publish.
func (m *Metrics) RecordBroadcastError() {
	m.broadcastErrors.Add(1)
}

// AddSubscriber increments the active subscriber gauge.
func (m *Metrics) AddSubscriber() {
	m.subscribers.Add(1)
}

// RemoveSubscriber decrements the active subscriber gauge.
func (m *Metrics) RemoveSubscriber() {
	m.subscribers.Add(-1)
}

// Snapshot is a point-in-time copy of all metrics, served by the status
// endpoint.
type Snapshot struct {
	UptimeSec       int64  `json:"uptimeSec"`
	TicksTotal      uint64 `json:"ticksTotal"`
	TicksSkipped    uint64 `json:"ticksSkipped"`
	TickErrors      uint64 `json:"tickErrors"`
	TradesBooked    uint64 `json:"tradesBooked"`
	TradesCancelled uint64 `json:"tradesCancelled"`
	BroadcastsSent  uint64 `json:"broadcastsSent"`
	BroadcastErrors uint64 `json:"broadcastErrors"`
	Subscribers     int32  `json:"subscribers"`
}

// GetSnapshot returns a consistent-enough view of the counters.
func (m *Metrics) GetSnapshot() Snapshot {
	return Snapshot{
		UptimeSec:       int64(time.Since(m.started).Seconds()),
		TicksTotal:      m.ticksTotal.Load(),
		TicksSkipped:    m.ticksSkipped.Load(),
		TickErrors:      m.tickErrors.Load(),
		TradesBooked:    m.tradesBooked.Load(),
		TradesCancelled: m.tradesCancelled.Load(),
		BroadcastsSent:  m.broadcastsSent.Load(),
		BroadcastErrors: m.broadcastErrors.Load(),
		Subscribers:     m.subscribers.Load(),
	}
}
