package infra

import (
	"sync"
	"testing"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordTick()
	m.RecordTick()
	m.RecordTickSkipped()
	m.RecordTickError()
	m.RecordTradeBooked()
	m.RecordTradeCancelled()
	m.RecordBroadcast()
	m.RecordBroadcastError()
	m.AddSubscriber()
	m.AddSubscriber()
	m.RemoveSubscriber()

	snap := m.GetSnapshot()
	if snap.TicksTotal != 2 {
		t.Errorf("TicksTotal = %d, want 2", snap.TicksTotal)
	}
	if snap.TicksSkipped != 1 {
		t.Errorf("TicksSkipped = %d, want 1", snap.TicksSkipped)
	}
	if snap.TickErrors != 1 {
		t.Errorf("TickErrors = %d, want 1", snap.TickErrors)
	}
	if snap.TradesBooked != 1 || snap.TradesCancelled != 1 {
		t.Errorf("trade counters = %d/%d, want 1/1", snap.TradesBooked, snap.TradesCancelled)
	}
	if snap.BroadcastsSent != 1 || snap.BroadcastErrors != 1 {
		t.Errorf("broadcast counters = %d/%d, want 1/1", snap.BroadcastsSent, snap.BroadcastErrors)
	}
	if snap.Subscribers != 1 {
		t.Errorf("Subscribers = %d, want 1", snap.Subscribers)
	}
}

func TestMetricsConcurrent(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordTick()
				m.RecordBroadcast()
			}
		}()
	}
	wg.Wait()

	snap := m.GetSnapshot()
	if snap.TicksTotal != 1000 {
		t.Errorf("TicksTotal = %d, want 1000", snap.TicksTotal)
	}
	if snap.BroadcastsSent != 1000 {
		t.Errorf("BroadcastsSent = %d, want 1000", snap.BroadcastsSent)
	}
}
