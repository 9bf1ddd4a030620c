package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"treasury_go/internal/domain"
	"treasury_go/internal/infra"

	"github.com/shopspring/decimal"
)

// Simulation model constants. Price moves ±0.05% per tick, yields ±0.02%,
// around a fixed 1/8th-point spread. These are part of the observable
// contract: consumers assert 4dp prices and 6dp yields.
const (
	priceVolatility = 0.0005
	yieldVolatility = 0.0002

	priceScale = 4
	yieldScale = 6

	minVolumeIncrement  = 100
	volumeIncrementSpan = 1000
)

var (
	spread = decimal.RequireFromString("0.0125")
	two    = decimal.NewFromInt(2)
)

// Store is the quote persistence the simulator reads from and writes to.
type Store interface {
	AllBonds() ([]domain.Bond, error)
	SaveBonds(bonds []domain.Bond) error
}

// Simulator advances every tracked quote by one simulated market tick on a
// fixed cadence and publishes the full updated list once per tick.
type Simulator struct {
	store    Store
	pub      domain.Publisher
	metrics  *infra.Metrics
	interval time.Duration

	rng *rand.Rand
	now func() time.Time

	// tickMu enforces single-flight ticks: an invocation that arrives while
	// the previous one is still running is skipped, never queued.
	tickMu sync.Mutex

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option customizes a Simulator. Used by tests to pin randomness and time.
type Option func(*Simulator)

// WithRand replaces the random source. The simulator is the only reader of
// the source, so an unshared seeded source makes ticks reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) { s.rng = rng }
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// New creates a simulator. A zero seed draws a fresh random source.
func New(store Store, pub domain.Publisher, metrics *infra.Metrics, interval time.Duration, seed int64, opts ...Option) *Simulator {
	s := &Simulator{
		store:    store,
		pub:      pub,
		metrics:  metrics,
		interval: interval,
		now:      time.Now,
	}
	if seed != 0 {
		s.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	} else {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the periodic tick loop.
func (s *Simulator) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop cancels the tick loop and waits for an in-flight tick to finish.
func (s *Simulator) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Simulator) run(ctx context.Context) {
	defer s.wg.Done()

	slog.Info("market simulator started", slog.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("market simulator stopped")
			return
		case <-ticker.C:
			if err := s.Tick(); err != nil {
				// A failed tick never re-raises into the scheduler and never
				// retries; the next tick proceeds from the persisted quotes.
				s.metrics.RecordTickError()
				slog.Error("tick failed", slog.Any("error", err))
			}
		}
	}
}

// Tick advances every quote by one simulated market step, persists the whole
// batch, then publishes the full list to the market-data topic exactly once.
func (s *Simulator) Tick() error {
	if !s.tickMu.TryLock() {
		s.metrics.RecordTickSkipped()
		slog.Warn("tick skipped: previous tick still running")
		return nil
	}
	defer s.tickMu.Unlock()

	bonds, err := s.store.AllBonds()
	if err != nil {
		return fmt.Errorf("load quotes: %w", err)
	}

	for i := range bonds {
		s.advance(&bonds[i])
	}

	if err := s.store.SaveBonds(bonds); err != nil {
		return fmt.Errorf("persist quotes: %w", err)
	}

	if err := s.pub.Publish(domain.TopicMarketData, bonds); err != nil {
		// Quote mutation already succeeded; a notification failure is
		// non-fatal to the tick.
		s.metrics.RecordBroadcastError()
		slog.Warn("market-data broadcast failed", slog.Any("error", err))
	}

	s.metrics.RecordTick()
	return nil
}

// advance mutates one quote in place: independent small gaussian moves on
// price and yield, re-derived bid/ask around the fixed spread, a bounded
// volume increment, and a fresh update timestamp.
func (s *Simulator) advance(b *domain.Bond) {
	oldPrice := b.Price
	oldYield := b.Yield

	priceFactor := decimal.NewFromFloat(1 + s.rng.NormFloat64()*priceVolatility)
	yieldFactor := decimal.NewFromFloat(1 + s.rng.NormFloat64()*yieldVolatility)

	newPrice := oldPrice.Mul(priceFactor).Round(priceScale)
	newYield := oldYield.Mul(yieldFactor).Round(yieldScale)

	// Changes are exact differences of the rounded values, not independently
	// rounded.
	b.PriceChange = newPrice.Sub(oldPrice)
	b.YieldChange = newYield.Sub(oldYield)

	halfSpread := spread.DivRound(two, priceScale)
	b.BidPrice = newPrice.Sub(halfSpread)
	b.AskPrice = newPrice.Add(halfSpread)

	b.Price = newPrice
	b.Yield = newYield
	b.Volume += int64(s.rng.IntN(volumeIncrementSpan)) + minVolumeIncrement
	b.LastUpdated = s.now()
}
