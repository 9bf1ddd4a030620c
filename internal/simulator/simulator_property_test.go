package simulator

import (
	"testing"
	"time"

	"treasury_go/internal/domain"
	"treasury_go/internal/infra"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

// Tick invariants must hold for any positive starting quote set, not just
// the fixed seed instruments.
func TestTick_InvariantsForArbitraryQuotes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "quotes")
		maturities := []string{domain.Maturity2Y, domain.Maturity5Y, domain.Maturity10Y, domain.Maturity30Y}

		bonds := make([]domain.Bond, n)
		for i := range bonds {
			price := rapid.Float64Range(50, 150).Draw(rt, "price")
			yield := rapid.Float64Range(0.5, 10).Draw(rt, "yield")
			volume := rapid.Int64Range(0, 1_000_000).Draw(rt, "volume")

			b := domain.NewBond(
				rapid.StringMatching(`[0-9A-Z]{9}`).Draw(rt, "cusip"),
				maturities[i%len(maturities)],
				decimal.NewFromFloat(yield).Round(6),
				decimal.NewFromFloat(price).Round(4),
				decimal.NewFromFloat(yield).Round(6),
				decimal.NewFromFloat(price).Round(4),
				decimal.NewFromFloat(price).Round(4),
			)
			b.Volume = volume
			bonds[i] = *b
		}

		store := &fakeStore{bonds: bonds}
		pub := &fakePublisher{}
		seed := rapid.Int64Range(1, 1<<40).Draw(rt, "seed")
		sim := New(store, pub, infra.NewMetrics(), time.Second, seed, WithClock(time.Now))

		before := make([]domain.Bond, len(bonds))
		copy(before, bonds)

		if err := sim.Tick(); err != nil {
			rt.Fatalf("Tick failed: %v", err)
		}

		after, _ := store.AllBonds()
		for i, b := range after {
			if !b.Price.Round(4).Equal(b.Price) || !b.Yield.Round(6).Equal(b.Yield) {
				rt.Fatalf("%s: rounding scales violated: %v / %v", b.Cusip, b.Price, b.Yield)
			}
			if !b.BidPrice.LessThan(b.AskPrice) {
				rt.Fatalf("%s: bid %v >= ask %v", b.Cusip, b.BidPrice, b.AskPrice)
			}
			delta := b.Volume - before[i].Volume
			if delta < 100 || delta > 1099 {
				rt.Fatalf("%s: volume delta %d outside [100,1099]", b.Cusip, delta)
			}
		}

		if pub.count() != 1 {
			rt.Fatalf("expected exactly one publish, got %d", pub.count())
		}
	})
}
