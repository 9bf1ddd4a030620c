package service

import (
	"fmt"
	"log/slog"

	"treasury_go/internal/domain"
	"treasury_go/internal/infra/storage"

	"github.com/shopspring/decimal"
)

// seedBond is one row of the fixed starting instrument set.
type seedBond struct {
	cusip    string
	maturity string
	yield    string
	price    string
	coupon   string
	bid      string
	ask      string
}

// The on-the-run issues the desk tracks. CUSIPs, coupons and starting levels
// are part of the observable contract and must not drift.
var seedBonds = []seedBond{
	{"912828YK5", domain.Maturity2Y, "4.875", "99.8125", "4.875", "99.8000", "99.8250"},
	{"912828YM1", domain.Maturity5Y, "4.625", "98.7500", "4.625", "98.7375", "98.7625"},
	{"912828YN9", domain.Maturity10Y, "4.450", "97.2500", "4.450", "97.2375", "97.2625"},
	{"912810TM0", domain.Maturity30Y, "4.625", "95.1250", "4.625", "95.1125", "95.1375"},
}

// BondService serves quote reads and owns seed initialization.
type BondService struct {
	store *storage.Storage
}

// NewBondService creates a BondService backed by the given storage.
func NewBondService(store *storage.Storage) *BondService {
	return &BondService{store: store}
}

// All returns every tracked quote ordered along the curve.
func (s *BondService) All() ([]domain.Bond, error) {
	return s.store.AllBonds()
}

// ByCusip returns a single quote or domain.ErrBondNotFound.
func (s *BondService) ByCusip(cusip string) (*domain.Bond, error) {
	return s.store.BondByCusip(cusip)
}

// Initialize seeds the quote store with the fixed starting set. It is a
// no-op when any quotes already exist, so it is safe to call on every start
// and from the initialize endpoint.
func (s *BondService) Initialize() error {
	n, err := s.store.CountBonds()
	if err != nil {
		return fmt.Errorf("count quotes: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, sb := range seedBonds {
		bond := domain.NewBond(
			sb.cusip,
			sb.maturity,
			decimal.RequireFromString(sb.yield),
			decimal.RequireFromString(sb.price),
			decimal.RequireFromString(sb.coupon),
			decimal.RequireFromString(sb.bid),
			decimal.RequireFromString(sb.ask),
		)
		if err := s.store.SaveBond(bond); err != nil {
			return fmt.Errorf("seed %s: %w", sb.cusip, err)
		}
	}

	slog.Info("seeded treasury quotes", slog.Int("count", len(seedBonds)))
	return nil
}
