package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Maturity buckets for the tracked on-the-run issues.
const (
	Maturity2Y  = "2Y"
	Maturity5Y  = "5Y"
	Maturity10Y = "10Y"
	Maturity30Y = "30Y"
)

// Bond is the live quote for a single treasury issue. Field names on the wire
// are fixed: the dashboard frontend and any other broadcast consumer bind to
// them directly.
type Bond struct {
	ID          uint64          `gorm:"primaryKey" json:"id"`
	Cusip       string          `gorm:"uniqueIndex;not null" json:"cusip"`
	Maturity    string          `gorm:"not null;index" json:"maturity"` // 2Y, 5Y, 10Y, 30Y
	Yield       decimal.Decimal `gorm:"type:decimal(10,6);not null" json:"yield"`
	Price       decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"price"`
	Coupon      decimal.Decimal `gorm:"type:decimal(10,6);not null" json:"coupon"`
	PriceChange decimal.Decimal `gorm:"type:decimal(10,4)" json:"priceChange"`
	YieldChange decimal.Decimal `gorm:"type:decimal(10,6)" json:"yieldChange"`
	BidPrice    decimal.Decimal `gorm:"type:decimal(10,4)" json:"bidPrice"`
	AskPrice    decimal.Decimal `gorm:"type:decimal(10,4)" json:"askPrice"`
	LastUpdated time.Time       `json:"lastUpdated"`
	Volume      int64           `json:"volume"`
}

// NewBond creates a quote in its initial state: no tick has happened yet,
// so both change fields are zero and no volume has traded.
func NewBond(cusip, maturity string, yield, price, coupon, bid, ask decimal.Decimal) *Bond {
	return &Bond{
		Cusip:       cusip,
		Maturity:    maturity,
		Yield:       yield,
		Price:       price,
		Coupon:      coupon,
		BidPrice:    bid,
		AskPrice:    ask,
		PriceChange: decimal.Zero,
		YieldChange: decimal.Zero,
		LastUpdated: time.Now(),
		Volume:      0,
	}
}

// MaturityRank orders buckets along the curve. Unknown buckets sort last.
func MaturityRank(maturity string) int {
	switch maturity {
	case Maturity2Y:
		return 1
	case Maturity5Y:
		return 2
	case Maturity10Y:
		return 3
	case Maturity30Y:
		return 4
	default:
		return 5
	}
}

// ValidMaturity reports whether the bucket is one of the tracked tenors.
func ValidMaturity(maturity string) bool {
	return MaturityRank(maturity) < 5
}
