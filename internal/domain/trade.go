package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	TradeStatusPending   = "PENDING"
	TradeStatusExecuted  = "EXECUTED"
	TradeStatusCancelled = "CANCELLED"
)

// Trade is a booked treasury trade. The identifier is assigned by the store
// on first persistence; the booking timestamp is assigned by the lifecycle
// service, never by the caller.
type Trade struct {
	ID             int64               `gorm:"primaryKey" json:"id"`
	Cusip          string              `gorm:"not null;index" json:"cusip"`
	Maturity       string              `gorm:"not null" json:"maturity"`
	Side           string              `gorm:"not null" json:"side"` // BUY or SELL
	Quantity       int64               `gorm:"not null" json:"quantity"`
	Price          decimal.Decimal     `gorm:"type:decimal(10,6);not null" json:"price"`
	Yield          decimal.Decimal     `gorm:"type:decimal(8,5);not null" json:"yield"`
	Counterparty   string              `gorm:"not null" json:"counterparty"`
	Trader         string              `gorm:"not null;index" json:"trader"`
	Timestamp      time.Time           `gorm:"not null;index" json:"timestamp"`
	Status         string              `gorm:"not null;index" json:"status"` // PENDING, EXECUTED, CANCELLED
	SettlementDate time.Time           `gorm:"not null" json:"settlementDate"`
	Commission     decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"commission"`
}

// CanCancel reports whether a cancel request is still permitted.
// EXECUTED and CANCELLED are terminal.
func (t *Trade) CanCancel() bool {
	return t.Status == TradeStatusPending
}

// IsTerminal reports whether no further status transition is permitted.
func (t *Trade) IsTerminal() bool {
	return t.Status == TradeStatusExecuted || t.Status == TradeStatusCancelled
}

// ValidSide reports whether s is BUY or SELL.
func ValidSide(s string) bool {
	return s == SideBuy || s == SideSell
}

// ValidTradeStatus reports whether s is a known lifecycle status.
func ValidTradeStatus(s string) bool {
	return s == TradeStatusPending || s == TradeStatusExecuted || s == TradeStatusCancelled
}
