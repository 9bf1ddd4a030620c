package service

import (
	"fmt"
	"log/slog"
	"time"

	"treasury_go/internal/domain"
	"treasury_go/internal/infra"
	"treasury_go/internal/infra/storage"
)

// TradeService runs the trade lifecycle state machine:
// booking → execution → optional cancellation. EXECUTED and CANCELLED are
// terminal. Every state transition that is persisted is also broadcast once
// on the trades topic.
type TradeService struct {
	store   *storage.Storage
	pub     domain.Publisher
	metrics *infra.Metrics
	now     func() time.Time
}

// NewTradeService creates a TradeService.
func NewTradeService(store *storage.Storage, pub domain.Publisher, metrics *infra.Metrics) *TradeService {
	return &TradeService{
		store:   store,
		pub:     pub,
		metrics: metrics,
		now:     time.Now,
	}
}

// Book validates and persists a new trade. The trade is written as PENDING
// and immediately advanced to EXECUTED inside one transaction, so callers
// never observe a partial trade; only the terminal state is broadcast.
//
// There is no real matching here: instant execution stands in for a matching
// step that a production desk would run between the two writes.
func (s *TradeService) Book(trade *domain.Trade) (*domain.Trade, error) {
	if err := validateTrade(trade); err != nil {
		return nil, err
	}

	// Identifier and booking timestamp are system-assigned.
	trade.ID = 0
	trade.Timestamp = s.now()
	if trade.Status == "" {
		trade.Status = domain.TradeStatusPending
	}

	err := s.store.Transaction(func(tx *storage.Storage) error {
		if err := tx.CreateTrade(trade); err != nil {
			return fmt.Errorf("persist pending trade: %w", err)
		}
		trade.Status = domain.TradeStatusExecuted
		if err := tx.SaveTrade(trade); err != nil {
			return fmt.Errorf("persist executed trade: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(trade)
	s.metrics.RecordTradeBooked()
	slog.Info("trade booked",
		slog.Int64("id", trade.ID),
		slog.String("cusip", trade.Cusip),
		slog.String("side", trade.Side),
		slog.Int64("quantity", trade.Quantity),
	)
	return trade, nil
}

// Cancel transitions a PENDING trade to CANCELLED. A missing trade yields
// domain.ErrTradeNotFound; a trade in a terminal status yields
// domain.ErrTradeNotCancellable with no mutation and no broadcast.
func (s *TradeService) Cancel(id int64) (*domain.Trade, error) {
	trade, err := s.store.TradeByID(id)
	if err != nil {
		return nil, err
	}
	if !trade.CanCancel() {
		return nil, fmt.Errorf("trade %d is %s: %w", id, trade.Status, domain.ErrTradeNotCancellable)
	}

	trade.Status = domain.TradeStatusCancelled
	if err := s.store.SaveTrade(trade); err != nil {
		return nil, fmt.Errorf("persist cancelled trade: %w", err)
	}

	s.broadcast(trade)
	s.metrics.RecordTradeCancelled()
	slog.Info("trade cancelled", slog.Int64("id", trade.ID))
	return trade, nil
}

// All returns every trade, most recently booked first.
func (s *TradeService) All() ([]domain.Trade, error) {
	return s.store.AllTrades()
}

// ByID returns one trade or domain.ErrTradeNotFound.
func (s *TradeService) ByID(id int64) (*domain.Trade, error) {
	return s.store.TradeByID(id)
}

// ByStatus returns trades in a given lifecycle status, most recent first.
func (s *TradeService) ByStatus(status string) ([]domain.Trade, error) {
	if !domain.ValidTradeStatus(status) {
		return nil, &domain.ValidationError{Field: "status", Msg: "must be PENDING, EXECUTED or CANCELLED"}
	}
	return s.store.TradesByStatus(status)
}

// ByTrader returns trades booked by a trader.
func (s *TradeService) ByTrader(trader string) ([]domain.Trade, error) {
	return s.store.TradesByTrader(trader)
}

// ByCusip returns trades on an instrument.
func (s *TradeService) ByCusip(cusip string) ([]domain.Trade, error) {
	return s.store.TradesByCusip(cusip)
}

// broadcast publishes a lifecycle transition. Failures are non-fatal: the
// mutation already happened, subscribers just miss one update.
func (s *TradeService) broadcast(trade *domain.Trade) {
	if err := s.pub.Publish(domain.TopicTrades, trade); err != nil {
		s.metrics.RecordBroadcastError()
		slog.Warn("trade broadcast failed", slog.Int64("id", trade.ID), slog.Any("error", err))
	}
}

func validateTrade(t *domain.Trade) error {
	if t == nil {
		return &domain.ValidationError{Field: "trade", Msg: "body is required"}
	}
	if t.Cusip == "" {
		return &domain.ValidationError{Field: "cusip", Msg: "is required"}
	}
	if !domain.ValidMaturity(t.Maturity) {
		return &domain.ValidationError{Field: "maturity", Msg: "must be 2Y, 5Y, 10Y or 30Y"}
	}
	if !domain.ValidSide(t.Side) {
		return &domain.ValidationError{Field: "side", Msg: "must be BUY or SELL"}
	}
	if t.Quantity <= 0 {
		return &domain.ValidationError{Field: "quantity", Msg: "must be a positive integer"}
	}
	if !t.Price.IsPositive() {
		return &domain.ValidationError{Field: "price", Msg: "must be positive"}
	}
	if !t.Yield.IsPositive() {
		return &domain.ValidationError{Field: "yield", Msg: "must be positive"}
	}
	if t.Counterparty == "" {
		return &domain.ValidationError{Field: "counterparty", Msg: "is required"}
	}
	if t.Trader == "" {
		return &domain.ValidationError{Field: "trader", Msg: "is required"}
	}
	if t.SettlementDate.IsZero() {
		return &domain.ValidationError{Field: "settlementDate", Msg: "is required"}
	}
	if t.Status != "" && !domain.ValidTradeStatus(t.Status) {
		return &domain.ValidationError{Field: "status", Msg: "must be PENDING, EXECUTED or CANCELLED"}
	}
	return nil
}
