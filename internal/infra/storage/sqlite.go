package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"treasury_go/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// bondMaturityOrder sorts quotes along the curve: 2Y, 5Y, 10Y, 30Y.
const bondMaturityOrder = "CASE maturity " +
	"WHEN '2Y' THEN 1 WHEN '5Y' THEN 2 WHEN '10Y' THEN 3 WHEN '30Y' THEN 4 " +
	"ELSE 5 END"

// Storage owns the bond and trade record families. Bonds are mutated only by
// the simulator, trades only by the lifecycle service; reads may happen
// concurrently from the request layer.
type Storage struct {
	db *gorm.DB
}

// New opens (creating if needed) the SQLite database at path and migrates
// the schema.
func New(path string) (*Storage, error) {
	dbDir := filepath.Dir(path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Bond{}, &domain.Trade{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Transaction runs fn against a transactional view of the storage.
// Any error from fn rolls the whole transaction back.
func (s *Storage) Transaction(fn func(tx *Storage) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Storage{db: tx})
	})
}

// ======================================================================================
// Bond Operations
// ======================================================================================

// SaveBond creates or updates a single quote.
func (s *Storage) SaveBond(bond *domain.Bond) error {
	return s.db.Save(bond).Error
}

// SaveBonds persists a full tick batch in one transaction, so no reader of a
// broadcast ever spans two ticks' worth of quotes.
func (s *Storage) SaveBonds(bonds []domain.Bond) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range bonds {
			if err := tx.Save(&bonds[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// BondByCusip retrieves a quote by its CUSIP.
func (s *Storage) BondByCusip(cusip string) (*domain.Bond, error) {
	var bond domain.Bond
	err := s.db.First(&bond, "cusip = ?", cusip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrBondNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bond, nil
}

// AllBonds retrieves every quote ordered along the curve.
func (s *Storage) AllBonds() ([]domain.Bond, error) {
	var bonds []domain.Bond
	err := s.db.Order(bondMaturityOrder).Find(&bonds).Error
	return bonds, err
}

// CountBonds returns the number of tracked quotes.
func (s *Storage) CountBonds() (int64, error) {
	var n int64
	err := s.db.Model(&domain.Bond{}).Count(&n).Error
	return n, err
}

// ======================================================================================
// Trade Operations
// ======================================================================================

// CreateTrade inserts a new trade and assigns its identifier.
func (s *Storage) CreateTrade(trade *domain.Trade) error {
	return s.db.Create(trade).Error
}

// SaveTrade updates an existing trade.
func (s *Storage) SaveTrade(trade *domain.Trade) error {
	return s.db.Save(trade).Error
}

// TradeByID retrieves a trade by its identifier.
func (s *Storage) TradeByID(id int64) (*domain.Trade, error) {
	var trade domain.Trade
	err := s.db.First(&trade, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTradeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// AllTrades retrieves every trade, most recently booked first.
func (s *Storage) AllTrades() ([]domain.Trade, error) {
	var trades []domain.Trade
	err := s.db.Order("timestamp DESC").Find(&trades).Error
	return trades, err
}

// TradesByStatus retrieves trades in a given status, most recent first.
func (s *Storage) TradesByStatus(status string) ([]domain.Trade, error) {
	var trades []domain.Trade
	err := s.db.Where("status = ?", status).Order("timestamp DESC").Find(&trades).Error
	return trades, err
}

// TradesByTrader retrieves trades booked by a trader.
func (s *Storage) TradesByTrader(trader string) ([]domain.Trade, error) {
	var trades []domain.Trade
	err := s.db.Where("trader = ?", trader).Order("timestamp DESC").Find(&trades).Error
	return trades, err
}

// TradesByCusip retrieves trades on an instrument.
func (s *Storage) TradesByCusip(cusip string) ([]domain.Trade, error) {
	var trades []domain.Trade
	err := s.db.Where("cusip = ?", cusip).Order("timestamp DESC").Find(&trades).Error
	return trades, err
}

// TradesByCounterparty retrieves trades against a counterparty.
func (s *Storage) TradesByCounterparty(counterparty string) ([]domain.Trade, error) {
	var trades []domain.Trade
	err := s.db.Where("counterparty = ?", counterparty).Order("timestamp DESC").Find(&trades).Error
	return trades, err
}

// CountTrades returns the number of booked trades.
func (s *Storage) CountTrades() (int64, error) {
	var n int64
	err := s.db.Model(&domain.Trade{}).Count(&n).Error
	return n, err
}
