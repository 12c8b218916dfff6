package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/domain"
)

// DefaultPath is the database location when the config gives none
const DefaultPath = "data/arbitrage.db"

// Storage persists the monitored-symbol watchlist and app settings
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance at path
func NewStorage(path string) (*Storage, error) {
	if path == "" {
		path = DefaultPath
	}

	// Ensure directory exists
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create DB directory: %w", err)
		}
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.SymbolInfo{}, &domain.AppSetting{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// ======================================================================================
// Symbol Operations
// ======================================================================================

// UpsertSymbol creates or updates a watchlist entry
func (s *Storage) UpsertSymbol(info *domain.SymbolInfo) error {
	if info.AddedAt.IsZero() {
		info.AddedAt = time.Now()
	}
	info.UpdatedAt = time.Now()
	return s.db.Save(info).Error
}

// GetSymbol retrieves a watchlist entry by symbol
func (s *Storage) GetSymbol(symbol string) (*domain.SymbolInfo, error) {
	var info domain.SymbolInfo
	err := s.db.First(&info, "symbol = ?", symbol).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	return &info, err
}

// ActiveSymbols returns the symbols included in refresh cycles, ordered by name
func (s *Storage) ActiveSymbols() ([]string, error) {
	var symbols []string
	err := s.db.Model(&domain.SymbolInfo{}).
		Where("is_active = ?", true).
		Order("symbol").
		Pluck("symbol", &symbols).Error
	return symbols, err
}

// SetActive flips a symbol in or out of the refresh cycle
func (s *Storage) SetActive(symbol string, active bool) (bool, error) {
	var info domain.SymbolInfo
	if err := s.db.First(&info, "symbol = ?", symbol).Error; err != nil {
		return false, err
	}

	info.IsActive = active
	info.UpdatedAt = time.Now()
	err := s.db.Save(&info).Error
	return info.IsActive, err
}

// SeedSymbols inserts any configured symbols missing from the watchlist as
// active entries. Existing entries keep their flags: a symbol the operator
// switched off stays off across restarts.
func (s *Storage) SeedSymbols(symbols []string) error {
	for _, symbol := range symbols {
		existing, err := s.GetSymbol(symbol)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := s.UpsertSymbol(&domain.SymbolInfo{Symbol: symbol, IsActive: true}); err != nil {
			return err
		}
	}
	return nil
}

// DeleteSymbol removes a symbol from the watchlist
func (s *Storage) DeleteSymbol(symbol string) error {
	return s.db.Where("symbol = ?", symbol).Delete(&domain.SymbolInfo{}).Error
}

// ======================================================================================
// Settings Operations
// ======================================================================================

// SaveSetting saves a key-value setting
func (s *Storage) SaveSetting(key, value string) error {
	return s.db.Save(&domain.AppSetting{Key: key, Value: value, UpdatedAt: time.Now()}).Error
}

// GetSetting retrieves a setting value; empty string when absent
func (s *Storage) GetSetting(key string) (string, error) {
	var setting domain.AppSetting
	err := s.db.First(&setting, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return setting.Value, err
}
