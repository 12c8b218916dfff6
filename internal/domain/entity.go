package domain

import (
	"time"
)

// SymbolInfo represents a monitored symbol in the persisted watchlist
type SymbolInfo struct {
	Symbol    string    `gorm:"primaryKey" json:"symbol"`
	IsActive  bool      `gorm:"index" json:"is_active"` // Included in refresh cycles
	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppSetting represents user-specific configuration (Key-Value)
type AppSetting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
