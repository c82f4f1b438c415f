package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreAuthMode selects how credentials are presented to the WooCommerce API.
type StoreAuthMode string

const (
	StoreAuthModeQuery StoreAuthMode = "query"
	StoreAuthModeBasic StoreAuthMode = "basic"
)

// Store is the tenant row; one store drives one sync run.
type Store struct {
	ID             uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	Name           string        `gorm:"column:name;not null"`
	BaseURL        string        `gorm:"column:base_url;not null"`
	ConsumerKey    string        `gorm:"column:consumer_key;not null"`
	ConsumerSecret string        `gorm:"column:consumer_secret;not null"`
	AuthMode       StoreAuthMode `gorm:"column:auth_mode;not null;default:'query'"`
	IsActive       bool          `gorm:"column:is_active;not null;default:true"`
	LastSyncedAt   *time.Time    `gorm:"column:last_synced_at"`
	CreatedAt      time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
