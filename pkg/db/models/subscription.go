package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Subscription mirrors a WooCommerce Subscriptions recurring order.
type Subscription struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	StoreID         uuid.UUID       `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_subscriptions_store_woo,priority:1"`
	WooID           int64           `gorm:"column:woo_id;not null;uniqueIndex:idx_subscriptions_store_woo,priority:2"`
	CustomerID      *uuid.UUID      `gorm:"column:customer_id;type:uuid;index"`
	ProductID       *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	Status          string          `gorm:"column:status;not null"`
	Total           decimal.Decimal `gorm:"column:total;type:decimal(12,2);default:0"`
	BillingPeriod   string          `gorm:"column:billing_period;not null;default:'month'"`
	BillingInterval int             `gorm:"column:billing_interval;not null;default:1"`
	NextPaymentAt   *time.Time      `gorm:"column:next_payment_at"`
	WooCreatedAt    *time.Time      `gorm:"column:woo_created_at"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
