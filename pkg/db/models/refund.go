package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Refund captures a refund event against an order. Fully replaced per re-sync.
type Refund struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	WooID        int64           `gorm:"column:woo_id;not null"`
	Amount       decimal.Decimal `gorm:"column:amount;type:decimal(12,2);default:0"`
	Reason       *string         `gorm:"column:reason"`
	WooCreatedAt time.Time       `gorm:"column:woo_created_at;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
