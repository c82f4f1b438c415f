package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerScore is the RFM state for one customer, fully overwritten on each
// analytics pass.
type CustomerScore struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	StoreID     uuid.UUID       `gorm:"column:store_id;type:uuid;not null"`
	CustomerID  uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;uniqueIndex"`
	RecencyDays int             `gorm:"column:recency_days;not null"`
	Frequency   int             `gorm:"column:frequency;not null"`
	Monetary    decimal.Decimal `gorm:"column:monetary;type:decimal(14,2);default:0"`
	RFMScore    int             `gorm:"column:rfm_score;not null"`
	Segment     string          `gorm:"column:segment;not null"`
	LastOrderAt *time.Time      `gorm:"column:last_order_at"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
