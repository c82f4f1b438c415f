package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coupon is the discount-code master row, keyed by (store_id, code). Codes
// referenced only through orders still get a durable row here.
type Coupon struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	StoreID      uuid.UUID       `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_coupons_store_code,priority:1"`
	WooID        *int64          `gorm:"column:woo_id"`
	Code         string          `gorm:"column:code;not null;uniqueIndex:idx_coupons_store_code,priority:2"`
	DiscountType string          `gorm:"column:discount_type;not null;default:'fixed_cart'"`
	Amount       decimal.Decimal `gorm:"column:amount;type:decimal(12,2);default:0"`
	UsageCount   int             `gorm:"column:usage_count;not null;default:0"`
	UsageLimit   *int            `gorm:"column:usage_limit"`
	ExpiresAt    *time.Time      `gorm:"column:expires_at"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
