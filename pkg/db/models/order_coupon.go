package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderCoupon records a coupon applied to an order. Fully replaced per re-sync.
type OrderCoupon struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID         uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	CouponID        *uuid.UUID      `gorm:"column:coupon_id;type:uuid"`
	Code            string          `gorm:"column:code;not null"`
	DiscountApplied decimal.Decimal `gorm:"column:discount_applied;type:decimal(12,2);default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}
