package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order mirrors a WooCommerce order. Money fields are an authoritative
// snapshot from the remote record; they are never recomputed from line items
// outside the reconciliation pass.
type Order struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	StoreID       uuid.UUID       `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_orders_store_woo,priority:1"`
	WooID         int64           `gorm:"column:woo_id;not null;uniqueIndex:idx_orders_store_woo,priority:2"`
	CustomerID    *uuid.UUID      `gorm:"column:customer_id;type:uuid;index"`
	Status        string          `gorm:"column:status;not null"`
	Currency      string          `gorm:"column:currency;not null;default:'USD'"`
	Total         decimal.Decimal `gorm:"column:total;type:decimal(12,2);default:0"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:decimal(12,2);default:0"`
	DiscountTotal decimal.Decimal `gorm:"column:discount_total;type:decimal(12,2);default:0"`
	ShippingTotal decimal.Decimal `gorm:"column:shipping_total;type:decimal(12,2);default:0"`
	TaxTotal      decimal.Decimal `gorm:"column:tax_total;type:decimal(12,2);default:0"`
	PaymentMethod *string         `gorm:"column:payment_method"`
	WooCreatedAt  time.Time       `gorm:"column:woo_created_at;not null;index"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Coupons       []OrderCoupon   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Refunds       []Refund        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
