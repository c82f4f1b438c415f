package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product mirrors a WooCommerce catalog item.
type Product struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	StoreID   uuid.UUID       `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_products_store_woo,priority:1"`
	WooID     int64           `gorm:"column:woo_id;not null;uniqueIndex:idx_products_store_woo,priority:2"`
	Name      string          `gorm:"column:name;not null"`
	SKU       *string         `gorm:"column:sku"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(12,2);default:0"`
	Status    string          `gorm:"column:status;not null;default:'publish'"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
