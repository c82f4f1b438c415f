package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer mirrors a buyer identity. WooID is nil for guest checkouts; guests
// are keyed by a synthesized unique email until a remote account appears.
type Customer struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	StoreID      uuid.UUID  `gorm:"column:store_id;type:uuid;not null;index:idx_customers_store_woo,priority:1;uniqueIndex:idx_customers_store_email,priority:1"`
	WooID        *int64     `gorm:"column:woo_id;index:idx_customers_store_woo,priority:2"`
	Email        string     `gorm:"column:email;not null;uniqueIndex:idx_customers_store_email,priority:2"`
	FirstName    *string    `gorm:"column:first_name"`
	LastName     *string    `gorm:"column:last_name"`
	Phone        *string    `gorm:"column:phone"`
	LastActiveAt *time.Time `gorm:"column:last_active_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
