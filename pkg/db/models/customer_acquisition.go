package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomerAcquisition snapshots the first-touch attribution for a customer:
// the chronologically first order and its UTM triple. Rebuilt from full
// history on each analytics pass, so first-order-wins holds without a write
// guard.
type CustomerAcquisition struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	StoreID        uuid.UUID `gorm:"column:store_id;type:uuid;not null"`
	CustomerID     uuid.UUID `gorm:"column:customer_id;type:uuid;not null;uniqueIndex"`
	FirstOrderID   uuid.UUID `gorm:"column:first_order_id;type:uuid;not null"`
	FirstOrderDate time.Time `gorm:"column:first_order_date;not null"`
	UTMSource      *string   `gorm:"column:utm_source"`
	UTMMedium      *string   `gorm:"column:utm_medium"`
	UTMCampaign    *string   `gorm:"column:utm_campaign"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
