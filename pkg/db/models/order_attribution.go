package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderAttribution holds the UTM metadata observed on an order. One row per
// order, upserted in place rather than replaced.
type OrderAttribution struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	UTMSource   *string   `gorm:"column:utm_source"`
	UTMMedium   *string   `gorm:"column:utm_medium"`
	UTMCampaign *string   `gorm:"column:utm_campaign"`
	UTMTerm     *string   `gorm:"column:utm_term"`
	UTMContent  *string   `gorm:"column:utm_content"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
