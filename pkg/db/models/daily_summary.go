package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailySummary is one calendar day of commerce activity, derived from the
// mirror over a trailing window. Grain: (store_id, date). Derived data; can be
// rebuilt from orders and refunds at any time.
type DailySummary struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	StoreID         uuid.UUID       `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_daily_summaries_store_date,priority:1"`
	Date            time.Time       `gorm:"column:date;type:date;not null;uniqueIndex:idx_daily_summaries_store_date,priority:2"`
	OrdersCount     int             `gorm:"column:orders_count;not null;default:0"`
	Revenue         decimal.Decimal `gorm:"column:revenue;type:decimal(14,2);default:0"`
	Units           int             `gorm:"column:units;not null;default:0"`
	UniqueCustomers int             `gorm:"column:unique_customers;not null;default:0"`
	AOV             decimal.Decimal `gorm:"column:aov;type:decimal(14,2);default:0"`
	RefundsAmount   decimal.Decimal `gorm:"column:refunds_amount;type:decimal(14,2);default:0"`
	NetRevenue      decimal.Decimal `gorm:"column:net_revenue;type:decimal(14,2);default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
