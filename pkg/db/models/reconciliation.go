package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reconciliation statuses.
const (
	ReconciliationStatusOK       = "ok"
	ReconciliationStatusMismatch = "mismatch"
)

// Reconciliation is a per-day drift check between aggregates observed from
// the remote API during sync and the same aggregates recomputed from the
// mirror. Status is ok only when revenue drift is under tolerance and order
// counts agree; either kind of drift marks the day mismatch. A mismatch is an
// observation for operators, not an error.
type Reconciliation struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	StoreID     uuid.UUID       `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_reconciliations_store_date,priority:1"`
	Date        time.Time       `gorm:"column:date;type:date;not null;uniqueIndex:idx_reconciliations_store_date,priority:2"`
	WooOrders   int             `gorm:"column:woo_orders;not null"`
	WooRevenue  decimal.Decimal `gorm:"column:woo_revenue;type:decimal(14,2);default:0"`
	DBOrders    int             `gorm:"column:db_orders;not null"`
	DBRevenue   decimal.Decimal `gorm:"column:db_revenue;type:decimal(14,2);default:0"`
	DiffRevenue decimal.Decimal `gorm:"column:diff_revenue;type:decimal(14,2);default:0"`
	Status      string          `gorm:"column:status;not null"`
	Note        *string         `gorm:"column:note"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
