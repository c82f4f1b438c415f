package models

import (
	"time"

	"github.com/google/uuid"
)

// CohortMonthly is one retention cell. CohortMonth is the "2006-01" month of
// the cohort's first orders; PeriodMonth is the calendar-month offset from it,
// with offset 0 being the cohort's own first month.
type CohortMonthly struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	StoreID           uuid.UUID `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_cohorts_cell,priority:1"`
	CohortMonth       string    `gorm:"column:cohort_month;size:7;not null;uniqueIndex:idx_cohorts_cell,priority:2"`
	PeriodMonth       int       `gorm:"column:period_month;not null;uniqueIndex:idx_cohorts_cell,priority:3"`
	CustomersInCohort int       `gorm:"column:customers_in_cohort;not null"`
	ActiveCustomers   int       `gorm:"column:active_customers;not null"`
	RetentionRate     float64   `gorm:"column:retention_rate;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
