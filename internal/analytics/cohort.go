package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shopmetrics/shopmetrics-backend/pkg/db/models"
	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
)

// runCohorts rebuilds the monthly retention grid. A customer's cohort is the
// calendar month of their first-ever order; each later order marks them
// active in the cell at the calendar-month offset from that cohort.
func (s *Service) runCohorts(ctx context.Context, storeID uuid.UUID) types.Summary {
	summary := types.Summary{Entity: "cohorts"}

	orders, err := s.repo.ListAllOrders(ctx, storeID)
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("list orders: %v", err))
		return summary
	}

	// Orders arrive sorted ascending, so the first sighting of a customer is
	// their cohort month.
	cohortOf := make(map[uuid.UUID]time.Time)
	cohortSize := make(map[string]int)
	active := make(map[string]map[int]map[uuid.UUID]struct{})

	for _, order := range orders {
		if order.CustomerID == nil {
			continue
		}
		customerID := *order.CustomerID
		cohort, ok := cohortOf[customerID]
		if !ok {
			cohort = monthOf(order.WooCreatedAt)
			cohortOf[customerID] = cohort
			cohortSize[monthKey(cohort)]++
		}
		offset := monthOffset(cohort, monthOf(order.WooCreatedAt))
		key := monthKey(cohort)
		if active[key] == nil {
			active[key] = make(map[int]map[uuid.UUID]struct{})
		}
		if active[key][offset] == nil {
			active[key][offset] = make(map[uuid.UUID]struct{})
		}
		active[key][offset][customerID] = struct{}{}
	}

	for cohort, periods := range active {
		size := cohortSize[cohort]
		for offset, customers := range periods {
			cell := &models.CohortMonthly{
				StoreID:           storeID,
				CohortMonth:       cohort,
				PeriodMonth:       offset,
				CustomersInCohort: size,
				ActiveCustomers:   len(customers),
				RetentionRate:     float64(len(customers)) / float64(size) * 100,
			}
			if err := s.repo.UpsertCohortCell(ctx, cell); err != nil {
				summary.Warnings = append(summary.Warnings, fmt.Sprintf("cohort %s period %d: %v", cohort, offset, err))
				continue
			}
			summary.Processed++
		}
	}
	return summary
}

func monthOf(at time.Time) time.Time {
	utc := at.UTC()
	return time.Date(utc.Year(), utc.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthKey(month time.Time) string {
	return month.Format("2006-01")
}

// monthOffset is the calendar-month distance, not elapsed days.
func monthOffset(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
