package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopmetrics/shopmetrics-backend/pkg/db/models"
	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
)

// reconcileTolerance absorbs money-string rounding between the remote API and
// the mirror; anything at or above it is recorded as drift.
var reconcileTolerance = decimal.RequireFromString("0.01")

// runReconciliation diffs the per-day aggregates observed on the wire during
// order sync against the same aggregates recomputed from the mirror. A day is
// ok only when revenue drift stays under the tolerance AND order counts agree;
// an order-count drift flags the day even when the revenue totals line up.
// A mismatch is an observation for operators, never an error.
func (s *Service) runReconciliation(ctx context.Context, storeID uuid.UUID, remote map[string]types.RemoteDay) types.Summary {
	summary := types.Summary{Entity: "reconciliation"}

	for day, wire := range remote {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("day %s: %v", day, err))
			continue
		}
		orders, err := s.repo.ListOrdersOnDay(ctx, storeID, date)
		if err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("day %s: %v", day, err))
			continue
		}

		dbRevenue := decimal.Zero
		for _, order := range orders {
			dbRevenue = dbRevenue.Add(order.Total)
		}
		diff := dbRevenue.Sub(wire.Revenue)

		row := &models.Reconciliation{
			StoreID:     storeID,
			Date:        date,
			WooOrders:   wire.Orders,
			WooRevenue:  wire.Revenue,
			DBOrders:    len(orders),
			DBRevenue:   dbRevenue,
			DiffRevenue: diff,
			Status:      models.ReconciliationStatusOK,
		}
		if diff.Abs().GreaterThanOrEqual(reconcileTolerance) {
			row.Status = models.ReconciliationStatusMismatch
			note := fmt.Sprintf("revenue drift %s (remote %s, mirror %s)", diff, wire.Revenue, dbRevenue)
			row.Note = &note
		} else if wire.Orders != len(orders) {
			row.Status = models.ReconciliationStatusMismatch
			note := fmt.Sprintf("order count drift (remote %d, mirror %d)", wire.Orders, len(orders))
			row.Note = &note
		}

		if err := s.repo.UpsertReconciliation(ctx, row); err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("day %s: %v", day, err))
			continue
		}
		summary.Processed++
	}
	return summary
}
