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

type dayBucket struct {
	orders    int
	revenue   decimal.Decimal
	units     int
	customers map[uuid.UUID]struct{}
	refunds   decimal.Decimal
}

// runDailySummaries rebuilds the per-day aggregates over the trailing window.
// Days are the order's stored timestamp truncated to the UTC date.
func (s *Service) runDailySummaries(ctx context.Context, storeID uuid.UUID) types.Summary {
	summary := types.Summary{Entity: "daily_summaries"}

	from := s.windowStart()
	orders, err := s.repo.ListOrdersSince(ctx, storeID, from)
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("list orders: %v", err))
		return summary
	}
	refunds, err := s.repo.ListRefundsSince(ctx, storeID, from)
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("list refunds: %v", err))
		return summary
	}

	buckets := make(map[string]*dayBucket)
	bucket := func(day string) *dayBucket {
		b, ok := buckets[day]
		if !ok {
			b = &dayBucket{customers: make(map[uuid.UUID]struct{})}
			buckets[day] = b
		}
		return b
	}

	for _, order := range orders {
		b := bucket(dayKey(order.WooCreatedAt))
		b.orders++
		b.revenue = b.revenue.Add(order.Total)
		for _, item := range order.Items {
			b.units += item.Quantity
		}
		if order.CustomerID != nil {
			b.customers[*order.CustomerID] = struct{}{}
		}
	}
	for _, refund := range refunds {
		b := bucket(dayKey(refund.WooCreatedAt))
		b.refunds = b.refunds.Add(refund.Amount)
	}

	for day, b := range buckets {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("day %s: %v", day, err))
			continue
		}
		aov := decimal.Zero
		if b.orders > 0 {
			aov = b.revenue.Div(decimal.NewFromInt(int64(b.orders))).Round(2)
		}
		row := &models.DailySummary{
			StoreID:         storeID,
			Date:            date,
			OrdersCount:     b.orders,
			Revenue:         b.revenue,
			Units:           b.units,
			UniqueCustomers: len(b.customers),
			AOV:             aov,
			RefundsAmount:   b.refunds,
			NetRevenue:      b.revenue.Sub(b.refunds),
		}
		if err := s.repo.UpsertDailySummary(ctx, row); err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("day %s: %v", day, err))
			continue
		}
		summary.Processed++
	}
	return summary
}

func (s *Service) windowStart() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -s.windowDays)
}

func dayKey(at time.Time) string {
	return at.UTC().Format("2006-01-02")
}
