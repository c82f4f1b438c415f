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

// Customer segments derived from the RFM digits.
const (
	SegmentChampions = "Champions"
	SegmentLoyal     = "Loyal"
	SegmentPromising = "Promising"
	SegmentAtRisk    = "At Risk"
)

type rfmInput struct {
	lastOrderAt time.Time
	frequency   int
	monetary    decimal.Decimal
}

// runCustomerScores rebuilds the RFM score for every customer with at least
// one order, all-time, overwriting prior rows.
func (s *Service) runCustomerScores(ctx context.Context, storeID uuid.UUID) types.Summary {
	summary := types.Summary{Entity: "customer_scores"}

	orders, err := s.repo.ListAllOrders(ctx, storeID)
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("list orders: %v", err))
		return summary
	}

	perCustomer := make(map[uuid.UUID]*rfmInput)
	for _, order := range orders {
		if order.CustomerID == nil {
			continue
		}
		in, ok := perCustomer[*order.CustomerID]
		if !ok {
			in = &rfmInput{}
			perCustomer[*order.CustomerID] = in
		}
		in.frequency++
		in.monetary = in.monetary.Add(order.Total)
		if order.WooCreatedAt.After(in.lastOrderAt) {
			in.lastOrderAt = order.WooCreatedAt
		}
	}

	now := s.now().UTC()
	for customerID, in := range perCustomer {
		recencyDays := int(now.Sub(in.lastOrderAt).Hours() / 24)
		r := scoreRecency(recencyDays)
		f := scoreFrequency(in.frequency)
		m := scoreMonetary(in.monetary)
		lastOrderAt := in.lastOrderAt
		row := &models.CustomerScore{
			StoreID:     storeID,
			CustomerID:  customerID,
			RecencyDays: recencyDays,
			Frequency:   in.frequency,
			Monetary:    in.monetary,
			RFMScore:    r*100 + f*10 + m,
			Segment:     segment(r, f, m),
			LastOrderAt: &lastOrderAt,
		}
		if err := s.repo.UpsertCustomerScore(ctx, row); err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("customer %s: %v", customerID, err))
			continue
		}
		summary.Processed++
	}
	return summary
}

// Fixed 1-5 breakpoints, shared across stores.

func scoreRecency(days int) int {
	switch {
	case days <= 7:
		return 5
	case days <= 30:
		return 4
	case days <= 90:
		return 3
	case days <= 180:
		return 2
	default:
		return 1
	}
}

func scoreFrequency(orders int) int {
	switch {
	case orders >= 10:
		return 5
	case orders >= 5:
		return 4
	case orders >= 3:
		return 3
	case orders >= 2:
		return 2
	default:
		return 1
	}
}

func scoreMonetary(total decimal.Decimal) int {
	switch {
	case total.GreaterThanOrEqual(decimal.NewFromInt(1000)):
		return 5
	case total.GreaterThanOrEqual(decimal.NewFromInt(500)):
		return 4
	case total.GreaterThanOrEqual(decimal.NewFromInt(200)):
		return 3
	case total.GreaterThanOrEqual(decimal.NewFromInt(100)):
		return 2
	default:
		return 1
	}
}

func segment(r, f, m int) string {
	switch {
	case r >= 4 && f >= 4 && m >= 4:
		return SegmentChampions
	case r >= 3 && f >= 3:
		return SegmentLoyal
	case r >= 3 && f <= 2:
		return SegmentPromising
	default:
		return SegmentAtRisk
	}
}
