package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shopmetrics/shopmetrics-backend/pkg/db/models"
	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
)

// runAcquisition snapshots the first-touch attribution per customer: the
// chronologically first order and its UTM triple. Recomputing from full
// history each pass is what makes first-order-wins hold.
func (s *Service) runAcquisition(ctx context.Context, storeID uuid.UUID) types.Summary {
	summary := types.Summary{Entity: "acquisition"}

	orders, err := s.repo.ListAllOrders(ctx, storeID)
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("list orders: %v", err))
		return summary
	}

	// Ascending order; keep only the first sighting per customer.
	firstOrder := make(map[uuid.UUID]models.Order)
	for _, order := range orders {
		if order.CustomerID == nil {
			continue
		}
		if _, seen := firstOrder[*order.CustomerID]; seen {
			continue
		}
		firstOrder[*order.CustomerID] = order
	}

	for customerID, order := range firstOrder {
		row := &models.CustomerAcquisition{
			StoreID:        storeID,
			CustomerID:     customerID,
			FirstOrderID:   order.ID,
			FirstOrderDate: order.WooCreatedAt,
		}
		attribution, err := s.repo.FindAttribution(ctx, order.ID)
		if err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("customer %s: %v", customerID, err))
			continue
		}
		if attribution != nil {
			row.UTMSource = attribution.UTMSource
			row.UTMMedium = attribution.UTMMedium
			row.UTMCampaign = attribution.UTMCampaign
		}
		if err := s.repo.UpsertAcquisition(ctx, row); err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("customer %s: %v", customerID, err))
			continue
		}
		summary.Processed++
	}
	return summary
}
