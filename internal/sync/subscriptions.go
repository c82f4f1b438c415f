package sync

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/shopmetrics/shopmetrics-backend/pkg/db/models"
	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
	"github.com/shopmetrics/shopmetrics-backend/pkg/woo"
)

// syncSubscriptions pulls recurring orders when the store runs the
// Subscriptions extension. Stores without it 404 the endpoint; the caller
// treats the whole phase as warn-only.
func (s *Service) syncSubscriptions(ctx context.Context, store *models.Store, client RemoteClient) types.Summary {
	summary := types.Summary{Entity: PhaseSubscriptions}

	remote, err := client.FetchSubscriptions(ctx, nil)
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("fetch subscriptions: %v", err))
		s.logg.Warn(ctx, fmt.Sprintf("subscription fetch failed, continuing: %v", err))
		return summary
	}

	for _, sub := range remote {
		if err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
			return s.upsertSubscription(ctx, s.repo.WithTx(tx), store, sub)
		}); err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("subscription %d: %v", sub.ID, err))
			s.logg.Error(s.logg.WithField(ctx, "wooId", sub.ID), "subscription upsert failed", err)
			continue
		}
		summary.Processed++
	}
	return summary
}

func (s *Service) upsertSubscription(ctx context.Context, repo Repository, store *models.Store, remote woo.Subscription) error {
	subscription, err := repo.FindSubscriptionByWooID(ctx, store.ID, remote.ID)
	if err != nil {
		return err
	}
	if subscription == nil {
		subscription = &models.Subscription{StoreID: store.ID, WooID: remote.ID}
	}

	subscription.Status = remote.Status
	subscription.Total = woo.ParseAmount(remote.Total)
	if remote.BillingPeriod != "" {
		subscription.BillingPeriod = remote.BillingPeriod
	}
	if interval, err := strconv.Atoi(remote.BillingInterval); err == nil && interval > 0 {
		subscription.BillingInterval = interval
	}
	subscription.NextPaymentAt = woo.ParseTime(remote.NextPaymentDateGMT)
	subscription.WooCreatedAt = woo.ParseTime(remote.DateCreatedGMT)

	var wooCustomerID *int64
	if remote.CustomerID > 0 {
		id := remote.CustomerID
		wooCustomerID = &id
	}
	customer, err := resolveCustomer(ctx, repo, store.ID, wooCustomerID, remote.Billing.Email)
	if err != nil {
		return err
	}
	subscription.CustomerID = nil
	if customer != nil {
		subscription.CustomerID = &customer.ID
	}

	subscription.ProductID = nil
	if len(remote.LineItems) > 0 {
		product, err := repo.FindProductByWooID(ctx, store.ID, remote.LineItems[0].ProductID)
		if err != nil {
			return err
		}
		if product != nil {
			subscription.ProductID = &product.ID
		}
	}

	return repo.SaveSubscription(ctx, subscription)
}
