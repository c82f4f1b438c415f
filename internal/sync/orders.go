package sync

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopmetrics/shopmetrics-backend/pkg/db/models"
	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
	"github.com/shopmetrics/shopmetrics-backend/pkg/woo"
)

// syncOrders pulls orders (incrementally unless opts.Full), upserts each one
// with its line items, coupon lines, refunds, and attribution in a per-order
// transaction, and accumulates the per-day totals seen on the wire for the
// reconciliation pass. Totals are stored verbatim from the remote record.
func (s *Service) syncOrders(ctx context.Context, store *models.Store, client RemoteClient, opts OrdersOptions) (types.Summary, map[string]types.RemoteDay) {
	summary := types.Summary{Entity: PhaseOrders}
	remoteDays := make(map[string]types.RemoteDay)

	remote, err := client.FetchOrders(ctx, orderQueryParams(opts))
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("fetch orders: %v", err))
		s.logg.Error(ctx, "order fetch failed", err)
		return summary, remoteDays
	}

	for _, o := range remote {
		accumulateRemoteDay(remoteDays, o)
		if err := s.upsertOrder(ctx, store, client, o); err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("Order %d: %v", o.ID, err))
			s.logg.Error(s.logg.WithField(ctx, "wooId", o.ID), "order upsert failed", err)
			continue
		}
		summary.Processed++
	}
	return summary, remoteDays
}

// orderQueryParams builds the order pull window. Full pulls ignore Since.
func orderQueryParams(opts OrdersOptions) url.Values {
	params := url.Values{}
	params.Set("status", "any")
	if !opts.Full && opts.Since != nil {
		params.Set("after", opts.Since.UTC().Format("2006-01-02T15:04:05"))
	}
	return params
}

// accumulateRemoteDay folds one remote order into the wire-side day totals.
// Every fetched record counts, whether or not its upsert later succeeds.
func accumulateRemoteDay(days map[string]types.RemoteDay, o woo.Order) {
	created := woo.ParseTime(o.DateCreatedGMT)
	if created == nil {
		return
	}
	key := created.UTC().Format("2006-01-02")
	day := days[key]
	day.Orders++
	day.Revenue = day.Revenue.Add(woo.ParseAmount(o.Total))
	days[key] = day
}

func (s *Service) upsertOrder(ctx context.Context, store *models.Store, client RemoteClient, remote woo.Order) error {
	created := woo.ParseTime(remote.DateCreatedGMT)
	if created == nil {
		return fmt.Errorf("missing creation date")
	}

	// Refund details live on a separate endpoint; only fetch when the order
	// summary says refunds exist.
	var refunds []woo.Refund
	if len(remote.Refunds) > 0 {
		var err error
		refunds, err = client.FetchRefunds(ctx, remote.ID)
		if err != nil {
			return fmt.Errorf("fetch refunds: %w", err)
		}
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		customer, err := s.resolveOrderCustomer(ctx, repo, store, remote, *created)
		if err != nil {
			return err
		}

		order, err := repo.FindOrderByWooID(ctx, store.ID, remote.ID)
		if err != nil {
			return err
		}
		if order == nil {
			order = &models.Order{StoreID: store.ID, WooID: remote.ID}
		}
		order.Status = remote.Status
		if remote.Currency != "" {
			order.Currency = remote.Currency
		}
		order.Total = woo.ParseAmount(remote.Total)
		order.DiscountTotal = woo.ParseAmount(remote.DiscountTotal)
		order.ShippingTotal = woo.ParseAmount(remote.ShippingTotal)
		order.TaxTotal = woo.ParseAmount(remote.TotalTax)
		order.Subtotal = lineSubtotal(remote.LineItems)
		order.PaymentMethod = nil
		if remote.PaymentMethod != "" {
			method := remote.PaymentMethod
			order.PaymentMethod = &method
		}
		order.WooCreatedAt = *created
		order.CustomerID = nil
		if customer != nil {
			order.CustomerID = &customer.ID
		}
		if err := repo.SaveOrder(ctx, order); err != nil {
			return err
		}

		items, err := buildOrderItems(ctx, repo, store, remote.LineItems)
		if err != nil {
			return err
		}
		if err := repo.ReplaceOrderItems(ctx, order.ID, items); err != nil {
			return err
		}

		coupons, err := buildOrderCoupons(ctx, repo, store, remote.CouponLines)
		if err != nil {
			return err
		}
		if err := repo.ReplaceOrderCoupons(ctx, order.ID, coupons); err != nil {
			return err
		}

		if err := repo.ReplaceRefunds(ctx, order.ID, buildRefunds(refunds)); err != nil {
			return err
		}

		if utm := extractUTM(remote.MetaData); !utm.Empty() {
			attribution := &models.OrderAttribution{
				OrderID:     order.ID,
				UTMSource:   utm.Source,
				UTMMedium:   utm.Medium,
				UTMCampaign: utm.Campaign,
				UTMTerm:     utm.Term,
				UTMContent:  utm.Content,
			}
			if err := repo.UpsertOrderAttribution(ctx, attribution); err != nil {
				return err
			}
		}
		return nil
	})
}

// resolveOrderCustomer finds or creates the buyer row for an order. Orders
// without a remote account or billing email get a synthesized guest identity
// unique per (store, order).
func (s *Service) resolveOrderCustomer(ctx context.Context, repo Repository, store *models.Store, remote woo.Order, placedAt time.Time) (*models.Customer, error) {
	var wooID *int64
	if remote.CustomerID > 0 {
		id := remote.CustomerID
		wooID = &id
	}
	email := normalizeEmail(remote.Billing.Email)

	customer, err := resolveCustomer(ctx, repo, store.ID, wooID, email)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		if email == "" {
			email = guestEmail(store.ID.String(), remote.ID)
		}
		customer = &models.Customer{StoreID: store.ID, Email: email, WooID: wooID}
		applyName(customer, remote.Billing.FirstName, remote.Billing.LastName)
		if remote.Billing.Phone != "" {
			phone := remote.Billing.Phone
			customer.Phone = &phone
		}
	} else if customer.WooID == nil && wooID != nil {
		// Guest row converging onto a registered account.
		customer.WooID = wooID
	}

	if customer.LastActiveAt == nil || placedAt.After(*customer.LastActiveAt) {
		at := placedAt
		customer.LastActiveAt = &at
	}

	if err := repo.SaveCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// guestEmail synthesizes a stable placeholder identity for a guest checkout
// without a billing email, keyed by store and order.
func guestEmail(storeID string, orderWooID int64) string {
	return fmt.Sprintf("guest+%s-%d@sync.invalid", storeID, orderWooID)
}

func lineSubtotal(items []woo.LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(woo.ParseAmount(item.Subtotal))
	}
	return subtotal
}

func buildOrderItems(ctx context.Context, repo Repository, store *models.Store, lines []woo.LineItem) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		item := models.OrderItem{
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: woo.ParseAmount(line.Price.String()),
			LineTotal: woo.ParseAmount(line.Total),
		}
		if line.ProductID > 0 {
			product, err := repo.FindProductByWooID(ctx, store.ID, line.ProductID)
			if err != nil {
				return nil, err
			}
			if product != nil {
				item.ProductID = &product.ID
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// buildOrderCoupons links coupon lines to the coupon master, creating a
// minimal master row for codes never seen through the coupon endpoint.
func buildOrderCoupons(ctx context.Context, repo Repository, store *models.Store, lines []woo.CouponLine) ([]models.OrderCoupon, error) {
	coupons := make([]models.OrderCoupon, 0, len(lines))
	for _, line := range lines {
		code := normalizeCouponCode(line.Code)
		if code == "" {
			continue
		}
		master, err := repo.FindCouponByCode(ctx, store.ID, code)
		if err != nil {
			return nil, err
		}
		if master == nil {
			master = &models.Coupon{StoreID: store.ID, Code: code}
			if err := repo.SaveCoupon(ctx, master); err != nil {
				return nil, err
			}
		}
		coupons = append(coupons, models.OrderCoupon{
			CouponID:        &master.ID,
			Code:            code,
			DiscountApplied: woo.ParseAmount(line.Discount),
		})
	}
	return coupons, nil
}

func buildRefunds(remote []woo.Refund) []models.Refund {
	refunds := make([]models.Refund, 0, len(remote))
	for _, r := range remote {
		refund := models.Refund{
			WooID:  r.ID,
			Amount: woo.ParseAmount(r.Amount).Abs(),
		}
		if r.Reason != "" {
			reason := r.Reason
			refund.Reason = &reason
		}
		if created := woo.ParseTime(r.DateCreatedGMT); created != nil {
			refund.WooCreatedAt = *created
		}
		refunds = append(refunds, refund)
	}
	return refunds
}
