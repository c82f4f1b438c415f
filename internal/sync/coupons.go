package sync

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shopmetrics/shopmetrics-backend/pkg/db/models"
	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
	"github.com/shopmetrics/shopmetrics-backend/pkg/woo"
)

// syncCoupons pulls the coupon catalog and upserts rows keyed by
// (store, code). Codes are stored lowercase; WooCommerce treats them
// case-insensitively.
func (s *Service) syncCoupons(ctx context.Context, store *models.Store, client RemoteClient) types.Summary {
	summary := types.Summary{Entity: PhaseCoupons}

	remote, err := client.FetchCoupons(ctx, nil)
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("fetch coupons: %v", err))
		s.logg.Error(ctx, "coupon fetch failed", err)
		return summary
	}

	for _, c := range remote {
		if err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
			return upsertCoupon(ctx, s.repo.WithTx(tx), store, c)
		}); err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("coupon %d: %v", c.ID, err))
			s.logg.Error(s.logg.WithField(ctx, "wooId", c.ID), "coupon upsert failed", err)
			continue
		}
		summary.Processed++
	}
	return summary
}

func upsertCoupon(ctx context.Context, repo Repository, store *models.Store, remote woo.Coupon) error {
	code := normalizeCouponCode(remote.Code)
	if code == "" {
		return fmt.Errorf("coupon %d has no code", remote.ID)
	}

	coupon, err := repo.FindCouponByCode(ctx, store.ID, code)
	if err != nil {
		return err
	}
	if coupon == nil {
		coupon = &models.Coupon{StoreID: store.ID, Code: code}
	}
	wooID := remote.ID
	coupon.WooID = &wooID
	if remote.DiscountType != "" {
		coupon.DiscountType = remote.DiscountType
	}
	coupon.Amount = woo.ParseAmount(remote.Amount)
	coupon.UsageCount = remote.UsageCount
	coupon.UsageLimit = remote.UsageLimit
	coupon.ExpiresAt = woo.ParseTime(remote.DateExpiresGMT)
	return repo.SaveCoupon(ctx, coupon)
}

func normalizeCouponCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
