package sync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopmetrics/shopmetrics-backend/pkg/db/models"
	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
	"github.com/shopmetrics/shopmetrics-backend/pkg/woo"
)

// syncProducts pulls the full catalog and upserts products, categories, and
// the category link sets. A failing record is logged as a warning and skipped.
func (s *Service) syncProducts(ctx context.Context, store *models.Store, client RemoteClient) types.Summary {
	summary := types.Summary{Entity: PhaseProducts}

	remote, err := client.FetchProducts(ctx, nil)
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("fetch products: %v", err))
		s.logg.Error(ctx, "product fetch failed", err)
		return summary
	}

	for _, p := range remote {
		if err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
			return s.upsertProduct(ctx, s.repo.WithTx(tx), store, p)
		}); err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("product %d: %v", p.ID, err))
			s.logg.Error(s.logg.WithField(ctx, "wooId", p.ID), "product upsert failed", err)
			continue
		}
		summary.Processed++
	}
	return summary
}

func (s *Service) upsertProduct(ctx context.Context, repo Repository, store *models.Store, remote woo.Product) error {
	product, err := repo.FindProductByWooID(ctx, store.ID, remote.ID)
	if err != nil {
		return err
	}
	if product == nil {
		product = &models.Product{StoreID: store.ID, WooID: remote.ID}
	}
	product.Name = remote.Name
	product.Price = woo.ParseAmount(remote.Price)
	product.Status = remote.Status
	product.SKU = nil
	if remote.SKU != "" {
		sku := remote.SKU
		product.SKU = &sku
	}
	if err := repo.SaveProduct(ctx, product); err != nil {
		return err
	}
	return s.reconcileCategories(ctx, repo, store, product.ID, remote.Categories)
}

// reconcileCategories upserts the remote category terms and makes the
// product's link set exactly equal to the remote set.
func (s *Service) reconcileCategories(ctx context.Context, repo Repository, store *models.Store, productID uuid.UUID, remote []woo.Category) error {
	desired := make(map[uuid.UUID]struct{}, len(remote))
	for _, rc := range remote {
		category, err := repo.FindCategoryByWooID(ctx, store.ID, rc.ID)
		if err != nil {
			return err
		}
		if category == nil {
			// Terms recreated remotely keep their name but change IDs.
			category, err = repo.FindCategoryByName(ctx, store.ID, rc.Name)
			if err != nil {
				return err
			}
		}
		if category == nil {
			category = &models.ProductCategory{StoreID: store.ID}
		}
		category.WooID = rc.ID
		category.Name = rc.Name
		if err := repo.SaveCategory(ctx, category); err != nil {
			return err
		}
		desired[category.ID] = struct{}{}
	}

	existing, err := repo.ListCategoryLinks(ctx, productID)
	if err != nil {
		return err
	}
	var stale []uuid.UUID
	linked := make(map[uuid.UUID]struct{}, len(existing))
	for _, link := range existing {
		if _, keep := desired[link.CategoryID]; !keep {
			stale = append(stale, link.ID)
			continue
		}
		linked[link.CategoryID] = struct{}{}
	}
	if err := repo.DeleteCategoryLinks(ctx, stale); err != nil {
		return err
	}
	for categoryID := range desired {
		if _, ok := linked[categoryID]; ok {
			continue
		}
		link := &models.ProductCategoryLink{ProductID: productID, CategoryID: categoryID}
		if err := repo.CreateCategoryLink(ctx, link); err != nil {
			return err
		}
	}
	return nil
}
