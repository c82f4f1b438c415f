package sync

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopmetrics/shopmetrics-backend/pkg/db/models"
	pkgerrors "github.com/shopmetrics/shopmetrics-backend/pkg/errors"
)

type repository struct {
	db *gorm.DB
}

// NewRepository returns a GORM-backed Repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// save creates the row when it has no ID yet, otherwise writes all fields.
func (r *repository) save(ctx context.Context, id *uuid.UUID, value any) error {
	if *id == uuid.Nil {
		*id = uuid.New()
		if err := r.db.WithContext(ctx).Create(value).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create record")
		}
		return nil
	}
	if err := r.db.WithContext(ctx).Save(value).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update record")
	}
	return nil
}

func first[T any](ctx context.Context, db *gorm.DB, query string, args ...any) (*T, error) {
	var row T
	err := db.WithContext(ctx).Where(query, args...).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to query record")
	}
	return &row, nil
}

func (r *repository) FindProductByWooID(ctx context.Context, storeID uuid.UUID, wooID int64) (*models.Product, error) {
	return first[models.Product](ctx, r.db, "store_id = ? AND woo_id = ?", storeID, wooID)
}

func (r *repository) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.save(ctx, &product.ID, product)
}

func (r *repository) FindCategoryByWooID(ctx context.Context, storeID uuid.UUID, wooID int64) (*models.ProductCategory, error) {
	return first[models.ProductCategory](ctx, r.db, "store_id = ? AND woo_id = ?", storeID, wooID)
}

func (r *repository) FindCategoryByName(ctx context.Context, storeID uuid.UUID, name string) (*models.ProductCategory, error) {
	return first[models.ProductCategory](ctx, r.db, "store_id = ? AND name = ?", storeID, name)
}

func (r *repository) SaveCategory(ctx context.Context, category *models.ProductCategory) error {
	return r.save(ctx, &category.ID, category)
}

func (r *repository) ListCategoryLinks(ctx context.Context, productID uuid.UUID) ([]models.ProductCategoryLink, error) {
	var links []models.ProductCategoryLink
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Find(&links).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list category links")
	}
	return links, nil
}

func (r *repository) CreateCategoryLink(ctx context.Context, link *models.ProductCategoryLink) error {
	return r.save(ctx, &link.ID, link)
}

func (r *repository) DeleteCategoryLinks(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.ProductCategoryLink{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete category links")
	}
	return nil
}

func (r *repository) FindCustomerByWooID(ctx context.Context, storeID uuid.UUID, wooID int64) (*models.Customer, error) {
	return first[models.Customer](ctx, r.db, "store_id = ? AND woo_id = ?", storeID, wooID)
}

func (r *repository) FindCustomerByEmail(ctx context.Context, storeID uuid.UUID, email string) (*models.Customer, error) {
	return first[models.Customer](ctx, r.db, "store_id = ? AND email = ?", storeID, email)
}

func (r *repository) SaveCustomer(ctx context.Context, customer *models.Customer) error {
	return r.save(ctx, &customer.ID, customer)
}

func (r *repository) FindCouponByCode(ctx context.Context, storeID uuid.UUID, code string) (*models.Coupon, error) {
	return first[models.Coupon](ctx, r.db, "store_id = ? AND code = ?", storeID, code)
}

func (r *repository) SaveCoupon(ctx context.Context, coupon *models.Coupon) error {
	return r.save(ctx, &coupon.ID, coupon)
}

func (r *repository) FindSubscriptionByWooID(ctx context.Context, storeID uuid.UUID, wooID int64) (*models.Subscription, error) {
	return first[models.Subscription](ctx, r.db, "store_id = ? AND woo_id = ?", storeID, wooID)
}

func (r *repository) SaveSubscription(ctx context.Context, subscription *models.Subscription) error {
	return r.save(ctx, &subscription.ID, subscription)
}

func (r *repository) FindOrderByWooID(ctx context.Context, storeID uuid.UUID, wooID int64) (*models.Order, error) {
	return first[models.Order](ctx, r.db, "store_id = ? AND woo_id = ?", storeID, wooID)
}

func (r *repository) SaveOrder(ctx context.Context, order *models.Order) error {
	return r.save(ctx, &order.ID, order)
}

func (r *repository) ReplaceOrderItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error {
	for i := range items {
		items[i].ID = uuid.New()
		items[i].OrderID = orderID
	}
	return replaceSet(ctx, r.db, orderID, &models.OrderItem{}, items)
}

func (r *repository) ReplaceOrderCoupons(ctx context.Context, orderID uuid.UUID, coupons []models.OrderCoupon) error {
	for i := range coupons {
		coupons[i].ID = uuid.New()
		coupons[i].OrderID = orderID
	}
	return replaceSet(ctx, r.db, orderID, &models.OrderCoupon{}, coupons)
}

func (r *repository) ReplaceRefunds(ctx context.Context, orderID uuid.UUID, refunds []models.Refund) error {
	for i := range refunds {
		refunds[i].ID = uuid.New()
		refunds[i].OrderID = orderID
	}
	return replaceSet(ctx, r.db, orderID, &models.Refund{}, refunds)
}

func (r *repository) UpsertOrderAttribution(ctx context.Context, attribution *models.OrderAttribution) error {
	existing, err := first[models.OrderAttribution](ctx, r.db, "order_id = ?", attribution.OrderID)
	if err != nil {
		return err
	}
	if existing != nil {
		attribution.ID = existing.ID
		attribution.CreatedAt = existing.CreatedAt
	}
	return r.save(ctx, &attribution.ID, attribution)
}
