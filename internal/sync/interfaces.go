package sync

import (
	"context"
	"net/url"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopmetrics/shopmetrics-backend/pkg/db/models"
	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
	"github.com/shopmetrics/shopmetrics-backend/pkg/woo"
)

// Repository is the mirror-table persistence surface used by the
// synchronizers. Finders return (nil, nil) when no row matches.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindProductByWooID(ctx context.Context, storeID uuid.UUID, wooID int64) (*models.Product, error)
	SaveProduct(ctx context.Context, product *models.Product) error
	FindCategoryByWooID(ctx context.Context, storeID uuid.UUID, wooID int64) (*models.ProductCategory, error)
	FindCategoryByName(ctx context.Context, storeID uuid.UUID, name string) (*models.ProductCategory, error)
	SaveCategory(ctx context.Context, category *models.ProductCategory) error
	ListCategoryLinks(ctx context.Context, productID uuid.UUID) ([]models.ProductCategoryLink, error)
	CreateCategoryLink(ctx context.Context, link *models.ProductCategoryLink) error
	DeleteCategoryLinks(ctx context.Context, ids []uuid.UUID) error

	FindCustomerByWooID(ctx context.Context, storeID uuid.UUID, wooID int64) (*models.Customer, error)
	FindCustomerByEmail(ctx context.Context, storeID uuid.UUID, email string) (*models.Customer, error)
	SaveCustomer(ctx context.Context, customer *models.Customer) error

	FindCouponByCode(ctx context.Context, storeID uuid.UUID, code string) (*models.Coupon, error)
	SaveCoupon(ctx context.Context, coupon *models.Coupon) error

	FindSubscriptionByWooID(ctx context.Context, storeID uuid.UUID, wooID int64) (*models.Subscription, error)
	SaveSubscription(ctx context.Context, subscription *models.Subscription) error

	FindOrderByWooID(ctx context.Context, storeID uuid.UUID, wooID int64) (*models.Order, error)
	SaveOrder(ctx context.Context, order *models.Order) error
	ReplaceOrderItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error
	ReplaceOrderCoupons(ctx context.Context, orderID uuid.UUID, coupons []models.OrderCoupon) error
	ReplaceRefunds(ctx context.Context, orderID uuid.UUID, refunds []models.Refund) error
	UpsertOrderAttribution(ctx context.Context, attribution *models.OrderAttribution) error
}

// RemoteClient is the slice of the storefront API the synchronizers consume.
// *woo.Client satisfies it; tests substitute fakes for failure paths.
type RemoteClient interface {
	FetchProducts(ctx context.Context, params url.Values) ([]woo.Product, error)
	FetchCustomers(ctx context.Context, params url.Values) ([]woo.Customer, error)
	FetchCoupons(ctx context.Context, params url.Values) ([]woo.Coupon, error)
	FetchSubscriptions(ctx context.Context, params url.Values) ([]woo.Subscription, error)
	FetchOrders(ctx context.Context, params url.Values) ([]woo.Order, error)
	FetchRefunds(ctx context.Context, orderID int64) ([]woo.Refund, error)
}

// AnalyticsRunner recomputes the derived tables after a sync run. The remote
// day map carries per-day order counts and revenue observed on the wire, used
// by the reconciliation pass.
type AnalyticsRunner interface {
	RunAll(ctx context.Context, storeID uuid.UUID, remote map[string]types.RemoteDay) ([]types.Summary, error)
}
