package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopmetrics/shopmetrics-backend/pkg/db/models"
	pkgerrors "github.com/shopmetrics/shopmetrics-backend/pkg/errors"
)

// Repository is the mirror-read plus derived-write surface of the analytics
// passes. Upserts are keyed by each table's natural identity.
type Repository interface {
	ListOrdersSince(ctx context.Context, storeID uuid.UUID, from time.Time) ([]models.Order, error)
	ListAllOrders(ctx context.Context, storeID uuid.UUID) ([]models.Order, error)
	ListRefundsSince(ctx context.Context, storeID uuid.UUID, from time.Time) ([]models.Refund, error)
	ListOrdersOnDay(ctx context.Context, storeID uuid.UUID, day time.Time) ([]models.Order, error)
	FindAttribution(ctx context.Context, orderID uuid.UUID) (*models.OrderAttribution, error)

	UpsertDailySummary(ctx context.Context, summary *models.DailySummary) error
	UpsertCustomerScore(ctx context.Context, score *models.CustomerScore) error
	UpsertCohortCell(ctx context.Context, cell *models.CohortMonthly) error
	UpsertAcquisition(ctx context.Context, acquisition *models.CustomerAcquisition) error
	UpsertReconciliation(ctx context.Context, row *models.Reconciliation) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a GORM-backed analytics repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListOrdersSince(ctx context.Context, storeID uuid.UUID, from time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ? AND woo_created_at >= ?", storeID, from).
		Order("woo_created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list windowed orders")
	}
	return orders, nil
}

func (r *repository) ListAllOrders(ctx context.Context, storeID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("woo_created_at ASC, woo_id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list orders")
	}
	return orders, nil
}

func (r *repository) ListRefundsSince(ctx context.Context, storeID uuid.UUID, from time.Time) ([]models.Refund, error) {
	var refunds []models.Refund
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = refunds.order_id").
		Where("orders.store_id = ? AND refunds.woo_created_at >= ?", storeID, from).
		Find(&refunds).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list windowed refunds")
	}
	return refunds, nil
}

func (r *repository) ListOrdersOnDay(ctx context.Context, storeID uuid.UUID, day time.Time) ([]models.Order, error) {
	start := day.UTC().Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND woo_created_at >= ? AND woo_created_at < ?", storeID, start, end).
		Find(&orders).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list day orders")
	}
	return orders, nil
}

func (r *repository) FindAttribution(ctx context.Context, orderID uuid.UUID) (*models.OrderAttribution, error) {
	var attribution models.OrderAttribution
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&attribution).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to find order attribution")
	}
	return &attribution, nil
}

func (r *repository) UpsertDailySummary(ctx context.Context, summary *models.DailySummary) error {
	var existing models.DailySummary
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND date = ?", summary.StoreID, summary.Date).
		First(&existing).Error
	return r.applyUpsert(ctx, err, &existing.ID, &existing.CreatedAt, &summary.ID, &summary.CreatedAt, summary)
}

func (r *repository) UpsertCustomerScore(ctx context.Context, score *models.CustomerScore) error {
	var existing models.CustomerScore
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", score.CustomerID).
		First(&existing).Error
	return r.applyUpsert(ctx, err, &existing.ID, &existing.CreatedAt, &score.ID, &score.CreatedAt, score)
}

func (r *repository) UpsertCohortCell(ctx context.Context, cell *models.CohortMonthly) error {
	var existing models.CohortMonthly
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND cohort_month = ? AND period_month = ?", cell.StoreID, cell.CohortMonth, cell.PeriodMonth).
		First(&existing).Error
	return r.applyUpsert(ctx, err, &existing.ID, &existing.CreatedAt, &cell.ID, &cell.CreatedAt, cell)
}

func (r *repository) UpsertAcquisition(ctx context.Context, acquisition *models.CustomerAcquisition) error {
	var existing models.CustomerAcquisition
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", acquisition.CustomerID).
		First(&existing).Error
	return r.applyUpsert(ctx, err, &existing.ID, &existing.CreatedAt, &acquisition.ID, &acquisition.CreatedAt, acquisition)
}

func (r *repository) UpsertReconciliation(ctx context.Context, row *models.Reconciliation) error {
	var existing models.Reconciliation
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND date = ?", row.StoreID, row.Date).
		First(&existing).Error
	return r.applyUpsert(ctx, err, &existing.ID, &existing.CreatedAt, &row.ID, &row.CreatedAt, row)
}

// applyUpsert finishes a lookup-then-write upsert: on a hit the incoming row
// inherits the stored identity, on a miss it gets a fresh one.
func (r *repository) applyUpsert(
	ctx context.Context,
	lookupErr error,
	existingID *uuid.UUID,
	existingCreatedAt *time.Time,
	id *uuid.UUID,
	createdAt *time.Time,
	value any,
) error {
	switch {
	case lookupErr == nil:
		*id = *existingID
		*createdAt = *existingCreatedAt
		if err := r.db.WithContext(ctx).Save(value).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update derived row")
		}
		return nil
	case errors.Is(lookupErr, gorm.ErrRecordNotFound):
		*id = uuid.New()
		if err := r.db.WithContext(ctx).Create(value).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to insert derived row")
		}
		return nil
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, lookupErr, "failed to look up derived row")
	}
}
