package sync

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/shopmetrics/shopmetrics-backend/pkg/errors"
)

// replaceSet makes the stored child rows of an order exactly equal to the
// remote set: delete everything under the order, then insert the new rows.
// Caller is expected to run this inside the per-order transaction.
func replaceSet[T any](ctx context.Context, db *gorm.DB, orderID uuid.UUID, model *T, rows []T) error {
	if err := db.WithContext(ctx).Where("order_id = ?", orderID).Delete(model).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to clear order rows")
	}
	if len(rows) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).Create(&rows).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to insert order rows")
	}
	return nil
}
