package sync

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/shopmetrics/shopmetrics-backend/pkg/db/models"
)

// LookupStrategy names one way of matching an incoming record to a stored
// customer row.
type LookupStrategy string

const (
	LookupByWooID LookupStrategy = "woo_id"
	LookupByEmail LookupStrategy = "email"
)

// LookupAttempt is one step of the resolution cascade.
type LookupAttempt struct {
	Strategy LookupStrategy
	WooID    int64
	Email    string
}

// customerLookupPlan builds the ordered strategy cascade for resolving a
// customer identity: remote account ID first, normalized email second. A
// guest row created earlier under the same email converges onto the account
// when the woo ID later appears.
func customerLookupPlan(wooID *int64, email string) []LookupAttempt {
	var plan []LookupAttempt
	if wooID != nil && *wooID > 0 {
		plan = append(plan, LookupAttempt{Strategy: LookupByWooID, WooID: *wooID})
	}
	if normalized := normalizeEmail(email); normalized != "" {
		plan = append(plan, LookupAttempt{Strategy: LookupByEmail, Email: normalized})
	}
	return plan
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// resolveCustomer walks the lookup plan against the repository and returns
// the first match, or (nil, nil) when no stored row corresponds.
func resolveCustomer(ctx context.Context, repo Repository, storeID uuid.UUID, wooID *int64, email string) (*models.Customer, error) {
	for _, attempt := range customerLookupPlan(wooID, email) {
		var (
			found *models.Customer
			err   error
		)
		switch attempt.Strategy {
		case LookupByWooID:
			found, err = repo.FindCustomerByWooID(ctx, storeID, attempt.WooID)
		case LookupByEmail:
			found, err = repo.FindCustomerByEmail(ctx, storeID, attempt.Email)
		}
		if err != nil {
			return nil, err
		}
		if found != nil {
			return found, nil
		}
	}
	return nil, nil
}
