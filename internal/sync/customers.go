package sync

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shopmetrics/shopmetrics-backend/pkg/db/models"
	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
	"github.com/shopmetrics/shopmetrics-backend/pkg/woo"
)

// syncCustomers pulls registered customer accounts and upserts them through
// the identity cascade, converging earlier guest rows onto accounts.
func (s *Service) syncCustomers(ctx context.Context, store *models.Store, client RemoteClient) types.Summary {
	summary := types.Summary{Entity: PhaseCustomers}

	remote, err := client.FetchCustomers(ctx, nil)
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("fetch customers: %v", err))
		s.logg.Error(ctx, "customer fetch failed", err)
		return summary
	}

	for _, c := range remote {
		if err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
			_, err := s.upsertCustomer(ctx, s.repo.WithTx(tx), store, c)
			return err
		}); err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("customer %d: %v", c.ID, err))
			s.logg.Error(s.logg.WithField(ctx, "wooId", c.ID), "customer upsert failed", err)
			continue
		}
		summary.Processed++
	}
	return summary
}

func (s *Service) upsertCustomer(ctx context.Context, repo Repository, store *models.Store, remote woo.Customer) (*models.Customer, error) {
	email := normalizeEmail(remote.Email)
	if email == "" {
		email = normalizeEmail(remote.Billing.Email)
	}

	wooID := remote.ID
	customer, err := resolveCustomer(ctx, repo, store.ID, &wooID, email)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		if email == "" {
			return nil, fmt.Errorf("customer %d has no email", remote.ID)
		}
		customer = &models.Customer{StoreID: store.ID, Email: email}
	}
	customer.WooID = &wooID

	// Changing the stored email must not collide with another customer row;
	// the remote value is skipped when it would.
	if email != "" && email != customer.Email {
		conflict, err := repo.FindCustomerByEmail(ctx, store.ID, email)
		if err != nil {
			return nil, err
		}
		if conflict == nil || conflict.ID == customer.ID {
			customer.Email = email
		}
	}

	applyName(customer, remote.FirstName, remote.LastName)
	if customer.FirstName == nil || customer.LastName == nil {
		applyName(customer, remote.Billing.FirstName, remote.Billing.LastName)
	}
	if remote.Billing.Phone != "" {
		phone := remote.Billing.Phone
		customer.Phone = &phone
	}

	if err := repo.SaveCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func applyName(customer *models.Customer, first, last string) {
	if first != "" {
		customer.FirstName = &first
	}
	if last != "" {
		customer.LastName = &last
	}
}
