package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/shopmetrics/shopmetrics-backend/pkg/db/models"
	"github.com/shopmetrics/shopmetrics-backend/pkg/logger"
	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
)

const syncDispatchJobName = "sync-dispatch"

type storeLister interface {
	ListActive(ctx context.Context) ([]models.Store, error)
}

type syncRequestPublisher interface {
	PublishSyncRequest(ctx context.Context, event types.SyncRequested) error
}

// SyncDispatchJobParams configure the scheduled sync fan-out.
type SyncDispatchJobParams struct {
	Logger    *logger.Logger
	Stores    storeLister
	Publisher syncRequestPublisher
}

// SyncDispatchJob enumerates active stores and emits one sync request per
// store. A failed publish for one store does not stop the others.
type SyncDispatchJob struct {
	logg      *logger.Logger
	stores    storeLister
	publisher syncRequestPublisher
}

// NewSyncDispatchJob constructs the scheduled sync fan-out job.
func NewSyncDispatchJob(params SyncDispatchJobParams) (*SyncDispatchJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Stores == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if params.Publisher == nil {
		return nil, fmt.Errorf("publisher required")
	}
	return &SyncDispatchJob{
		logg:      params.Logger,
		stores:    params.Stores,
		publisher: params.Publisher,
	}, nil
}

func (j *SyncDispatchJob) Name() string {
	return syncDispatchJobName
}

// Run publishes one incremental sync request per active store.
func (j *SyncDispatchJob) Run(ctx context.Context) error {
	active, err := j.stores.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active stores: %w", err)
	}

	var errs error
	dispatched := 0
	for _, store := range active {
		event := types.SyncRequested{
			StoreID: store.ID.String(),
			Reason:  "cron",
		}
		if err := j.publisher.PublishSyncRequest(ctx, event); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("store %s: %w", store.ID, err))
			j.logg.Error(j.logg.WithStoreID(ctx, store.ID.String()), "sync dispatch failed", err)
			continue
		}
		dispatched++
	}

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"stores":     len(active),
		"dispatched": dispatched,
	}), "sync dispatch cycle complete")
	return errs
}
