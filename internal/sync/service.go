package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shopmetrics/shopmetrics-backend/internal/stores"
	"github.com/shopmetrics/shopmetrics-backend/pkg/config"
	"github.com/shopmetrics/shopmetrics-backend/pkg/db"
	"github.com/shopmetrics/shopmetrics-backend/pkg/db/models"
	pkgerrors "github.com/shopmetrics/shopmetrics-backend/pkg/errors"
	"github.com/shopmetrics/shopmetrics-backend/pkg/logger"
	"github.com/shopmetrics/shopmetrics-backend/pkg/metrics"
	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
	"github.com/shopmetrics/shopmetrics-backend/pkg/woo"
)

// Service orchestrates one sync run per store: entity phases in dependency
// order, then the derived analytics passes.
type Service struct {
	db        *db.Client
	repo      Repository
	stores    *stores.Repository
	analytics AnalyticsRunner
	metrics   *metrics.SyncMetrics
	wooCfg    config.WooConfig
	logg      *logger.Logger

	// newClient is swapped in tests to point at a stub API.
	newClient func(store *models.Store) (RemoteClient, error)
	now       func() time.Time
}

// NewService wires the sync orchestrator.
func NewService(
	dbClient *db.Client,
	storesRepo *stores.Repository,
	analytics AnalyticsRunner,
	syncMetrics *metrics.SyncMetrics,
	wooCfg config.WooConfig,
	logg *logger.Logger,
) *Service {
	s := &Service{
		db:        dbClient,
		repo:      NewRepository(dbClient.DB()),
		stores:    storesRepo,
		analytics: analytics,
		metrics:   syncMetrics,
		wooCfg:    wooCfg,
		logg:      logg,
		now:       time.Now,
	}
	s.newClient = s.buildClient
	return s
}

func (s *Service) buildClient(store *models.Store) (RemoteClient, error) {
	return woo.NewClient(woo.Config{
		BaseURL:        store.BaseURL,
		ConsumerKey:    store.ConsumerKey,
		ConsumerSecret: store.ConsumerSecret,
		AuthMode:       woo.AuthMode(store.AuthMode),
		Timeout:        s.wooCfg.Timeout,
		PageSize:       s.wooCfg.PageSize,
		RetryAttempts:  s.wooCfg.RetryAttempts,
		RetryBackoff:   s.wooCfg.RetryBackoff,
	}, s.logg)
}

// Run executes one sync for the store named by input. Fatal errors (unknown
// store, unusable credentials) abort before any remote I/O; per-record and
// per-phase failures degrade into warnings on the returned summaries.
func (s *Service) Run(ctx context.Context, input RunInput) (*RunResult, error) {
	startedAt := s.now().UTC()
	ctx = s.logg.WithStoreID(ctx, input.StoreID.String())
	s.logg.Info(s.logg.WithField(ctx, "reason", input.Reason), "sync run starting")

	store, err := s.stores.FindByID(ctx, input.StoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "store %s not found", input.StoreID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load store")
	}
	if strings.TrimSpace(store.BaseURL) == "" ||
		strings.TrimSpace(store.ConsumerKey) == "" ||
		strings.TrimSpace(store.ConsumerSecret) == "" {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "store %s has incomplete credentials", store.ID)
	}

	client, err := s.newClient(store)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "failed to build store client")
	}

	since := input.Since
	if since == nil && !input.Full {
		since = store.LastSyncedAt
	}

	result := &RunResult{StoreID: store.ID, StartedAt: startedAt}

	result.Summaries = append(result.Summaries, s.runPhase(ctx, PhaseProducts, func(ctx context.Context) types.Summary {
		return s.syncProducts(ctx, store, client)
	}))
	result.Summaries = append(result.Summaries, s.runPhase(ctx, PhaseCustomers, func(ctx context.Context) types.Summary {
		return s.syncCustomers(ctx, store, client)
	}))
	result.Summaries = append(result.Summaries, s.runPhase(ctx, PhaseCoupons, func(ctx context.Context) types.Summary {
		return s.syncCoupons(ctx, store, client)
	}))
	result.Summaries = append(result.Summaries, s.runPhase(ctx, PhaseSubscriptions, func(ctx context.Context) types.Summary {
		return s.syncSubscriptions(ctx, store, client)
	}))

	var remoteDays map[string]types.RemoteDay
	result.Summaries = append(result.Summaries, s.runPhase(ctx, PhaseOrders, func(ctx context.Context) types.Summary {
		summary, days := s.syncOrders(ctx, store, client, OrdersOptions{Since: since, Full: input.Full})
		remoteDays = days
		return summary
	}))

	analyticsSummaries, err := s.analytics.RunAll(ctx, store.ID, remoteDays)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "analytics recompute failed")
	}
	result.Summaries = append(result.Summaries, analyticsSummaries...)

	finishedAt := s.now().UTC()
	if err := s.stores.TouchLastSyncedAt(ctx, store.ID, startedAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record sync completion")
	}
	result.FinishedAt = finishedAt

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"durationMs": finishedAt.Sub(startedAt).Milliseconds(),
		"warnings":   totalWarnings(result.Summaries),
	}), "sync run finished")
	return result, nil
}

func (s *Service) runPhase(ctx context.Context, phase string, fn func(ctx context.Context) types.Summary) types.Summary {
	ctx = s.logg.WithPhase(ctx, phase)
	start := s.now()
	summary := fn(ctx)
	s.metrics.ObservePhase(phase, s.now().Sub(start), summary.Processed, len(summary.Warnings))
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"processed": summary.Processed,
		"warnings":  len(summary.Warnings),
	}), fmt.Sprintf("%s phase complete", phase))
	return summary
}

func totalWarnings(summaries []types.Summary) int {
	total := 0
	for _, summary := range summaries {
		total += len(summary.Warnings)
	}
	return total
}
