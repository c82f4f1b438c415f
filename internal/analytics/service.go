package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopmetrics/shopmetrics-backend/pkg/config"
	"github.com/shopmetrics/shopmetrics-backend/pkg/logger"
	"github.com/shopmetrics/shopmetrics-backend/pkg/metrics"
	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
)

// Service runs the derived-analytics passes over the local mirror. Every
// pass is idempotent and fully overwrites its output rows, so the derived
// tables are self-healing across repeated runs.
type Service struct {
	repo       Repository
	metrics    *metrics.SyncMetrics
	windowDays int
	logg       *logger.Logger

	now func() time.Time
}

// NewService wires the analytics engine.
func NewService(db *gorm.DB, cfg config.SyncConfig, syncMetrics *metrics.SyncMetrics, logg *logger.Logger) *Service {
	windowDays := cfg.SummaryWindowDays
	if windowDays <= 0 {
		windowDays = 120
	}
	return &Service{
		repo:       NewRepository(db),
		metrics:    syncMetrics,
		windowDays: windowDays,
		logg:       logg,
		now:        time.Now,
	}
}

// RunAll executes the passes in a fixed order and returns one summary per
// pass. Pass failures degrade into warnings on that pass's summary; the
// remaining passes still run.
func (s *Service) RunAll(ctx context.Context, storeID uuid.UUID, remote map[string]types.RemoteDay) ([]types.Summary, error) {
	ctx = s.logg.WithStoreID(ctx, storeID.String())

	passes := []func(context.Context, uuid.UUID) types.Summary{
		s.runDailySummaries,
		s.runCustomerScores,
		s.runCohorts,
		s.runAcquisition,
		func(ctx context.Context, storeID uuid.UUID) types.Summary {
			return s.runReconciliation(ctx, storeID, remote)
		},
	}

	summaries := make([]types.Summary, 0, len(passes))
	for _, pass := range passes {
		start := s.now()
		summary := pass(ctx, storeID)
		s.metrics.ObservePhase(summary.Entity, s.now().Sub(start), summary.Processed, len(summary.Warnings))
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"pass":      summary.Entity,
			"processed": summary.Processed,
			"warnings":  len(summary.Warnings),
		}), fmt.Sprintf("%s pass complete", summary.Entity))
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
