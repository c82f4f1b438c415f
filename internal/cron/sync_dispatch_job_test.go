package cron

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/shopmetrics/shopmetrics-backend/pkg/db/models"
	"github.com/shopmetrics/shopmetrics-backend/pkg/logger"
	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
)

type stubStoreLister struct {
	stores []models.Store
	err    error
}

func (s *stubStoreLister) ListActive(_ context.Context) ([]models.Store, error) {
	return s.stores, s.err
}

type stubPublisher struct {
	published []types.SyncRequested
	failFor   map[string]error
}

func (p *stubPublisher) PublishSyncRequest(_ context.Context, event types.SyncRequested) error {
	if err, ok := p.failFor[event.StoreID]; ok {
		return err
	}
	p.published = append(p.published, event)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestSyncDispatchJob_OneEventPerActiveStore(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	lister := &stubStoreLister{stores: []models.Store{{ID: first}, {ID: second}}}
	publisher := &stubPublisher{}

	job, err := NewSyncDispatchJob(SyncDispatchJobParams{
		Logger:    testLogger(),
		Stores:    lister,
		Publisher: publisher,
	})
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	require.Len(t, publisher.published, 2)
	assert.Equal(t, first.String(), publisher.published[0].StoreID)
	assert.Equal(t, "cron", publisher.published[0].Reason)
	assert.False(t, publisher.published[0].Full)
}

func TestSyncDispatchJob_PublishFailureDoesNotStopOthers(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	lister := &stubStoreLister{stores: []models.Store{{ID: first}, {ID: second}}}
	publisher := &stubPublisher{failFor: map[string]error{
		first.String(): errors.New("topic unavailable"),
	}}

	job, err := NewSyncDispatchJob(SyncDispatchJobParams{
		Logger:    testLogger(),
		Stores:    lister,
		Publisher: publisher,
	})
	require.NoError(t, err)

	runErr := job.Run(context.Background())
	require.Error(t, runErr)
	assert.Len(t, multierr.Errors(runErr), 1)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, second.String(), publisher.published[0].StoreID)
}

func TestSyncDispatchJob_ListFailureIsFatal(t *testing.T) {
	job, err := NewSyncDispatchJob(SyncDispatchJobParams{
		Logger:    testLogger(),
		Stores:    &stubStoreLister{err: errors.New("db down")},
		Publisher: &stubPublisher{},
	})
	require.NoError(t, err)

	assert.Error(t, job.Run(context.Background()))
}
