package syncrunner

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmetrics/shopmetrics-backend/internal/sync"
	pkgerrors "github.com/shopmetrics/shopmetrics-backend/pkg/errors"
	"github.com/shopmetrics/shopmetrics-backend/pkg/logger"
	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
)

type stubRunner struct {
	input sync.RunInput
	calls int
	err   error
}

func (r *stubRunner) Run(_ context.Context, input sync.RunInput) (*sync.RunResult, error) {
	r.input = input
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &sync.RunResult{StoreID: input.StoreID}, nil
}

func newTestConsumer(runner *stubRunner) *Consumer {
	return &Consumer{
		runner:   runner,
		validate: validator.New(),
		logg:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	}
}

func message(t *testing.T, event types.SyncRequested) *pubsub.Message {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return &pubsub.Message{ID: "m1", Data: data}
}

func TestProcess_RunsSyncAndAcks(t *testing.T) {
	runner := &stubRunner{}
	consumer := newTestConsumer(runner)
	storeID := uuid.New()

	result := consumer.process(context.Background(), message(t, types.SyncRequested{
		StoreID: storeID.String(),
		Full:    true,
		Reason:  "manual",
	}))

	assert.True(t, result.ack)
	assert.False(t, result.nack)
	require.Equal(t, 1, runner.calls)
	assert.Equal(t, storeID, runner.input.StoreID)
	assert.True(t, runner.input.Full)
	assert.Equal(t, "manual", runner.input.Reason)
}

func TestProcess_MalformedPayloadAcksWithoutRunning(t *testing.T) {
	runner := &stubRunner{}
	consumer := newTestConsumer(runner)

	result := consumer.process(context.Background(), &pubsub.Message{ID: "m1", Data: []byte("{not json")})

	assert.True(t, result.ack)
	assert.Zero(t, runner.calls)
}

func TestProcess_MissingStoreIDAcksWithoutRunning(t *testing.T) {
	runner := &stubRunner{}
	consumer := newTestConsumer(runner)

	result := consumer.process(context.Background(), message(t, types.SyncRequested{Reason: "manual"}))

	assert.True(t, result.ack)
	assert.Zero(t, runner.calls)
}

func TestProcess_NonRetryableFailureAcks(t *testing.T) {
	runner := &stubRunner{err: pkgerrors.New(pkgerrors.CodeNotFound, "store missing")}
	consumer := newTestConsumer(runner)

	result := consumer.process(context.Background(), message(t, types.SyncRequested{
		StoreID: uuid.NewString(),
	}))

	assert.True(t, result.ack)
	assert.False(t, result.nack)
}

func TestProcess_TransientFailureNacks(t *testing.T) {
	runner := &stubRunner{err: pkgerrors.New(pkgerrors.CodeDependency, "remote api down")}
	consumer := newTestConsumer(runner)

	result := consumer.process(context.Background(), message(t, types.SyncRequested{
		StoreID: uuid.NewString(),
	}))

	assert.True(t, result.nack)
}
