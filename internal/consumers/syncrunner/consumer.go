package syncrunner

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/shopmetrics/shopmetrics-backend/internal/sync"
	pkgerrors "github.com/shopmetrics/shopmetrics-backend/pkg/errors"
	"github.com/shopmetrics/shopmetrics-backend/pkg/logger"
	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
)

// syncRunner is the orchestration surface the consumer drives.
type syncRunner interface {
	Run(ctx context.Context, input sync.RunInput) (*sync.RunResult, error)
}

// Consumer turns sync request events into store sync runs. Delivery is
// at-least-once; the run itself is idempotent, so redelivery is safe.
type Consumer struct {
	runner       syncRunner
	subscription *pubsub.Subscriber
	validate     *validator.Validate
	logg         *logger.Logger
}

// NewConsumer builds the sync request consumer.
func NewConsumer(runner syncRunner, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if runner == nil {
		return nil, fmt.Errorf("sync service required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("sync subscription required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		runner:       runner,
		subscription: subscription,
		validate:     validator.New(),
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

// process handles one delivery. Malformed payloads and non-retryable run
// failures are acked so the subscription does not loop on them forever;
// transient failures are nacked for redelivery.
func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	logCtx := c.logg.WithField(ctx, "message_id", msg.ID)

	var event types.SyncRequested
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		c.logg.Error(logCtx, "failed to decode sync request", err)
		return processResult{ack: true}
	}
	if err := c.validate.Struct(event); err != nil {
		c.logg.Error(logCtx, "invalid sync request", err)
		return processResult{ack: true}
	}
	storeID, err := uuid.Parse(event.StoreID)
	if err != nil {
		c.logg.Error(logCtx, "invalid store id", err)
		return processResult{ack: true}
	}

	logCtx = c.logg.WithStoreID(logCtx, event.StoreID)
	result, err := c.runner.Run(logCtx, sync.RunInput{
		StoreID: storeID,
		Full:    event.Full,
		Since:   event.Since,
		Reason:  event.Reason,
	})
	if err != nil {
		c.logg.Error(logCtx, "sync run failed", err)
		if pkgerrors.Retryable(err) {
			return processResult{nack: true}
		}
		return processResult{ack: true}
	}

	c.logg.Info(c.logg.WithField(logCtx, "summaries", len(result.Summaries)), "sync run handled")
	return processResult{ack: true}
}
