package sync

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopmetrics/shopmetrics-backend/pkg/types"
)

// Phase names, in execution order.
const (
	PhaseProducts      = "products"
	PhaseCustomers     = "customers"
	PhaseCoupons       = "coupons"
	PhaseSubscriptions = "subscriptions"
	PhaseOrders        = "orders"
)

// RunInput describes one requested sync run for a single store.
type RunInput struct {
	StoreID uuid.UUID
	Full    bool
	Since   *time.Time
	Reason  string
}

// RunResult is the operator-facing outcome: one summary per entity phase and
// per analytics pass.
type RunResult struct {
	StoreID    uuid.UUID       `json:"store_id"`
	Summaries  []types.Summary `json:"summaries"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
}

// OrdersOptions bound the order pull. Full pulls everything and ignores
// Since; otherwise Since, when set, requests only orders created after it.
type OrdersOptions struct {
	Since *time.Time
	Full  bool
}
