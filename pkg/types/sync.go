package types

import "github.com/shopspring/decimal"

// Summary is the per-phase outcome of a sync run: one per entity phase and
// one per analytics pass. Warnings carry per-record failures that did not
// abort the phase.
type Summary struct {
	Entity    string         `json:"entity"`
	Processed int            `json:"processed"`
	Warnings  []string       `json:"warnings,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// RemoteDay is one day of aggregates observed directly from remote order
// records during sync, keyed by "2006-01-02". It is the ground truth the
// reconciliation pass diffs the mirror against.
type RemoteDay struct {
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}
