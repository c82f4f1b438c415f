package types

import "time"

// SyncRequested asks a sync worker to run one store. Full pulls the entire
// history; otherwise Since (or the store's last completed run) bounds the
// order window. Reason is free-form operator context ("cron", "manual", ...).
type SyncRequested struct {
	StoreID string     `json:"store_id" validate:"required,uuid4"`
	Full    bool       `json:"full"`
	Since   *time.Time `json:"since,omitempty"`
	Reason  string     `json:"reason,omitempty" validate:"max=200"`
}
