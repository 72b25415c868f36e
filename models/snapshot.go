package models

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is one complete generated dataset. Snapshots are immutable once
// built; a refresh replaces the whole snapshot rather than mutating records.
// The ID and GeneratedAt fields are bookkeeping metadata and are excluded from
// the determinism contract that covers the four tables.
type Snapshot struct {
	ID           uuid.UUID        `json:"id"`
	Seed         int64            `json:"seed"`
	GeneratedAt  time.Time        `json:"generated_at"`
	Customers    []*Customer      `json:"customers"`
	Revenue      []*MonthlyRevenue `json:"revenue"`
	Usage        []*UsageMetric   `json:"usage"`
	Transactions []*Transaction   `json:"transactions"`
}
