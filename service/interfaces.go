package service

import (
	"context"

	"github.com/google/uuid"

	"bizdash/models"
	"bizdash/repository"
)

// SnapshotLoader produces dataset snapshots for the dashboard
type SnapshotLoader interface {
	// Load builds or fetches a complete snapshot
	Load(ctx context.Context) (*models.Snapshot, error)
}

// SnapshotStore persists a snapshot into the analytics tables
type SnapshotStore interface {
	// Load replaces the stored dataset with the snapshot's tables, returning
	// the run ID of the load
	Load(ctx context.Context, snap *models.Snapshot, progress repository.ProgressFunc) (uuid.UUID, error)
}

// AnalyticsQueries defines the canned analytical queries run against a
// loaded dataset
type AnalyticsQueries interface {
	// RevenueTrend returns monthly revenue totals with per-segment breakdown
	// and month-over-month growth
	RevenueTrend(ctx context.Context) ([]*models.RevenueTrendRow, error)

	// CustomerSegmentation returns the value-segment by lifecycle-stage grid
	CustomerSegmentation(ctx context.Context) ([]*models.SegmentationRow, error)

	// UsagePatterns returns per-weekday usage averages with peak and
	// variability percentages
	UsagePatterns(ctx context.Context) ([]*models.UsagePatternRow, error)

	// ChurnRisk returns scored at-risk customers, highest score first
	ChurnRisk(ctx context.Context) ([]*models.ChurnRiskRow, error)

	// FinancialKPIs returns monthly revenue mix and growth metrics
	FinancialKPIs(ctx context.Context) ([]*models.FinancialKPIRow, error)
}
