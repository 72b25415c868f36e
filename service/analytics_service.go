package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"bizdash/models"
	"bizdash/repository"
)

// AnalyticsReport bundles the results of one analytics run
type AnalyticsReport struct {
	RunID        uuid.UUID
	SnapshotID   uuid.UUID
	Trend        []*models.RevenueTrendRow
	Segmentation []*models.SegmentationRow
	Usage        []*models.UsagePatternRow
	Churn        []*models.ChurnRiskRow
	KPIs         []*models.FinancialKPIRow
}

// AnalyticsService loads a dataset into the analytics tables and runs the
// canned query suite against it
type AnalyticsService struct {
	loader  SnapshotLoader
	store   SnapshotStore
	queries AnalyticsQueries
}

// NewAnalyticsService creates an analytics service
func NewAnalyticsService(loader SnapshotLoader, store SnapshotStore, queries AnalyticsQueries) *AnalyticsService {
	return &AnalyticsService{loader: loader, store: store, queries: queries}
}

// Run loads a fresh snapshot into the database and executes all five
// queries. progress may be nil.
func (s *AnalyticsService) Run(ctx context.Context, progress repository.ProgressFunc) (*AnalyticsReport, error) {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	runID, err := s.store.Load(ctx, snap, progress)
	if err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	log.WithFields(log.Fields{
		"runID":      runID,
		"snapshotID": snap.ID,
	}).Info("Dataset loaded, running analytics queries")

	report := &AnalyticsReport{RunID: runID, SnapshotID: snap.ID}

	if report.Trend, err = s.queries.RevenueTrend(ctx); err != nil {
		return nil, fmt.Errorf("revenue trend query failed: %w", err)
	}
	if report.Segmentation, err = s.queries.CustomerSegmentation(ctx); err != nil {
		return nil, fmt.Errorf("segmentation query failed: %w", err)
	}
	if report.Usage, err = s.queries.UsagePatterns(ctx); err != nil {
		return nil, fmt.Errorf("usage patterns query failed: %w", err)
	}
	if report.Churn, err = s.queries.ChurnRisk(ctx); err != nil {
		return nil, fmt.Errorf("churn risk query failed: %w", err)
	}
	if report.KPIs, err = s.queries.FinancialKPIs(ctx); err != nil {
		return nil, fmt.Errorf("financial KPI query failed: %w", err)
	}

	return report, nil
}
