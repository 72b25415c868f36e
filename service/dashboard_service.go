package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"bizdash/events"
	"bizdash/models"
)

// ErrUnknownChart is returned when a chart ID is not in the dashboard's set
var ErrUnknownChart = errors.New("unknown chart")

// ErrNoSnapshot is returned when the dashboard has not loaded a dataset yet
var ErrNoSnapshot = errors.New("no dataset loaded")

// ChartIDs lists the charts the dashboard serves, in display order
var ChartIDs = []string{
	"revenue-trend",
	"customer-segments",
	"churn-analysis",
	"financial-metrics",
}

// DashboardService serves charts, KPIs and the high-risk customer table from
// the current dataset snapshot. The snapshot is swapped wholesale on refresh;
// readers always see a complete, consistent dataset.
type DashboardService struct {
	loader        SnapshotLoader
	eventBus      *events.Bus
	riskThreshold float64

	mu       sync.RWMutex
	snapshot *models.Snapshot
}

// NewDashboardService creates a dashboard service. Call Refresh before
// serving requests; until then every accessor returns ErrNoSnapshot.
func NewDashboardService(loader SnapshotLoader, eventBus *events.Bus, riskThreshold float64) *DashboardService {
	return &DashboardService{
		loader:        loader,
		eventBus:      eventBus,
		riskThreshold: riskThreshold,
	}
}

// Refresh loads a new snapshot and swaps it in. Trigger records what caused
// the refresh ("startup", "scheduled" or "manual") for the emitted event.
func (s *DashboardService) Refresh(ctx context.Context, trigger string) error {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh dataset: %w", err)
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"snapshotID": snap.ID,
		"customers":  len(snap.Customers),
		"months":     len(snap.Revenue),
		"trigger":    trigger,
	}).Info("Dataset refreshed")

	s.eventBus.Emit(ctx, events.DatasetRefreshedEvent{
		SnapshotID:    snap.ID,
		Seed:          snap.Seed,
		CustomerCount: len(snap.Customers),
		MonthCount:    len(snap.Revenue),
		Trigger:       trigger,
	})
	return nil
}

// Snapshot returns the current snapshot, or nil before the first refresh
func (s *DashboardService) Snapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Chart builds the chart spec for the given ID from the current snapshot
func (s *DashboardService) Chart(id string) (*models.ChartSpec, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, ErrNoSnapshot
	}

	switch id {
	case "revenue-trend":
		return revenueTrendChart(snap), nil
	case "customer-segments":
		return customerSegmentsChart(snap), nil
	case "churn-analysis":
		return churnAnalysisChart(snap), nil
	case "financial-metrics":
		return financialMetricsChart(snap), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, id)
	}
}

// KPISummary computes the headline numbers for the current snapshot
func (s *DashboardService) KPISummary() (*models.KPISummary, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, ErrNoSnapshot
	}

	totalRevenue := decimal.Zero
	for _, m := range snap.Revenue {
		totalRevenue = totalRevenue.Add(m.Revenue)
	}

	totalCharges := decimal.Zero
	churnSum := 0.0
	for _, c := range snap.Customers {
		totalCharges = totalCharges.Add(c.MonthlyCharges)
		churnSum += c.ChurnProbability
	}

	summary := &models.KPISummary{
		SnapshotID:    snap.ID,
		GeneratedAt:   snap.GeneratedAt,
		TotalRevenue:  totalRevenue.Round(2),
		CustomerCount: len(snap.Customers),
	}
	if n := len(snap.Customers); n > 0 {
		summary.AvgChurnRisk = churnSum / float64(n)
		summary.AvgMonthlyCharges = totalCharges.DivRound(decimal.NewFromInt(int64(n)), 2)
	}
	return summary, nil
}

// HighRiskCustomers returns the limit highest-churn customers, highest first.
// Rows above the configured threshold are flagged.
func (s *DashboardService) HighRiskCustomers(limit int) ([]*models.HighRiskCustomer, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, ErrNoSnapshot
	}

	sorted := make([]*models.Customer, len(snap.Customers))
	copy(sorted, snap.Customers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ChurnProbability > sorted[j].ChurnProbability
	})
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	rows := make([]*models.HighRiskCustomer, 0, len(sorted))
	for _, c := range sorted {
		rows = append(rows, &models.HighRiskCustomer{
			CustomerID:       c.ID,
			MonthlyCharges:   c.MonthlyCharges,
			TenureMonths:     c.TenureMonths,
			ChurnProbability: c.ChurnProbability,
			Segment:          c.Segment,
			Flagged:          c.ChurnProbability > s.riskThreshold,
		})
	}
	return rows, nil
}
