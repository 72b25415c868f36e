package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bizdash/events"
	"bizdash/models"
)

func testSnapshot() *models.Snapshot {
	month := func(y int, m time.Month) time.Time {
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	}
	return &models.Snapshot{
		ID:          uuid.New(),
		Seed:        42,
		GeneratedAt: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		Customers: []*models.Customer{
			{ID: 1, TenureMonths: 3, MonthlyCharges: decimal.NewFromInt(50), TotalValue: decimal.NewFromInt(150), ChurnProbability: 0.9, Segment: models.SegmentBudget},
			{ID: 2, TenureMonths: 24, MonthlyCharges: decimal.NewFromInt(100), TotalValue: decimal.NewFromInt(2400), ChurnProbability: 0.1, Segment: models.SegmentStandard},
			{ID: 3, TenureMonths: 60, MonthlyCharges: decimal.NewFromInt(150), TotalValue: decimal.NewFromInt(9000), ChurnProbability: 0.5, Segment: models.SegmentPremium},
		},
		Revenue: []*models.MonthlyRevenue{
			{Month: month(2024, time.October), Revenue: decimal.NewFromInt(50000), Profit: decimal.NewFromInt(20000), ActiveCustomers: 7900, NewSignups: 140},
			{Month: month(2024, time.November), Revenue: decimal.NewFromInt(52000), Profit: decimal.NewFromInt(21000), ActiveCustomers: 8100, NewSignups: 160},
		},
	}
}

func TestDashboardRefreshSwapsSnapshotAndEmitsEvent(t *testing.T) {
	snap := testSnapshot()
	loader := new(MockSnapshotLoader)
	loader.On("Load", mock.Anything).Return(snap, nil)

	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeDatasetRefreshed, func(ctx context.Context, e events.Event) {
		received <- e
	})

	svc := NewDashboardService(loader, bus, 0.7)
	require.NoError(t, svc.Refresh(context.Background(), "manual"))
	assert.Same(t, snap, svc.Snapshot())

	select {
	case e := <-received:
		refreshed := e.(events.DatasetRefreshedEvent)
		assert.Equal(t, snap.ID, refreshed.SnapshotID)
		assert.Equal(t, 3, refreshed.CustomerCount)
		assert.Equal(t, 2, refreshed.MonthCount)
		assert.Equal(t, "manual", refreshed.Trigger)
	case <-time.After(time.Second):
		t.Fatal("expected a dataset refreshed event")
	}
	loader.AssertExpectations(t)
}

func TestDashboardRefreshFailureKeepsOldSnapshot(t *testing.T) {
	snap := testSnapshot()
	loader := new(MockSnapshotLoader)
	loader.On("Load", mock.Anything).Return(snap, nil).Once()
	loader.On("Load", mock.Anything).Return(nil, errors.New("generator exploded")).Once()

	svc := NewDashboardService(loader, events.NewBus(), 0.7)
	require.NoError(t, svc.Refresh(context.Background(), "startup"))

	err := svc.Refresh(context.Background(), "scheduled")
	assert.Error(t, err)
	assert.Same(t, snap, svc.Snapshot())
}

func TestDashboardChartBeforeRefresh(t *testing.T) {
	svc := NewDashboardService(new(MockSnapshotLoader), events.NewBus(), 0.7)

	_, err := svc.Chart("revenue-trend")
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = svc.KPISummary()
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = svc.HighRiskCustomers(5)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestDashboardUnknownChart(t *testing.T) {
	svc := newRefreshedService(t)
	_, err := svc.Chart("profit-margin-waterfall")
	assert.ErrorIs(t, err, ErrUnknownChart)
}

func newRefreshedService(t *testing.T) *DashboardService {
	t.Helper()
	loader := new(MockSnapshotLoader)
	loader.On("Load", mock.Anything).Return(testSnapshot(), nil)
	svc := NewDashboardService(loader, events.NewBus(), 0.7)
	require.NoError(t, svc.Refresh(context.Background(), "startup"))
	return svc
}

func TestRevenueTrendChart(t *testing.T) {
	svc := newRefreshedService(t)

	chart, err := svc.Chart("revenue-trend")
	require.NoError(t, err)

	assert.Equal(t, models.ChartTypeLine, chart.Type)
	require.Len(t, chart.Series, 2)
	assert.Equal(t, "Revenue", chart.Series[0].Name)
	assert.Equal(t, []string{"Oct 2024", "Nov 2024"}, chart.Series[0].X)
	assert.Equal(t, []float64{50000, 52000}, chart.Series[0].Y)
	assert.Equal(t, []float64{20000, 21000}, chart.Series[1].Y)
}

func TestCustomerSegmentsChart(t *testing.T) {
	svc := newRefreshedService(t)

	chart, err := svc.Chart("customer-segments")
	require.NoError(t, err)

	assert.Equal(t, models.ChartTypePie, chart.Type)
	require.Len(t, chart.Slices, 3)
	// ascending segment order, absent segments omitted
	assert.Equal(t, "budget", chart.Slices[0].Label)
	assert.Equal(t, "standard", chart.Slices[1].Label)
	assert.Equal(t, "premium", chart.Slices[2].Label)
	for _, s := range chart.Slices {
		assert.Equal(t, 1.0, s.Value)
	}
}

func TestChurnAnalysisChart(t *testing.T) {
	svc := newRefreshedService(t)

	chart, err := svc.Chart("churn-analysis")
	require.NoError(t, err)

	assert.Equal(t, models.ChartTypeScatter, chart.Type)
	require.Len(t, chart.Points, 3)
	assert.Equal(t, 3.0, chart.Points[0].X)
	assert.Equal(t, 50.0, chart.Points[0].Y)
	assert.Equal(t, 0.9, chart.Points[0].Color)
	assert.Equal(t, 150.0, chart.Points[0].Size)
}

func TestFinancialMetricsChart(t *testing.T) {
	svc := newRefreshedService(t)

	chart, err := svc.Chart("financial-metrics")
	require.NoError(t, err)

	assert.Equal(t, models.ChartTypeDualAxis, chart.Type)
	require.Len(t, chart.Series, 2)
	assert.Equal(t, "bar", chart.Series[0].Kind)
	assert.False(t, chart.Series[0].SecondaryAxis)
	assert.Equal(t, "line", chart.Series[1].Kind)
	assert.True(t, chart.Series[1].SecondaryAxis)
	assert.Equal(t, []float64{140, 160}, chart.Series[0].Y)
	assert.Equal(t, []float64{7900, 8100}, chart.Series[1].Y)
}

func TestKPISummary(t *testing.T) {
	svc := newRefreshedService(t)

	kpis, err := svc.KPISummary()
	require.NoError(t, err)

	assert.True(t, kpis.TotalRevenue.Equal(decimal.NewFromInt(102000)), "total revenue %s", kpis.TotalRevenue)
	assert.Equal(t, 3, kpis.CustomerCount)
	assert.InDelta(t, 0.5, kpis.AvgChurnRisk, 1e-9)
	assert.True(t, kpis.AvgMonthlyCharges.Equal(decimal.NewFromInt(100)), "avg charges %s", kpis.AvgMonthlyCharges)
}

func TestHighRiskCustomers(t *testing.T) {
	svc := newRefreshedService(t)

	rows, err := svc.HighRiskCustomers(2)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].CustomerID)
	assert.True(t, rows[0].Flagged)
	assert.Equal(t, int64(3), rows[1].CustomerID)
	assert.False(t, rows[1].Flagged)
}
