package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bizdash/models"
)

func TestAnalyticsRunHappyPath(t *testing.T) {
	snap := testSnapshot()
	runID := uuid.New()

	loader := new(MockSnapshotLoader)
	loader.On("Load", mock.Anything).Return(snap, nil)

	store := new(MockSnapshotStore)
	store.On("Load", mock.Anything, snap, mock.Anything).Return(runID, nil)

	queries := new(MockAnalyticsQueries)
	queries.On("RevenueTrend", mock.Anything).Return([]*models.RevenueTrendRow{{}}, nil)
	queries.On("CustomerSegmentation", mock.Anything).Return([]*models.SegmentationRow{{}, {}}, nil)
	queries.On("UsagePatterns", mock.Anything).Return([]*models.UsagePatternRow{}, nil)
	queries.On("ChurnRisk", mock.Anything).Return([]*models.ChurnRiskRow{}, nil)
	queries.On("FinancialKPIs", mock.Anything).Return([]*models.FinancialKPIRow{}, nil)

	svc := NewAnalyticsService(loader, store, queries)
	report, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, runID, report.RunID)
	assert.Equal(t, snap.ID, report.SnapshotID)
	assert.Len(t, report.Trend, 1)
	assert.Len(t, report.Segmentation, 2)
	queries.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestAnalyticsRunStoreFailure(t *testing.T) {
	loader := new(MockSnapshotLoader)
	loader.On("Load", mock.Anything).Return(testSnapshot(), nil)

	store := new(MockSnapshotStore)
	store.On("Load", mock.Anything, mock.Anything, mock.Anything).Return(uuid.Nil, errors.New("copy failed"))

	queries := new(MockAnalyticsQueries)

	svc := NewAnalyticsService(loader, store, queries)
	_, err := svc.Run(context.Background(), nil)
	assert.Error(t, err)
	queries.AssertNotCalled(t, "RevenueTrend", mock.Anything)
}

func TestAnalyticsRunQueryFailure(t *testing.T) {
	loader := new(MockSnapshotLoader)
	loader.On("Load", mock.Anything).Return(testSnapshot(), nil)

	store := new(MockSnapshotStore)
	store.On("Load", mock.Anything, mock.Anything, mock.Anything).Return(uuid.New(), nil)

	queries := new(MockAnalyticsQueries)
	queries.On("RevenueTrend", mock.Anything).Return(nil, errors.New("relation does not exist"))

	svc := NewAnalyticsService(loader, store, queries)
	_, err := svc.Run(context.Background(), nil)
	assert.ErrorContains(t, err, "revenue trend")
}
