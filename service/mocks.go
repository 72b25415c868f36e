package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"bizdash/models"
	"bizdash/repository"
)

// MockSnapshotLoader is a mock implementation of SnapshotLoader
type MockSnapshotLoader struct {
	mock.Mock
}

func (m *MockSnapshotLoader) Load(ctx context.Context) (*models.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Snapshot), args.Error(1)
}

// MockSnapshotStore is a mock implementation of SnapshotStore
type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) Load(ctx context.Context, snap *models.Snapshot, progress repository.ProgressFunc) (uuid.UUID, error) {
	args := m.Called(ctx, snap, progress)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockAnalyticsQueries is a mock implementation of AnalyticsQueries
type MockAnalyticsQueries struct {
	mock.Mock
}

func (m *MockAnalyticsQueries) RevenueTrend(ctx context.Context) ([]*models.RevenueTrendRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RevenueTrendRow), args.Error(1)
}

func (m *MockAnalyticsQueries) CustomerSegmentation(ctx context.Context) ([]*models.SegmentationRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SegmentationRow), args.Error(1)
}

func (m *MockAnalyticsQueries) UsagePatterns(ctx context.Context) ([]*models.UsagePatternRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UsagePatternRow), args.Error(1)
}

func (m *MockAnalyticsQueries) ChurnRisk(ctx context.Context) ([]*models.ChurnRiskRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChurnRiskRow), args.Error(1)
}

func (m *MockAnalyticsQueries) FinancialKPIs(ctx context.Context) ([]*models.FinancialKPIRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FinancialKPIRow), args.Error(1)
}
