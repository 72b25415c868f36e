package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdash/events"
	"bizdash/repository/testutil"
)

func TestDatasetLoader_LoadAndReload(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	loader := NewDatasetLoader(testDB.DB, bus)

	var mu sync.Mutex
	var loadedEvents []events.DatasetLoadedEvent
	var wg sync.WaitGroup
	bus.Subscribe(events.EventTypeDatasetLoaded, func(ctx context.Context, event events.Event) {
		mu.Lock()
		loadedEvents = append(loadedEvents, event.(events.DatasetLoadedEvent))
		mu.Unlock()
		wg.Done()
	})

	snap := testutil.GenerateTestSnapshot(t, 50, 6, 42)

	wg.Add(1)
	progress := make(map[string]int64)
	runID, err := loader.Load(ctx, snap, func(table string, rows int64) {
		progress[table] = rows
	})
	require.NoError(t, err)
	wg.Wait()

	t.Run("row counts match the snapshot", func(t *testing.T) {
		customerRepo := NewCustomerRepository(testDB.DB)
		count, err := customerRepo.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 50, count)

		revenue, err := NewRevenueRepository(testDB.DB).GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, revenue, 6)

		usage, err := NewUsageRepository(testDB.DB).GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, usage, len(snap.Usage))

		transactions, err := NewTransactionRepository(testDB.DB).GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, transactions, len(snap.Transactions))
	})

	t.Run("progress reports every table", func(t *testing.T) {
		assert.EqualValues(t, 50, progress["customers"])
		assert.EqualValues(t, 6, progress["monthly_revenue"])
		assert.EqualValues(t, len(snap.Usage), progress["usage_metrics"])
		assert.EqualValues(t, len(snap.Transactions), progress["transactions"])
	})

	t.Run("loaded event fires after commit", func(t *testing.T) {
		mu.Lock()
		defer mu.Unlock()
		require.Len(t, loadedEvents, 1)
		assert.Equal(t, runID, loadedEvents[0].RunID)
		assert.Equal(t, snap.ID, loadedEvents[0].SnapshotID)
		expectedRows := len(snap.Customers) + len(snap.Revenue) + len(snap.Usage) + len(snap.Transactions)
		assert.Equal(t, expectedRows, loadedEvents[0].RowsLoaded)
	})

	t.Run("reload replaces rather than appends", func(t *testing.T) {
		smaller := testutil.GenerateTestSnapshot(t, 20, 3, 7)

		wg.Add(1)
		_, err := loader.Load(ctx, smaller, nil)
		require.NoError(t, err)
		wg.Wait()

		count, err := NewCustomerRepository(testDB.DB).Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 20, count)

		revenue, err := NewRevenueRepository(testDB.DB).GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, revenue, 3)
	})
}

func TestCustomerRepository_RoundTrip(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	snap := testutil.GenerateTestSnapshot(t, 25, 2, 99)

	loader := NewDatasetLoader(testDB.DB, events.NewBus())
	_, err := loader.Load(ctx, snap, nil)
	require.NoError(t, err)

	got, err := NewCustomerRepository(testDB.DB).GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(snap.Customers))

	for i, c := range snap.Customers {
		assert.Equal(t, c.ID, got[i].ID)
		assert.Equal(t, c.TenureMonths, got[i].TenureMonths)
		assert.True(t, c.MonthlyCharges.Equal(got[i].MonthlyCharges), "customer %d charges: want %s got %s", c.ID, c.MonthlyCharges, got[i].MonthlyCharges)
		assert.True(t, c.TotalValue.Equal(got[i].TotalValue))
		assert.InDelta(t, c.ChurnProbability, got[i].ChurnProbability, 1e-12)
		assert.Equal(t, c.Segment, got[i].Segment)
	}
}
