package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBus_EmitDeliversToSubscribers(t *testing.T) {
	bus := NewBus()

	received := make(chan DatasetRefreshedEvent, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	bus.Subscribe(EventTypeDatasetRefreshed, func(ctx context.Context, event Event) {
		defer wg.Done()
		refreshed, ok := event.(DatasetRefreshedEvent)
		if !ok {
			t.Errorf("expected DatasetRefreshedEvent, got %T", event)
			return
		}
		select {
		case received <- refreshed:
		case <-time.After(time.Second):
			t.Error("timeout sending event to channel")
		}
	})

	snapID := uuid.New()
	bus.Emit(context.Background(), DatasetRefreshedEvent{
		SnapshotID:    snapID,
		Seed:          42,
		CustomerCount: 100,
		MonthCount:    12,
		Trigger:       "manual",
	})

	wg.Wait()
	got := <-received
	assert.Equal(t, snapID, got.SnapshotID)
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, "manual", got.Trigger)
}

func TestBus_EmitWithNoSubscribersDoesNotPanic(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Emit(context.Background(), DatasetLoadedEvent{RunID: uuid.New()})
	})
}

func TestBus_PanickingHandlerDoesNotAffectOthers(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	wg.Add(1)

	bus.Subscribe(EventTypeDatasetLoaded, func(ctx context.Context, event Event) {
		panic("handler blew up")
	})
	bus.Subscribe(EventTypeDatasetLoaded, func(ctx context.Context, event Event) {
		wg.Done()
	})

	bus.Emit(context.Background(), DatasetLoadedEvent{RunID: uuid.New()})
	wg.Wait()
}

func TestTransactionalBus_FlushAndDiscard(t *testing.T) {
	bus := NewBus()
	txBus := NewTransactionalBus(bus)

	var mu sync.Mutex
	var delivered []Event
	var wg sync.WaitGroup

	bus.Subscribe(EventTypeDatasetLoaded, func(ctx context.Context, event Event) {
		mu.Lock()
		delivered = append(delivered, event)
		mu.Unlock()
		wg.Done()
	})

	t.Run("discard drops pending events", func(t *testing.T) {
		txBus.Publish(DatasetLoadedEvent{RunID: uuid.New()})
		txBus.Discard()
		txBus.Flush()

		mu.Lock()
		assert.Empty(t, delivered)
		mu.Unlock()
	})

	t.Run("flush delivers pending events once", func(t *testing.T) {
		wg.Add(2)
		txBus.Publish(DatasetLoadedEvent{RunID: uuid.New()})
		txBus.Publish(DatasetLoadedEvent{RunID: uuid.New()})
		txBus.Flush()
		wg.Wait()

		mu.Lock()
		assert.Len(t, delivered, 2)
		mu.Unlock()

		// a second flush must not redeliver
		txBus.Flush()
		mu.Lock()
		assert.Len(t, delivered, 2)
		mu.Unlock()
	})
}
