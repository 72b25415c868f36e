package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"bizdash/database"
	"bizdash/events"
	"bizdash/models"
)

// ProgressFunc is called once per table with the number of rows just loaded.
// Used by the CLI to drive a progress bar; nil is fine.
type ProgressFunc func(table string, rows int64)

// DatasetLoader replaces the analytics tables with a snapshot's contents.
// The load runs in a single transaction so queries never observe a half-loaded
// dataset, and the loaded event fires only after commit.
type DatasetLoader struct {
	db  *database.DB
	bus *events.Bus
}

// NewDatasetLoader creates a new dataset loader
func NewDatasetLoader(db *database.DB, bus *events.Bus) *DatasetLoader {
	return &DatasetLoader{db: db, bus: bus}
}

// Load writes the snapshot into the database, all tables or none, and returns
// the run ID recorded on the emitted event.
func (l *DatasetLoader) Load(ctx context.Context, snap *models.Snapshot, progress ProgressFunc) (uuid.UUID, error) {
	runID := uuid.New()
	start := time.Now()
	txBus := events.NewTransactionalBus(l.bus)

	var total int64
	err := l.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		report := func(table string, rows int64) {
			total += rows
			if progress != nil {
				progress(table, rows)
			}
		}

		// Customers first: the usage and transaction tables reference them.
		rows, err := newCustomerRepositoryWithTx(tx).ReplaceAll(ctx, snap.Customers)
		if err != nil {
			return err
		}
		report("customers", rows)

		rows, err = newRevenueRepositoryWithTx(tx).ReplaceAll(ctx, snap.Revenue)
		if err != nil {
			return err
		}
		report("monthly_revenue", rows)

		rows, err = newUsageRepositoryWithTx(tx).ReplaceAll(ctx, snap.Usage)
		if err != nil {
			return err
		}
		report("usage_metrics", rows)

		rows, err = newTransactionRepositoryWithTx(tx).ReplaceAll(ctx, snap.Transactions)
		if err != nil {
			return err
		}
		report("transactions", rows)

		txBus.Publish(events.DatasetLoadedEvent{
			RunID:      runID,
			SnapshotID: snap.ID,
			RowsLoaded: int(total),
			Duration:   time.Since(start),
		})
		return nil
	})
	if err != nil {
		txBus.Discard()
		return uuid.Nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	txBus.Flush()
	log.WithFields(log.Fields{
		"runId":      runID,
		"snapshotId": snap.ID,
		"rows":       total,
		"duration":   time.Since(start),
	}).Info("Dataset loaded")

	return runID, nil
}
