package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"bizdash/database"
	"bizdash/models"
)

// UsageRepository stores and reads the usage_metrics table
type UsageRepository struct {
	q queryable
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(db *database.DB) *UsageRepository {
	return &UsageRepository{q: db.Pool}
}

// newUsageRepositoryWithTx creates a new usage repository bound to a transaction
func newUsageRepositoryWithTx(tx queryable) *UsageRepository {
	return &UsageRepository{q: tx}
}

// ReplaceAll swaps the table contents for the given usage records.
// Customers must already be loaded in the same transaction because of the
// foreign key.
func (r *UsageRepository) ReplaceAll(ctx context.Context, usage []*models.UsageMetric) (int64, error) {
	if _, err := r.q.Exec(ctx, `TRUNCATE usage_metrics`); err != nil {
		return 0, fmt.Errorf("failed to truncate usage_metrics: %w", err)
	}

	rows := make([][]any, 0, len(usage))
	for _, u := range usage {
		rows = append(rows, []any{u.CustomerID, u.Day, u.ContactsCaptured, u.APICalls, u.StorageMB})
	}

	copied, err := r.q.CopyFrom(ctx,
		pgx.Identifier{"usage_metrics"},
		[]string{"customer_id", "day", "contacts_captured", "api_calls", "storage_mb"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy usage metrics: %w", err)
	}
	return copied, nil
}

// GetAll retrieves all usage records ordered by customer then day
func (r *UsageRepository) GetAll(ctx context.Context) ([]*models.UsageMetric, error) {
	query := `
		SELECT customer_id, day, contacts_captured, api_calls, storage_mb
		FROM usage_metrics
		ORDER BY customer_id, day
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage metrics: %w", err)
	}
	defer rows.Close()

	var usage []*models.UsageMetric
	for rows.Next() {
		var u models.UsageMetric
		if err := rows.Scan(&u.CustomerID, &u.Day, &u.ContactsCaptured, &u.APICalls, &u.StorageMB); err != nil {
			return nil, fmt.Errorf("failed to scan usage metric: %w", err)
		}
		usage = append(usage, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate usage metrics: %w", err)
	}

	return usage, nil
}
