package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"bizdash/database"
	"bizdash/models"
)

// RevenueRepository stores and reads the monthly_revenue table
type RevenueRepository struct {
	q queryable
}

// NewRevenueRepository creates a new revenue repository
func NewRevenueRepository(db *database.DB) *RevenueRepository {
	return &RevenueRepository{q: db.Pool}
}

// newRevenueRepositoryWithTx creates a new revenue repository bound to a transaction
func newRevenueRepositoryWithTx(tx queryable) *RevenueRepository {
	return &RevenueRepository{q: tx}
}

// ReplaceAll swaps the table contents for the given monthly records
func (r *RevenueRepository) ReplaceAll(ctx context.Context, months []*models.MonthlyRevenue) (int64, error) {
	if _, err := r.q.Exec(ctx, `TRUNCATE monthly_revenue`); err != nil {
		return 0, fmt.Errorf("failed to truncate monthly_revenue: %w", err)
	}

	rows := make([][]any, 0, len(months))
	for _, m := range months {
		rows = append(rows, []any{m.Month, m.Revenue, m.Profit, m.ActiveCustomers, m.NewSignups})
	}

	copied, err := r.q.CopyFrom(ctx,
		pgx.Identifier{"monthly_revenue"},
		[]string{"month", "revenue", "profit", "active_customers", "new_signups"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy monthly revenue: %w", err)
	}
	return copied, nil
}

// GetAll retrieves the full revenue window in month order
func (r *RevenueRepository) GetAll(ctx context.Context) ([]*models.MonthlyRevenue, error) {
	query := `
		SELECT month, revenue, profit, active_customers, new_signups
		FROM monthly_revenue
		ORDER BY month
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly revenue: %w", err)
	}
	defer rows.Close()

	var months []*models.MonthlyRevenue
	for rows.Next() {
		var m models.MonthlyRevenue
		if err := rows.Scan(&m.Month, &m.Revenue, &m.Profit, &m.ActiveCustomers, &m.NewSignups); err != nil {
			return nil, fmt.Errorf("failed to scan monthly revenue: %w", err)
		}
		months = append(months, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly revenue: %w", err)
	}

	return months, nil
}
