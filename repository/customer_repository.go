package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"bizdash/database"
	"bizdash/models"
)

// CustomerRepository stores and reads the customers table
type CustomerRepository struct {
	q queryable
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *database.DB) *CustomerRepository {
	return &CustomerRepository{q: db.Pool}
}

// newCustomerRepositoryWithTx creates a new customer repository bound to a transaction
func newCustomerRepositoryWithTx(tx queryable) *CustomerRepository {
	return &CustomerRepository{q: tx}
}

// ReplaceAll swaps the table contents for the given customers. TRUNCATE
// cascades to the dependent usage and transaction tables, so callers load
// those afterwards within the same transaction.
func (r *CustomerRepository) ReplaceAll(ctx context.Context, customers []*models.Customer) (int64, error) {
	if _, err := r.q.Exec(ctx, `TRUNCATE customers CASCADE`); err != nil {
		return 0, fmt.Errorf("failed to truncate customers: %w", err)
	}

	rows := make([][]any, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []any{
			c.ID, c.SignupDate, c.TenureMonths, c.MonthlyCharges,
			c.TotalValue, c.ChurnProbability, string(c.Segment),
		})
	}

	copied, err := r.q.CopyFrom(ctx,
		pgx.Identifier{"customers"},
		[]string{"customer_id", "signup_date", "tenure_months", "monthly_charges", "total_value", "churn_probability", "segment"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy customers: %w", err)
	}
	return copied, nil
}

// GetAll retrieves all customers ordered by ID
func (r *CustomerRepository) GetAll(ctx context.Context) ([]*models.Customer, error) {
	query := `
		SELECT customer_id, signup_date, tenure_months, monthly_charges, total_value, churn_probability, segment
		FROM customers
		ORDER BY customer_id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		var c models.Customer
		var segment string
		if err := rows.Scan(&c.ID, &c.SignupDate, &c.TenureMonths, &c.MonthlyCharges, &c.TotalValue, &c.ChurnProbability, &segment); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		c.Segment = models.Segment(segment)
		customers = append(customers, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}

	return customers, nil
}

// Count returns the number of customer rows
func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}
