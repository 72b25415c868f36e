package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"bizdash/database"
	"bizdash/models"
)

// TransactionRepository stores and reads the transactions table
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a new transaction repository bound to a transaction
func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// ReplaceAll swaps the table contents for the given billing transactions
func (r *TransactionRepository) ReplaceAll(ctx context.Context, transactions []*models.Transaction) (int64, error) {
	if _, err := r.q.Exec(ctx, `TRUNCATE transactions`); err != nil {
		return 0, fmt.Errorf("failed to truncate transactions: %w", err)
	}

	rows := make([][]any, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, []any{tx.ID, tx.CustomerID, tx.Month, tx.Amount, string(tx.Type)})
	}

	copied, err := r.q.CopyFrom(ctx,
		pgx.Identifier{"transactions"},
		[]string{"id", "customer_id", "month", "amount", "transaction_type"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy transactions: %w", err)
	}
	return copied, nil
}

// GetAll retrieves all transactions ordered by ID
func (r *TransactionRepository) GetAll(ctx context.Context) ([]*models.Transaction, error) {
	query := `
		SELECT id, customer_id, month, amount, transaction_type
		FROM transactions
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var typ string
		if err := rows.Scan(&tx.ID, &tx.CustomerID, &tx.Month, &tx.Amount, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Type = models.TransactionType(typ)
		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}
