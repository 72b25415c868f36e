package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of charge behind a transaction
type TransactionType string

const (
	TransactionTypeSubscription TransactionType = "subscription"
	TransactionTypeSetupFee     TransactionType = "setup_fee"
	TransactionTypeOverage      TransactionType = "overage"
)

// Transaction represents a single billing event for a customer
type Transaction struct {
	ID         int64           `db:"id" json:"id"`
	CustomerID int64           `db:"customer_id" json:"customer_id"`
	Month      time.Time       `db:"month" json:"month"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	Type       TransactionType `db:"transaction_type" json:"transaction_type"`
}
