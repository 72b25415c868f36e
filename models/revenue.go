package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyRevenue represents one month of aggregated financial metrics.
// Months form a contiguous trailing window; Month is always the first day
// of the calendar month in UTC.
type MonthlyRevenue struct {
	Month           time.Time       `db:"month" json:"month"`
	Revenue         decimal.Decimal `db:"revenue" json:"revenue"`
	Profit          decimal.Decimal `db:"profit" json:"profit"`
	ActiveCustomers int             `db:"active_customers" json:"active_customers"`
	NewSignups      int             `db:"new_signups" json:"new_signups"`
}
