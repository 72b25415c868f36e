package models

import (
	"time"
)

// UsageMetric represents one customer's platform usage for a single day
type UsageMetric struct {
	CustomerID       int64     `db:"customer_id" json:"customer_id"`
	Day              time.Time `db:"day" json:"day"`
	ContactsCaptured int       `db:"contacts_captured" json:"contacts_captured"`
	APICalls         int       `db:"api_calls" json:"api_calls"`
	StorageMB        float64   `db:"storage_mb" json:"storage_mb"`
}
