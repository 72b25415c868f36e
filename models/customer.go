package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Segment represents a customer value tier derived from total value
type Segment string

const (
	SegmentBudget     Segment = "budget"
	SegmentStandard   Segment = "standard"
	SegmentPremium    Segment = "premium"
	SegmentEnterprise Segment = "enterprise"
)

// Segments lists all value segments in ascending value order
var Segments = []Segment{SegmentBudget, SegmentStandard, SegmentPremium, SegmentEnterprise}

// Segment thresholds on total value. Fixed constants so that two records with
// equal total value always land in the same segment.
var (
	segmentStandardFloor   = decimal.NewFromInt(1000)
	segmentPremiumFloor    = decimal.NewFromInt(5000)
	segmentEnterpriseFloor = decimal.NewFromInt(20000)
)

// SegmentFor derives the value segment for a total value amount.
func SegmentFor(totalValue decimal.Decimal) Segment {
	switch {
	case totalValue.GreaterThanOrEqual(segmentEnterpriseFloor):
		return SegmentEnterprise
	case totalValue.GreaterThanOrEqual(segmentPremiumFloor):
		return SegmentPremium
	case totalValue.GreaterThanOrEqual(segmentStandardFloor):
		return SegmentStandard
	default:
		return SegmentBudget
	}
}

// Customer represents a synthetic customer record
type Customer struct {
	ID               int64           `db:"customer_id" json:"customer_id"`
	SignupDate       time.Time       `db:"signup_date" json:"signup_date"`
	TenureMonths     int             `db:"tenure_months" json:"tenure_months"`
	MonthlyCharges   decimal.Decimal `db:"monthly_charges" json:"monthly_charges"`
	TotalValue       decimal.Decimal `db:"total_value" json:"total_value"`
	ChurnProbability float64         `db:"churn_probability" json:"churn_probability"`
	Segment          Segment         `db:"segment" json:"segment"`
}
