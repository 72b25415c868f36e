package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevenueTrendRow is one month of the revenue trend query, with per-segment
// conditional sums and month-over-month growth.
type RevenueTrendRow struct {
	Month             time.Time
	ActiveCustomers   int
	TotalRevenue      decimal.Decimal
	AvgTransaction    decimal.Decimal
	EnterpriseRevenue decimal.Decimal
	PremiumRevenue    decimal.Decimal
	StandardRevenue   decimal.Decimal
	BudgetRevenue     decimal.Decimal
	GrowthPercent     *float64 // nil for the first month in the window
}

// SegmentationRow is one cell of the value segment x lifecycle stage grid
type SegmentationRow struct {
	ValueSegment      Segment
	LifecycleStage    string
	CustomerCount     int
	AvgMonthlyCharges decimal.Decimal
	AvgLifetimeValue  decimal.Decimal
	AvgDailyContacts  float64
	SegmentPercent    float64
}

// UsagePatternRow aggregates platform usage per weekday for capacity planning
type UsagePatternRow struct {
	Weekday             string
	AvgContacts         float64
	AvgAPICalls         float64
	AvgStorageMB        float64
	PeakAPICalls        int64
	MinAPICalls         int64
	PeakVsAvgPercent    float64
	LoadVariabilityPct  float64
}

// ChurnRiskRow is one scored customer from the churn risk query
type ChurnRiskRow struct {
	CustomerID            int64
	Segment               Segment
	MonthlyCharges        decimal.Decimal
	TenureMonths          int
	AvgDailyContacts      float64
	ActiveDays            int
	DaysSinceLastActivity int
	RiskScore             int
	RiskCategory          string
	AnnualRevenueAtRisk   decimal.Decimal
}

// FinancialKPIRow is one month of the executive KPI query
type FinancialKPIRow struct {
	Month                 time.Time
	SubscriptionRevenue   decimal.Decimal
	SetupFees             decimal.Decimal
	OverageRevenue        decimal.Decimal
	TotalRevenue          decimal.Decimal
	PayingCustomers       int
	ARPU                  decimal.Decimal
	RevenueGrowthPercent  *float64
	CustomerGrowthPercent *float64
	SetupFeePercent       float64
	OveragePercent        float64
}
