package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChartType identifies how a chart's data is meant to be drawn
type ChartType string

const (
	ChartTypeLine     ChartType = "line"
	ChartTypePie      ChartType = "pie"
	ChartTypeScatter  ChartType = "scatter"
	ChartTypeDualAxis ChartType = "dual_axis"
)

// Series is one named data series within a chart. For line and bar series X
// holds category labels (months) and Y the values. SecondaryAxis marks series
// plotted against the right-hand axis in dual-axis charts.
type Series struct {
	Name          string    `json:"name"`
	Kind          string    `json:"kind"` // "line" or "bar"
	X             []string  `json:"x"`
	Y             []float64 `json:"y"`
	SecondaryAxis bool      `json:"secondary_axis,omitempty"`
}

// PieSlice is one labeled wedge of a pie chart
type PieSlice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ScatterPoint carries up to four encodings: position, color, and size
type ScatterPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color float64 `json:"color"`
	Size  float64 `json:"size"`
}

// ChartSpec is a renderer-agnostic chart description. The dashboard layer
// computes these from the current snapshot; all styling is the client's
// concern.
type ChartSpec struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Type            ChartType      `json:"type"`
	XLabel          string         `json:"x_label,omitempty"`
	YLabel          string         `json:"y_label,omitempty"`
	SecondaryYLabel string         `json:"secondary_y_label,omitempty"`
	Series          []Series       `json:"series,omitempty"`
	Slices          []PieSlice     `json:"slices,omitempty"`
	Points          []ScatterPoint `json:"points,omitempty"`
}

// KPISummary holds the headline numbers shown above the charts
type KPISummary struct {
	SnapshotID        uuid.UUID       `json:"snapshot_id"`
	GeneratedAt       time.Time       `json:"generated_at"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AvgChurnRisk      float64         `json:"avg_churn_risk"`
	CustomerCount     int             `json:"customer_count"`
	AvgMonthlyCharges decimal.Decimal `json:"avg_monthly_charges"`
}

// HighRiskCustomer is one row of the high-risk customer table. Flagged is set
// when the churn probability crosses the configured alert threshold.
type HighRiskCustomer struct {
	CustomerID       int64           `json:"customer_id"`
	MonthlyCharges   decimal.Decimal `json:"monthly_charges"`
	TenureMonths     int             `json:"tenure_months"`
	ChurnProbability float64         `json:"churn_probability"`
	Segment          Segment         `json:"segment"`
	Flagged          bool            `json:"flagged"`
}
