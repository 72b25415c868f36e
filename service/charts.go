package service

import (
	"bizdash/models"
)

// Chart builders are pure functions from a snapshot to a chart spec. They
// never mutate the snapshot and carry no state of their own, so the
// dashboard can rebuild any chart from whichever snapshot is current.

const monthLabel = "Jan 2006"

func revenueTrendChart(snap *models.Snapshot) *models.ChartSpec {
	months := make([]string, 0, len(snap.Revenue))
	revenue := make([]float64, 0, len(snap.Revenue))
	profit := make([]float64, 0, len(snap.Revenue))
	for _, m := range snap.Revenue {
		months = append(months, m.Month.Format(monthLabel))
		revenue = append(revenue, m.Revenue.InexactFloat64())
		profit = append(profit, m.Profit.InexactFloat64())
	}

	return &models.ChartSpec{
		ID:     "revenue-trend",
		Title:  "Monthly Revenue Trend",
		Type:   models.ChartTypeLine,
		XLabel: "Month",
		YLabel: "Amount ($)",
		Series: []models.Series{
			{Name: "Revenue", Kind: "line", X: months, Y: revenue},
			{Name: "Profit", Kind: "line", X: months, Y: profit},
		},
	}
}

func customerSegmentsChart(snap *models.Snapshot) *models.ChartSpec {
	counts := make(map[models.Segment]int)
	for _, c := range snap.Customers {
		counts[c.Segment]++
	}

	slices := make([]models.PieSlice, 0, len(models.Segments))
	for _, seg := range models.Segments {
		if counts[seg] == 0 {
			continue
		}
		slices = append(slices, models.PieSlice{
			Label: string(seg),
			Value: float64(counts[seg]),
		})
	}

	return &models.ChartSpec{
		ID:     "customer-segments",
		Title:  "Customer Segments",
		Type:   models.ChartTypePie,
		Slices: slices,
	}
}

func churnAnalysisChart(snap *models.Snapshot) *models.ChartSpec {
	points := make([]models.ScatterPoint, 0, len(snap.Customers))
	for _, c := range snap.Customers {
		points = append(points, models.ScatterPoint{
			X:     float64(c.TenureMonths),
			Y:     c.MonthlyCharges.InexactFloat64(),
			Color: c.ChurnProbability,
			Size:  c.TotalValue.InexactFloat64(),
		})
	}

	return &models.ChartSpec{
		ID:     "churn-analysis",
		Title:  "Churn Risk Analysis",
		Type:   models.ChartTypeScatter,
		XLabel: "Tenure (months)",
		YLabel: "Monthly Charges ($)",
		Points: points,
	}
}

func financialMetricsChart(snap *models.Snapshot) *models.ChartSpec {
	months := make([]string, 0, len(snap.Revenue))
	signups := make([]float64, 0, len(snap.Revenue))
	active := make([]float64, 0, len(snap.Revenue))
	for _, m := range snap.Revenue {
		months = append(months, m.Month.Format(monthLabel))
		signups = append(signups, float64(m.NewSignups))
		active = append(active, float64(m.ActiveCustomers))
	}

	return &models.ChartSpec{
		ID:              "financial-metrics",
		Title:           "Growth Metrics",
		Type:            models.ChartTypeDualAxis,
		XLabel:          "Month",
		YLabel:          "New Signups",
		SecondaryYLabel: "Active Customers",
		Series: []models.Series{
			{Name: "New Signups", Kind: "bar", X: months, Y: signups},
			{Name: "Active Customers", Kind: "line", X: months, Y: active, SecondaryAxis: true},
		},
	}
}
