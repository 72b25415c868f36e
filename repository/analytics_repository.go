package repository

import (
	"context"
	"fmt"

	"bizdash/database"
	"bizdash/models"
)

// AnalyticsRepository runs the canned analytical queries against the loaded
// business tables. Every query is parameterless; the dataset itself is the
// only input.
type AnalyticsRepository struct {
	q queryable
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *database.DB) *AnalyticsRepository {
	return &AnalyticsRepository{q: db.Pool}
}

// RevenueTrend returns monthly subscription revenue with per-segment
// conditional sums and month-over-month growth via LAG.
func (r *AnalyticsRepository) RevenueTrend(ctx context.Context) ([]*models.RevenueTrendRow, error) {
	query := `
		SELECT
			t.month,
			COUNT(DISTINCT t.customer_id) AS active_customers,
			ROUND(SUM(t.amount), 2) AS total_revenue,
			ROUND(AVG(t.amount), 2) AS avg_transaction_value,
			ROUND(SUM(CASE WHEN c.segment = 'enterprise' THEN t.amount ELSE 0 END), 2) AS enterprise_revenue,
			ROUND(SUM(CASE WHEN c.segment = 'premium' THEN t.amount ELSE 0 END), 2) AS premium_revenue,
			ROUND(SUM(CASE WHEN c.segment = 'standard' THEN t.amount ELSE 0 END), 2) AS standard_revenue,
			ROUND(SUM(CASE WHEN c.segment = 'budget' THEN t.amount ELSE 0 END), 2) AS budget_revenue,
			ROUND(
				(SUM(t.amount) - LAG(SUM(t.amount)) OVER (ORDER BY t.month))
				/ NULLIF(LAG(SUM(t.amount)) OVER (ORDER BY t.month), 0) * 100, 2
			)::float8 AS revenue_growth_percent
		FROM transactions t
		JOIN customers c ON c.customer_id = t.customer_id
		WHERE t.transaction_type = 'subscription'
		GROUP BY t.month
		ORDER BY t.month
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue trend: %w", err)
	}
	defer rows.Close()

	var result []*models.RevenueTrendRow
	for rows.Next() {
		var row models.RevenueTrendRow
		if err := rows.Scan(
			&row.Month, &row.ActiveCustomers, &row.TotalRevenue, &row.AvgTransaction,
			&row.EnterpriseRevenue, &row.PremiumRevenue, &row.StandardRevenue, &row.BudgetRevenue,
			&row.GrowthPercent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan revenue trend row: %w", err)
		}
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate revenue trend: %w", err)
	}

	return result, nil
}

// CustomerSegmentation returns the value segment x lifecycle stage grid with
// per-cell averages and the segment concentration percentage.
func (r *AnalyticsRepository) CustomerSegmentation(ctx context.Context) ([]*models.SegmentationRow, error) {
	query := `
		WITH customer_metrics AS (
			SELECT
				c.customer_id,
				c.segment,
				c.monthly_charges,
				c.tenure_months,
				COALESCE((SELECT AVG(u.contacts_captured) FROM usage_metrics u WHERE u.customer_id = c.customer_id), 0) AS avg_daily_contacts,
				COALESCE((SELECT SUM(t.amount) FROM transactions t WHERE t.customer_id = c.customer_id), 0) AS lifetime_value
			FROM customers c
		),
		customer_segments AS (
			SELECT *,
				CASE
					WHEN tenure_months < 3 THEN 'new'
					WHEN tenure_months < 12 THEN 'growing'
					ELSE 'established'
				END AS lifecycle_stage
			FROM customer_metrics
		)
		SELECT
			segment,
			lifecycle_stage,
			COUNT(*) AS customer_count,
			ROUND(AVG(monthly_charges), 2) AS avg_monthly_charges,
			ROUND(AVG(lifetime_value), 2) AS avg_ltv,
			ROUND(AVG(avg_daily_contacts), 2)::float8 AS avg_usage,
			ROUND(COUNT(*) * 100.0 / SUM(COUNT(*)) OVER (), 2)::float8 AS segment_percentage
		FROM customer_segments
		GROUP BY segment, lifecycle_stage
		ORDER BY avg_ltv DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer segmentation: %w", err)
	}
	defer rows.Close()

	var result []*models.SegmentationRow
	for rows.Next() {
		var row models.SegmentationRow
		var segment string
		if err := rows.Scan(
			&segment, &row.LifecycleStage, &row.CustomerCount,
			&row.AvgMonthlyCharges, &row.AvgLifetimeValue, &row.AvgDailyContacts, &row.SegmentPercent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan segmentation row: %w", err)
		}
		row.ValueSegment = models.Segment(segment)
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customer segmentation: %w", err)
	}

	return result, nil
}

// UsagePatterns aggregates platform usage per weekday with peak-vs-average
// and load variability figures for capacity planning.
func (r *AnalyticsRepository) UsagePatterns(ctx context.Context) ([]*models.UsagePatternRow, error) {
	query := `
		WITH daily_usage AS (
			SELECT
				day,
				EXTRACT(DOW FROM day)::int AS day_of_week,
				SUM(contacts_captured) AS total_contacts,
				SUM(api_calls) AS total_api_calls,
				SUM(storage_mb) AS total_storage_mb
			FROM usage_metrics
			GROUP BY day
		),
		usage_stats AS (
			SELECT
				day_of_week,
				AVG(total_contacts) AS avg_contacts,
				AVG(total_api_calls) AS avg_api_calls,
				AVG(total_storage_mb) AS avg_storage_mb,
				MAX(total_api_calls) AS peak_api_calls,
				MIN(total_api_calls) AS min_api_calls
			FROM daily_usage
			GROUP BY day_of_week
		)
		SELECT
			CASE day_of_week
				WHEN 0 THEN 'Sunday'
				WHEN 1 THEN 'Monday'
				WHEN 2 THEN 'Tuesday'
				WHEN 3 THEN 'Wednesday'
				WHEN 4 THEN 'Thursday'
				WHEN 5 THEN 'Friday'
				WHEN 6 THEN 'Saturday'
			END AS weekday,
			ROUND(avg_contacts, 2)::float8 AS avg_contacts,
			ROUND(avg_api_calls, 2)::float8 AS avg_api_calls,
			ROUND(avg_storage_mb::numeric, 2)::float8 AS avg_storage_mb,
			peak_api_calls,
			min_api_calls,
			ROUND((peak_api_calls::numeric / NULLIF(avg_api_calls, 0) - 1) * 100, 1)::float8 AS peak_vs_avg_percent,
			ROUND((peak_api_calls - min_api_calls)::numeric / NULLIF(avg_api_calls, 0) * 100, 1)::float8 AS load_variability_percent
		FROM usage_stats
		ORDER BY day_of_week
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage patterns: %w", err)
	}
	defer rows.Close()

	var result []*models.UsagePatternRow
	for rows.Next() {
		var row models.UsagePatternRow
		if err := rows.Scan(
			&row.Weekday, &row.AvgContacts, &row.AvgAPICalls, &row.AvgStorageMB,
			&row.PeakAPICalls, &row.MinAPICalls, &row.PeakVsAvgPercent, &row.LoadVariabilityPct,
		); err != nil {
			return nil, fmt.Errorf("failed to scan usage pattern row: %w", err)
		}
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate usage patterns: %w", err)
	}

	return result, nil
}

// ChurnRisk scores customers by combining recency, usage depth and active-day
// signals, returning only actionable rows (score >= 2).
func (r *AnalyticsRepository) ChurnRisk(ctx context.Context) ([]*models.ChurnRiskRow, error) {
	query := `
		WITH customer_activity AS (
			SELECT
				c.customer_id,
				c.segment,
				c.monthly_charges,
				c.tenure_months,
				COALESCE(AVG(u.contacts_captured), 0) AS avg_daily_contacts,
				COUNT(u.day) FILTER (WHERE u.contacts_captured > 0) AS active_days,
				COALESCE(
					MAX(u.day) FILTER (WHERE u.contacts_captured > 0),
					(SELECT MIN(day) FROM usage_metrics)
				) AS last_activity,
				(SELECT MAX(day) FROM usage_metrics) AS window_end
			FROM customers c
			LEFT JOIN usage_metrics u ON u.customer_id = c.customer_id
			GROUP BY c.customer_id
		),
		churn_risk_scores AS (
			SELECT *,
				window_end - last_activity AS days_since_last_activity,
				CASE
					WHEN window_end - last_activity > 14 THEN 3
					WHEN window_end - last_activity > 7 THEN 2
					ELSE 0
				END +
				CASE
					WHEN avg_daily_contacts < 10 THEN 2
					WHEN avg_daily_contacts < 25 THEN 1
					ELSE 0
				END +
				CASE
					WHEN active_days < 10 THEN 2
					WHEN active_days < 20 THEN 1
					ELSE 0
				END AS risk_score
			FROM customer_activity
		)
		SELECT
			customer_id,
			segment,
			monthly_charges,
			tenure_months,
			ROUND(avg_daily_contacts, 1)::float8 AS avg_daily_contacts,
			active_days,
			days_since_last_activity,
			risk_score,
			CASE
				WHEN risk_score >= 5 THEN 'critical'
				WHEN risk_score >= 3 THEN 'high'
				WHEN risk_score >= 2 THEN 'medium'
				ELSE 'low'
			END AS risk_category,
			ROUND(monthly_charges * 12, 2) AS annual_revenue_at_risk
		FROM churn_risk_scores
		WHERE risk_score >= 2
		ORDER BY risk_score DESC, monthly_charges DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query churn risk: %w", err)
	}
	defer rows.Close()

	var result []*models.ChurnRiskRow
	for rows.Next() {
		var row models.ChurnRiskRow
		var segment string
		if err := rows.Scan(
			&row.CustomerID, &segment, &row.MonthlyCharges, &row.TenureMonths,
			&row.AvgDailyContacts, &row.ActiveDays, &row.DaysSinceLastActivity,
			&row.RiskScore, &row.RiskCategory, &row.AnnualRevenueAtRisk,
		); err != nil {
			return nil, fmt.Errorf("failed to scan churn risk row: %w", err)
		}
		row.Segment = models.Segment(segment)
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate churn risk: %w", err)
	}

	return result, nil
}

// FinancialKPIs returns executive monthly metrics: revenue mix by transaction
// type, ARPU, and NULL-safe month-over-month growth. The first month of the
// window is excluded since it has no comparison point.
func (r *AnalyticsRepository) FinancialKPIs(ctx context.Context) ([]*models.FinancialKPIRow, error) {
	query := `
		WITH monthly_metrics AS (
			SELECT
				month,
				SUM(CASE WHEN transaction_type = 'subscription' THEN amount ELSE 0 END) AS subscription_revenue,
				SUM(CASE WHEN transaction_type = 'setup_fee' THEN amount ELSE 0 END) AS setup_fees,
				SUM(CASE WHEN transaction_type = 'overage' THEN amount ELSE 0 END) AS overage_revenue,
				COUNT(DISTINCT customer_id) FILTER (WHERE transaction_type = 'subscription') AS paying_customers
			FROM transactions
			GROUP BY month
		),
		growth_metrics AS (
			SELECT *,
				subscription_revenue + setup_fees + overage_revenue AS total_revenue,
				LAG(subscription_revenue) OVER (ORDER BY month) AS prev_month_subscription,
				LAG(paying_customers) OVER (ORDER BY month) AS prev_month_customers
			FROM monthly_metrics
		)
		SELECT
			month,
			ROUND(subscription_revenue, 2) AS subscription_revenue,
			ROUND(setup_fees, 2) AS setup_fees,
			ROUND(overage_revenue, 2) AS overage_revenue,
			ROUND(total_revenue, 2) AS total_revenue,
			paying_customers,
			ROUND(subscription_revenue / NULLIF(paying_customers, 0), 2) AS arpu,
			ROUND(
				CASE
					WHEN prev_month_subscription > 0
					THEN (subscription_revenue - prev_month_subscription) / prev_month_subscription * 100
				END, 1
			)::float8 AS revenue_growth_percent,
			ROUND(
				CASE
					WHEN prev_month_customers > 0
					THEN (paying_customers - prev_month_customers)::numeric / prev_month_customers * 100
				END, 1
			)::float8 AS customer_growth_percent,
			ROUND(setup_fees / NULLIF(total_revenue, 0) * 100, 1)::float8 AS setup_fee_percent,
			ROUND(overage_revenue / NULLIF(total_revenue, 0) * 100, 1)::float8 AS overage_percent
		FROM growth_metrics
		WHERE prev_month_subscription IS NOT NULL
		ORDER BY month DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query financial KPIs: %w", err)
	}
	defer rows.Close()

	var result []*models.FinancialKPIRow
	for rows.Next() {
		var row models.FinancialKPIRow
		if err := rows.Scan(
			&row.Month, &row.SubscriptionRevenue, &row.SetupFees, &row.OverageRevenue,
			&row.TotalRevenue, &row.PayingCustomers, &row.ARPU,
			&row.RevenueGrowthPercent, &row.CustomerGrowthPercent,
			&row.SetupFeePercent, &row.OveragePercent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan financial KPI row: %w", err)
		}
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate financial KPIs: %w", err)
	}

	return result, nil
}
