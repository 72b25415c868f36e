package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"

	"bizdash/config"
	"bizdash/database"
	"bizdash/datagen"
	"bizdash/dataset"
	"bizdash/events"
	"bizdash/repository"
	"bizdash/service"
)

const loadedTableCount = 4

// RunAnalytics generates a dataset, loads it into the database and prints
// the results of the analytical query suite.
func RunAnalytics(ctx context.Context) error {
	cfg := config.Get()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for analytics runs")
	}

	log.Println("Applying migrations...")
	if err := database.RunMigrationsWithURL(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	gen, err := datagen.New(datagen.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to initialize generator: %w", err)
	}
	loader := dataset.NewSyntheticLoader(gen, cfg.CustomerRows, cfg.RevenueMonths, cfg.Seed, cfg.SeedSet)

	store := repository.NewDatasetLoader(db, events.NewBus())
	queries := repository.NewAnalyticsRepository(db)
	svc := service.NewAnalyticsService(loader, store, queries)

	bar := progressbar.NewOptions(loadedTableCount,
		progressbar.OptionSetDescription("loading dataset"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
	progress := func(table string, rows int64) {
		bar.Describe(fmt.Sprintf("loaded %s (%d rows)", table, rows))
		_ = bar.Add(1)
	}

	report, err := svc.Run(ctx, progress)
	if err != nil {
		return err
	}
	_ = bar.Finish()

	fmt.Printf("Analytics run %s on snapshot %s\n", report.RunID, report.SnapshotID)
	printRevenueTrend(report)
	printSegmentation(report)
	printUsagePatterns(report)
	printChurnRisk(report)
	printFinancialKPIs(report)
	return nil
}

func newTable(header string) *tabwriter.Writer {
	fmt.Printf("\n== %s ==\n", header)
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func pct(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *p)
}

func printRevenueTrend(report *service.AnalyticsReport) {
	w := newTable("Revenue trend")
	fmt.Fprintln(w, "month\tcustomers\trevenue\tavg txn\tenterprise\tpremium\tstandard\tbudget\tgrowth")
	for _, r := range report.Trend {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Month.Format("2006-01"), r.ActiveCustomers, r.TotalRevenue, r.AvgTransaction,
			r.EnterpriseRevenue, r.PremiumRevenue, r.StandardRevenue, r.BudgetRevenue,
			pct(r.GrowthPercent))
	}
	w.Flush()
}

func printSegmentation(report *service.AnalyticsReport) {
	w := newTable("Customer segmentation")
	fmt.Fprintln(w, "segment\tstage\tcustomers\tavg charges\tavg LTV\tavg contacts\tshare")
	for _, r := range report.Segmentation {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%.1f\t%.1f%%\n",
			r.ValueSegment, r.LifecycleStage, r.CustomerCount,
			r.AvgMonthlyCharges, r.AvgLifetimeValue, r.AvgDailyContacts, r.SegmentPercent)
	}
	w.Flush()
}

func printUsagePatterns(report *service.AnalyticsReport) {
	w := newTable("Usage patterns by weekday")
	fmt.Fprintln(w, "weekday\tavg contacts\tavg API calls\tavg storage MB\tpeak\tpeak vs avg\tvariability")
	for _, r := range report.Usage {
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.1f\t%d\t%.1f%%\t%.1f%%\n",
			r.Weekday, r.AvgContacts, r.AvgAPICalls, r.AvgStorageMB,
			r.PeakAPICalls, r.PeakVsAvgPercent, r.LoadVariabilityPct)
	}
	w.Flush()
}

func printChurnRisk(report *service.AnalyticsReport) {
	w := newTable("Churn risk")
	fmt.Fprintln(w, "customer\tsegment\tcharges\ttenure\tactive days\tlast seen\tscore\tcategory\trevenue at risk")
	for _, r := range report.Churn {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%dd ago\t%d\t%s\t%s\n",
			r.CustomerID, r.Segment, r.MonthlyCharges, r.TenureMonths,
			r.ActiveDays, r.DaysSinceLastActivity, r.RiskScore, r.RiskCategory,
			r.AnnualRevenueAtRisk)
	}
	w.Flush()
}

func printFinancialKPIs(report *service.AnalyticsReport) {
	w := newTable("Financial KPIs")
	fmt.Fprintln(w, "month\tsubscriptions\tsetup fees\toverage\ttotal\tcustomers\tARPU\trev growth\tcust growth")
	for _, r := range report.KPIs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			r.Month.Format("2006-01"), r.SubscriptionRevenue, r.SetupFees, r.OverageRevenue,
			r.TotalRevenue, r.PayingCustomers, r.ARPU,
			pct(r.RevenueGrowthPercent), pct(r.CustomerGrowthPercent))
	}
	w.Flush()
}
