package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bizdash/config"
	"bizdash/database"
	"bizdash/datagen"
	"bizdash/models"
	"bizdash/repository"
)

// Loader produces a dataset snapshot for the dashboard. Implementations form
// a closed set selected by configuration; there is no runtime string dispatch
// beyond this constructor.
type Loader interface {
	Load(ctx context.Context) (*models.Snapshot, error)
}

// ForSource returns the loader variant for the configured data source.
// db may be nil for the synthetic variant.
func ForSource(cfg *config.Config, gen *datagen.Generator, db *database.DB) (Loader, error) {
	switch cfg.DataSource {
	case config.DataSourceSynthetic:
		return NewSyntheticLoader(gen, cfg.CustomerRows, cfg.RevenueMonths, cfg.Seed, cfg.SeedSet), nil
	case config.DataSourceDatabase:
		if db == nil {
			return nil, fmt.Errorf("database loader requires a database connection")
		}
		return NewDatabaseLoader(db), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}
}

// SyntheticLoader generates a fresh in-memory snapshot on every load.
type SyntheticLoader struct {
	gen       *datagen.Generator
	rows      int
	months    int
	seed      int64
	seedFixed bool
}

// NewSyntheticLoader creates a synthetic loader. With seedFixed set, every
// load reproduces the same tables; otherwise each load draws new content.
func NewSyntheticLoader(gen *datagen.Generator, rows, months int, seed int64, seedFixed bool) *SyntheticLoader {
	return &SyntheticLoader{gen: gen, rows: rows, months: months, seed: seed, seedFixed: seedFixed}
}

func (l *SyntheticLoader) Load(ctx context.Context) (*models.Snapshot, error) {
	seed := l.seed
	if !l.seedFixed {
		seed = time.Now().UnixNano()
	}
	return l.gen.Generate(l.rows, l.months, seed)
}

// DatabaseLoader reads a previously loaded dataset back from the analytics
// tables, so the dashboard can serve whatever the last analytics run stored.
type DatabaseLoader struct {
	customers    *repository.CustomerRepository
	revenue      *repository.RevenueRepository
	usage        *repository.UsageRepository
	transactions *repository.TransactionRepository
}

// NewDatabaseLoader creates a database-backed loader
func NewDatabaseLoader(db *database.DB) *DatabaseLoader {
	return &DatabaseLoader{
		customers:    repository.NewCustomerRepository(db),
		revenue:      repository.NewRevenueRepository(db),
		usage:        repository.NewUsageRepository(db),
		transactions: repository.NewTransactionRepository(db),
	}
}

func (l *DatabaseLoader) Load(ctx context.Context) (*models.Snapshot, error) {
	customers, err := l.customers.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	if len(customers) == 0 {
		return nil, fmt.Errorf("customers table is empty; load a dataset first")
	}

	revenue, err := l.revenue.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly revenue: %w", err)
	}

	usage, err := l.usage.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load usage metrics: %w", err)
	}

	transactions, err := l.transactions.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	return &models.Snapshot{
		ID:           uuid.New(),
		GeneratedAt:  time.Now().UTC(),
		Customers:    customers,
		Revenue:      revenue,
		Usage:        usage,
		Transactions: transactions,
	}, nil
}
