package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/gorilla/mux"

	"bizdash/config"
	"bizdash/database"
	"bizdash/datagen"
	"bizdash/dataset"
	"bizdash/events"
	"bizdash/routes"
	"bizdash/service"
)

// Run initializes and starts the dashboard server
func Run(ctx context.Context) error {
	log.Println("Starting dashboard server...")

	// Load configuration
	cfg := config.Get()

	// Initialize the generator
	gen, err := datagen.New(datagen.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to initialize generator: %w", err)
	}

	// Connect to the database only when the dataset is served from it
	var db *database.DB
	if cfg.DataSource == config.DataSourceDatabase {
		log.Println("Connecting to database...")
		db, err = database.NewConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Println("Database connection established successfully")
	}

	// Initialize event bus
	eventBus := events.NewBus()

	// Select the dataset loader and build the dashboard service
	loader, err := dataset.ForSource(cfg, gen, db)
	if err != nil {
		return fmt.Errorf("failed to initialize dataset loader: %w", err)
	}
	dashboard := service.NewDashboardService(loader, eventBus, cfg.ChurnAlertThreshold)

	// Load the initial dataset before accepting traffic
	log.Println("Loading initial dataset...")
	if err := dashboard.Refresh(ctx, "startup"); err != nil {
		return fmt.Errorf("failed to load initial dataset: %w", err)
	}

	// Schedule periodic refreshes unless disabled
	scheduler := gocron.NewScheduler(time.UTC)
	if cfg.RefreshInterval > 0 {
		if _, err := scheduler.Every(cfg.RefreshInterval).Do(func() {
			if err := dashboard.Refresh(context.Background(), "scheduled"); err != nil {
				log.Printf("Scheduled refresh failed: %v", err)
			}
		}); err != nil {
			return fmt.Errorf("failed to schedule dataset refresh: %w", err)
		}
		scheduler.StartAsync()
	}

	// Set up HTTP routes
	router := mux.NewRouter()
	routes.SetupRoutes(router, dashboard, cfg.HighRiskLimit)
	server := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Dashboard listening on %s in %s mode...", cfg.HTTPAddr, cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		scheduler.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Println("Shutting down dashboard...")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	if db != nil {
		log.Println("Closing database connection...")
		db.Close()
	}

	log.Println("Shutdown completed")
	return nil
}
