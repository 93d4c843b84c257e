package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/danrusdi/card-reconciliation/internal/alias"
	aliasPostgres "github.com/danrusdi/card-reconciliation/internal/alias/postgres"
	"github.com/danrusdi/card-reconciliation/internal/core/events"
	"github.com/danrusdi/card-reconciliation/internal/employee"
	employeePostgres "github.com/danrusdi/card-reconciliation/internal/employee/postgres"
	"github.com/danrusdi/card-reconciliation/internal/extractor"
	"github.com/danrusdi/card-reconciliation/internal/patterns"
	"github.com/danrusdi/card-reconciliation/internal/pdftext"
	"github.com/danrusdi/card-reconciliation/internal/statement"
	statementPostgres "github.com/danrusdi/card-reconciliation/internal/statement/postgres"
	transactionPostgres "github.com/danrusdi/card-reconciliation/internal/transaction/postgres"
	"github.com/danrusdi/card-reconciliation/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start and manage background workers for statement processing`,
}

// Extraction sweeper command
var extractionWorkerCmd = &cobra.Command{
	Use:   "extraction",
	Short: "Start the extraction sweeper",
	Long:  `Periodically re-drives statement uploads that never finished extraction, for example after a crash`,
	Run: func(cmd *cobra.Command, args []string) {
		startExtractionWorker()
	},
}

var (
	sweepInterval time.Duration
	stuckAfter    time.Duration
)

func startExtractionWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Logging.Level, config.Logging.Format)
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize ORM: %v\n", err)
		os.Exit(1)
	}

	bus := events.NewBus(appLogger)
	aliasService := alias.NewService(aliasPostgres.NewAliasRepository(gormDB), appLogger)
	resolver := employee.NewResolver(employeePostgres.NewEmployeeRepository(gormDB), aliasService, appLogger)
	documentExtractor := extractor.NewExtractor(pdftext.NewAcquirer(appLogger), patterns.New(), resolver, appLogger)

	statementService := statement.NewService(
		statementPostgres.NewUploadRepository(gormDB),
		transactionPostgres.NewTransactionRepository(gormDB),
		documentExtractor,
		statement.NoopMatcher{},
		bus,
		config.Upload,
		appLogger)

	appLogger.Info("extraction sweeper started",
		"interval", sweepInterval,
		"stuck_after", stuckAfter)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for {
		select {
		case <-ticker.C:
			reprocessed, err := statementService.ReprocessStuck(ctx, stuckAfter)
			if err != nil {
				appLogger.Error("sweep failed", "error", err)
				continue
			}
			if reprocessed > 0 {
				appLogger.Info("sweep reprocessed uploads", "count", reprocessed)
			}
		case sig := <-sigChan:
			appLogger.Info("received signal, shutting down sweeper", "signal", sig)
			return
		}
	}
}

func init() {
	extractionWorkerCmd.Flags().DurationVar(&sweepInterval, "interval", time.Minute, "How often to sweep for stuck uploads")
	extractionWorkerCmd.Flags().DurationVar(&stuckAfter, "stuck-after", 5*time.Minute, "How long an upload may sit unprocessed before it is re-driven")

	workerCmd.AddCommand(extractionWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
