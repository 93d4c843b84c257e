package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/danrusdi/card-reconciliation/internal"
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
	"github.com/danrusdi/card-reconciliation/internal/transport"
	"github.com/danrusdi/card-reconciliation/internal/transport/rest"
	"github.com/danrusdi/card-reconciliation/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config           *internal.Config
	DB               *sqlx.DB
	Router           *chi.Mux
	AliasHandler     *alias.Handler
	EmployeeHandler  *employee.Handler
	StatementHandler *statement.Handler
	Logger           *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.AliasHandler, deps.EmployeeHandler, deps.StatementHandler, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Level, config.Logging.Format)
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ORM: %w", err)
	}

	bus := events.NewBus(appLogger)
	baseHandler := transport.NewBaseHandler(appLogger)

	// alias curation
	aliasRepo := aliasPostgres.NewAliasRepository(gormDB)
	aliasService := alias.NewService(aliasRepo, appLogger)
	aliasHandler := alias.NewHandler(baseHandler, aliasService)

	// extraction pipeline
	employeeRepo := employeePostgres.NewEmployeeRepository(gormDB)
	resolver := employee.NewResolver(employeeRepo, aliasService, appLogger)
	employeeHandler := employee.NewHandler(baseHandler, employeeRepo)
	acquirer := pdftext.NewAcquirer(appLogger)
	documentExtractor := extractor.NewExtractor(acquirer, patterns.New(), resolver, appLogger)

	// upload sessions
	uploadRepo := statementPostgres.NewUploadRepository(gormDB)
	persister := transactionPostgres.NewTransactionRepository(gormDB)
	statementService := statement.NewService(
		uploadRepo, persister, documentExtractor, statement.NoopMatcher{}, bus, config.Upload, appLogger)
	statementHandler := statement.NewHandler(baseHandler, statementService, config.Upload.MaxFileBytes)

	// extraction and matching run off the bus after the 202 goes out
	bus.Subscribe(events.EventTypeStatementUploaded, statementService.HandleStatementUploaded)

	return &Dependencies{
		Config:           config,
		Logger:           appLogger,
		DB:               db,
		Router:           chi.NewRouter(),
		AliasHandler:     aliasHandler,
		EmployeeHandler:  employeeHandler,
		StatementHandler: statementHandler,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
