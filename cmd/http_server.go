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
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/laala-app/creator-dashboard/internal"
	"github.com/laala-app/creator-dashboard/internal/audit"
	auditPostgres "github.com/laala-app/creator-dashboard/internal/audit/postgres"
	"github.com/laala-app/creator-dashboard/internal/auth"
	"github.com/laala-app/creator-dashboard/internal/authz"
	"github.com/laala-app/creator-dashboard/internal/comanager"
	comanagerPostgres "github.com/laala-app/creator-dashboard/internal/comanager/postgres"
	"github.com/laala-app/creator-dashboard/internal/content"
	contentPostgres "github.com/laala-app/creator-dashboard/internal/content/postgres"
	"github.com/laala-app/creator-dashboard/internal/core/events"
	ownerPostgres "github.com/laala-app/creator-dashboard/internal/owner/postgres"
	"github.com/laala-app/creator-dashboard/internal/transport/rest"
	"github.com/laala-app/creator-dashboard/pkg/logger"
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
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
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
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.Default()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM shares the pgx connection pool instead of opening its own.
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	bus := events.NewEventBus(lg)

	comanagerRepo := comanagerPostgres.NewCoManagerRepository(gormDB, config.Database.RetryAttempts, config.Database.RetryBaseWait)
	ownerRepo := ownerPostgres.NewOwnerRepository(gormDB, config.Database.RetryAttempts, config.Database.RetryBaseWait)
	contentRepo := contentPostgres.NewContentRepository(gormDB, config.Database.RetryAttempts, config.Database.RetryBaseWait)
	auditRepo := auditPostgres.NewAuditRepository(gormDB)

	auditService := audit.NewService(auditRepo, bus, lg)
	auditService.RegisterSubscribers()

	comanagerService := comanager.NewService(comanagerRepo, bus, lg,
		config.Security.BCryptCost, config.Security.TempPasswordLength)

	guard := authz.NewGuard(comanagerService, auditService, lg)
	authorization := authz.NewAuthorization(guard, lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(ownerRepo, comanagerService, tokenGen, lg, config.Security.BCryptCost)

	contentService := content.NewService(contentRepo, lg)

	authHandler := auth.NewHandler(authService)
	comanagerHandler := comanager.NewHandler(comanagerService)
	contentHandler := content.NewHandler(contentService)
	auditHandler := audit.NewHandler(auditService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, authHandler, authorization, comanagerHandler, contentHandler, auditHandler, lg)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: router,
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

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
