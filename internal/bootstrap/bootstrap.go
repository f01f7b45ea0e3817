package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/brightclass/roster/internal/app/controllers"
	appMigrations "github.com/brightclass/roster/internal/app/migrations"
	appRepos "github.com/brightclass/roster/internal/app/repositories"
	appRoutes "github.com/brightclass/roster/internal/app/routes"
	"github.com/brightclass/roster/internal/config"
	"github.com/brightclass/roster/internal/db"
	"github.com/brightclass/roster/internal/importer"
	appMiddleware "github.com/brightclass/roster/internal/middleware"
	pkgAuth "github.com/brightclass/roster/internal/pkg/auth"
	"github.com/brightclass/roster/internal/pkg/helpers"
	"github.com/brightclass/roster/internal/pkg/logger"
	"github.com/brightclass/roster/internal/pkg/objectstore"
	"github.com/brightclass/roster/internal/worker"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos            *appRepos.Repositories
	ObjectStore      objectstore.Store
	JWTService       *pkgAuth.JWTService
	ImportService    *importer.Service
	WorkerRunner     *worker.Runner
	ImportController *appControllers.ImportController
	AuthMiddleware   *appMiddleware.AuthMiddleware
	Logger           zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// BuildDependencies initializes repositories, the import pipeline, the
// worker and the HTTP layer.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	store, err := objectstore.NewLocalStore(cfg.Storage.BasePath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize object store")
		return nil, fmt.Errorf("failed to initialize object store: %w", err)
	}
	deps.ObjectStore = store

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Auth.ServiceTokenSecret,
		TokenExp:    24 * time.Hour,
		TokenIssuer: cfg.Auth.TokenIssuer,
	})

	refCache := importer.NewReferenceCache(
		deps.Repos.ReferenceRepository,
		helpers.ParseDuration(cfg.Worker.ReferenceCacheTTL, 5*time.Minute),
	)
	engine := importer.NewEngine(
		deps.Repos.StudentRepository,
		deps.Repos.GuardianRepository,
		deps.Repos.EnrollmentRepository,
	)
	reporter := importer.NewReporter(
		deps.ObjectStore,
		deps.Repos.ImportJobRepository,
		deps.Repos.AuditRepository,
	)
	deps.ImportService = importer.NewService(deps.ObjectStore, refCache, engine, reporter)

	deps.WorkerRunner = worker.NewRunner(
		deps.Repos.ImportJobRepository,
		deps.ImportService,
		helpers.ParseDuration(cfg.Worker.PollInterval, 2*time.Second),
		helpers.ParseDuration(cfg.Worker.RequeueAfter, 15*time.Minute),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.ImportController = appControllers.NewImportController(deps.Repos.ImportJobRepository)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	appRoutes.SetupRouter(router,
		deps.ImportController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
