package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/osahq/conduct/internal/app/controllers"
	"github.com/osahq/conduct/internal/app/events"
	appMigrations "github.com/osahq/conduct/internal/app/migrations"
	appRepos "github.com/osahq/conduct/internal/app/repositories"
	appRoutes "github.com/osahq/conduct/internal/app/routes"
	appServices "github.com/osahq/conduct/internal/app/services"
	"github.com/osahq/conduct/internal/config"
	"github.com/osahq/conduct/internal/db"
	appMiddleware "github.com/osahq/conduct/internal/middleware"
	"github.com/osahq/conduct/internal/pkg/helpers"
	"github.com/osahq/conduct/internal/pkg/logger"
	"github.com/osahq/conduct/internal/pkg/notify"
	"github.com/osahq/conduct/internal/seed"
	"github.com/osahq/conduct/internal/sweeper"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services                *appServices.Services
	StudentController       *appControllers.StudentController
	ViolationController     *appControllers.ViolationController
	ViolationTypeController *appControllers.ViolationTypeController
	AlertController         *appControllers.AlertController
	ApologyLetterController *appControllers.ApologyLetterController
	MessageController       *appControllers.MessageController
	Repos                   *appRepos.Repositories
	Dispatcher              *events.Dispatcher
	Notifier                notify.Notifier
	Sweeper                 *sweeper.Sweeper
	Logger                  zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
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

	lgr := log.Logger // Get the configured global logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default records.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	dbPool, err := db.NewPostgresPool(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Create default data (after migrations)
	if err := seed.CreateDefaultData(context.Background(), dbPool, cfg, lgr); err != nil {
		// Log the error but don't necessarily fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	policyCfg, err := cfg.PolicyConfig()
	if err != nil {
		lgr.Error().Err(err).Msg("Invalid policy configuration")
		return nil, fmt.Errorf("invalid policy configuration: %w", err)
	}

	deps.Dispatcher = events.NewDispatcher(lgr)
	deps.Notifier = buildNotifier(cfg, deps.Repos, lgr)

	deps.Services = appServices.NewServices(deps.Repos, deps.Dispatcher, deps.Notifier, policyCfg, lgr, nil)

	deps.StudentController = appControllers.NewStudentController(deps.Services.StudentService)
	deps.ViolationController = appControllers.NewViolationController(deps.Services.ViolationService)
	deps.ViolationTypeController = appControllers.NewViolationTypeController(deps.Services.ViolationTypeService)
	deps.AlertController = appControllers.NewAlertController(deps.Services.AlertService)
	deps.ApologyLetterController = appControllers.NewApologyLetterController(deps.Services.ApologyLetterService)
	deps.MessageController = appControllers.NewMessageController(deps.Services.MessageService)

	deps.Sweeper = sweeper.New(
		deps.Services.AlertService,
		deps.Services.StudentService,
		helpers.ParseDuration(cfg.Sweep.MeetingInterval, 15*time.Minute),
		helpers.ParseDuration(cfg.Sweep.PromotionInterval, 24*time.Hour),
		lgr,
		nil,
	)

	return deps, nil
}

// buildNotifier resolves the system sender account and returns a notifier
// that persists messages to the inbox. When the account is missing the
// notifier degrades to log-only so the API still starts.
func buildNotifier(cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) notify.Notifier {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	systemUser, err := repos.UserRepository.GetUserByEmail(ctx, cfg.Notify.SystemEmail)
	if err != nil {
		lgr.Warn().Err(err).Str("email", cfg.Notify.SystemEmail).Msg("System account not found, notifications will only be logged")
		return notify.NewLogNotifier(lgr)
	}
	return notify.NewStoreNotifier(repos.MessageRepository, systemUser.ID, lgr)
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

	appMiddleware.RegisterValidators()

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr), gin.Recovery())

	// Setup Swagger
	appRoutes.SetupSwagger(router)

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.StudentController,
		deps.ViolationController,
		deps.ViolationTypeController,
		deps.AlertController,
		deps.ApologyLetterController,
		deps.MessageController,
	)

	return router
}
