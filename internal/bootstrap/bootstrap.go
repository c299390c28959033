package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/syllabus/internal/app/controllers"
	appMigrations "github.com/yigit/syllabus/internal/app/migrations"
	appRepos "github.com/yigit/syllabus/internal/app/repositories"
	appRoutes "github.com/yigit/syllabus/internal/app/routes"
	appServices "github.com/yigit/syllabus/internal/app/services"
	"github.com/yigit/syllabus/internal/config"
	"github.com/yigit/syllabus/internal/db"
	appMiddleware "github.com/yigit/syllabus/internal/middleware"
	pkgAuth "github.com/yigit/syllabus/internal/pkg/auth"
	"github.com/yigit/syllabus/internal/pkg/cache"
	"github.com/yigit/syllabus/internal/pkg/evaluator"
	"github.com/yigit/syllabus/internal/pkg/logger"
	"github.com/yigit/syllabus/internal/pkg/metrics"
	"github.com/yigit/syllabus/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CourseService        appServices.CourseService
	AuthService          *appServices.AuthService
	EvaluationService    *appServices.EvaluationService
	FeedbackService      *appServices.FeedbackService
	ExportService        *appServices.ExportService
	AuthController       *appControllers.AuthController
	CourseController     *appControllers.CourseController
	EvaluationController *appControllers.EvaluationController
	FeedbackController   *appControllers.FeedbackController
	ExportController     *appControllers.ExportController
	HealthController     *appControllers.HealthController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	Cache                cache.Store
	Evaluator            evaluator.Evaluator
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Format: logger.Format(cfg.Logging.Format),
	})
	lgr.Info().Str("logLevel", logger.ParseLevel(cfg.Logging.Level).String()).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the configured database, runs migrations and seeds the demo account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.Database, error) {
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")
	database, err := db.Open(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database, lgr).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	repos := appRepos.NewRepositories(database)
	if err := seed.CreateDefaultData(ctx, database, repos, cfg.Seed.DemoUsername, cfg.Seed.DemoPassword, lgr); err != nil {
		// A missing demo account is not worth refusing to start
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// NewEvaluator selects the remote evaluator when a URL is configured, backed
// by the rule based one when it is unavailable.
func NewEvaluator(cfg config.EvaluatorConfig, lgr zerolog.Logger) evaluator.Evaluator {
	if cfg.URL == "" {
		lgr.Info().Msg("No evaluator URL configured, using rule based evaluator")
		return evaluator.Rules{}
	}
	timeout := config.Duration(cfg.Timeout, 15*time.Second)
	lgr.Info().Str("url", cfg.URL).Dur("timeout", timeout).Msg("Using remote evaluator")
	return evaluator.WithFallback(evaluator.NewHTTP(cfg.URL, timeout), evaluator.Rules{})
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.Database, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	store, err := cache.New(cfg.Cache)
	if err != nil {
		lgr.Error().Err(err).Str("driver", cfg.Cache.Driver).Msg("Failed to initialize cache")
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	deps.Cache = store
	deps.Evaluator = NewEvaluator(cfg.Evaluator, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: config.Duration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
		RefreshWindow:  config.Duration(cfg.JWT.RefreshWindow, time.Minute),
	})

	deps.CourseService = appServices.NewCourseService(
		database,
		deps.Repos.CourseRepository,
		deps.Cache,
		config.Duration(cfg.Cache.TTL, 5*time.Minute),
		logger.ForService(lgr, "course"),
	)
	deps.AuthService = appServices.NewAuthService(
		database,
		deps.Repos.UserRepository,
		deps.Repos.CourseRepository,
		deps.JWTService,
		deps.Cache,
		logger.ForService(lgr, "auth"),
	)
	deps.EvaluationService = appServices.NewEvaluationService(deps.Evaluator, logger.ForService(lgr, "evaluation"))
	deps.FeedbackService = appServices.NewFeedbackService(database, deps.Repos.FeedbackRepository, logger.ForService(lgr, "feedback"))
	deps.ExportService = appServices.NewExportService(deps.CourseService, logger.ForService(lgr, "export"))

	cookie := appMiddleware.SessionCookie{Secure: isProduction(cfg)}
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService, cookie, lgr)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, cookie, lgr)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService, lgr)
	deps.EvaluationController = appControllers.NewEvaluationController(deps.EvaluationService, lgr)
	deps.FeedbackController = appControllers.NewFeedbackController(deps.FeedbackService, lgr)
	deps.ExportController = appControllers.NewExportController(deps.ExportService, lgr)
	deps.HealthController = appControllers.NewHealthController(database)

	return deps, nil
}

func isProduction(cfg *config.Config) bool {
	return strings.ToLower(cfg.Server.Mode) == "production"
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if isProduction(cfg) {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(lgr),
		metrics.HTTPMetricsMiddleware(),
		appMiddleware.CORS(cfg.AllowedOrigins()),
	)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CourseController,
		deps.EvaluationController,
		deps.FeedbackController,
		deps.ExportController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	return router
}
