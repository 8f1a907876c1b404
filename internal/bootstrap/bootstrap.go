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

	appControllers "github.com/gpai/backend/internal/app/controllers"
	appMigrations "github.com/gpai/backend/internal/app/migrations"
	appRepos "github.com/gpai/backend/internal/app/repositories"
	appRoutes "github.com/gpai/backend/internal/app/routes"
	appServices "github.com/gpai/backend/internal/app/services"
	"github.com/gpai/backend/internal/config"
	"github.com/gpai/backend/internal/db"
	appMiddleware "github.com/gpai/backend/internal/middleware"
	"github.com/gpai/backend/internal/pkg/ai"
	pkgAuth "github.com/gpai/backend/internal/pkg/auth"
	"github.com/gpai/backend/internal/pkg/cache"
	"github.com/gpai/backend/internal/pkg/email"
	"github.com/gpai/backend/internal/pkg/helpers"
	"github.com/gpai/backend/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos *appRepos.Repositories

	JWTService *pkgAuth.JWTService
	Cache      *cache.Cache
	Gemini     *ai.GeminiClient

	AuthService       appServices.AuthService
	UserService       appServices.UserService
	ForecastService   appServices.ForecastService
	ResultService     appServices.ResultService
	ContextService    appServices.AcademicContextService
	AdvisorService    appServices.AdvisorService
	NewsletterService appServices.NewsletterService

	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers

	Logger zerolog.Logger
}

// Close releases clients held by the dependencies
func (d *Dependencies) Close() {
	if d.Gemini != nil {
		if err := d.Gemini.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close Gemini client")
		}
	}
	if err := d.Cache.Close(); err != nil {
		d.Logger.Warn().Err(err).Msg("Failed to close Redis client")
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// The config file path can be overridden with CONFIG_PATH.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", "configs/config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	lgr := logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  strings.ToLower(cfg.Logging.Format) == "text",
		Service: "gpai",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	dbPool, err := db.Connect(context.Background(), cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	verifier, err := pkgAuth.NewIDTokenVerifier(ctx, cfg.Google.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google token verifier: %w", err)
	}

	deps.Cache = cache.New(ctx, cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, lgr)

	mailer := email.NewEmailService(email.SendGridConfig{
		APIKey:    cfg.SendGrid.APIKey,
		FromName:  cfg.SendGrid.FromName,
		FromEmail: cfg.SendGrid.FromEmail,
		BaseURL:   cfg.Server.BaseURL,
	}, lgr)

	// generator stays a nil interface when Gemini is not configured
	var generator ai.TextGenerator
	if cfg.Gemini.APIKey != "" {
		deps.Gemini, err = ai.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to create Gemini client, advisor disabled")
		} else {
			generator = deps.Gemini
		}
	} else {
		lgr.Warn().Msg("GEMINI_API_KEY not set, advisor disabled")
	}

	// Services
	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		verifier,
		deps.JWTService,
		cfg.AdminEmails(),
		lgr,
	)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, lgr)
	deps.ForecastService = appServices.NewForecastService(lgr)
	deps.ResultService = appServices.NewResultService(deps.Repos.ResultRepository, lgr)
	deps.ContextService = appServices.NewAcademicContextService(deps.Repos.UserRepository, deps.Repos.ResultRepository, lgr)
	deps.AdvisorService = appServices.NewAdvisorService(deps.ContextService, generator, lgr)
	deps.NewsletterService = appServices.NewNewsletterService(
		deps.Repos.NewsletterRepository,
		mailer,
		deps.Cache,
		cfg.Redis.StatsTTL,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	// Controllers
	deps.Controllers = appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.AuthService, lgr),
		User:       appControllers.NewUserController(deps.UserService, deps.ContextService, lgr),
		Forecast:   appControllers.NewForecastController(deps.ForecastService, lgr),
		Result:     appControllers.NewResultController(deps.ResultService, lgr),
		Newsletter: appControllers.NewNewsletterController(deps.NewsletterService, lgr),
		Advisor:    appControllers.NewAdvisorController(deps.AdvisorService, lgr),
	}

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
	router.Use(
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Recovery(lgr),
		appMiddleware.CORS(),
	)

	appRoutes.SetupSwagger(router, swaggerHost(cfg.Server.BaseURL))
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}

// swaggerHost strips the scheme from the public base URL
func swaggerHost(baseURL string) string {
	host := strings.TrimPrefix(strings.TrimPrefix(baseURL, "https://"), "http://")
	return strings.TrimSuffix(host, "/")
}
