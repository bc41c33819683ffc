package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/charting-service/internal/api/http"
	"github.com/spec-kit/charting-service/internal/api/http/handlers"
	"github.com/spec-kit/charting-service/internal/auth"
	"github.com/spec-kit/charting-service/internal/config"
	"github.com/spec-kit/charting-service/internal/events"
	"github.com/spec-kit/charting-service/internal/observability"
	"github.com/spec-kit/charting-service/internal/persistence"
	"github.com/spec-kit/charting-service/internal/repository"
	"github.com/spec-kit/charting-service/internal/service"
	"github.com/spec-kit/charting-service/internal/worker"
)

const metricsNamespace = "charting"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	warnings, err := cfg.Validate()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	for _, w := range warnings {
		logger.Warn("configuration warning", zap.String("detail", w))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics(metricsNamespace)

	tokenOpts := []auth.TokenOption{}
	if cfg.Auth.RevocationEnabled {
		tokenOpts = append(tokenOpts, auth.WithRevocationList(auth.NewRedisRevocationList(redis.Client)))
	}
	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		Secret: []byte(cfg.Auth.JWTSecret),
		TTL:    cfg.Auth.TokenTTL(),
	}, tokenOpts...)
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher(func(event events.Event, err error) {
		logger.Error("event handler failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
	})
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	pool := pg.Pool
	accountRepo := repository.NewAccountRepository(pool)
	patientRepo := repository.NewPatientRepository(pool)

	accountService := service.NewAccountService(cfg.Auth, service.AccountDependencies{
		AccountRepo: accountRepo,
		Tokens:      tokens,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	patientService := service.NewPatientService(patientRepo, dispatcher)
	clinicalService := service.NewClinicalService(service.ClinicalDependencies{
		Patients:       patientService,
		AllergyRepo:    repository.NewAllergyRepository(pool),
		DiagnosisRepo:  repository.NewDiagnosisRepository(pool),
		MedicationRepo: repository.NewMedicationRepository(pool),
	})
	vitalsService := service.NewVitalsService(patientService, repository.NewVitalsRepository(pool), dispatcher)
	chartingService := service.NewChartingService(patientService, repository.NewChartingRepository(pool), dispatcher)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		UnescapePath: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.CORSOrigins)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:               handlers.NewAuthHandler(accountService, metrics, logger),
		Patients:           handlers.NewPatientsHandler(patientService),
		Clinical:           handlers.NewClinicalHandler(clinicalService),
		Vitals:             handlers.NewVitalsHandler(vitalsService),
		Charting:           handlers.NewChartingHandler(chartingService),
		Gate:               auth.NewGate(tokens, metrics, logger),
		Accounts:           accountRepo,
		Metrics:            metrics.Handler(),
		RequirePatientAuth: cfg.Auth.RequirePatientAuth,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
