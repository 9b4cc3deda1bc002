package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/skillified/skillified-api/internal/config"
	"github.com/skillified/skillified-api/internal/database"
	"github.com/skillified/skillified-api/internal/events"
	"github.com/skillified/skillified-api/internal/handler"
	"github.com/skillified/skillified-api/internal/ledger"
	"github.com/skillified/skillified-api/internal/middleware"
	"github.com/skillified/skillified-api/internal/models"
	"github.com/skillified/skillified-api/internal/repository"
	"github.com/skillified/skillified-api/internal/router"
	"github.com/skillified/skillified-api/internal/service"
	"github.com/skillified/skillified-api/pkg/pinning"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Receipt{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	ledgerClient, err := ledger.NewRPCClient(ledger.Config{
		Endpoint:        cfg.LedgerRPCURL,
		ContractAddress: cfg.LedgerContractAddress,
		RequestTimeout:  cfg.LedgerRequestTimeout,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create ledger client: %v", err)
	}

	pinner, err := pinning.New(pinning.Config{
		Endpoint:       cfg.PinningEndpoint,
		APIKey:         cfg.PinningAPIKey,
		APISecret:      cfg.PinningAPISecret,
		GatewayBaseURL: cfg.ContentGatewayBaseURL,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create pinning client: %v", err)
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}
	publisher := events.New(natsConn, cfg.NATSSubjectPrefix, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	receiptRepo := repository.NewReceiptRepository(db)
	sessions := service.NewSessionStore(redisClient, cfg.SessionTTL, logger)
	authorizer := service.NewAuthorizer(ledgerClient)
	engine := service.NewExamEngine()
	fetcher := pinning.NewGatewayFetcher(cfg.LedgerRequestTimeout)

	catalogService := service.NewCatalogService(ledgerClient, pinner, authorizer, engine, receiptRepo, validate, cfg.ContentGatewayBaseURL, logger)
	enrollmentService := service.NewEnrollmentService(ledgerClient, sessions, receiptRepo, publisher, validate, logger)
	examService := service.NewExamService(ledgerClient, engine, sessions, receiptRepo, publisher, validate, logger)
	issuanceService := service.NewIssuanceService(ledgerClient, pinner, authorizer, receiptRepo, publisher, validate, cfg.ContentGatewayBaseURL, logger)
	certificateService := service.NewCertificateService(ledgerClient, fetcher, receiptRepo, cfg.ContentGatewayBaseURL, logger)

	catalogHandler := handler.NewCatalogHandler(catalogService, validate, logger)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, validate, logger)
	examHandler := handler.NewExamHandler(examService, validate, logger)
	issuanceHandler := handler.NewIssuanceHandler(issuanceService, validate, logger)
	certificateHandler := handler.NewCertificateHandler(certificateService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    32 * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		CatalogHandler:     catalogHandler,
		EnrollmentHandler:  enrollmentHandler,
		ExamHandler:        examHandler,
		IssuanceHandler:    issuanceHandler,
		CertificateHandler: certificateHandler,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
