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
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/josias65/gestion-api/internal/config"
	"github.com/josias65/gestion-api/internal/database"
	"github.com/josias65/gestion-api/internal/handler"
	"github.com/josias65/gestion-api/internal/middleware"
	"github.com/josias65/gestion-api/internal/models"
	"github.com/josias65/gestion-api/internal/repository"
	"github.com/josias65/gestion-api/internal/router"
	"github.com/josias65/gestion-api/internal/service"
	"github.com/josias65/gestion-api/pkg/storage"
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

	if err := db.AutoMigrate(
		&models.Tender{},
		&models.Criterion{},
		&models.Submission{},
		&models.Score{},
		&models.Document{},
		&models.Comment{},
		&models.HistoryEntry{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, statistics caching disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSUrl != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSUrl)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, audit fan-out disabled")
	}

	blobStore, err := buildStorage(cfg, logger)
	if err != nil {
		log.Fatalf("failed to initialise document storage: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	tenderRepo := repository.NewTenderRepository(db)
	criterionRepo := repository.NewCriterionRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	statsRepo := repository.NewTenderStatsRepository(db)

	historyRecorder := service.NewHistoryRecorder(historyRepo, natsConn, cfg.AuditSubject, logger)

	tenderService := service.NewTenderService(tenderRepo, criterionRepo, commentRepo, historyRecorder, validate, logger)
	submissionService := service.NewSubmissionService(tenderRepo, submissionRepo, scoreRepo, historyRecorder, validate, logger)
	documentService := service.NewDocumentService(tenderRepo, documentRepo, blobStore, historyRecorder, logger)
	statsService := service.NewStatsService(statsRepo, redisClient, cfg.StatsCacheTTL, logger)
	exportService := service.NewExportService(statsRepo, logger)

	tenderHandler := handler.NewTenderHandler(tenderService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	documentHandler := handler.NewDocumentHandler(documentService, logger)
	statsHandler := handler.NewStatsHandler(statsService, exportService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		TenderHandler:     tenderHandler,
		SubmissionHandler: submissionHandler,
		DocumentHandler:   documentHandler,
		StatsHandler:      statsHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildStorage(cfg config.Config, logger zerolog.Logger) (service.BlobStorage, error) {
	if cfg.StorageBackend == "cloudinary" {
		return storage.NewCloudinary(storage.CloudinaryConfig{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
	}

	return storage.NewLocal(cfg.StorageDir, logger)
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
