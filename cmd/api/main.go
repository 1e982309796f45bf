package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lab-manager-api/internal/config"
	"github.com/noah-isme/lab-manager-api/internal/database"
	"github.com/noah-isme/lab-manager-api/internal/handler"
	"github.com/noah-isme/lab-manager-api/internal/middleware"
	"github.com/noah-isme/lab-manager-api/internal/models"
	"github.com/noah-isme/lab-manager-api/internal/repository"
	"github.com/noah-isme/lab-manager-api/internal/router"
	"github.com/noah-isme/lab-manager-api/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && level != zerolog.NoLevel {
		logger = logger.Level(level)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if cfg.AutoMigrate {
		if err := db.AutoMigrate(models.All()...); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("catalogue cache disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("event publishing disabled")
			natsConn = nil
		} else {
			defer natsConn.Drain()
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	store := repository.NewStore(db)
	cache := service.NewCatalogCache(redisClient, cfg.CatalogCacheTTL, logger)
	events := service.NewNATSPublisher(natsConn, cfg.NATSSubject, logger)

	access := service.NewAccessPolicy(store)
	activity := service.NewActivityService(store.ActivityLogs(), validate, logger)
	auth := service.NewAuthService(store, validate, service.AuthConfig{Secret: cfg.JWTSecret, TTL: cfg.JWTTTL}, logger)
	profiles := service.NewProfileService(store, validate, logger)
	labs := service.NewLabService(store, cache, activity, validate, logger)
	timetables := service.NewTimetableService(store, cache, activity, validate, logger)
	practicals := service.NewPracticalService(store, cache, activity, validate, logger)
	notices := service.NewNoticeService(store, cache, activity, validate, logger)
	enrollments := service.NewEnrollmentService(store, events, logger)
	submissions := service.NewSubmissionService(store, events, logger)
	attendance := service.NewAttendanceService(store, activity, events, logger)
	grading := service.NewGradingService(store, activity, events, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLog: cfg.AppEnv == "development"})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler: handler.NewAuthHandler(auth, validate, logger),
		LabHandler: handler.NewLabHandler(handler.LabServices{
			Labs: labs, Timetables: timetables, Practicals: practicals, Notices: notices, Access: access,
		}, logger),
		StudentHandler: handler.NewStudentHandler(handler.StudentServices{
			Profiles: profiles, Enrollments: enrollments, Submissions: submissions,
			Attendance: attendance, Grading: grading, Access: access,
		}, validate, logger),
		TeacherHandler: handler.NewTeacherHandler(handler.TeacherServices{
			Profiles: profiles, Labs: labs, Timetables: timetables, Practicals: practicals, Notices: notices,
			Attendance: attendance, Grading: grading, Activity: activity, Access: access,
		}, validate, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}
