package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"expomeet/config"
	"expomeet/internal/adapters/auth"
	"expomeet/internal/adapters/email"
	"expomeet/internal/adapters/livekit"
	delivery "expomeet/internal/delivery/http"
	"expomeet/internal/delivery/http/controllers"
	"expomeet/internal/delivery/http/middleware"
	"expomeet/internal/repository/postgres"
	"expomeet/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	consultationRepo := postgres.NewConsultationRepository(db)
	slotRepo := postgres.NewConsultationSlotRepository(db)
	seminarRepo := postgres.NewSeminarRepository(db)
	participantRepo := postgres.NewSeminarParticipantRepository(db)

	// Adapters
	jwtCodec := auth.NewJWTCodec(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	rooms := livekit.NewClient(cfg.LiveKit.Host, cfg.LiveKit.APIKey, cfg.LiveKit.APISecret, nil)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.SESRegion,
			AccessKeyID:        cfg.Email.SESAccessKeyID,
			SecretAccessKey:    cfg.Email.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureTLS,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	// Services
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	authService := services.NewAuthService(userRepo, hasher, jwtCodec, cfg.JWTExpiry)
	eventService := services.NewEventService(eventRepo, seminarRepo, consultationRepo, slotRepo, logger, cfg.ContextTimeout)
	bookingService := services.NewBookingService(consultationRepo, slotRepo, eventRepo, userRepo, rooms, logger, cfg.ContextTimeout)
	seminarService := services.NewSeminarService(seminarRepo, participantRepo, userRepo, rooms, emailService, logger, cfg.ContextTimeout)

	mux := delivery.NewRouter(delivery.Controllers{
		Auth:         controllers.NewAuthController(logger, authService),
		Event:        controllers.NewEventController(logger, eventService),
		Consultation: controllers.NewConsultationController(logger, bookingService),
		Seminar:      controllers.NewSeminarController(logger, seminarService),
		Room:         controllers.NewRoomController(logger, rooms),
	}, jwtCodec, logger)

	handler := middleware.LoggingMiddleware(logger, mux)
	if len(cfg.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.AllowedOrigins, handler)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server startup failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
		os.Exit(1)
	}
	logger.Info("server exited")
}
