// Package main provides the main entry point for the CoTicket event ticketing system
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/coticket/coticket/app/dto"
	"github.com/coticket/coticket/app/handlers"
	"github.com/coticket/coticket/app/middleware"
	"github.com/coticket/coticket/app/router"
	"github.com/coticket/coticket/app/services"
	businessflow "github.com/coticket/coticket/business_flow"
	"github.com/coticket/coticket/config"
	"github.com/coticket/coticket/models"
	"github.com/coticket/coticket/repository"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router router.Router
	config *config.Config
}

func main() {
	log.Println("Starting CoTicket application...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.router.Start(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.router.GetApp().ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger to stdout, a rotated file, or both
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output == "stdout" || cfg.FilePath == "" {
		return
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	switch cfg.Output {
	case "file":
		log.SetOutput(fileWriter)
	case "both":
		log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey so duplicate ticket codes map to 409s.
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&models.Admin{}, &models.Ticket{}); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Println("Database migrations applied")
	}

	return db, nil
}

// ensureSeedAdmin creates the initial admin account when none exists
func ensureSeedAdmin(db *gorm.DB, cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}

	adminRepo := repository.NewAdminRepository(db)
	ctx := context.Background()

	existing, err := adminRepo.ByEmail(ctx, cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to check seed admin: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed admin password: %w", err)
	}

	admin := &models.Admin{
		Email:        cfg.Email,
		PasswordHash: string(hash),
		Name:         cfg.Name,
	}
	if err := adminRepo.Save(ctx, admin); err != nil {
		return fmt.Errorf("failed to create seed admin: %w", err)
	}

	log.Printf("Seed admin account created for %s", cfg.Email)
	return nil
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.Config) (*Application, error) {
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := ensureSeedAdmin(db, cfg.Admin); err != nil {
		return nil, err
	}

	// Repositories
	adminRepo := repository.NewAdminRepository(db)
	ticketRepo := repository.NewTicketRepository(db)

	// Services
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	var mailer services.Mailer
	if cfg.Mailer.UseMock {
		mailer = services.NewMockMailer()
		log.Println("Mock mailer enabled")
	} else {
		mailer = services.NewMailerSendMailer(cfg.Mailer.APIKey, cfg.Mailer.FromName, cfg.Mailer.FromEmail)
	}

	qrGen := services.NewQRGenerator(cfg.Upload.QRSize)

	// Business flows
	authFlow := businessflow.NewAdminAuthFlow(adminRepo, tokenService)
	importFlow := businessflow.NewImportFlow(ticketRepo)
	ticketFlow := businessflow.NewTicketFlow(ticketRepo)
	emailFlow := businessflow.NewEmailFlow(ticketRepo, mailer, qrGen)
	lookupFlow := businessflow.NewLookupFlow(ticketRepo, qrGen)

	// Handlers
	authHandler := handlers.NewAuthHandler(authFlow)
	ticketHandler := handlers.NewTicketHandler(importFlow, ticketFlow, emailFlow, cfg.Upload.Dir)
	lookupHandler := handlers.NewLookupHandler(lookupFlow, dto.ContactResponse{
		Phone:    cfg.Contact.Phone,
		Email:    cfg.Contact.Email,
		Facebook: cfg.Contact.Facebook,
	})

	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	r := router.NewFiberRouter(authHandler, ticketHandler, lookupHandler, authMiddleware, router.Options{
		CORSOrigins:    cfg.Server.AllowedOrigins,
		MetricsEnabled: cfg.Server.EnableMetrics,
	})

	return &Application{
		router: r,
		config: cfg,
	}, nil
}
