package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"travel_backend/database"
	"travel_backend/internal/auth"
	"travel_backend/internal/config"
	"travel_backend/internal/email"
	"travel_backend/internal/handlers"
	"travel_backend/internal/logger"
	"travel_backend/internal/middleware"
	"travel_backend/internal/models"
	"travel_backend/internal/repositories"
	"travel_backend/internal/routes"
	"travel_backend/internal/services"
	"travel_backend/internal/validator"
	"travel_backend/internal/workers"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	serviceContainer := initializeServices(cfg, gormDB)
	ginRouter := SetupRouter(serviceContainer)

	sweeper := workers.NewTokenSweeper(
		repositories.NewResetTokenRepository(gormDB),
		time.Hour,
	)
	go sweeper.Run(context.Background())

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter assembles the gin engine with all middleware and routes.
func SetupRouter(serviceContainer *services.ServiceContainer) *gin.Engine {
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.CORSMiddleware())

	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	var emailProvider email.Provider
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP is not configured, outgoing mail is discarded")
		emailProvider = &MockEmailProvider{}
	} else {
		smtpProvider, err := email.NewSMTPProvider(email.Config{
			SMTPHost:  cfg.Email.SMTPHost,
			SMTPPort:  cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
		if err != nil {
			logger.Fatal("Failed to initialize SMTP provider", "error", err)
		}
		emailProvider = smtpProvider
	}

	userRepo := repositories.NewUserRepository(gormDB)
	tokenRepo := repositories.NewResetTokenRepository(gormDB)

	userService := services.NewUserService(userRepo)
	resetService := services.NewPasswordResetService(userRepo, tokenRepo, emailProvider)

	return &services.ServiceContainer{
		UserService:          userService,
		PasswordResetService: resetService,
		EmailProvider:        emailProvider,
	}
}

func initializeHandlers(serviceContainer *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler: handlers.NewAuthHandler(
			baseHandler,
			serviceContainer.UserService,
			serviceContainer.PasswordResetService,
		),
		UserHandler: handlers.NewUserHandler(
			baseHandler,
			serviceContainer.UserService,
			serviceContainer.PasswordResetService,
		),
	}
}

// seedFirstAdmin guarantees one administrative account exists so the
// admin-gated endpoints are reachable on a fresh database.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("First admin credentials are not configured, skipping admin seeding")
		return nil
	}

	var existing models.User
	result := db.Where("email = ?", adminEmail).First(&existing)
	if result.Error == nil {
		logger.Info("Admin user already exists, skipping creation", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found, creating first admin", "email", adminEmail)

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	username := cfg.FirstAdminUsername
	if username == "" {
		username = "admin"
	}

	newAdmin := &models.User{
		Username:     username,
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
	}
	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
