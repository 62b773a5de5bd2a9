package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pratty2304/MedConnect/internal/config"
	"github.com/pratty2304/MedConnect/internal/controllers"
	"github.com/pratty2304/MedConnect/internal/database"
	applogger "github.com/pratty2304/MedConnect/internal/logger"
	"github.com/pratty2304/MedConnect/internal/middleware"
	"github.com/pratty2304/MedConnect/internal/repositories"
	"github.com/pratty2304/MedConnect/internal/routes"
	"github.com/pratty2304/MedConnect/internal/security"
	"github.com/pratty2304/MedConnect/internal/services"
	"github.com/pratty2304/MedConnect/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := applogger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := database.Connect(&cfg.Database, zlog); err != nil {
		zlog.Fatal("failed to connect database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(); err != nil {
			zlog.Error("error closing database", zap.Error(err))
		}
	}()

	if err := database.RunMigrations(&cfg.Database, zlog); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	store, err := buildStorage(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize storage", zap.Error(err))
	}

	db := database.GetDB()
	userRepo := repositories.NewUserRepository(db)
	loginSessionRepo := repositories.NewLoginSessionRepository(db)
	appointmentRepo := repositories.NewAppointmentRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// Security components
	policy := security.NewPasswordPolicy(cfg.Security)
	lockoutDuration, err := cfg.Security.GetLockoutDuration()
	if err != nil {
		zlog.Fatal("invalid lockout_duration", zap.Error(err))
	}
	tracker := security.NewLoginAttemptTracker(cfg.Security.MaxLoginAttempts, lockoutDuration)
	accessTTL, err := cfg.JWT.GetAccessTokenExpiry()
	if err != nil {
		zlog.Fatal("invalid access_token_expiry", zap.Error(err))
	}
	refreshTTL, err := cfg.JWT.GetRefreshTokenExpiry()
	if err != nil {
		zlog.Fatal("invalid refresh_token_expiry", zap.Error(err))
	}
	tokens := security.NewTokenIssuer(cfg.JWT.Secret, accessTTL, refreshTTL)
	csrfGuard := security.NewCsrfGuard()

	// Services
	authService := services.NewAuthService(userRepo, loginSessionRepo, policy, tracker, tokens, cfg, zlog)
	appointmentService := services.NewAppointmentService(appointmentRepo, userRepo)
	messageService := services.NewMessageService(messageRepo, userRepo)
	reportService := services.NewReportService(reportRepo, userRepo, store, cfg.Storage)

	// Controllers
	ctrl := routes.Controllers{
		Auth:        controllers.NewAuthController(authService, csrfGuard),
		User:        controllers.NewUserController(userRepo),
		Appointment: controllers.NewAppointmentController(appointmentService),
		Message:     controllers.NewMessageController(messageService),
		Report:      controllers.NewReportController(reportService),
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(corsMiddleware(cfg))
	routes.SetupRoutes(router, ctrl,
		middleware.AuthMiddleware(tokens),
		middleware.CsrfMiddleware(csrfGuard),
	)

	addr := cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port)
	go func() {
		zlog.Info("server running", zap.String("addr", addr))
		if err := router.Run(addr); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("failed to run server", zap.Error(err))
		}
	}()

	waitForShutdown(zlog)
}

func buildStorage(cfg *config.Config, zlog *zap.Logger) (storage.Storage, error) {
	basePath := cfg.Storage.Path
	if basePath == "" {
		basePath = "./storage/reports"
	}

	if cfg.CloudStorage.Enabled {
		azStorage, err := storage.NewAzureBlobStorage(
			cfg.CloudStorage.Endpoint,
			cfg.CloudStorage.AccessKey,
			cfg.CloudStorage.SecretKey,
			cfg.CloudStorage.Container,
		)
		if err != nil {
			zlog.Warn("azure blob init failed, falling back to local storage", zap.Error(err))
			return storage.NewLocalStorage(basePath), nil
		}
		return azStorage, nil
	}

	return storage.NewLocalStorage(basePath), nil
}

func waitForShutdown(zlog *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	zlog.Info("shutting down server")
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	origin := "*"
	if len(cfg.CORS.AllowedOrigins) > 0 {
		origin = cfg.CORS.AllowedOrigins[0]
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-TOKEN, Authorization")
		if cfg.CORS.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
