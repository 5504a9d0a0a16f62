package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"taskmanager/docs"
	"taskmanager/internal/auth"
	"taskmanager/internal/config"
	"taskmanager/internal/db"
	"taskmanager/internal/handler"
	"taskmanager/internal/kv"
	"taskmanager/internal/oauth"
	"taskmanager/internal/repository"
	"taskmanager/internal/router"
	"taskmanager/internal/service"
)

const shutdownTimeout = 5 * time.Second

// @title Task Manager API
// @version 1.0
// @description Per-user task tracking with password and OAuth login.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if cfg.ResetDB {
		log.Println("RESET_DB=true detected, dropping all tables...")
		if err := db.Reset(gormDB); err != nil {
			log.Printf("Warning: Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	// Initialize auth components
	jwtService, err := auth.NewJWTService(cfg.SecretKey, cfg.Algorithm, cfg.TokenTTL())
	if err != nil {
		log.Fatalf("jwt: %v", err)
	}

	var states auth.StateStoreInterface
	if cfg.OAuthVerifyState {
		kvClient := kv.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer kvClient.Close()
		if err := kvClient.Ping(context.Background()); err != nil {
			log.Printf("Warning: redis unavailable at %s, oauth state checks will fail: %v", cfg.RedisAddr, err)
		}
		states = auth.NewStateStore(kvClient)
	}

	providers := oauth.ProvidersFromConfig(cfg)
	oauthClient := oauth.NewClient(providers, cfg.OAuthHTTPTimeout)
	if len(providers) == 0 {
		log.Println("No OAuth providers configured")
	} else {
		log.Printf("OAuth providers: %s", strings.Join(oauthClient.Providers(), ", "))
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	taskService := service.NewTaskService(taskRepo)
	oauthService := service.NewOAuthService(oauthClient, userRepo, jwtService, states, service.OAuthOptions{
		VerifyState: cfg.OAuthVerifyState,
		StateTTL:    cfg.OAuthStateTTL,
	})

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(e, cfg, jwtService, authService, router.Handlers{
		Auth:  handler.NewAuthHandler(authService),
		User:  handler.NewUserHandler(),
		OAuth: handler.NewOAuthHandler(oauthService),
		Task:  handler.NewTaskHandler(taskService),
	})

	// Log swagger full path
	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(swaggerHost, "http://") && !strings.HasPrefix(swaggerHost, "https://") {
		docs.SwaggerInfo.Host = swaggerHost
		swaggerHost = "http://" + swaggerHost
	}
	log.Printf("Swagger documentation available at: %s/swagger/index.html", swaggerHost)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
