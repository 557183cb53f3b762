package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"skillsync/internal/config"
	"skillsync/internal/infrastructure/db"
	"skillsync/internal/infrastructure/repository"
	"skillsync/internal/transport"
	"skillsync/internal/transport/handler"
	"skillsync/internal/transport/middleware"
	"skillsync/internal/usecase/service"
	"skillsync/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.App.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewDatabase(ctx, cfg.Database.URL, log)
	if err != nil {
		log.Fatal("failed to init database", zap.Error(err))
	}
	defer pool.Close()

	// Репозитории
	userRepo := repository.NewUserRepository(pool, log)
	projectRepo := repository.NewProjectRepository(pool, log)
	exchangeRepo := repository.NewExchangeRepository(pool, log)

	// Сервисы
	authSvc := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log)
	userSvc := service.NewUserService(userRepo, log)
	projectSvc := service.NewProjectService(projectRepo, userRepo, log)
	exchangeSvc := service.NewExchangeService(exchangeRepo, log)

	// Хендлеры
	authHandler := handler.NewAuthHandler(authSvc, log)
	userHandler := handler.NewUserHandler(userSvc, log)
	projectHandler := handler.NewProjectHandler(projectSvc, log)
	exchangeHandler := handler.NewExchangeHandler(exchangeSvc, log)
	healthHandler := handler.NewHealthHandler(log)

	auth := middleware.NewAuth(cfg.Auth.JWTSecret, userRepo, log)

	router := transport.NewRouter(
		authHandler,
		userHandler,
		projectHandler,
		exchangeHandler,
		healthHandler,
		auth,
		log,
	)

	server := transport.NewServer(cfg.App.Port, router, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server stopped with error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}

	log.Info("server stopped")
}
