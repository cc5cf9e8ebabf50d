package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/LavaJover/shvark-country-service/internal/app/background"
	"github.com/LavaJover/shvark-country-service/internal/app/setup"
	"github.com/LavaJover/shvark-country-service/internal/config"
	"github.com/LavaJover/shvark-country-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-country-service/internal/delivery/http/handlers"
	publisher "github.com/LavaJover/shvark-country-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	zapLogger, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v\n", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	deps, err := setup.InitializeDependencies(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to init dependencies", zap.Error(err))
	}
	defer deps.Close()

	ucs, err := setup.InitializeUseCases(deps)
	if err != nil {
		zapLogger.Fatal("failed to init usecases", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// gRPC health
	grpcServer := grpc.NewServer()
	healthHandler := grpcapi.NewHealthHandler()
	healthHandler.Register(grpcServer)

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		zapLogger.Fatal("failed to listen", zap.Error(err))
	}
	go func() {
		zapLogger.Info("gRPC server started", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			zapLogger.Error("gRPC server stopped", zap.Error(err))
		}
	}()

	sqlDB, err := deps.DB.DB()
	if err != nil {
		zapLogger.Fatal("failed to get sql.DB", zap.Error(err))
	}
	tasks := background.NewBackgroundTasks(ucs.RefreshUsecase, cfg.Refresh.Interval, sqlDB, healthHandler, zapLogger)
	if cfg.Kafka.Enabled && cfg.Kafka.RequestTopic != "" {
		tasks.WithRefreshRequests(publisher.NewDefaultKafkaSubscriber(cfg.Kafka.Brokers), cfg.Kafka.RequestTopic, cfg.Kafka.GroupID)
	}
	tasks.StartAll(ctx)

	// HTTP API
	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	countryHandler := handlers.NewCountryHandler(ucs.CountryUsecase, ucs.RefreshUsecase, zapLogger)
	router := handlers.NewRouter(countryHandler, deps.Gatherer, cfg.HTTPServer.AllowedOrigins, zapLogger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler: router,
	}
	go func() {
		zapLogger.Info("HTTP server started", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Error("HTTP server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zapLogger.Info("shutting down")

	healthHandler.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()

	zapLogger.Info("service stopped")
}
