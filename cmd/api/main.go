package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"creditrisk/predictor/internal/config"
	"creditrisk/predictor/internal/handlers"
	"creditrisk/predictor/internal/inference"
	"creditrisk/predictor/internal/logger"
	"creditrisk/predictor/internal/repositories"
	"creditrisk/predictor/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("config loaded", zap.String("env", cfg.Server.Env))

	// Load model and encoders once; every request shares them
	assets, err := inference.LoadAssets(cfg.AssetConfig())
	if err != nil {
		zlog.Fatal("failed to load model assets", zap.Error(err))
	}
	info := assets.Describe()
	zlog.Info("model assets loaded",
		zap.String("model", info.ModelPath),
		zap.Ints("classes", info.Classes),
		zap.Int("good_class_id", info.GoodClassID),
		zap.Bool("probabilities", info.Probabilities))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Prediction history is optional
	var repo repositories.PredictionRepository
	var pruner services.HistoryPruner
	if cfg.History.Enabled {
		db, err := config.InitDatabase(cfg, zlog)
		if err != nil {
			zlog.Fatal("failed to initialize database", zap.Error(err))
		}
		repo = repositories.NewPredictionRepository(db)

		if cfg.History.Retention > 0 {
			pruner, err = services.NewHistoryPruner(repo, cfg.History.Retention, cfg.History.PruneInterval, zlog)
			if err != nil {
				zlog.Fatal("invalid history pruning settings", zap.Error(err))
			}
			pruner.Start(ctx)
		}
	}

	predictor := services.NewPredictorService(assets, repo, zlog)

	app := handlers.NewApp(handlers.AppConfig{
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		HistoryLimit:   cfg.History.DefaultLimit,
		RequestLogging: cfg.Server.Env == "development",
	}, predictor, zlog)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		cancel()
		if pruner != nil {
			pruner.Stop()
		}
		if err := app.Shutdown(); err != nil {
			zlog.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr), zap.Bool("history", cfg.History.Enabled))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}
