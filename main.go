package main

import (
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cyberdelia/go-metrics-graphite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rcrowley/go-metrics"
	"go.uber.org/zap"

	"sched-visualizer/api"
	"sched-visualizer/config"
	"sched-visualizer/internal/aggregator"
	"sched-visualizer/internal/collaborator"
	"sched-visualizer/internal/run"
)

func main() {
	cfg := config.GetVisualizerConfig()

	logger, err := newLogger(cfg.Development)
	if err != nil {
		log.Fatalln(err)
	}
	defer logger.Sync()

	scheduler := newScheduler(cfg, logger)

	cache, err := run.NewCache(cfg.CacheMaxCost)
	if err != nil {
		logger.Fatal("failed to initialize result cache", zap.Error(err))
	}
	defer cache.Close()

	if cfg.GraphiteHost != "" {
		addr, err := net.ResolveTCPAddr("tcp", cfg.GraphiteHost)
		if err != nil {
			logger.Fatal("failed to resolve graphite address", zap.String("host", cfg.GraphiteHost), zap.Error(err))
		}
		go graphite.Graphite(metrics.DefaultRegistry, 10*time.Second, cfg.GraphitePrefix, addr)
		logger.Debug("exporting metrics to graphite", zap.String("host", cfg.GraphiteHost))
	}

	orchestrator := run.NewOrchestrator(scheduler, aggregator.NewAggregator(logger), cache, cfg.CacheTTL, logger)
	handler := api.NewVisualizerHandlerImpl(orchestrator, logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(api.RequestLogger(logger))
	api.RegisterRoutes(app, handler)

	go func() {
		sigChan := make(chan os.Signal, 2)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		logger.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("visualizer listening",
		zap.Int("port", cfg.Port),
		zap.String("collaborator", scheduler.Name()))
	if err := app.Listen(":" + strconv.Itoa(cfg.Port)); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newScheduler(cfg *config.VisualizerConfig, logger *zap.Logger) collaborator.Scheduler {
	if cfg.Collaborator.Kind == "exec" {
		return collaborator.NewExecRunner(cfg.Collaborator.Binary, cfg.Collaborator.Timeout, logger)
	}
	return collaborator.NewHTTPClient(collaborator.HTTPConfig{
		BaseURL: cfg.Collaborator.URL,
		Timeout: cfg.Collaborator.Timeout,
		Retries: cfg.Collaborator.Retries,
		Backoff: cfg.Collaborator.Backoff,
	}, logger)
}
