package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"creditrisk/predictor/internal/services"
)

type AppConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	HistoryLimit   int
	RequestLogging bool
}

// NewApp wires the form page, the JSON API, health and metrics endpoints.
func NewApp(cfg AppConfig, predictor services.PredictorService, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Credit Risk Predictor",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	if cfg.RequestLogging {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}

	app.Use("/api", cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	formHandler := NewFormHandler(predictor, log)
	predictHandler := NewPredictHandler(predictor)
	historyHandler := NewHistoryHandler(predictor, cfg.HistoryLimit)

	app.Get("/", formHandler.HandleForm)
	app.Post("/", formHandler.HandleSubmit)

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/predict", predictHandler.HandlePredict)
	api.Get("/model", predictHandler.HandleModelInfo)
	api.Get("/predictions", historyHandler.HandleListPredictions)
	api.Get("/predictions/:id", historyHandler.HandleGetPrediction)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return app
}
