package api

import (
	"time"

	"sales-dashboard/docs"
	"sales-dashboard/internal/api/handlers"
	"sales-dashboard/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// AccessLog enables per-request log lines.
	AccessLog bool
	// Zero timeouts leave fiber's defaults.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func SetupRouter(
	txHandler *handlers.TransactionHandler,
	statsHandler *handlers.StatisticsHandler,
	cfg RouterConfig,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "sales-dashboard",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				appLogger.Error("Unhandled request error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept",
		ExposeHeaders: "X-Total-Count",
	}))
	if cfg.AccessLog {
		app.Use(middleware.RequestLogger(appLogger.Named("http")))
	}

	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	// paths match the dashboard client
	app.Get("/initdb", txHandler.InitDB)
	app.Get("/getAll", txHandler.ListTransactions)

	app.Get("/getTotalSales", statsHandler.TotalSales)
	app.Get("/getTotalcount", statsHandler.SoldCount)
	app.Get("/getTotalcountNot", statsHandler.NotSoldCount)
	app.Get("/barchart", statsHandler.PriceRanges)
	app.Get("/categorycount", statsHandler.Categories)
	app.Get("/combined", statsHandler.Combined)

	return app
}
