package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/config"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/ws"
)

// multipart framing on top of the raw video bytes
const bodyLimitSlack = 1 << 20

type Dependencies struct {
	AnalysisService handler.AnalysisService
	Decoder         handler.DecoderChecker
	Hub             *ws.Hub
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	cfg         *config.Config
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
	cancelHub   context.CancelFunc
}

func NewRouter(logger *slog.Logger, cfg *config.Config, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(logger),
		AppName:               "Deepguard API",
		BodyLimit:             int(cfg.MaxUploadBytes) + bodyLimitSlack,
		DisableStartupMessage: cfg.IsProduction(),
	})

	return &Router{
		app:    app,
		logger: logger,
		cfg:    cfg,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Prometheus scrape endpoint
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	var decoder handler.DecoderChecker
	if r.deps != nil {
		decoder = r.deps.Decoder
	}

	// Health check endpoints
	healthHandler := handler.NewHealthHandler(decoder)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// Only configure analysis routes if dependencies were provided
	if r.deps == nil {
		return
	}

	v1 := r.app.Group("/v1")

	// Rate limiting (per client IP)
	r.rateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Max:    r.cfg.RateLimitMax,
		Window: r.cfg.RateLimitWindow,
	})
	v1.Use(r.rateLimiter.Handler())

	analysisHandler := handler.NewAnalysisHandler(r.deps.AnalysisService, r.cfg.MaxUploadBytes, r.logger)
	v1.Post("/analyses", analysisHandler.Analyze)

	// WebSocket live feed
	if r.deps.Hub != nil {
		hubCtx, hubCancel := context.WithCancel(context.Background())
		r.cancelHub = hubCancel
		go r.deps.Hub.Run(hubCtx)

		v1.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.deps.Hub))
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown(ctx context.Context) error {
	// Stop WebSocket hub
	if r.cancelHub != nil {
		r.cancelHub()
	}

	// Stop rate limiter cleanup goroutine
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.ShutdownWithContext(ctx)
}
