package api

import (
	"context"
	"runtime"

	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/masa-finance/birdnet/internal/config"
	"github.com/masa-finance/birdnet/internal/engine"
	"github.com/masa-finance/birdnet/internal/scrape"
)

// Start runs the local HTTP façade until the context is cancelled.
func Start(ctx context.Context, cfg config.AppConfiguration, eng *engine.Engine) error {
	e := echo.New()
	e.HideBanner = true

	switch cfg.GetString("log_level", "info") {
	case "debug":
		e.Logger.SetLevel(log.DEBUG)
	case "warning":
		e.Logger.SetLevel(log.WARN)
	case "error":
		e.Logger.SetLevel(log.ERROR)
	default:
		e.Logger.SetLevel(log.INFO)
	}

	healthMetrics := NewHealthMetrics()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(APIKeyAuthMiddleware(cfg))
	e.Use(HealthMetricsMiddleware(healthMetrics))

	// Health check endpoints (no auth required)
	e.GET(HealthCheckPath, Healthz())
	e.GET(ReadinessCheckPath, Readyz(healthMetrics))

	if cfg.GetBool("profiling_enabled", false) {
		enableProfiling(e)
	}

	previews := scrape.NewPreviewFetcher(cfg.UserAgent())
	threads := scrape.NewThreadScraper(eng, cfg.UserAgent())

	registerRoutes(e, eng, previews, threads)

	go func() {
		<-ctx.Done()
		_ = e.Shutdown(context.Background())
	}()

	return e.Start(cfg.ListenAddress())
}

func enableProfiling(e *echo.Echo) {
	e.Logger.Info("Enabling profiling - this may impact performance")

	// Sample time in nanoseconds, see https://github.com/DataDog/go-profiler-notes/blob/main/block.md#usage
	runtime.SetBlockProfileRate(500)
	// Fraction of contention events that are reported https://gist.github.com/andrewhodel/ed7625a14eb87404cafd37493849d1ba
	runtime.SetMutexProfileFraction(1)
	// CPU profiling rate samples per second https://gist.github.com/andrewhodel/ed7625a14eb87404cafd37493849d1ba
	runtime.SetCPUProfileRate(30)

	pprof.Register(e)
}
