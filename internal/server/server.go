package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/quaint/analyzer/api"
	"github.com/quaint/analyzer/config"
	"github.com/quaint/analyzer/health"
	"github.com/quaint/analyzer/metrics"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
	"golang.org/x/sync/errgroup"
)

const shutdownGrace = 10 * time.Second

var emptyShutdown = func() {}

// SetupTracing Installs an OTLP/HTTP exporter as the global provider when tracing is enabled
func SetupTracing(ctx context.Context, serviceName string, config config.ApplicationConfiguration) (func(), error) {
	if !config.Tracing.Enabled {
		return emptyShutdown, nil
	}

	if config.Tracing.Endpoint == "" {
		return emptyShutdown, fmt.Errorf("missing tracing endpoint")
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		return emptyShutdown, fmt.Errorf("failed to create resource: %w", err)
	}

	traceExporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpoint(config.Tracing.Endpoint),
	)
	if err != nil {
		return emptyShutdown, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.Tracing.SamplerFraction)),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	log.Info().Msgf("OpenTelemetry export is enabled, to: %s", config.Tracing.Endpoint)

	return func() {
		if err = tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error().Stack().Err(err).Msg("failed to shutdown TracerProvider")
		}
	}, nil
}

// SetupRouter Functional routes are mounted last-resort at `/`; liveness, readiness and metrics sit beside them on the parent
func SetupRouter(routing *api.Routing, collector *metrics.Collector, readiness func() error) (*chi.Mux, error) {
	router := chi.NewRouter()
	router.Use(middleware.StripSlashes)

	routing.ParentRouter = router

	var setupErr error
	router.Route("/", func(r chi.Router) {
		setupErr = routing.SetupFunctionalRoutes(r)
	})
	if setupErr != nil {
		return nil, fmt.Errorf("route setup failed: %w", setupErr)
	}

	if path := routing.AppConfig.Prometheus.Path; len(path) > 0 && collector != nil {
		log.Info().Msgf("Registering metrics endpoint at: %s", path)
		router.Handle(path, collector.Handler())
	}

	opts := []health.Opt{health.WithChiMux(router), health.WithMaxGoroutines(10_000)}
	if readiness != nil {
		opts = append(opts, health.WithReadinessCheck("spa-index", readiness))
	}
	health.New(opts...).StartListening()

	return router, nil
}

// Serve Runs until ctx is cancelled, then drains in-flight requests
func Serve(ctx context.Context, port int, handler http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Msgf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
