package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/quaint/analyzer/api"
	"github.com/quaint/analyzer/config"
	"github.com/quaint/analyzer/internal/server"
	"github.com/quaint/analyzer/logging"
	"github.com/quaint/analyzer/metrics"
	"github.com/quaint/analyzer/static"
	"github.com/rs/zerolog/log"
)

const serviceName = "quaint-lite"

// Static-only variant: the browser talks to the exchange directly, so there is no ML API gateway here
func main() {
	envConfig, err := config.LoadLite()
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration loading failed")
	}

	logging.Setup(os.Stdout, envConfig.LogLevel)

	appConfig, err := config.ReadApplicationConfig(envConfig.ApplicationConfigFileYmlPath)
	if err != nil {
		log.Fatal().Stack().Err(err).Msg("Application config failed")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info().Msgf("Starting QuAInt² market analyzer (static) %s on port %d, default symbol %s", api.Version, envConfig.Port, envConfig.Symbol)

	traceShutdown, e := server.SetupTracing(ctx, serviceName, appConfig)
	if e != nil {
		log.Fatal().Stack().Err(e).Msg("Trace setup failed")
	}
	defer traceShutdown()

	staticServer := static.New(envConfig.StaticDir)
	defer staticServer.Close()

	routing := &api.Routing{
		ServerName:     serviceName,
		AppConfig:      appConfig,
		FrontendConfig: func() any { return envConfig.Frontend() },
		Static:         staticServer,
	}

	router, e := server.SetupRouter(routing, metrics.NewCollector("quaint_lite", nil), staticServer.CheckIndex)
	if e != nil {
		log.Fatal().Stack().Err(e).Msg("Router setup failed")
	}

	if err := server.Serve(ctx, envConfig.Port, router); err != nil {
		log.Fatal().Stack().Err(err).Msg("startup failed")
	}
}
