package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/quaint/analyzer/api"
	"github.com/quaint/analyzer/backend/setup"
	"github.com/quaint/analyzer/config"
	"github.com/quaint/analyzer/internal/server"
	"github.com/quaint/analyzer/logging"
	"github.com/quaint/analyzer/metrics"
	"github.com/quaint/analyzer/static"
	"github.com/rs/zerolog/log"
)

const serviceName = "quaint"

func main() {
	envConfig, err := config.Load()
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

	log.Info().Msgf("Starting QuAInt² market analyzer %s on port %d", api.Version, envConfig.Port)
	log.Info().Msgf("ML API: %s", envConfig.MLAPI.URL)
	log.Info().Msgf("ML API key configured: %t", envConfig.MLAPI.Enabled())

	////////////////////////////////////////////

	traceShutdown, e := server.SetupTracing(ctx, serviceName, appConfig)
	if e != nil {
		log.Fatal().Stack().Err(e).Msg("Trace setup failed")
	}
	defer traceShutdown()

	collector := metrics.NewCollector(serviceName, nil)

	mlBackend, e := setup.Init(ctx, envConfig.MLAPI, appConfig, collector)
	if e != nil {
		log.Fatal().Stack().Err(e).Msg("Backend init failed")
	}

	staticServer := static.New(envConfig.StaticDir)
	defer staticServer.Close()

	routing := &api.Routing{
		ServerName:     serviceName,
		AppConfig:      appConfig,
		FrontendConfig: func() any { return envConfig.Frontend() },
		Proxying:       true,
		Backend:        mlBackend,
		Static:         staticServer,
	}

	router, e := server.SetupRouter(routing, collector, staticServer.CheckIndex)
	if e != nil {
		log.Fatal().Stack().Err(e).Msg("Router setup failed")
	}

	////////////////////////////////////////////

	if err := server.Serve(ctx, envConfig.Port, router); err != nil {
		log.Fatal().Stack().Err(err).Msg("startup failed")
	}
}
