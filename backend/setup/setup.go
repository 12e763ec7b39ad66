package setup

import (
	"context"

	"github.com/quaint/analyzer/backend"
	"github.com/quaint/analyzer/backend/mlapi"
	"github.com/quaint/analyzer/config"
	"github.com/quaint/analyzer/metrics"
	"github.com/rs/zerolog/log"
)

// Init Returns nil when no credential is configured, which disables the proxy gateway
func Init(ctx context.Context, cfg config.MLAPI, appConfig config.ApplicationConfiguration, collector *metrics.Collector) (backend.Backend, error) {
	if !cfg.Enabled() {
		log.Info().Msg("ML API key not configured, proxy endpoints are disabled")
		return nil, nil
	}

	log.Info().Msgf("Enabling ML API backend at %s", cfg.URL)
	b := &mlapi.Backend{Metrics: collector, EnableTrace: appConfig.Tracing.Enabled}
	if err := b.Init(ctx, cfg); err != nil {
		return nil, err
	}
	return b, nil
}
