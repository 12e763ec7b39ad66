package mlapi

import (
	"net/http"

	"github.com/quaint/analyzer/config"
	"github.com/quaint/analyzer/metrics"
)

const healthPath = "/health"

// Backend Calls the ML Data API over HTTPS with a bearer credential
type Backend struct {
	Config      config.MLAPI
	Client      *http.Client
	Metrics     *metrics.Collector
	EnableTrace bool
}
