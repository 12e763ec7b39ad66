package health

import (
	"net/http"

	"github.com/heptiolabs/healthcheck"
)

// New - A liveness check indicates that this instance of the application should be destroyed and replaced. A failed liveness check
// indicates that this instance is unhealthy, not some upstream dependency.
//
// A readiness Check indicates that this instance of the application is currently unable to serve requests. Here that means the
// SPA entry document is missing; the ML API is deliberately not a readiness dependency, as the static UI works without it.
//
// Liveness and Readiness endpoints will return 200 / OK out of the box to represent broad application health
// They will start to return 5xx only if new healthchecks are added and only if those start to error
func New(opts ...Opt) *Healthchecks {
	facade := &Healthchecks{handler: healthcheck.NewHandler()}

	for _, optionFunc := range opts {
		optionFunc(&facade.opts)
	}

	if facade.MaxGoroutines > 0 {
		facade.handler.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(facade.MaxGoroutines))
	}
	for name, check := range facade.ReadinessChecks {
		facade.handler.AddReadinessCheck(name, check)
	}

	return facade
}

type Healthchecks struct {
	opts
	handler healthcheck.Handler
}

// StartListening Start the endpoints once we believe that we are broadly healthy
func (f *Healthchecks) StartListening() {
	if f.ChiMux != nil {
		f.ChiMux.Handle("/liveness", http.HandlerFunc(f.handler.LiveEndpoint))
		f.ChiMux.Handle("/readiness", http.HandlerFunc(f.handler.ReadyEndpoint))
	}
}
