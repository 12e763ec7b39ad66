package health

import (
	"github.com/go-chi/chi/v5"
	"github.com/heptiolabs/healthcheck"
)

type opts struct {
	ChiMux          *chi.Mux
	ReadinessChecks map[string]healthcheck.Check
	MaxGoroutines   int
}

type Opt func(*opts)

func WithChiMux(mux *chi.Mux) Opt {
	return func(o *opts) {
		o.ChiMux = mux
	}
}

// WithReadinessCheck A failing check turns `/readiness` into a 503, never `/api/health`
func WithReadinessCheck(name string, check func() error) Opt {
	return func(o *opts) {
		if o.ReadinessChecks == nil {
			o.ReadinessChecks = map[string]healthcheck.Check{}
		}
		o.ReadinessChecks[name] = check
	}
}

func WithMaxGoroutines(threshold int) Opt {
	return func(o *opts) {
		o.MaxGoroutines = threshold
	}
}
