package mlapi

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/quaint/analyzer/backend"
	"github.com/quaint/analyzer/config"
	"github.com/quaint/analyzer/internal/test"
	"github.com/quaint/analyzer/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newBackend(t *testing.T, baseURL string, timeout time.Duration) *Backend {
	t.Helper()
	b := &Backend{Metrics: metrics.NewCollector("test", nil)}
	require.NoError(t, b.Init(context.Background(), config.MLAPI{URL: baseURL, Key: "k3y", Timeout: timeout}))
	return b
}

func TestFetch(t *testing.T) {
	upstream := test.NewFakeUpstream().
		Reply("/market-analysis", test.Reply{Body: `[{"signal":"BUY"}]`}).
		Reply("/market-signals", test.Reply{Status: http.StatusUnauthorized, Body: `{"detail":"secret upstream detail"}`}).
		Reply("/llm-analysis", test.Reply{Status: http.StatusNotFound, Body: `{"detail":"no analysis yet"}`}).
		Reply("/candles", test.Reply{Status: http.StatusInternalServerError, Body: `boom`}).
		Reply("/data-quality-logs", test.Reply{Body: `<html>not json</html>`})
	defer upstream.Close()

	b := newBackend(t, upstream.URL+"/", 5*time.Second)

	tests := []struct {
		name   string
		path   string
		query  url.Values
		expect backend.Result
	}{
		{
			name:   "ok",
			path:   "/market-analysis",
			query:  url.Values{"limit": {"1"}},
			expect: backend.Ok([]byte(`[{"signal":"BUY"}]`)),
		},
		{
			name:   "unauthorized",
			path:   "/market-signals",
			expect: backend.Unauthorized(),
		},
		{
			name:   "not found with detail",
			path:   "/llm-analysis",
			expect: backend.Failed(404, "ML API returned 404 Not Found for /llm-analysis: no analysis yet"),
		},
		{
			name:   "server error without detail",
			path:   "/candles",
			expect: backend.Failed(500, "ML API returned 500 Internal Server Error for /candles"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, b.Fetch(context.Background(), tt.path, tt.query))
		})
	}

	t.Run("invalid json", func(t *testing.T) {
		res := b.Fetch(context.Background(), "/data-quality-logs", nil)
		assert.Equal(t, backend.Unreachable, res.Outcome)
		assert.ErrorIs(t, res.Err, errInvalidJSON)
	})

	calls := upstream.Calls()
	require.Len(t, calls, 5)
	for _, call := range calls {
		assert.Equal(t, "Bearer k3y", call.Authorization)
	}
	assert.Equal(t, url.Values{"limit": {"1"}}, calls[0].Query)
}

func TestFetchUnreachable(t *testing.T) {
	b := newBackend(t, test.ClosedURL(), 5*time.Second)

	res := b.Fetch(context.Background(), "/candles", url.Values{"limit": {"100"}})
	assert.Equal(t, backend.Unreachable, res.Outcome)
	assert.Error(t, res.Err)
}

func TestFetchTimesOut(t *testing.T) {
	upstream := test.NewFakeUpstream().Reply("/market-signals", test.Reply{Hang: true})
	defer upstream.Close()

	b := newBackend(t, upstream.URL, 200*time.Millisecond)

	start := time.Now()
	res := b.Fetch(context.Background(), "/market-signals", nil)

	assert.Equal(t, backend.Unreachable, res.Outcome)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFetchDoesNotFollowRedirects(t *testing.T) {
	upstream := test.NewFakeUpstream().Reply("/market-signals", test.Reply{Status: http.StatusFound})
	defer upstream.Close()

	b := newBackend(t, upstream.URL, time.Second)

	res := b.Fetch(context.Background(), "/market-signals", nil)
	assert.Equal(t, backend.UpstreamError, res.Outcome)
	assert.Equal(t, http.StatusFound, res.Status)
}

func TestProbe(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		upstream := test.NewFakeUpstream().Reply("/health", test.Reply{Body: `{"status":"ok"}`})
		defer upstream.Close()

		assert.Equal(t, backend.Connected, newBackend(t, upstream.URL, time.Second).Probe(context.Background()))
		assert.Equal(t, "Bearer k3y", upstream.Calls()[0].Authorization)
	})

	t.Run("error", func(t *testing.T) {
		upstream := test.NewFakeUpstream().Reply("/health", test.Reply{Status: http.StatusServiceUnavailable})
		defer upstream.Close()

		assert.Equal(t, backend.ProbeError, newBackend(t, upstream.URL, time.Second).Probe(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		assert.Equal(t, backend.ProbeUnreachable, newBackend(t, test.ClosedURL(), time.Second).Probe(context.Background()))
	})
}

func TestFetchTraced(t *testing.T) {
	upstream := test.NewFakeUpstream().Reply("/candles", test.Reply{Body: `[]`})
	defer upstream.Close()

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	defer otel.SetTracerProvider(previous)

	b := &Backend{EnableTrace: true}
	require.NoError(t, b.Init(context.Background(), config.MLAPI{URL: upstream.URL, Key: "k3y", Timeout: time.Second}))

	res := b.Fetch(context.Background(), "/candles", url.Values{"limit": {"5"}})
	require.Equal(t, backend.Success, res.Outcome)

	var names []string
	for _, span := range exporter.GetSpans() {
		names = append(names, span.Name)
	}
	assert.Contains(t, names, "ml-api /candles")
}
