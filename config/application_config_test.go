package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ML_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8753, cfg.Port)
	assert.Equal(t, "static", cfg.StaticDir)
	assert.Equal(t, "https://192.168.100.14:8448", cfg.MLAPI.URL)
	assert.False(t, cfg.MLAPI.VerifySSL)
	assert.False(t, cfg.MLAPI.Enabled())
	assert.Equal(t, 30*time.Second, cfg.MLAPI.Timeout)
	assert.Equal(t, Chart{DefaultInterval: "1m", MaxCandles: 500, MaxTrades: 100, MaxOrderbookLevels: 20}, cfg.Chart)
	assert.Equal(t, PollIntervals{MarketAnalysis: 30000, LLMAnalysis: 60000, MarketSignals: 15000}, cfg.PollIntervals)
	assert.Equal(t, Notifications{Enabled: true, SoundEnabled: true, VolatilityThreshold: 0.5}, cfg.Notifications)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ML_API_URL", "http://ml.internal:9000")
	t.Setenv("ML_API_KEY", "secret")
	t.Setenv("ML_API_VERIFY_SSL", "true")
	t.Setenv("API_PORT", "9999")
	t.Setenv("DEFAULT_CHART_INTERVAL", "15m")
	t.Setenv("MARKET_SIGNALS_POLL_INTERVAL", "5000")
	t.Setenv("ENABLE_SOUND_NOTIFICATIONS", "false")
	t.Setenv("VOLATILITY_ALERT_THRESHOLD", "1.25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.True(t, cfg.MLAPI.Enabled())
	assert.True(t, cfg.MLAPI.VerifySSL)
	assert.Equal(t, "http://ml.internal:9000", cfg.MLAPI.URL)
	assert.Equal(t, "15m", cfg.Chart.DefaultInterval)
	assert.Equal(t, 5000, cfg.PollIntervals.MarketSignals)
	assert.False(t, cfg.Notifications.SoundEnabled)
	assert.Equal(t, 1.25, cfg.Notifications.VolatilityThreshold)
}

func TestLoadFailsFast(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad int", "MAX_CANDLES", "lots"},
		{"bad bool", "ENABLE_BROWSER_NOTIFICATIONS", "maybe"},
		{"bad float", "VOLATILITY_ALERT_THRESHOLD", "high"},
		{"bad duration", "ML_API_TIMEOUT", "soon"},
		{"negative limit", "MAX_TRADES", "-1"},
		{"unknown interval", "DEFAULT_CHART_INTERVAL", "7m"},
		{"relative url", "ML_API_URL", "/ml"},
		{"zero poll", "LLM_ANALYSIS_POLL_INTERVAL", "0"},
		{"port out of range", "API_PORT", "70000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadLite(t *testing.T) {
	t.Setenv("BINANCE_SYMBOL", "ETHUSDT")

	cfg, err := LoadLite()
	require.NoError(t, err)
	assert.Equal(t, "ETHUSDT", cfg.Symbol)
	assert.Equal(t, 10, cfg.RefreshRate)

	fc := cfg.Frontend()
	assert.Equal(t, "ETHUSDT", fc.DefaultSymbol)
	assert.Len(t, fc.PopularSymbols, 15)
	assert.Equal(t, SupportedIntervals, fc.SupportedIntervals)
}

func TestFrontendIsDeterministic(t *testing.T) {
	cfg := Configuration{
		Chart:         Chart{DefaultInterval: "1m", MaxCandles: 500, MaxTrades: 100, MaxOrderbookLevels: 20},
		PollIntervals: PollIntervals{MarketAnalysis: 30000, LLMAnalysis: 60000, MarketSignals: 15000},
		Notifications: Notifications{Enabled: true, SoundEnabled: true, VolatilityThreshold: 0.5},
	}

	first, err := json.Marshal(cfg.Frontend())
	require.NoError(t, err)

	snapshot := cfg.Frontend()
	snapshot.SupportedIntervals[0] = "mutated"

	second, err := json.Marshal(cfg.Frontend())
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.Contains(t, string(first), `"ml_api_enabled":false`)
	assert.Equal(t, "1s", SupportedIntervals[0])
}

func TestReadApplicationConfig(t *testing.T) {
	dir := t.TempDir()

	missing, err := ReadApplicationConfig(filepath.Join(dir, "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, ApplicationConfiguration{}, missing)

	path := filepath.Join(dir, "application.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
prometheus:
  path: /metrics
tracing:
  enabled: true
  endpoint: otel:4318
  samplerFraction: 0.25
cors:
  allowedOrigins:
    - https://quaint.example
`), 0o600))

	appConfig, err := ReadApplicationConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/metrics", appConfig.Prometheus.Path)
	assert.True(t, appConfig.Tracing.Enabled)
	assert.Equal(t, 0.25, appConfig.Tracing.SamplerFraction)
	assert.Equal(t, []string{"https://quaint.example"}, appConfig.CORS.AllowedOrigins)

	require.NoError(t, os.WriteFile(path, []byte("prometheus: [unbalanced"), 0o600))
	_, err = ReadApplicationConfig(path)
	assert.Error(t, err)
}
