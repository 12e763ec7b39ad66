package config

import (
	"fmt"
	"net/url"
	"slices"
	"time"
)

// SupportedIntervals Chart intervals offered to the frontend, in display order
var SupportedIntervals = []string{"1s", "1m", "3m", "5m", "15m", "30m", "1h", "2h", "4h", "6h", "8h", "12h", "1d"}

// Configuration Environment for the proxying variant. Parsed once at startup via `caarlos0/env`, so malformed
// numbers, booleans and durations are fatal before any request is served.
type Configuration struct {
	ApplicationConfigFileYmlPath string `env:"APP_CONFIG_FILE_YML_PATH" envDefault:"application.yml"`

	Port      int    `env:"API_PORT" envDefault:"8753"`
	StaticDir string `env:"STATIC_DIR" envDefault:"static"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	MLAPI MLAPI

	Chart         Chart
	PollIntervals PollIntervals
	Notifications Notifications
}

type MLAPI struct {
	URL       string        `env:"ML_API_URL" envDefault:"https://192.168.100.14:8448"`
	Key       string        `env:"ML_API_KEY"`
	VerifySSL bool          `env:"ML_API_VERIFY_SSL" envDefault:"false"`
	Timeout   time.Duration `env:"ML_API_TIMEOUT" envDefault:"30s"`
}

// Enabled The gateway is a feature flag on the presence of a key
func (m MLAPI) Enabled() bool {
	return m.Key != ""
}

type Chart struct {
	DefaultInterval    string `env:"DEFAULT_CHART_INTERVAL" envDefault:"1m"`
	MaxCandles         int    `env:"MAX_CANDLES" envDefault:"500"`
	MaxTrades          int    `env:"MAX_TRADES" envDefault:"100"`
	MaxOrderbookLevels int    `env:"MAX_ORDERBOOK_LEVELS" envDefault:"20"`
}

type PollIntervals struct {
	MarketAnalysis int `env:"MARKET_ANALYSIS_POLL_INTERVAL" envDefault:"30000"`
	LLMAnalysis    int `env:"LLM_ANALYSIS_POLL_INTERVAL" envDefault:"60000"`
	MarketSignals  int `env:"MARKET_SIGNALS_POLL_INTERVAL" envDefault:"15000"`
}

type Notifications struct {
	Enabled             bool    `env:"ENABLE_BROWSER_NOTIFICATIONS" envDefault:"true"`
	SoundEnabled        bool    `env:"ENABLE_SOUND_NOTIFICATIONS" envDefault:"true"`
	VolatilityThreshold float64 `env:"VOLATILITY_ALERT_THRESHOLD" envDefault:"0.5"`
}

// LiteConfiguration Environment for the static-only variant, where the frontend talks to the exchange directly
type LiteConfiguration struct {
	ApplicationConfigFileYmlPath string `env:"APP_CONFIG_FILE_YML_PATH" envDefault:"application.yml"`

	Port      int    `env:"API_PORT" envDefault:"8753"`
	StaticDir string `env:"STATIC_DIR" envDefault:"static"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	Symbol      string `env:"BINANCE_SYMBOL" envDefault:"BTCUSDT"`
	RefreshRate int    `env:"DEFAULT_REFRESH_RATE" envDefault:"10"`

	Chart Chart
}

func (c Configuration) Validate() error {
	if err := validatePort(c.Port); err != nil {
		return err
	}
	if err := c.Chart.validate(); err != nil {
		return err
	}

	u, err := url.Parse(c.MLAPI.URL)
	if err != nil {
		return fmt.Errorf("ML_API_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("ML_API_URL must be an absolute http(s) URL, got %q", c.MLAPI.URL)
	}
	if c.MLAPI.Timeout <= 0 {
		return fmt.Errorf("ML_API_TIMEOUT must be positive, got %s", c.MLAPI.Timeout)
	}

	for name, v := range map[string]int{
		"MARKET_ANALYSIS_POLL_INTERVAL": c.PollIntervals.MarketAnalysis,
		"LLM_ANALYSIS_POLL_INTERVAL":    c.PollIntervals.LLMAnalysis,
		"MARKET_SIGNALS_POLL_INTERVAL":  c.PollIntervals.MarketSignals,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	return nil
}

func (c LiteConfiguration) Validate() error {
	if err := validatePort(c.Port); err != nil {
		return err
	}
	if c.Symbol == "" {
		return fmt.Errorf("BINANCE_SYMBOL must not be empty")
	}
	if c.RefreshRate <= 0 {
		return fmt.Errorf("DEFAULT_REFRESH_RATE must be positive, got %d", c.RefreshRate)
	}
	return c.Chart.validate()
}

func (c Chart) validate() error {
	if !slices.Contains(SupportedIntervals, c.DefaultInterval) {
		return fmt.Errorf("DEFAULT_CHART_INTERVAL %q is not one of %v", c.DefaultInterval, SupportedIntervals)
	}
	for name, v := range map[string]int{
		"MAX_CANDLES":          c.MaxCandles,
		"MAX_TRADES":           c.MaxTrades,
		"MAX_ORDERBOOK_LEVELS": c.MaxOrderbookLevels,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	return nil
}

func validatePort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("API_PORT out of range: %d", port)
	}
	return nil
}

// ApplicationConfiguration Operational settings from the optional YAML file. Must use full names for `sigs.k8s.io/yaml`
type ApplicationConfiguration struct {
	Prometheus Prometheus
	Tracing    Tracing
	CORS       CORS
	Logging    Logging
}

type Tracing struct {
	Enabled         bool
	Endpoint        string
	SamplerFraction float64
}

type Prometheus struct {
	Path string
}

type CORS struct {
	AllowedOrigins []string
}

type Logging struct {
	DisableRequests bool
}
