package config

const (
	BinanceWebSocketBase = "wss://stream.binance.com:9443"
	BinanceRestBase      = "https://api.binance.com/api/v3"
	DefaultSymbol        = "BTCUSDT"
)

// PopularSymbols Trading pairs offered in the symbol picker of the static-only variant
var PopularSymbols = []string{
	"BTCUSDT", "ETHUSDT", "BNBUSDT", "XRPUSDT", "SOLUSDT",
	"ADAUSDT", "DOGEUSDT", "AVAXUSDT", "DOTUSDT", "LINKUSDT",
	"LTCUSDT", "TRXUSDT", "ATOMUSDT", "UNIUSDT", "XLMUSDT",
}

// FrontendConfig Settings returned by `/api/config`. Field names are a contract with the SPA.
type FrontendConfig struct {
	BinanceWsBase      string   `json:"binance_ws_base"`
	BinanceRestBase    string   `json:"binance_rest_base"`
	SupportedIntervals []string `json:"supported_intervals"`
	Symbol             string   `json:"symbol"`
	DefaultInterval    string   `json:"default_interval"`
	MaxCandles         int      `json:"max_candles"`
	MaxTrades          int      `json:"max_trades"`
	MaxOrderbookLevels int      `json:"max_orderbook_levels"`
	MLAPIEnabled       bool     `json:"ml_api_enabled"`

	PollIntervals struct {
		MarketAnalysis int `json:"market_analysis"`
		LLMAnalysis    int `json:"llm_analysis"`
		MarketSignals  int `json:"market_signals"`
	} `json:"poll_intervals"`

	Notifications struct {
		Enabled             bool    `json:"enabled"`
		SoundEnabled        bool    `json:"sound_enabled"`
		VolatilityThreshold float64 `json:"volatility_threshold"`
	} `json:"notifications"`
}

type LiteFrontendConfig struct {
	BinanceWsBase      string   `json:"binance_ws_base"`
	BinanceRestBase    string   `json:"binance_rest_base"`
	SupportedIntervals []string `json:"supported_intervals"`
	PopularSymbols     []string `json:"popular_symbols"`
	DefaultSymbol      string   `json:"default_symbol"`
	DefaultRate        int      `json:"default_rate"`
	DefaultInterval    string   `json:"default_interval"`
	MaxCandles         int      `json:"max_candles"`
	MaxTrades          int      `json:"max_trades"`
	MaxOrderbookLevels int      `json:"max_orderbook_levels"`
}

// Frontend Builds a fresh snapshot. Slices are copied so a caller can never mutate the shared lists.
func (c Configuration) Frontend() FrontendConfig {
	fc := FrontendConfig{
		BinanceWsBase:      BinanceWebSocketBase,
		BinanceRestBase:    BinanceRestBase,
		SupportedIntervals: append([]string(nil), SupportedIntervals...),
		Symbol:             DefaultSymbol,
		DefaultInterval:    c.Chart.DefaultInterval,
		MaxCandles:         c.Chart.MaxCandles,
		MaxTrades:          c.Chart.MaxTrades,
		MaxOrderbookLevels: c.Chart.MaxOrderbookLevels,
		MLAPIEnabled:       c.MLAPI.Enabled(),
	}
	fc.PollIntervals.MarketAnalysis = c.PollIntervals.MarketAnalysis
	fc.PollIntervals.LLMAnalysis = c.PollIntervals.LLMAnalysis
	fc.PollIntervals.MarketSignals = c.PollIntervals.MarketSignals
	fc.Notifications.Enabled = c.Notifications.Enabled
	fc.Notifications.SoundEnabled = c.Notifications.SoundEnabled
	fc.Notifications.VolatilityThreshold = c.Notifications.VolatilityThreshold
	return fc
}

func (c LiteConfiguration) Frontend() LiteFrontendConfig {
	return LiteFrontendConfig{
		BinanceWsBase:      BinanceWebSocketBase,
		BinanceRestBase:    BinanceRestBase,
		SupportedIntervals: append([]string(nil), SupportedIntervals...),
		PopularSymbols:     append([]string(nil), PopularSymbols...),
		DefaultSymbol:      c.Symbol,
		DefaultRate:        c.RefreshRate,
		DefaultInterval:    c.Chart.DefaultInterval,
		MaxCandles:         c.Chart.MaxCandles,
		MaxTrades:          c.Chart.MaxTrades,
		MaxOrderbookLevels: c.Chart.MaxOrderbookLevels,
	}
}
