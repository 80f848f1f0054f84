package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Telegram struct {
	Token           string  `yaml:"-"` // from TELEGRAM_TOKEN, never from file
	ChatID          string  `yaml:"-"` // from TELEGRAM_CHAT_ID
	BaseURL         string  `yaml:"base_url"`
	TimeoutMs       int     `yaml:"timeout_ms"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
}

type MarketData struct {
	ChartBaseURL    string   `yaml:"chart_base_url"`
	UniverseURL     string   `yaml:"universe_url"`
	DefaultUniverse []string `yaml:"default_universe"`
	Benchmark       string   `yaml:"benchmark"`
	SymbolSuffix    string   `yaml:"symbol_suffix"`
	LookbackDays    int      `yaml:"lookback_days"`
	TimeoutMs       int      `yaml:"timeout_ms"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
}

type Strategy struct {
	SMAWindow        int `yaml:"sma_window"`
	MomentumSessions int `yaml:"momentum_sessions"`
	TopK             int `yaml:"top_k"`
	MaxPositions     int `yaml:"max_positions"`
	RebalanceDayMax  int `yaml:"rebalance_day_max"`
}

type Commands struct {
	MergeLots bool `yaml:"merge_lots"` // merge repeated BUY lots for one symbol
}

type State struct {
	Backend     string  `yaml:"backend"` // file | sqlite
	Path        string  `yaml:"path"`
	InitialCash float64 `yaml:"initial_cash"`
	Kafka       Kafka   `yaml:"kafka"`
}

type Kafka struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type Journal struct {
	Path string `yaml:"path"`
}

type Root struct {
	Telegram   Telegram   `yaml:"telegram"`
	MarketData MarketData `yaml:"market_data"`
	Strategy   Strategy   `yaml:"strategy"`
	Commands   Commands   `yaml:"commands"`
	State      State      `yaml:"state"`
	Journal    Journal    `yaml:"journal"`
}

func Load(path string) (Root, error) {
	var c Root
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, err
	}
	c.applyDefaults()
	return c, nil
}

// Default returns a config with every default filled in, for runs without a file.
func Default() Root {
	var c Root
	c.applyDefaults()
	return c
}

func (c *Root) applyDefaults() {
	if c.Telegram.BaseURL == "" {
		c.Telegram.BaseURL = "https://api.telegram.org"
	}
	if c.Telegram.TimeoutMs == 0 {
		c.Telegram.TimeoutMs = 10000
	}
	if c.Telegram.RateLimitPerSec == 0 {
		c.Telegram.RateLimitPerSec = 1
	}
	if c.MarketData.ChartBaseURL == "" {
		c.MarketData.ChartBaseURL = "https://query1.finance.yahoo.com"
	}
	if c.MarketData.UniverseURL == "" {
		c.MarketData.UniverseURL = "https://nsearchives.nseindia.com/content/indices/ind_nifty100list.csv"
	}
	if len(c.MarketData.DefaultUniverse) == 0 {
		c.MarketData.DefaultUniverse = []string{"RELIANCE", "HDFCBANK", "INFY", "TCS", "ITC"}
	}
	if c.MarketData.Benchmark == "" {
		c.MarketData.Benchmark = "^NSEI"
	}
	if c.MarketData.SymbolSuffix == "" {
		c.MarketData.SymbolSuffix = ".NS"
	}
	if c.MarketData.LookbackDays == 0 {
		c.MarketData.LookbackDays = 730 // two years covers a 200-session SMA
	}
	if c.MarketData.TimeoutMs == 0 {
		c.MarketData.TimeoutMs = 15000
	}
	if c.MarketData.RateLimitPerSec == 0 {
		c.MarketData.RateLimitPerSec = 5
	}
	if c.Strategy.SMAWindow == 0 {
		c.Strategy.SMAWindow = 200
	}
	if c.Strategy.MomentumSessions == 0 {
		c.Strategy.MomentumSessions = 21
	}
	if c.Strategy.TopK == 0 {
		c.Strategy.TopK = 15
	}
	if c.Strategy.MaxPositions == 0 {
		c.Strategy.MaxPositions = 2
	}
	if c.Strategy.RebalanceDayMax == 0 {
		c.Strategy.RebalanceDayMax = 7
	}
	if c.State.Backend == "" {
		c.State.Backend = "file"
	}
	if c.State.Path == "" {
		c.State.Path = "data/portfolio.json"
	}
	if c.State.InitialCash == 0 {
		c.State.InitialCash = 25000
	}
	if c.State.Kafka.Topic == "" {
		c.State.Kafka.Topic = "portfolio-state"
	}
	if c.Journal.Path == "" {
		c.Journal.Path = "data/runs.jsonl"
	}
}

// ReadSecrets overlays chat credentials from the environment. Core packages
// never read the environment themselves.
func (c *Root) ReadSecrets() error {
	c.Telegram.Token = os.Getenv("TELEGRAM_TOKEN")
	c.Telegram.ChatID = os.Getenv("TELEGRAM_CHAT_ID")
	if c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is not set")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("TELEGRAM_CHAT_ID is not set")
	}
	return nil
}
