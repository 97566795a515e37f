package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the bot's full configuration. Keys are the upper-case names
// of the legacy config.json layout so existing files load unchanged.
// Amounts are decimals and accept either a number or a quoted string.
type Config struct {
	// Broker credentials, carried for a real broker backend.
	APIKey      string `json:"API_KEY" yaml:"API_KEY"`
	APISecret   string `json:"API_SECRET" yaml:"API_SECRET"`
	AccessToken string `json:"ACCESS_TOKEN" yaml:"ACCESS_TOKEN"`

	TelegramToken     string `json:"TELEGRAM_TOKEN" yaml:"TELEGRAM_TOKEN"`
	TelegramChatID    string `json:"TELEGRAM_CHAT_ID" yaml:"TELEGRAM_CHAT_ID"`
	DiscordWebhookURL string `json:"DISCORD_WEBHOOK_URL" yaml:"DISCORD_WEBHOOK_URL"`
	NotifyTimeout     string `json:"NOTIFY_TIMEOUT" yaml:"NOTIFY_TIMEOUT"`

	StartingCapital   decimal.Decimal `json:"STARTING_CAPITAL" yaml:"STARTING_CAPITAL"`
	RiskPerTradePct   decimal.Decimal `json:"RISK_PER_TRADE_PCT" yaml:"RISK_PER_TRADE_PCT"`
	MaxDailyLossPct   decimal.Decimal `json:"MAX_DAILY_LOSS_PCT" yaml:"MAX_DAILY_LOSS_PCT"`
	StopLossAmount    decimal.Decimal `json:"STOP_LOSS_AMOUNT" yaml:"STOP_LOSS_AMOUNT"`
	ReferencePrice    decimal.Decimal `json:"REFERENCE_PRICE" yaml:"REFERENCE_PRICE"`
	EntryThresholdPct decimal.Decimal `json:"ENTRY_THRESHOLD_PCT" yaml:"ENTRY_THRESHOLD_PCT"`

	Symbol       string `json:"SYMBOL" yaml:"SYMBOL"`
	Interval     string `json:"INTERVAL" yaml:"INTERVAL"`
	PollInterval string `json:"POLL_INTERVAL" yaml:"POLL_INTERVAL"` // e.g. "20s"
	HoldDuration string `json:"HOLD_DURATION" yaml:"HOLD_DURATION"` // e.g. "2s"

	BalanceStore string `json:"BALANCE_STORE" yaml:"BALANCE_STORE"` // "file" or "sqlite"
	BalancePath  string `json:"BALANCE_PATH" yaml:"BALANCE_PATH"`

	Feed        string          `json:"FEED" yaml:"FEED"` // "sim" or "ws"
	FeedURL     string          `json:"FEED_URL,omitempty" yaml:"FEED_URL,omitempty"`
	FeedRetries int             `json:"FEED_RETRIES" yaml:"FEED_RETRIES"`
	FeedMaxAge  string          `json:"FEED_MAX_AGE" yaml:"FEED_MAX_AGE"`
	SimSpread   decimal.Decimal `json:"SIM_SPREAD" yaml:"SIM_SPREAD"`
}

const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"

	FeedSim = "sim"
	FeedWS  = "ws"
)

var hundred = decimal.NewFromInt(100)

// Default returns the configuration used when no file is given. Any key
// missing from a loaded file keeps the value set here.
func Default() *Config {
	return &Config{
		NotifyTimeout:     "10s",
		StartingCapital:   decimal.NewFromInt(200),
		RiskPerTradePct:   decimal.NewFromInt(1),
		MaxDailyLossPct:   decimal.NewFromInt(5),
		StopLossAmount:    decimal.NewFromInt(2),
		ReferencePrice:    decimal.NewFromInt(1000),
		EntryThresholdPct: decimal.New(-2, -1),
		Symbol:            "RELIANCE",
		Interval:          "1m",
		PollInterval:      "20s",
		HoldDuration:      "2s",
		BalanceStore:      StoreFile,
		BalancePath:       "balance.json",
		Feed:              FeedSim,
		FeedRetries:       3,
		FeedMaxAge:        "1m",
		SimSpread:         decimal.NewFromInt(5),
	}
}

// LoadFromFile reads a YAML or JSON file over the defaults and validates
// the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, falling back to JSON.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", errors.Join(err, jerr))
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load returns Default when path is empty, otherwise LoadFromFile.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFromFile(path)
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks ranges and cross-field requirements.
func (c *Config) Validate() error {
	if !c.StartingCapital.IsPositive() {
		return fmt.Errorf("STARTING_CAPITAL must be positive")
	}
	if c.RiskPerTradePct.IsNegative() || c.RiskPerTradePct.GreaterThan(hundred) {
		return fmt.Errorf("RISK_PER_TRADE_PCT must be between 0 and 100")
	}
	if c.MaxDailyLossPct.IsNegative() || c.MaxDailyLossPct.GreaterThan(hundred) {
		return fmt.Errorf("MAX_DAILY_LOSS_PCT must be between 0 and 100")
	}
	if c.StopLossAmount.IsNegative() {
		return fmt.Errorf("STOP_LOSS_AMOUNT must not be negative")
	}
	if !c.ReferencePrice.IsPositive() {
		return fmt.Errorf("REFERENCE_PRICE must be positive")
	}
	if c.Symbol == "" {
		return fmt.Errorf("SYMBOL is required")
	}
	if c.SimSpread.IsNegative() {
		return fmt.Errorf("SIM_SPREAD must not be negative")
	}
	if c.FeedRetries < 0 {
		return fmt.Errorf("FEED_RETRIES must not be negative")
	}

	for key, val := range map[string]string{
		"POLL_INTERVAL":  c.PollInterval,
		"HOLD_DURATION":  c.HoldDuration,
		"FEED_MAX_AGE":   c.FeedMaxAge,
		"NOTIFY_TIMEOUT": c.NotifyTimeout,
	} {
		if _, err := positiveDuration(key, val); err != nil {
			return err
		}
	}

	switch c.BalanceStore {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("BALANCE_STORE must be %q or %q", StoreFile, StoreSQLite)
	}
	if c.BalancePath == "" {
		return fmt.Errorf("BALANCE_PATH is required")
	}

	switch c.Feed {
	case FeedSim:
	case FeedWS:
		if c.FeedURL == "" {
			return fmt.Errorf("FEED_URL is required for the %q feed", FeedWS)
		}
	default:
		return fmt.Errorf("FEED must be %q or %q", FeedSim, FeedWS)
	}
	return nil
}

func positiveDuration(key, val string) (time.Duration, error) {
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

// The duration accessors assume a validated config.

func (c *Config) PollEvery() time.Duration      { return mustDuration(c.PollInterval) }
func (c *Config) HoldFor() time.Duration        { return mustDuration(c.HoldDuration) }
func (c *Config) FeedStaleAfter() time.Duration { return mustDuration(c.FeedMaxAge) }
func (c *Config) NotifyWithin() time.Duration   { return mustDuration(c.NotifyTimeout) }

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
