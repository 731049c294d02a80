package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Ingest     IngestConfig     `yaml:"ingest" mapstructure:"ingest"`
	Market     MarketConfig     `yaml:"market" mapstructure:"market"`
	Resilience ResilienceConfig `yaml:"resilience" mapstructure:"resilience"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures where the company collection is mirrored.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	Path   string `yaml:"path" mapstructure:"path"`
	Key    string `yaml:"key" mapstructure:"key"`
}

// IngestConfig configures the remote company data source.
type IngestConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Quantity    int    `yaml:"quantity" mapstructure:"quantity"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns TimeoutSecs as a duration.
func (c IngestConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// MarketConfig configures the candlestick data source.
type MarketConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Symbol      string `yaml:"symbol" mapstructure:"symbol"`
	Interval    string `yaml:"interval" mapstructure:"interval"`
	PriceDays   int    `yaml:"price_days" mapstructure:"price_days"`
	ScatterDays int    `yaml:"scatter_days" mapstructure:"scatter_days"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns TimeoutSecs as a duration.
func (c MarketConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// ResilienceConfig configures retries and circuit breakers for upstream
// calls.
type ResilienceConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "lead-tracker.db")
	v.SetDefault("store.key", "company-data")
	v.SetDefault("ingest.base_url", "https://fakerapi.it/api/v2/custom")
	v.SetDefault("ingest.quantity", 10)
	v.SetDefault("ingest.timeout_secs", 30)
	v.SetDefault("market.base_url", "https://api.binance.com")
	v.SetDefault("market.symbol", "BTCUSDT")
	v.SetDefault("market.interval", "1d")
	v.SetDefault("market.price_days", 30)
	v.SetDefault("market.scatter_days", 180)
	v.SetDefault("market.timeout_secs", 15)
	v.SetDefault("resilience.max_attempts", 3)
	v.SetDefault("resilience.failure_threshold", 5)
	v.SetDefault("resilience.reset_timeout_secs", 30)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Mode is "serve"
// for the HTTP API or "cli" for one-shot commands.
func (c *Config) Validate(mode string) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			add("store.path is required for the sqlite driver")
		}
	case "memory":
	default:
		add("store.driver %q is not supported (sqlite, memory)", c.Store.Driver)
	}
	if c.Store.Key == "" {
		add("store.key is required")
	}
	if !isHTTPURL(c.Ingest.BaseURL) {
		add("ingest.base_url must be an http(s) URL")
	}
	if c.Ingest.Quantity <= 0 {
		add("ingest.quantity must be > 0")
	}
	if !isHTTPURL(c.Market.BaseURL) {
		add("market.base_url must be an http(s) URL")
	}
	if c.Market.Symbol == "" {
		add("market.symbol is required")
	}
	if c.Market.PriceDays <= 0 || c.Market.ScatterDays <= 0 {
		add("market.price_days and market.scatter_days must be > 0")
	}
	if c.Resilience.MaxAttempts <= 0 {
		add("resilience.max_attempts must be > 0")
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			add("server.port must be > 0 and <= 65535")
		}
	case "cli":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
