package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Provider ProviderConfig `yaml:"provider"`
	Journal  JournalConfig  `yaml:"journal"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Log      LogConfig      `yaml:"log"`
	Proxy    string         `yaml:"proxy" env:"HTTPS_PROXY"`
}

type ServerConfig struct {
	Name           string        `yaml:"name" env:"SERVER_NAME"`
	Transport      string        `yaml:"transport" env:"SERVER_TRANSPORT"` // stdio or http
	Addr           string        `yaml:"addr" env:"SERVER_ADDR"`
	SessionTimeout time.Duration `yaml:"session_timeout" env:"SERVER_SESSION_TIMEOUT"`
}

type ProviderConfig struct {
	Name      string            `yaml:"name" env:"PROVIDER_NAME"` // yahoo, financego, rest or mock
	BaseURL   string            `yaml:"base_url" env:"PROVIDER_BASE_URL"`
	APIKey    string            `yaml:"api_key" env:"PROVIDER_API_KEY"`
	UserAgent string            `yaml:"user_agent" env:"PROVIDER_USER_AGENT"`
	Timeout   time.Duration     `yaml:"timeout" env:"PROVIDER_TIMEOUT"`
	MockPrice float64           `yaml:"mock_price" env:"PROVIDER_MOCK_PRICE"`
	SymbolMap map[string]string `yaml:"symbol_map"`
}

type JournalConfig struct {
	SQLitePath string        `yaml:"sqlite_path" env:"SQLITE_PATH"` // empty disables the journal
	Retention  time.Duration `yaml:"retention" env:"JOURNAL_RETENTION"`
}

type ScheduleConfig struct {
	PruneCron   string `yaml:"prune_cron" env:"CRON_PRUNE"`
	ProbeCron   string `yaml:"probe_cron" env:"CRON_PROBE"` // empty disables the probe
	ProbeSymbol string `yaml:"probe_symbol" env:"PROBE_SYMBOL"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"` // text or json
}

// Load reads config from a YAML file, then .env, then environment variable overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("load .env: %v", err)
	}
	return LoadWithEnv(path, nil)
}

// LoadWithEnv is Load with an explicit environment. A nil environ uses the process environment.
func LoadWithEnv(path string, environ map[string]string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Name == "" {
		c.Server.Name = "stock-mcp"
	}
	if c.Server.Transport == "" {
		c.Server.Transport = "stdio"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.SessionTimeout == 0 {
		c.Server.SessionTimeout = 30 * time.Minute
	}
	if c.Provider.Name == "" {
		c.Provider.Name = "yahoo"
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = 10 * time.Second
	}
	if c.Provider.MockPrice == 0 {
		c.Provider.MockPrice = 100
	}
	if c.Journal.Retention == 0 {
		c.Journal.Retention = 30 * 24 * time.Hour
	}
	if c.Schedule.PruneCron == "" {
		c.Schedule.PruneCron = "0 0 3 * * *"
	}
	if c.Schedule.ProbeSymbol == "" {
		c.Schedule.ProbeSymbol = "SPY"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("server.transport must be stdio or http, got %q", c.Server.Transport)
	}
	switch c.Provider.Name {
	case "yahoo", "financego", "mock":
	case "rest":
		if c.Provider.BaseURL == "" {
			return fmt.Errorf("provider.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("provider.name must be yahoo, financego, rest or mock, got %q", c.Provider.Name)
	}
	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("provider.timeout must be positive")
	}
	if c.Journal.Retention < 0 {
		return fmt.Errorf("journal.retention must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
