// Package config assembles runtime settings: built-in defaults, an optional
// YAML file, then environment variables (a .env file is honoured).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rsilvagit/hh-export/internal/hh"
	"github.com/rsilvagit/hh-export/internal/httpclient"
	"github.com/rsilvagit/hh-export/internal/model"
)

type Config struct {
	LogLevel string    `yaml:"log_level"`
	API      API       `yaml:"api"`
	Regions  Regions   `yaml:"regions"`
	Display  Rendering `yaml:"display"`
	Export   Export    `yaml:"export"`
	Telegram Telegram  `yaml:"telegram"`
	Discord  Discord   `yaml:"discord"`
}

type API struct {
	BaseURL     string        `yaml:"base_url"`
	UserAgent   string        `yaml:"user_agent"`
	ProxyURL    string        `yaml:"proxy_url"`
	Timeout     time.Duration `yaml:"timeout"`
	MinInterval time.Duration `yaml:"min_interval"`
	MaxRetries  int           `yaml:"max_retries"`
}

// HTTPOptions converts the section for httpclient.New.
func (a API) HTTPOptions() httpclient.Options {
	return httpclient.Options{
		UserAgent:   a.UserAgent,
		ProxyURL:    a.ProxyURL,
		Timeout:     a.Timeout,
		MinInterval: a.MinInterval,
		MaxRetries:  a.MaxRetries,
	}
}

type Regions struct {
	RedisURL string        `yaml:"redis_url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// Rendering controls how one output presents results.
type Rendering struct {
	PlaceholderFrom string `yaml:"placeholder_from"`
	PlaceholderTo   string `yaml:"placeholder_to"`
	Sort            bool   `yaml:"sort"`
}

// Placeholders returns the missing-bound pair for this output.
func (r Rendering) Placeholders() model.BoundPlaceholders {
	return model.BoundPlaceholders{From: r.PlaceholderFrom, To: r.PlaceholderTo}
}

type Export struct {
	Rendering `yaml:",inline"`
	Path      string   `yaml:"path"`
	Columns   []string `yaml:"columns"`
}

type Telegram struct {
	Token  string `yaml:"token"`
	ChatID string `yaml:"chat_id"`
}

type Discord struct {
	WebhookURL string `yaml:"webhook_url"`
}

// Default returns the built-in configuration. Display output is sorted newest
// first; export keeps API order unless export.sort is set.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		API: API{
			BaseURL:    hh.DefaultBaseURL,
			UserAgent:  httpclient.DefaultUserAgent,
			Timeout:    15 * time.Second,
			MaxRetries: 1,
		},
		Regions: Regions{CacheTTL: 24 * time.Hour},
		Display: Rendering{
			PlaceholderFrom: model.DisplayPlaceholders.From,
			PlaceholderTo:   model.DisplayPlaceholders.To,
			Sort:            true,
		},
		Export: Export{
			Rendering: Rendering{
				PlaceholderFrom: model.ExportPlaceholders.From,
				PlaceholderTo:   model.ExportPlaceholders.To,
			},
		},
	}
}

// LoadYAML fills the struct returned by defaults from the file at path.
// An empty path or a missing file leaves the defaults untouched.
func LoadYAML[T any](path string, defaults func() *T) (*T, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the YAML file (if any), then .env, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := LoadYAML(path, Default)
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: reading .env: %w", err)
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.API.BaseURL, "HH_BASE_URL")
	setString(&c.API.UserAgent, "HH_USER_AGENT")
	setString(&c.API.ProxyURL, "HH_PROXY_URL")
	setString(&c.Regions.RedisURL, "REDIS_URL")
	setString(&c.Telegram.Token, "TELEGRAM_TOKEN")
	setString(&c.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	setString(&c.Discord.WebhookURL, "DISCORD_WEBHOOK_URL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
