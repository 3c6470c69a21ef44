// Package config provides configuration management for the alerts CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "telegram-alerts/internal/errors"
	"telegram-alerts/internal/format"
	"telegram-alerts/internal/logging"
	"telegram-alerts/internal/models"
	"telegram-alerts/internal/notify"
	"telegram-alerts/internal/schedule"
	"telegram-alerts/internal/spinny"
	"telegram-alerts/internal/tracker"
)

// FileName is the config file name without extension.
const FileName = "config"

// Config holds all application configuration.
type Config struct {
	Spinny   SpinnyConfig    `mapstructure:"spinny"`
	Listings []ListingConfig `mapstructure:"listings"`
	Search   SearchConfig    `mapstructure:"search"`
	Telegram TelegramConfig  `mapstructure:"telegram"`
	Schedule ScheduleConfig  `mapstructure:"schedule"`
	Logging  LoggingConfig   `mapstructure:"logging"`
	Metrics  MetricsConfig   `mapstructure:"metrics"`

	// Path is the file the configuration was read from.
	Path string `mapstructure:"-"`
}

// SpinnyConfig holds marketplace API settings.
type SpinnyConfig struct {
	BaseURL       string            `mapstructure:"base_url"`
	WebURL        string            `mapstructure:"web_url"`
	DetailTimeout time.Duration     `mapstructure:"detail_timeout"`
	SearchTimeout time.Duration     `mapstructure:"search_timeout"`
	Headers       map[string]string `mapstructure:"headers"`
	SearchParams  map[string]string `mapstructure:"search_params"`
}

// ListingConfig is one tracked listing.
type ListingConfig struct {
	ID    string `mapstructure:"id"`
	Label string `mapstructure:"label"`
}

// SearchConfig describes the multi-city model search.
type SearchConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Title   string   `mapstructure:"title"`
	Subject string   `mapstructure:"subject"`
	Models  []string `mapstructure:"models"`
	Cities  []string `mapstructure:"cities"`
}

// TelegramConfig holds Telegram notification configuration.
type TelegramConfig struct {
	APIURL                string        `mapstructure:"api_url"`
	BotToken              string        `mapstructure:"bot_token"`
	ChatID                string        `mapstructure:"chat_id"`
	Timeout               time.Duration `mapstructure:"timeout"`
	DisableWebPagePreview bool          `mapstructure:"disable_web_page_preview"`
}

// ScheduleConfig overrides slot times with standard cron expressions.
type ScheduleConfig struct {
	Slots map[string]string `mapstructure:"slots"`
}

// LoggingConfig mirrors logging.LogConfig.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// MetricsConfig configures the node_exporter textfile output.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// DefaultListingID is the listing tracked when none is configured.
const DefaultListingID = "25264538"

// DefaultCities is the city list searched when none is configured.
var DefaultCities = []string{
	"delhi-ncr", "bangalore", "hyderabad", "mumbai", "pune",
	"delhi", "gurgaon", "noida", "ahmedabad", "chennai",
	"kolkata", "lucknow", "jaipur", "chandigarh", "agra",
	"ambala", "coimbatore", "faridabad", "ghaziabad", "kanpur",
	"karnal", "kochi", "mysuru", "sonipat", "visakhapatnam",
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/telegram-alerts"
	}
	return filepath.Join(home, ".config", "telegram-alerts")
}

// Load reads and validates configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config file is created from the template and then read.
func Load(configDir string) (*Config, error) {
	cfg, err := Read(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Wrap(err, "validating config")
	}
	return cfg, nil
}

// Read is Load without validation. It still fails on unreadable or
// malformed files.
func Read(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, apperrors.Wrap(err, "reading config.toml")
		}
		path, err := createTemplateConfig(configDir)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, apperrors.Wrap(err, "reading config template")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.Wrap(err, "decoding config.toml")
	}
	cfg.Path = v.ConfigFileUsed()

	applyEnvOverrides(cfg)
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("spinny.base_url", spinny.DefaultBaseURL)
	v.SetDefault("spinny.web_url", format.DefaultWebURL)
	v.SetDefault("spinny.detail_timeout", spinny.DefaultDetailTimeout)
	v.SetDefault("spinny.search_timeout", spinny.DefaultSearchTimeout)
	v.SetDefault("spinny.headers", spinny.DefaultHeaders())
	v.SetDefault("spinny.search_params", spinny.DefaultSearchParams())

	v.SetDefault("listings", []map[string]interface{}{{"id": DefaultListingID}})

	v.SetDefault("search.enabled", true)
	v.SetDefault("search.title", "🔍 Tiguan Search")
	v.SetDefault("search.subject", "Tiguans")
	v.SetDefault("search.models", []string{"tiguan", "tiguan-allspace"})
	v.SetDefault("search.cities", DefaultCities)

	v.SetDefault("telegram.api_url", notify.DefaultTelegramAPI)
	v.SetDefault("telegram.timeout", 15*time.Second)
	v.SetDefault("telegram.disable_web_page_preview", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", false)
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("ALERTS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration. Missing Telegram credentials are not
// an error here; the notifier refuses to send without them.
func (c *Config) Validate() error {
	if c.Spinny.BaseURL == "" {
		return apperrors.NewValidationError("spinny.base_url", nil, "must not be empty")
	}
	if c.Spinny.DetailTimeout <= 0 {
		return apperrors.NewValidationError("spinny.detail_timeout", c.Spinny.DetailTimeout, "must be positive")
	}
	if c.Spinny.SearchTimeout <= 0 {
		return apperrors.NewValidationError("spinny.search_timeout", c.Spinny.SearchTimeout, "must be positive")
	}

	seen := make(map[string]bool, len(c.Listings))
	for i, l := range c.Listings {
		id := strings.TrimSpace(l.ID)
		if id == "" {
			return &apperrors.ValidationError{Field: fmt.Sprintf("listings[%d].id", i), Message: "must not be empty"}
		}
		if seen[id] {
			return &apperrors.ValidationError{Field: fmt.Sprintf("listings[%d].id", i), Value: id, Message: "duplicate listing"}
		}
		seen[id] = true
	}

	if c.Search.Enabled {
		if len(c.Search.Models) == 0 {
			return apperrors.NewValidationError("search.models", nil, "at least one model is required when search is enabled")
		}
		for i, city := range c.Search.Cities {
			if strings.TrimSpace(city) == "" {
				return &apperrors.ValidationError{Field: fmt.Sprintf("search.cities[%d]", i), Message: "must not be empty"}
			}
		}
	}

	if _, err := schedule.WithOverrides(c.Schedule.Slots); err != nil {
		return apperrors.NewValidationError("schedule.slots", c.Schedule.Slots, err.Error())
	}
	return nil
}

// SpinnyClientConfig converts the [spinny] section for the API client.
func (c *Config) SpinnyClientConfig() spinny.Config {
	return spinny.Config{
		BaseURL:       c.Spinny.BaseURL,
		DetailTimeout: c.Spinny.DetailTimeout,
		SearchTimeout: c.Spinny.SearchTimeout,
		Headers:       c.Spinny.Headers,
		SearchParams:  c.Spinny.SearchParams,
	}
}

// FormatOptions returns the rendering options.
func (c *Config) FormatOptions() format.Options {
	return format.Options{WebURL: c.Spinny.WebURL}
}

// TelegramNotifierConfig converts the [telegram] section for the notifier.
func (c *Config) TelegramNotifierConfig() notify.TelegramConfig {
	return notify.TelegramConfig{
		APIURL:                c.Telegram.APIURL,
		BotToken:              c.Telegram.BotToken,
		ChatID:                c.Telegram.ChatID,
		Timeout:               c.Telegram.Timeout,
		DisableWebPagePreview: c.Telegram.DisableWebPagePreview,
	}
}

// LogConfig converts the [logging] section.
func (c *Config) LogConfig() logging.LogConfig {
	lc := logging.DefaultLogConfig()
	if c.Logging.Level != "" {
		lc.Level = c.Logging.Level
	}
	lc.File = c.Logging.File
	if c.Logging.FilePath != "" {
		lc.FilePath = c.Logging.FilePath
	}
	if c.Logging.MaxSize > 0 {
		lc.MaxSize = c.Logging.MaxSize
	}
	if c.Logging.MaxBackups > 0 {
		lc.MaxBackups = c.Logging.MaxBackups
	}
	if c.Logging.MaxAge > 0 {
		lc.MaxAge = c.Logging.MaxAge
	}
	return lc
}

// ScheduleWithOverrides builds the reminder schedule with any configured slot overrides.
func (c *Config) ScheduleWithOverrides() (*schedule.Schedule, error) {
	return schedule.WithOverrides(c.Schedule.Slots)
}

// Trackers builds the trackers in the order they run: listings, then search.
// A tracker with no entities is still returned; the runner skips it.
func (c *Config) Trackers() []tracker.Tracker {
	listings := make([]models.TrackedEntity, 0, len(c.Listings))
	for _, l := range c.Listings {
		listings = append(listings, models.TrackedEntity{
			Kind:  models.KindListing,
			ID:    strings.TrimSpace(l.ID),
			Label: l.Label,
		})
	}

	trackers := []tracker.Tracker{{
		Name:     "listing",
		Kind:     models.KindListing,
		Title:    "🚗 Spinny Car Price Update",
		Entities: listings,
	}}

	if c.Search.Enabled {
		cities := make([]models.TrackedEntity, 0, len(c.Search.Cities))
		for _, city := range c.Search.Cities {
			cities = append(cities, models.TrackedEntity{
				Kind:   models.KindSearch,
				ID:     strings.TrimSpace(city),
				Models: c.Search.Models,
			})
		}
		trackers = append(trackers, tracker.Tracker{
			Name:        "search",
			Kind:        models.KindSearch,
			Title:       c.Search.Title,
			Subject:     c.Search.Subject,
			FooterLabel: "Updated",
			Entities:    cities,
		})
	}
	return trackers
}

// Redacted returns a copy safe to print: the bot token is masked.
func (c Config) Redacted() Config {
	if c.Telegram.BotToken != "" {
		c.Telegram.BotToken = "****"
	}
	return c
}
