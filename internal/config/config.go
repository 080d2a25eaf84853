package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config represents the application configuration
type Config struct {
	API     APIConfig     `toml:"api"`
	Review  ReviewConfig  `toml:"review"`
	Booster BoosterConfig `toml:"booster"`
}

// APIConfig holds the card database client settings
type APIConfig struct {
	BaseURL        string `toml:"base_url" env:"MTGCALC_API_URL"`
	UserAgent      string `toml:"user_agent" env:"MTGCALC_USER_AGENT"`
	RateLimit      string `toml:"rate_limit" env:"MTGCALC_RATE_LIMIT"`           // Delay between requests, e.g. "100ms"
	RequestTimeout string `toml:"request_timeout" env:"MTGCALC_REQUEST_TIMEOUT"` // Per request, e.g. "30s"
	Unique         string `toml:"unique" env:"MTGCALC_UNIQUE"`                   // Search uniqueness mode
}

// ReviewConfig holds review reconciliation settings
type ReviewConfig struct {
	FuzzyThreshold int `toml:"fuzzy_threshold" env:"MTGCALC_FUZZY_THRESHOLD"`
}

// BoosterConfig holds pack simulation settings
type BoosterConfig struct {
	MythicChance int     `toml:"mythic_chance" env:"MTGCALC_MYTHIC_CHANCE"` // Percent
	PacksPerBox  int     `toml:"packs_per_box" env:"MTGCALC_PACKS_PER_BOX"`
	MinCardValue float64 `toml:"min_card_value" env:"MTGCALC_MIN_CARD_VALUE"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://api.scryfall.com",
			UserAgent:      "MTGCalculator/0.1",
			RateLimit:      "100ms",
			RequestTimeout: "30s",
			Unique:         "cards",
		},
		Review: ReviewConfig{
			FuzzyThreshold: 4,
		},
		Booster: BoosterConfig{
			MythicChance: 13,
			PacksPerBox:  36,
			MinCardValue: 0.10,
		},
	}
}

// RateLimitInterval parses the configured delay between requests
func (a APIConfig) RateLimitInterval() (time.Duration, error) {
	d, err := time.ParseDuration(a.RateLimit)
	if err != nil {
		return 0, fmt.Errorf("invalid api.rate_limit %q: %w", a.RateLimit, err)
	}
	return d, nil
}

// Timeout parses the configured per-request timeout
func (a APIConfig) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(a.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid api.request_timeout %q: %w", a.RequestTimeout, err)
	}
	return d, nil
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "mtgcalc", "config.toml")
}

// LoadConfig loads the config file at path, or the default location when path is empty.
// Environment variables override file values.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = GetConfigFilePath()
	}

	var config *Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		config, err = createDefaultConfig(path)
		if err != nil {
			return nil, err
		}
	} else {
		config = Default()
		if _, err := toml.DecodeFile(path, config); err != nil {
			return nil, fmt.Errorf("error decoding config file: %w", err)
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if _, err := c.API.RateLimitInterval(); err != nil {
		return err
	}
	if _, err := c.API.Timeout(); err != nil {
		return err
	}
	if c.Review.FuzzyThreshold < 0 {
		return fmt.Errorf("review.fuzzy_threshold must not be negative")
	}
	if c.Booster.MythicChance < 0 || c.Booster.MythicChance > 100 {
		return fmt.Errorf("booster.mythic_chance must be between 0 and 100, got %d", c.Booster.MythicChance)
	}
	if c.Booster.PacksPerBox <= 0 {
		return fmt.Errorf("booster.packs_per_box must be positive, got %d", c.Booster.PacksPerBox)
	}
	return nil
}

// createDefaultConfig writes the default config to path
func createDefaultConfig(path string) (*Config, error) {
	// Ensure the config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	config := Default()

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return nil, fmt.Errorf("error encoding config: %w", err)
	}

	return config, nil
}
