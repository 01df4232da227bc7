package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	OpenAI   OpenAIConfig
	Search   SearchConfig
	Scrape   ScrapeConfig
	Pipeline PipelineConfig
	Log      LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OpenAIConfig holds settings for the vision and synthesis models
type OpenAIConfig struct {
	APIKey         string  `mapstructure:"api_key"`
	BaseURL        string  `mapstructure:"base_url"`
	VisionModel    string  `mapstructure:"vision_model"`
	SynthesisModel string  `mapstructure:"synthesis_model"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature"`
}

// SearchConfig holds Brave Search API configuration
type SearchConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	ResultCount   int           `mapstructure:"result_count"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FallbackDelay time.Duration `mapstructure:"fallback_delay"`
}

// ScrapeConfig holds page fetching configuration
type ScrapeConfig struct {
	MaxPages         int           `mapstructure:"max_pages"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	RequestDelay     time.Duration `mapstructure:"request_delay"`
	MaxContentLength int           `mapstructure:"max_content_length"`
}

// PipelineConfig holds analysis pipeline configuration
type PipelineConfig struct {
	TopResults   int `mapstructure:"top_results"`
	SnippetLimit int `mapstructure:"snippet_limit"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/labelscan/")

	// Environment variable settings
	v.SetEnvPrefix("LABELSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// OpenAI defaults. API keys default to empty so the keys are registered
	// with viper and can be supplied via environment variables alone.
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.vision_model", "gpt-4o")
	v.SetDefault("openai.synthesis_model", "gpt-4o")
	v.SetDefault("openai.max_tokens", 2000)
	v.SetDefault("openai.temperature", 0.2)

	// Search defaults
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.base_url", "https://api.search.brave.com/res/v1")
	v.SetDefault("search.result_count", 8)
	v.SetDefault("search.timeout", "10s")
	v.SetDefault("search.fallback_delay", "1s")

	// Scrape defaults
	v.SetDefault("scrape.max_pages", 5)
	v.SetDefault("scrape.request_timeout", "10s")
	v.SetDefault("scrape.request_delay", "500ms")
	v.SetDefault("scrape.max_content_length", 3000)

	// Pipeline defaults
	v.SetDefault("pipeline.top_results", 6)
	v.SetDefault("pipeline.snippet_limit", 200)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.OpenAI.APIKey == "" {
		return fmt.Errorf("OpenAI API key is required (set LABELSCAN_OPENAI_API_KEY)")
	}

	if config.Search.APIKey == "" {
		return fmt.Errorf("search API key is required (set LABELSCAN_SEARCH_API_KEY)")
	}

	if config.Scrape.MaxPages < 1 {
		return fmt.Errorf("scrape.max_pages must be at least 1, got: %d", config.Scrape.MaxPages)
	}

	if config.Pipeline.TopResults < config.Scrape.MaxPages {
		return fmt.Errorf("pipeline.top_results (%d) must not be smaller than scrape.max_pages (%d)",
			config.Pipeline.TopResults, config.Scrape.MaxPages)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'text' or 'json', got: %s", config.Log.Format)
	}

	return nil
}
