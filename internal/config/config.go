package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults used when neither the config file nor the environment sets a value.
const (
	DefaultBaseURL        = "https://router.huggingface.co"
	DefaultSentimentModel = "cardiffnlp/twitter-roberta-base-sentiment-latest"
	DefaultIntentModel    = "facebook/bart-large-mnli"
	DefaultLogLevel       = "warn"
)

// Config holds everything the classifier needs at runtime. It is built once by
// Load and treated as read-only afterwards.
type Config struct {
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	SentimentModel string        `yaml:"sentiment_model"`
	IntentModel    string        `yaml:"intent_model"`
	Timeout        time.Duration `yaml:"timeout"`
	Sequential     bool          `yaml:"sequential"`
	LogLevel       string        `yaml:"log_level"`
}

// ConfigError is a fatal startup error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Load builds the configuration from defaults, the optional YAML file at path,
// a .env file in the working directory, and the process environment, in that
// order of increasing precedence.
func Load(path string) (*Config, error) {
	cfg := &Config{
		BaseURL:        DefaultBaseURL,
		SentimentModel: DefaultSentimentModel,
		IntentModel:    DefaultIntentModel,
		LogLevel:       DefaultLogLevel,
	}

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	// .env is optional and never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, &ConfigError{Field: ".env", Reason: err.Error()}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return &ConfigError{Field: "HF_TOKEN", Reason: "environment variable required"}
	}
	if c.BaseURL == "" {
		return &ConfigError{Field: "base_url", Reason: "must not be empty"}
	}
	if c.SentimentModel == "" {
		return &ConfigError{Field: "sentiment_model", Reason: "must not be empty"}
	}
	if c.IntentModel == "" {
		return &ConfigError{Field: "intent_model", Reason: "must not be empty"}
	}
	if c.Timeout < 0 {
		return &ConfigError{Field: "timeout", Reason: "must not be negative"}
	}
	return nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Field: "config file", Reason: err.Error()}
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return &ConfigError{Field: "config file", Reason: fmt.Sprintf("parse %s: %v", path, err)}
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := firstEnv("HF_TOKEN", "HF_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("HF_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("TRIAGE_SENTIMENT_MODEL"); v != "" {
		c.SentimentModel = v
	}
	if v := os.Getenv("TRIAGE_INTENT_MODEL"); v != "" {
		c.IntentModel = v
	}
	if v := os.Getenv("TRIAGE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TRIAGE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigError{Field: "TRIAGE_TIMEOUT", Reason: err.Error()}
		}
		c.Timeout = d
	}
	if v := os.Getenv("TRIAGE_SEQUENTIAL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &ConfigError{Field: "TRIAGE_SEQUENTIAL", Reason: err.Error()}
		}
		c.Sequential = b
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
