package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"

	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config represents the application configuration
type Config struct {
	LLMProvider   string          `json:"llm_provider"`
	Providers     ProvidersConfig `json:"providers"`
	Theme         string          `json:"theme"`
	MaxFileSizeMB int             `json:"max_file_size_mb"`
	WatchDocument bool            `json:"watch_document"`
	LogLevel      string          `json:"log_level"`
	LogFormat     string          `json:"log_format"`
	LogFile       string          `json:"log_file"`
}

// ProvidersConfig holds per-provider settings
type ProvidersConfig struct {
	Google GoogleConfig `json:"google"`
	OpenAI OpenAIConfig `json:"openai"`
}

// GoogleConfig holds the Gemini API configuration
type GoogleConfig struct {
	APIKey            string  `json:"api_key"`
	Model             string  `json:"model"`
	Temperature       float64 `json:"temperature"`
	MaxTokens         int     `json:"max_tokens"`
	APITimeoutSeconds int     `json:"api_timeout_seconds"`
}

// OpenAIConfig holds the OpenAI (or compatible) API configuration
type OpenAIConfig struct {
	APIKey            string  `json:"api_key"`
	APIURL            string  `json:"api_url"`
	Model             string  `json:"model"`
	Temperature       float64 `json:"temperature"`
	MaxTokens         int     `json:"max_tokens"`
	APITimeoutSeconds int     `json:"api_timeout_seconds"`
}

// Default returns a configuration with default values
func Default() Config {
	return Config{
		LLMProvider: ProviderGoogle,
		Providers: ProvidersConfig{
			Google: GoogleConfig{
				Model:             "gemini-2.5-flash",
				Temperature:       0.2,
				MaxTokens:         0,
				APITimeoutSeconds: 60,
			},
			OpenAI: OpenAIConfig{
				APIURL:            "https://api.openai.com/v1",
				Model:             "gpt-4o-mini",
				Temperature:       0.2,
				MaxTokens:         0,
				APITimeoutSeconds: 60,
			},
		},
		Theme:         "",
		MaxFileSizeMB: 10,
		WatchDocument: true,
		LogLevel:      "info",
		LogFormat:     "json",
	}
}

// Load loads configuration from the specified path.
// If the file doesn't exist, creates one with default values.
// Fields missing from the file keep their defaults; explicit zero values are preserved.
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := Save(configPath, cfg); err != nil {
				return Config{}, fmt.Errorf("failed to create default config: %w", err)
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if strings.TrimSpace(cfg.LLMProvider) == "" {
		cfg.LLMProvider = ProviderGoogle
	}

	return cfg, nil
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// SaveTheme persists only the theme preference, leaving the rest of the file untouched.
func SaveTheme(configPath, theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return fmt.Errorf("unsupported theme: %q", theme)
	}
	cfg, err := Load(configPath)
	if err != nil {
		return err
	}
	cfg.Theme = theme
	return Save(configPath, cfg)
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	switch c.LLMProvider {
	case ProviderGoogle:
		g := c.Providers.Google
		if strings.TrimSpace(g.APIKey) == "" {
			return fmt.Errorf("Google API key is required (set providers.google.api_key or GEMINI_API_KEY)")
		}
		if err := validateSampling(g.Temperature, g.MaxTokens, g.APITimeoutSeconds); err != nil {
			return err
		}
	case ProviderOpenAI:
		o := c.Providers.OpenAI
		if strings.TrimSpace(o.APIKey) == "" {
			return fmt.Errorf("OpenAI API key is required (set providers.openai.api_key or OPENAI_API_KEY)")
		}
		if err := validateSampling(o.Temperature, o.MaxTokens, o.APITimeoutSeconds); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.LLMProvider)
	}

	switch c.Theme {
	case "", ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("theme must be %q or %q, got: %q", ThemeDark, ThemeLight, c.Theme)
	}

	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("max_file_size_mb must be positive, got: %d", c.MaxFileSizeMB)
	}

	return nil
}

func validateSampling(temperature float64, maxTokens, timeoutSeconds int) error {
	if temperature < 0 || temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got: %f", temperature)
	}
	if maxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative, got: %d", maxTokens)
	}
	if timeoutSeconds <= 0 {
		return fmt.Errorf("api_timeout_seconds must be positive, got: %d", timeoutSeconds)
	}
	return nil
}

// MaxFileBytes returns the ingestion size limit in bytes.
func (c Config) MaxFileBytes() int64 {
	if c.MaxFileSizeMB <= 0 {
		return int64(Default().MaxFileSizeMB) << 20
	}
	return int64(c.MaxFileSizeMB) << 20
}

// ActiveModel returns the model configured for the selected provider.
func (c Config) ActiveModel() string {
	if c.LLMProvider == ProviderOpenAI {
		return c.Providers.OpenAI.Model
	}
	return c.Providers.Google.Model
}

// ActiveTemperature returns the sampling temperature for the selected provider.
func (c Config) ActiveTemperature() float64 {
	if c.LLMProvider == ProviderOpenAI {
		return c.Providers.OpenAI.Temperature
	}
	return c.Providers.Google.Temperature
}

// GetConfigDir returns the directory holding config and logs.
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(homeDir) == "" {
		return ".docqa"
	}
	return filepath.Join(homeDir, ".docqa")
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.json")
}
