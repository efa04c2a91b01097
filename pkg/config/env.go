package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Variables that are already set win. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv overlays environment variables on cfg. getenv is usually os.Getenv.
func ApplyEnv(cfg Config, getenv func(string) string) Config {
	if getenv == nil {
		return cfg
	}

	for _, key := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY"} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			cfg.Providers.Google.APIKey = v
			break
		}
	}
	if v := strings.TrimSpace(getenv("OPENAI_API_KEY")); v != "" {
		cfg.Providers.OpenAI.APIKey = v
	}
	if v := strings.TrimSpace(getenv("OPENAI_BASE_URL")); v != "" {
		cfg.Providers.OpenAI.APIURL = v
	}
	if v := strings.ToLower(strings.TrimSpace(getenv("DOCQA_PROVIDER"))); v != "" {
		cfg.LLMProvider = v
	}
	if v := strings.TrimSpace(getenv("DOCQA_MODEL")); v != "" {
		if cfg.LLMProvider == ProviderOpenAI {
			cfg.Providers.OpenAI.Model = v
		} else {
			cfg.Providers.Google.Model = v
		}
	}
	if v := strings.TrimSpace(getenv("DOCQA_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}

	return cfg
}
