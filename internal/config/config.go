package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultJWTSecret is the development fallback used when no secret is
// configured. Production deployments must override it via config or the
// JWT_SECRET environment variable.
const DefaultJWTSecret = "dev-secret-change-in-production"

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Reminders struct {
		Enabled             bool   `yaml:"enabled"`
		PollIntervalSeconds int64  `yaml:"poll_interval_seconds"`
		TelegramBotToken    string `yaml:"telegram_bot_token"`
		TelegramChatID      int64  `yaml:"telegram_chat_id"`
	} `yaml:"reminders"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
}

// LoadConfig reads configuration from the specified YAML file. Environment
// variables DATABASE_URL and JWT_SECRET override the file values.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		config.Database.URL = url
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}

	return config, nil
}

// ResolveJWTSecret returns the configured signing secret, falling back to the
// development default. The second return value reports whether the fallback
// was used.
func (c *Config) ResolveJWTSecret() (string, bool) {
	if c.Auth.JWTSecret != "" {
		return c.Auth.JWTSecret, false
	}
	return DefaultJWTSecret, true
}
