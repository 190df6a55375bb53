package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config конфигурация приложения
type Config struct {
	FeedURL         string        `mapstructure:"feed_url"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	WindowSize      int           `mapstructure:"window_size"`
	HistoryLimit    int           `mapstructure:"history_limit"`
	ServerPort      string        `mapstructure:"server_port"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	SnapshotTTL     time.Duration `mapstructure:"snapshot_ttl"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// RedisEnabled публикация снимков включена, только если задан адрес
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// Load читает .env (если есть), затем config.yaml (если есть) и переменные окружения.
// Переменные окружения имеют приоритет над файлом.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env: %v", err)
	}

	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	if err := v.BindEnv("feed_url", "FEED_URL", "API_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind feed_url: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("feed_url", "")
	v.SetDefault("fetch_timeout", 5*time.Second)
	v.SetDefault("refresh_interval", 10*time.Second)
	v.SetDefault("window_size", 6)
	v.SetDefault("history_limit", 100)
	v.SetDefault("server_port", "8080")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("snapshot_ttl", 30*time.Second)
	v.SetDefault("cors_origins", []string{"*"})
}

// Validate проверяет значения, без которых конвейер не запустится
func (c *Config) Validate() error {
	if c.FeedURL == "" {
		return errors.New("feed_url is required (FEED_URL or API_URL)")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %s", c.RefreshInterval)
	}
	if c.WindowSize <= 0 {
		return fmt.Errorf("window_size must be positive, got %d", c.WindowSize)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive, got %d", c.HistoryLimit)
	}
	if c.RedisEnabled() && c.SnapshotTTL <= 0 {
		return fmt.Errorf("snapshot_ttl must be positive, got %s", c.SnapshotTTL)
	}
	return nil
}
