package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ClientConfig настройки CLI
type ClientConfig struct {
	ServerURL   string        `yaml:"server_url" mapstructure:"server_url"`
	SessionFile string        `yaml:"session_file" mapstructure:"session_file"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LoadClient переменные TODO_SERVER_URL, TODO_SESSION_FILE, TODO_TIMEOUT
// и, при наличии, файл path
func LoadClient(path string) (*ClientConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("session_file", "")
	v.SetDefault("timeout", 15*time.Second)
	v.SetEnvPrefix("TODO")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
		}
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}
	return &cfg, nil
}
