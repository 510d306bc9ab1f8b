package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	RepositoryPostgres = "postgres"
	RepositoryInMemory = "inmemory"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Database   DatabaseConfig   `yaml:"database" mapstructure:"database"`
	Redis      RedisConfig      `yaml:"redis" mapstructure:"redis"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
	Repository RepositoryConfig `yaml:"repository" mapstructure:"repository"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Auth       AuthConfig       `yaml:"auth" mapstructure:"auth"`
	Worker     WorkerConfig     `yaml:"worker" mapstructure:"worker"`
}

type ServerConfig struct {
	Port            string        `yaml:"port" mapstructure:"port"`
	Host            string        `yaml:"host" mapstructure:"host"`
	RequestTimeout  time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	RateLimit       int           `yaml:"rate_limit" mapstructure:"rate_limit"`
	AllowedOrigins  []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	URL            string        `yaml:"url" mapstructure:"url"`
	MaxConnections int           `yaml:"max_connections" mapstructure:"max_connections"`
	MinConnections int           `yaml:"min_connections" mapstructure:"min_connections"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	Migrate        bool          `yaml:"migrate" mapstructure:"migrate"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

type LoggingConfig struct {
	Development bool `yaml:"development" mapstructure:"development"`
}

type RepositoryConfig struct {
	Type string `yaml:"type" mapstructure:"type"` // "postgres" или "inmemory"
}

type CacheConfig struct {
	Type   string `yaml:"type" mapstructure:"type"` // "memory" или "redis"
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
	Issuer     string        `yaml:"issuer" mapstructure:"issuer"`
	BcryptCost int           `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
}

type WorkerConfig struct {
	SweepInterval time.Duration `yaml:"sweep_interval" mapstructure:"sweep_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.host", "")
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("database.migrate", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logging.development", false)
	v.SetDefault("repository.type", RepositoryInMemory)
	v.SetDefault("cache.type", CacheMemory)
	v.SetDefault("cache.prefix", "todo:cache:")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 7*24*time.Hour)
	v.SetDefault("auth.issuer", "todo-tracker")
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("worker.sweep_interval", 5*time.Minute)
}

// Load читает .env (если есть), затем config.yml; переменные окружения
// TODO_<SECTION>_<KEY> перекрывают файл
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositoryPostgres:
		if c.Database.URL == "" {
			return errors.New("конфигурация: database.url обязателен для repository.type=postgres")
		}
	case RepositoryInMemory:
	default:
		return fmt.Errorf("конфигурация: неизвестный repository.type %q", c.Repository.Type)
	}

	switch c.Cache.Type {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("конфигурация: неизвестный cache.type %q", c.Cache.Type)
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("конфигурация: auth.jwt_secret не задан (TODO_AUTH_JWT_SECRET)")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("конфигурация: auth.token_ttl должен быть положительным")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// UsesRedis нужен ли клиент Redis: кеш в Redis хранит и сессии там же
func (c *Config) UsesRedis() bool {
	return c.Cache.Type == CacheRedis
}
