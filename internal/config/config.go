package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Repository RepositoryConfig `mapstructure:"repository"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	Name           string        `mapstructure:"name"`
	MaxConnections int           `mapstructure:"max_connections"`
	MinConnections int           `mapstructure:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type"` // "mongo", "postgres" или "inmemory"
}

const (
	RepositoryMongo    = "mongo"
	RepositoryPostgres = "postgres"
	RepositoryInMemory = "inmemory"
)

var envBindings = map[string]string{
	"server.host":              "HOST",
	"server.port":              "PORT",
	"database.url":             "MONGO_URI",
	"database.name":            "MONGO_DB",
	"database.max_connections": "DB_MAX_CONNECTIONS",
	"database.min_connections": "DB_MIN_CONNECTIONS",
	"database.idle_timeout":    "DB_IDLE_TIMEOUT",
	"repository.type":          "REPOSITORY_TYPE",
	"logging.development":      "LOG_DEVELOPMENT",
}

// Load читает .env, необязательный config.yml и переменные окружения (они главнее)
func Load(paths ...string) (*Config, error) {
	// .env не обязателен
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		file := filepath.Join(p, "config.yml")
		if _, err := os.Stat(file); err != nil {
			continue
		}
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("parse config.yml: %w", err)
		}
		break
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Repository.Type = strings.ToLower(strings.TrimSpace(cfg.Repository.Type))
	switch cfg.Repository.Type {
	case RepositoryMongo, RepositoryPostgres, RepositoryInMemory:
	default:
		return nil, fmt.Errorf("unknown repository type %q", cfg.Repository.Type)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "5000")
	v.SetDefault("database.url", "mongodb://localhost:27017")
	v.SetDefault("database.name", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("repository.type", RepositoryMongo)
	v.SetDefault("logging.development", false)
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
