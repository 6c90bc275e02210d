package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	HTTP_ADDR   string
	LOG_LEVEL   string
	DB_DRIVER   string
	DB_PATH     string
	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string
	ES_URL      string
	ES_USER     string
	ES_PASSWORD string
	ES_INDEX    string
	JWT_SECRET  string

	KAFKA_ADDRESS string

	// AUTH_ALLOW_ANY_PASSWORD restores the legacy email-only login of the
	// original storefront. Off unless explicitly enabled.
	AUTH_ALLOW_ANY_PASSWORD bool
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		HTTP_ADDR:     getDefault("HTTP_ADDR", ":8080"),
		LOG_LEVEL:     getDefault("LOG_LEVEL", "info"),
		DB_DRIVER:     getDefault("DB_DRIVER", "sqlite"),
		DB_PATH:       getDefault("DB_PATH", "shopcore.db"),
		DB_HOST:       os.Getenv("DB_HOST"),
		DB_PORT:       os.Getenv("DB_PORT"),
		DB_USER:       os.Getenv("DB_USER"),
		DB_PASSWORD:   os.Getenv("DB_PASSWORD"),
		DB_NAME:       os.Getenv("DB_NAME"),
		ES_URL:        os.Getenv("ES_URL"),
		ES_USER:       os.Getenv("ES_USER"),
		ES_PASSWORD:   os.Getenv("ES_PASSWORD"),
		ES_INDEX:      getDefault("ES_INDEX", "product"),
		JWT_SECRET:    os.Getenv("JWT_SECRET"),
		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),
	}

	if v, err := strconv.ParseBool(os.Getenv("AUTH_ALLOW_ANY_PASSWORD")); err == nil {
		config.AUTH_ALLOW_ANY_PASSWORD = v
	}

	return config, nil
}

func getDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// InitDB opens the collections database. sqlite is the default so the
// storefront runs self-contained; DB_DRIVER=postgres switches to the shared
// server the way the production deployments run.
func InitDB(cfg *Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}

	switch cfg.DB_DRIVER {
	case "postgres":
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
		)
		db, err := gorm.Open(postgres.Open(dsn), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		return db, nil
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.DB_PATH), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %q: %w", cfg.DB_PATH, err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DB_DRIVER)
	}
}
