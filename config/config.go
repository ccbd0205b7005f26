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

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL      string        `yaml:"database_url"`
	JWTSecretKey     string        `yaml:"jwt_secret_key"`
	ServerPort       int           `yaml:"server_port"`
	DBConnectTimeout time.Duration `yaml:"db_connect_timeout"`
	RateLimit        RateLimit     `yaml:"rate_limit"`
	CORSOrigins      []string      `yaml:"cors_allowed_origins"`
	R2               R2Config      `yaml:"r2"`
}

type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// R2Config - доступ к Cloudflare R2. Пустые значения отключают публикацию снимков.
type R2Config struct {
	AccountID       string `yaml:"account_id"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	BucketName      string `yaml:"bucket_name"`
	PublicBaseURL   string `yaml:"public_base_url"`
}

func defaults() Config {
	return Config{
		ServerPort:       8080,
		DBConnectTimeout: 5 * time.Second,
		RateLimit:        RateLimit{RPS: 5, Burst: 10},
	}
}

// Load загружает конфигурацию: .env (если есть), затем YAML-файл path
// (или CONFIG_FILE), затем переменные окружения поверх.
func Load(path string) (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	cfg := defaults()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		cfg.JWTSecretKey = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
		}
		cfg.ServerPort = port
	}
	if v := os.Getenv("DB_CONNECT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DB_CONNECT_TIMEOUT environment variable: %w", err)
		}
		cfg.DBConnectTimeout = d
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_RPS environment variable: %w", err)
		}
		cfg.RateLimit.RPS = rps
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_BURST environment variable: %w", err)
		}
		cfg.RateLimit.Burst = burst
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	if v := os.Getenv("R2_ACCOUNT_ID"); v != "" {
		cfg.R2.AccountID = v
	}
	if v := os.Getenv("R2_ACCESS_KEY_ID"); v != "" {
		cfg.R2.AccessKeyID = v
	}
	if v := os.Getenv("R2_SECRET_ACCESS_KEY"); v != "" {
		cfg.R2.SecretAccessKey = v
	}
	if v := os.Getenv("R2_BUCKET_NAME"); v != "" {
		cfg.R2.BucketName = v
	}
	if v := os.Getenv("R2_PUBLIC_BASE_URL"); v != "" {
		cfg.R2.PublicBaseURL = v
	}
	return nil
}

func (c *Config) validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if c.JWTSecretKey == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is not set"))
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort))
	}
	if c.DBConnectTimeout <= 0 {
		errs = append(errs, fmt.Errorf("DB_CONNECT_TIMEOUT must be positive, got %s", c.DBConnectTimeout))
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1 {
		errs = append(errs, fmt.Errorf("rate limit must have positive RPS and burst, got %v/%d", c.RateLimit.RPS, c.RateLimit.Burst))
	}
	return errors.Join(errs...)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
