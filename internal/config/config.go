package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host        string `yaml:"host"`
		Port        int    `yaml:"port"`
		Env         string `yaml:"env"`
		FrontendURL string `yaml:"frontend_url"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Tests struct {
		SessionSecret string `yaml:"session_secret"`
		SessionStore  string `yaml:"session_store"` // signed, redis
		GraceSeconds  int    `yaml:"grace_seconds"`
	} `yaml:"tests"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Skills struct {
		Catalog []string `yaml:"catalog"`
	} `yaml:"skills"`

	Notifications struct {
		RetentionDays   int `yaml:"retention_days"`
		CleanupInterval int `yaml:"cleanup_interval"` // minutes
	} `yaml:"notifications"`
}

const (
	SessionStoreSigned = "signed"
	SessionStoreRedis  = "redis"
)

var AppConfig *Config

// Load reads config.yaml, or builds the config from environment variables when
// DATABASE_URL is set (containers and integration tests).
func Load() (*Config, error) {
	var cfg Config

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		fromEnv(&cfg, dbURL)
	} else {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("open config file at %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file at %s: %w", configPath, err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func fromEnv(cfg *Config, dbURL string) {
	cfg.Database.DSN = dbURL
	cfg.Server.Host = os.Getenv("SERVER_HOST")
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.Server.FrontendURL = os.Getenv("FRONTEND_URL")
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL, _ = strconv.Atoi(os.Getenv("JWT_TTL"))
	cfg.Tests.SessionSecret = os.Getenv("TEST_SESSION_SECRET")
	cfg.Tests.SessionStore = os.Getenv("TEST_SESSION_STORE")
	cfg.Tests.GraceSeconds, _ = strconv.Atoi(os.Getenv("TEST_GRACE_SECONDS"))
	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Redis.DB, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	cfg.Notifications.RetentionDays, _ = strconv.Atoi(os.Getenv("NOTIFICATION_RETENTION_DAYS"))
	cfg.Notifications.CleanupInterval, _ = strconv.Atoi(os.Getenv("NOTIFICATION_CLEANUP_INTERVAL"))
	if skills := os.Getenv("SKILL_CATALOG"); skills != "" {
		for _, s := range strings.Split(skills, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.Skills.Catalog = append(cfg.Skills.Catalog, s)
			}
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 4000
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.JWT.TTL == 0 {
		c.JWT.TTL = 60
	}
	if c.Tests.SessionStore == "" {
		c.Tests.SessionStore = SessionStoreSigned
	}
	if c.Tests.SessionSecret == "" {
		c.Tests.SessionSecret = c.JWT.Secret
	}
	if c.Tests.GraceSeconds == 0 {
		c.Tests.GraceSeconds = 60
	}
	if c.Notifications.RetentionDays == 0 {
		c.Notifications.RetentionDays = 30
	}
	if c.Notifications.CleanupInterval == 0 {
		c.Notifications.CleanupInterval = 360
	}
}

func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	switch c.Tests.SessionStore {
	case SessionStoreSigned:
	case SessionStoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required when tests.session_store is redis")
		}
	default:
		return fmt.Errorf("unknown tests.session_store %q", c.Tests.SessionStore)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
