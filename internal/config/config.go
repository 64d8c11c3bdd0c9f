package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// CouponConfig carries the discount parameters applied to every minted
// birthday coupon.
type CouponConfig struct {
	Type       string  `yaml:"type"` // fixed_cart | percent
	Amount     float64 `yaml:"amount"`
	Prefix     string  `yaml:"prefix"`
	ExpiryDays int     `yaml:"expiry_days"`
}

type EmailConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	From      string `yaml:"from"`
	SiteTitle string `yaml:"site_title"`
	Subject   string `yaml:"subject"`
	Greeting  string `yaml:"greeting"`
	Message   string `yaml:"message"`
}

type ScheduleConfig struct {
	Cron          string `yaml:"cron"`           // daily trigger, cron spec
	LookaheadDays int    `yaml:"lookahead_days"` // issue N days before the birthday
	Timezone      string `yaml:"timezone"`
}

type DiscountEngineConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type AdminConfig struct {
	Port      int    `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"`
	Password  string `yaml:"password"`
}

type OrdersConfig struct {
	Port int `yaml:"port"`
}

type Config struct {
	Log      LogConfig            `yaml:"log"`
	Database DatabaseConfig       `yaml:"database"`
	Redis    RedisConfig          `yaml:"redis"`
	Coupon   CouponConfig         `yaml:"coupon"`
	Email    EmailConfig          `yaml:"email"`
	Schedule ScheduleConfig       `yaml:"schedule"`
	Engine   DiscountEngineConfig `yaml:"engine"`
	Admin    AdminConfig          `yaml:"admin"`
	Orders   OrdersConfig         `yaml:"orders"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Coupon.Type == "" {
		cfg.Coupon.Type = "fixed_cart"
	}
	if cfg.Coupon.Amount <= 0 {
		cfg.Coupon.Amount = 10
	}
	if cfg.Coupon.Prefix == "" {
		cfg.Coupon.Prefix = "BIRTHDAY-"
	}
	if cfg.Coupon.ExpiryDays < 1 {
		cfg.Coupon.ExpiryDays = 14
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 0 * * *"
	}
	if cfg.Schedule.LookaheadDays <= 0 {
		cfg.Schedule.LookaheadDays = 7
	}
	if cfg.Schedule.Timezone == "" {
		cfg.Schedule.Timezone = "UTC"
	}
	if cfg.Email.Subject == "" {
		cfg.Email.Subject = "A Birthday Gift from {site_title}!"
	}
	if cfg.Email.Greeting == "" {
		cfg.Email.Greeting = "Happy Birthday, {customer_name}!"
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 8081
	}
	if cfg.Orders.Port == 0 {
		cfg.Orders.Port = 8080
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if _, err := time.LoadLocation(cfg.Schedule.Timezone); err != nil {
		return nil, fmt.Errorf("schedule.timezone: %w", err)
	}
	if cfg.Coupon.Type != "fixed_cart" && cfg.Coupon.Type != "percent" {
		return nil, fmt.Errorf("coupon.type must be fixed_cart or percent, got %q", cfg.Coupon.Type)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// Location resolves the configured timezone. LoadConfig has already
// validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
