package config

import (
	"fmt"
	"net/url"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/segyhp/vehicle-loan-engine/pkg/amortization"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application.
// Every key is a flat environment variable.
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
	Auth      AuthConfig      `mapstructure:",squash"`
	Health    HealthConfig    `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"DATABASE_DRIVER"`
	URL             string        `mapstructure:"DATABASE_URL"`
	Host            string        `mapstructure:"DATABASE_HOST"`
	Port            string        `mapstructure:"DATABASE_PORT"`
	Name            string        `mapstructure:"DATABASE_NAME"`
	User            string        `mapstructure:"DATABASE_USER"`
	Password        string        `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string        `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
	LockTimeout     time.Duration `mapstructure:"DATABASE_LOCK_TIMEOUT"`
	AutoMigrate     bool          `mapstructure:"DATABASE_AUTO_MIGRATE"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"REDIS_ENABLED"`
	Host     string        `mapstructure:"REDIS_HOST"`
	Port     string        `mapstructure:"REDIS_PORT"`
	Password string        `mapstructure:"REDIS_PASSWORD"`
	DB       int           `mapstructure:"REDIS_DB"`
	CacheTTL time.Duration `mapstructure:"CACHE_TTL"`
	Stream   string        `mapstructure:"EVENTS_STREAM"`
}

type SchedulerConfig struct {
	OverdueCron string `mapstructure:"SCHEDULER_OVERDUE_CRON"`
	Timezone    string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	MaxLTVRatio          string `mapstructure:"MAX_LTV_RATIO"`
	MinInterestRate      string `mapstructure:"MIN_INTEREST_RATE"`
	MaxInterestRate      string `mapstructure:"MAX_INTEREST_RATE"`
	MinTenureMonths      int    `mapstructure:"MIN_TENURE_MONTHS"`
	MaxTenureMonths      int    `mapstructure:"MAX_TENURE_MONTHS"`
	LateFeeGraceDays     int    `mapstructure:"LATE_FEE_GRACE_DAYS"`
	LateFeeMonthlyRate   string `mapstructure:"LATE_FEE_MONTHLY_RATE"`
	LateFeeCap           string `mapstructure:"LATE_FEE_CAP"`
	SeizureThresholdDays int    `mapstructure:"SEIZURE_THRESHOLD_DAYS"`
}

type AuthConfig struct {
	Enabled   bool          `mapstructure:"AUTH_ENABLED"`
	JWTSecret string        `mapstructure:"JWT_SECRET"`
	TokenTTL  time.Duration `mapstructure:"JWT_EXPIRY"`
	Issuer    string        `mapstructure:"JWT_ISSUER"`
}

type HealthConfig struct {
	Timeout time.Duration `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

var defaults = map[string]interface{}{
	"SERVER_PORT":          "8080",
	"SERVER_HOST":          "0.0.0.0",
	"ENV":                  "development",
	"SERVER_READ_TIMEOUT":  "15s",
	"SERVER_WRITE_TIMEOUT": "15s",

	"DATABASE_DRIVER":            "postgres",
	"DATABASE_URL":               "",
	"DATABASE_HOST":              "localhost",
	"DATABASE_PORT":              "5432",
	"DATABASE_NAME":              "vehicle_loans",
	"DATABASE_USER":              "postgres",
	"DATABASE_PASSWORD":          "",
	"DATABASE_SSLMODE":           "disable",
	"DATABASE_MAX_OPEN_CONNS":    10,
	"DATABASE_MAX_IDLE_CONNS":    5,
	"DATABASE_CONN_MAX_LIFETIME": "30m",
	"DATABASE_LOCK_TIMEOUT":      "5s",
	"DATABASE_AUTO_MIGRATE":      true,

	"REDIS_ENABLED":  false,
	"REDIS_HOST":     "localhost",
	"REDIS_PORT":     "6379",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,
	"CACHE_TTL":      "10m",
	"EVENTS_STREAM":  "loan.events",

	"SCHEDULER_OVERDUE_CRON": "0 30 0 * * *",
	"SCHEDULER_TIMEZONE":     "Asia/Kolkata",

	"LOG_LEVEL":  "info",
	"LOG_FORMAT": "json",

	"MAX_LTV_RATIO":          "0.80",
	"MIN_INTEREST_RATE":      "5",
	"MAX_INTEREST_RATE":      "25",
	"MIN_TENURE_MONTHS":      6,
	"MAX_TENURE_MONTHS":      84,
	"LATE_FEE_GRACE_DAYS":    14,
	"LATE_FEE_MONTHLY_RATE":  "0.02",
	"LATE_FEE_CAP":           "0.20",
	"SEIZURE_THRESHOLD_DAYS": 90,

	"AUTH_ENABLED": true,
	"JWT_SECRET":   "",
	"JWT_EXPIRY":   "24h",
	"JWT_ISSUER":   "vehicle-loan-engine",

	"HEALTH_CHECK_TIMEOUT": "5s",
}

// Load reads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// .env never overrides variables already set in the environment
	_ = godotenv.Load(".env")
	_ = godotenv.Load("deployments/.env")

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	switch c.Database.Driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite3, got %q", c.Database.Driver)
	}

	if c.Database.Driver == "sqlite3" && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required for sqlite3")
	}

	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("DATABASE_MAX_OPEN_CONNS must be greater than 0")
	}

	for key, value := range map[string]string{
		"MAX_LTV_RATIO":         c.Business.MaxLTVRatio,
		"MIN_INTEREST_RATE":     c.Business.MinInterestRate,
		"MAX_INTEREST_RATE":     c.Business.MaxInterestRate,
		"LATE_FEE_MONTHLY_RATE": c.Business.LateFeeMonthlyRate,
		"LATE_FEE_CAP":          c.Business.LateFeeCap,
	} {
		if _, err := decimal.NewFromString(value); err != nil {
			return fmt.Errorf("%s must be a valid decimal: %w", key, err)
		}
	}

	if c.Business.MinTenureMonths <= 0 || c.Business.MaxTenureMonths < c.Business.MinTenureMonths {
		return fmt.Errorf("MIN_TENURE_MONTHS and MAX_TENURE_MONTHS must form a positive range")
	}

	if c.Business.SeizureThresholdDays <= 0 {
		return fmt.Errorf("SEIZURE_THRESHOLD_DAYS must be greater than 0")
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid location: %w", err)
	}

	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED is true")
	}

	if c.Health.Timeout <= 0 {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a positive duration")
	}

	return nil
}

// DSN returns DATABASE_URL when set, otherwise a Postgres URL built from the parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

// Addr returns the host:port the server listens on
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// Rules returns the origination limits
func (c *Config) Rules() amortization.Rules {
	return amortization.Rules{
		MaxLTV:    decimal.RequireFromString(c.Business.MaxLTVRatio),
		MinRate:   decimal.RequireFromString(c.Business.MinInterestRate),
		MaxRate:   decimal.RequireFromString(c.Business.MaxInterestRate),
		MinTenure: c.Business.MinTenureMonths,
		MaxTenure: c.Business.MaxTenureMonths,
	}
}

// LateFeePolicy returns the late fee formula parameters
func (c *Config) LateFeePolicy() amortization.LateFeePolicy {
	return amortization.LateFeePolicy{
		GraceDays:   c.Business.LateFeeGraceDays,
		MonthlyRate: decimal.RequireFromString(c.Business.LateFeeMonthlyRate),
		Cap:         decimal.RequireFromString(c.Business.LateFeeCap),
	}
}

// Location returns the time zone the scheduler computes "today" in
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
