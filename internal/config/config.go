// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds every setting the server and the seeder read at startup.
type Config struct {
	Port        string `env:"PORT" envDefault:"3000"`
	Env         string `env:"ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173"`
	JWTSecret   string `env:"JWT_SECRET,required,notEmpty"`

	DB     DBConfig    `envPrefix:"DB_"`
	Redis  RedisConfig `envPrefix:"REDIS_"`
	Report ReportConfig
}

// DBConfig holds the PostgreSQL connection and pool settings.
type DBConfig struct {
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            string        `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER" envDefault:"postgres"`
	Password        string        `env:"PASSWORD" envDefault:"postgres"`
	Name            string        `env:"NAME" envDefault:"papi"`
	SSLMode         string        `env:"SSLMODE" envDefault:"disable"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"100"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"30m"`
}

// DSN returns the keyword/value connection string understood by the postgres driver.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

type RedisConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// ReportConfig tunes the dashboard report. A CacheTTL of zero disables
// the stats response cache.
type ReportConfig struct {
	CurrencySymbol string        `env:"CURRENCY_SYMBOL" envDefault:"₱"`
	TopMerchants   int           `env:"TOP_MERCHANTS" envDefault:"3"`
	CacheTTL       time.Duration `env:"REPORT_CACHE_TTL" envDefault:"0s"`
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file found: %v", err)
	}
}

// Load reads .env and parses the environment into a Config.
func Load() (*Config, error) {
	LoadEnv()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Report.TopMerchants <= 0 {
		return nil, fmt.Errorf("TOP_MERCHANTS must be positive, got %d", cfg.Report.TopMerchants)
	}
	if cfg.Report.CacheTTL < 0 {
		return nil, fmt.Errorf("REPORT_CACHE_TTL must not be negative, got %s", cfg.Report.CacheTTL)
	}
	return &cfg, nil
}

// LoadDB reads .env and parses only the DB_ settings, for tools that do not
// serve HTTP.
func LoadDB() (DBConfig, error) {
	LoadEnv()

	cfg, err := env.ParseAsWithOptions[DBConfig](env.Options{Prefix: "DB_"})
	if err != nil {
		return cfg, fmt.Errorf("failed to parse database config: %w", err)
	}
	return cfg, nil
}

// IsProduction checks if the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
