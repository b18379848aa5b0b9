package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env when present. A missing file is fine; the process
// environment is used instead.
func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env not found, using system environment")
	}
}

func GetEnv(key string, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

/*
|--------------------------------------------------------------------------
| APP CONFIG
|--------------------------------------------------------------------------
*/
type Config struct {
	Host string
	Port string

	APIURL     string
	APITimeout time.Duration

	JWTSecret string

	IdleTimeout   time.Duration
	CheckInterval time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RecaptchaSecret string

	BasicAuthUser string
	BasicAuthPass string

	StaffNameFallback string
}

// Load reads the environment into a validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		Host:              GetEnv("APP_HOST", "0.0.0.0"),
		Port:              GetEnv("APP_PORT", "8080"),
		APIURL:            GetEnv("API_URL", "http://localhost:3000"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		RedisAddr:         GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		DBHost:            GetEnv("DB_HOST", "127.0.0.1"),
		DBPort:            GetEnv("DB_PORT", "3306"),
		DBUser:            GetEnv("DB_USER", "root"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		RecaptchaSecret:   os.Getenv("RECAPTCHA_SECRET_KEY"),
		BasicAuthUser:     os.Getenv("BASIC_AUTH_USER"),
		BasicAuthPass:     os.Getenv("BASIC_AUTH_PASS"),
		StaffNameFallback: GetEnv("STAFF_NAME_FALLBACK", "Staff"),
	}

	var err error
	if cfg.APITimeout, err = getDuration("API_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.IdleTimeout, err = getDuration("SESSION_IDLE_TIMEOUT", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CheckInterval, err = getDuration("SESSION_CHECK_INTERVAL", 200*time.Millisecond); err != nil {
		return nil, err
	}
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if cfg.RedisDB, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("REDIS_DB: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.APIURL == "" {
		return fmt.Errorf("API_URL is required")
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive, got %s", c.IdleTimeout)
	}
	if c.CheckInterval <= 0 || c.CheckInterval > c.IdleTimeout/10 {
		return fmt.Errorf("SESSION_CHECK_INTERVAL must be in (0, %s], got %s", c.IdleTimeout/10, c.CheckInterval)
	}
	return nil
}

func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// AuditEnabled is false when no database name is configured.
func (c *Config) AuditEnabled() bool {
	return c.DBName != ""
}
