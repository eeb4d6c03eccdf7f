package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	JWT      JWTConfig
	Payroll  PayrollConfig
	SMTP     SMTPConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// JWTConfig holds the verification key for protected routes
type JWTConfig struct {
	Secret string
}

// SMTPConfig holds email delivery configuration. An empty Host disables
// outbound email.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// PayrollConfig holds engine tuning knobs
type PayrollConfig struct {
	// ChunkSize bounds how many employees are processed concurrently
	// within a single branch run.
	ChunkSize int
	// EmployeeTimeout bounds a single employee's pipeline call.
	EmployeeTimeout time.Duration
	// ConfigCacheTTL bounds how long a statutory config snapshot is reused
	// before the store is consulted again.
	ConfigCacheTTL time.Duration
	// StuckRunThreshold is how long a run may stay in "running" before the
	// watchdog flags it.
	StuckRunThreshold time.Duration
	// Transactional selects the ACID transaction runner; when false the
	// engine degrades to best-effort sequential writes for stores without
	// multi-statement transactions.
	Transactional bool
	// NotifyEmail receives run completion summaries. Empty disables the
	// email notifier.
	NotifyEmail string
}

func Load() (*Config, error) {
	// Missing .env is fine in containerized deployments; env vars win.
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "paygrid_payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	chunkSize, err := strconv.Atoi(getEnv("PAYROLL_CHUNK_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_CHUNK_SIZE: %w", err)
	}

	employeeTimeout, err := time.ParseDuration(getEnv("PAYROLL_EMPLOYEE_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_EMPLOYEE_TIMEOUT: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("STATUTORY_CONFIG_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATUTORY_CONFIG_CACHE_TTL: %w", err)
	}

	stuckThreshold, err := time.ParseDuration(getEnv("PAYROLL_STUCK_RUN_THRESHOLD", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_STUCK_RUN_THRESHOLD: %w", err)
	}

	config.Payroll = PayrollConfig{
		ChunkSize:         chunkSize,
		EmployeeTimeout:   employeeTimeout,
		ConfigCacheTTL:    cacheTTL,
		StuckRunThreshold: stuckThreshold,
		Transactional:     getEnv("PAYROLL_TRANSACTIONAL", "true") == "true",
		NotifyEmail:       getEnv("PAYROLL_NOTIFY_EMAIL", ""),
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "payroll@paygrid.example"),
		FromName: getEnv("SMTP_FROM_NAME", "PayGrid Payroll"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Payroll.ChunkSize < 1 {
		return fmt.Errorf("PAYROLL_CHUNK_SIZE must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
