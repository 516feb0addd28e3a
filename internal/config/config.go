package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/osahq/conduct/internal/app/policy"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	// Policy carries the disciplinary rule constants. Durations use Go
	// duration syntax, so the 180-day clearance window reads "4320h".
	Policy struct {
		MinorEquivalence int    `yaml:"minor_equivalence" env:"POLICY_MINOR_EQUIVALENCE"`
		AlertThreshold   int    `yaml:"alert_threshold" env:"POLICY_ALERT_THRESHOLD"`
		ClearanceWindow  string `yaml:"clearance_window" env:"POLICY_CLEARANCE_WINDOW"`
		OverdueAfter     string `yaml:"overdue_after" env:"POLICY_OVERDUE_AFTER"`
		PromotionAfter   string `yaml:"promotion_after" env:"POLICY_PROMOTION_AFTER"`
		MaxYearLevel     int    `yaml:"max_year_level" env:"POLICY_MAX_YEAR_LEVEL"`
	} `yaml:"policy"`

	Sweep struct {
		MeetingInterval   string `yaml:"meeting_interval" env:"SWEEP_MEETING_INTERVAL"`
		PromotionInterval string `yaml:"promotion_interval" env:"SWEEP_PROMOTION_INTERVAL"`
	} `yaml:"sweep"`

	Notify struct {
		SystemEmail string `yaml:"system_email" env:"NOTIFY_SYSTEM_EMAIL"`
	} `yaml:"notify"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load default config with sane defaults
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Parse YAML into Config structure
		err = yaml.Unmarshal(file, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	// Validate config
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "conduct"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	// Policy defaults mirror policy.Default()
	def := policy.Default()
	config.Policy.MinorEquivalence = def.MinorEquivalence
	config.Policy.AlertThreshold = def.AlertThreshold
	config.Policy.ClearanceWindow = def.ClearanceWindow.String()
	config.Policy.OverdueAfter = def.OverdueAfter.String()
	config.Policy.PromotionAfter = def.PromotionAfter.String()
	config.Policy.MaxYearLevel = def.MaxYearLevel

	// Sweep defaults: meetings every 15 minutes, promotions daily
	config.Sweep.MeetingInterval = "15m"
	config.Sweep.PromotionInterval = "24h"

	// Notify defaults
	config.Notify.SystemEmail = "system@osa.edu.ph"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	// Ensure required fields are set
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database connection max lifetime format: %w", err)
	}

	if _, err := config.PolicyConfig(); err != nil {
		return err
	}

	if _, err := time.ParseDuration(config.Sweep.MeetingInterval); err != nil {
		return fmt.Errorf("invalid meeting sweep interval format: %w", err)
	}

	if _, err := time.ParseDuration(config.Sweep.PromotionInterval); err != nil {
		return fmt.Errorf("invalid promotion sweep interval format: %w", err)
	}

	return nil
}

// PolicyConfig converts the policy section into the rule constants used by
// the decision engine.
func (c *Config) PolicyConfig() (policy.Config, error) {
	clearance, err := time.ParseDuration(c.Policy.ClearanceWindow)
	if err != nil {
		return policy.Config{}, fmt.Errorf("invalid clearance window format: %w", err)
	}
	overdue, err := time.ParseDuration(c.Policy.OverdueAfter)
	if err != nil {
		return policy.Config{}, fmt.Errorf("invalid overdue window format: %w", err)
	}
	promotion, err := time.ParseDuration(c.Policy.PromotionAfter)
	if err != nil {
		return policy.Config{}, fmt.Errorf("invalid promotion window format: %w", err)
	}

	cfg := policy.Config{
		MinorEquivalence: c.Policy.MinorEquivalence,
		AlertThreshold:   c.Policy.AlertThreshold,
		ClearanceWindow:  clearance,
		OverdueAfter:     overdue,
		PromotionAfter:   promotion,
		MaxYearLevel:     c.Policy.MaxYearLevel,
	}
	if err := cfg.Validate(); err != nil {
		return policy.Config{}, err
	}
	return cfg, nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
