package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Jobs     JobsConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver     string // postgres or sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port        string
	FrontendURL string
	GinMode     string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret        string
	JWTTTL           time.Duration
	ChallengeTTL     time.Duration
	ReserveOnPublish bool
}

// JobsConfig holds background job settings
type JobsConfig struct {
	ReconcileInterval time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "bounty_market")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "bounty_market.db")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("FRONTEND_URL", "")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("CHALLENGE_TTL", "5m")
	v.SetDefault("BOUNTY_RESERVE_ON_PUBLISH", false)
	v.SetDefault("RECONCILE_INTERVAL", "15m")
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return load(true)
}

// LoadTooling loads configuration for operator commands that never issue tokens
func LoadTooling() (*Config, error) {
	return load(false)
}

func load(requireSecret bool) (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v, requireSecret)
}

func fromViper(v *viper.Viper, requireSecret bool) (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			Driver:     v.GetString("DB_DRIVER"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			DBName:     v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		Server: ServerConfig{
			Port:        v.GetString("SERVER_PORT"),
			FrontendURL: v.GetString("FRONTEND_URL"),
			GinMode:     v.GetString("GIN_MODE"),
		},
		App: AppConfig{
			JWTSecret:        v.GetString("JWT_SECRET"),
			JWTTTL:           v.GetDuration("JWT_TTL"),
			ChallengeTTL:     v.GetDuration("CHALLENGE_TTL"),
			ReserveOnPublish: v.GetBool("BOUNTY_RESERVE_ON_PUBLISH"),
		},
		Jobs: JobsConfig{
			ReconcileInterval: v.GetDuration("RECONCILE_INTERVAL"),
		},
	}

	// Validate required fields
	if requireSecret && config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	switch config.Database.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", config.Database.Driver)
	}

	if config.App.JWTTTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive")
	}
	if config.App.ChallengeTTL <= 0 {
		return nil, fmt.Errorf("CHALLENGE_TTL must be positive")
	}
	if config.Jobs.ReconcileInterval <= 0 {
		return nil, fmt.Errorf("RECONCILE_INTERVAL must be positive")
	}

	return config, nil
}

// GetDSN returns the connection string for the configured driver
func (c *Config) GetDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}
