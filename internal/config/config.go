package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/xxxsen/common/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port             int              `json:"port"`
	JWTSecret        string           `json:"jwt_secret"`
	AccessTTLMinutes int              `json:"access_ttl_minutes"`
	RefreshTTLHours  int              `json:"refresh_ttl_hours"`
	Database         DatabaseConfig   `json:"database"`
	LogConfig        logger.LogConfig `json:"log_config"`
	CORSOrigins      []string         `json:"cors_origins"`
	RateLimitMS      int              `json:"rate_limit_ms"`
	StrictColors     bool             `json:"strict_colors"`
	UserCache        UserCacheConfig  `json:"user_cache"`
}

type DatabaseConfig struct {
	Driver   string `json:"driver"`
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type UserCacheConfig struct {
	Size       int `json:"size"`
	TTLSeconds int `json:"ttl_seconds"`
}

// Load reads the json config at path, then applies environment overrides.
// A .env file in the working directory is honored when present.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	_ = godotenv.Load()
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("STICKYNOTE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse STICKYNOTE_PORT: %w", err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("STICKYNOTE_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("STICKYNOTE_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("STICKYNOTE_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	return nil
}

func normalize(cfg *Config) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if cfg.AccessTTLMinutes == 0 {
		cfg.AccessTTLMinutes = 60
	}
	if cfg.RefreshTTLHours == 0 {
		cfg.RefreshTTLHours = 24 * 7
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.UserCache.Size == 0 {
		cfg.UserCache.Size = 1024
	}
	if cfg.UserCache.TTLSeconds == 0 {
		cfg.UserCache.TTLSeconds = 60
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverSQLite
	}
	switch cfg.Database.Driver {
	case DriverSQLite:
		if cfg.Database.DSN == "" && cfg.Database.DBName == "" {
			return fmt.Errorf("database.dsn or database.dbname is required for sqlite")
		}
	case DriverPostgres, DriverMySQL:
		if cfg.Database.DSN == "" && (cfg.Database.Host == "" || cfg.Database.DBName == "") {
			return fmt.Errorf("database.dsn or database host/dbname are required for %s", cfg.Database.Driver)
		}
	default:
		return fmt.Errorf("database.driver must be postgres, mysql or sqlite")
	}
	return nil
}
