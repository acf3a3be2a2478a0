package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	SeedData bool `envconfig:"SEED_DATA" default:"false"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string        `envconfig:"PORT" default:"3000"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
	RoutePrefix  string        `envconfig:"ROUTE_PREFIX" default:"/api/Role"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"postgres"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"roleapi"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// RedisConfig holds role cache configuration
type RedisConfig struct {
	Enabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Addr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"ROLE_CACHE_TTL" default:"5m"`
}

// LogConfig holds goerrorkit logger configuration
type LogConfig struct {
	FilePath string `envconfig:"LOG_FILE" default:"logs/errors.log"`
	Level    string `envconfig:"LOG_LEVEL" default:"info"`
	JSON     bool   `envconfig:"LOG_JSON" default:"true"`
}

// LoadConfig loads .env (nếu có) rồi đọc configuration từ environment variables
func LoadConfig() (*Config, error) {
	// .env là tùy chọn, thiếu file thì dùng env hiện tại
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UseMemoryStore returns true when the in-memory store backend is selected
func (c *Config) UseMemoryStore() bool {
	return c != nil && c.Database.Driver == DriverMemory
}
