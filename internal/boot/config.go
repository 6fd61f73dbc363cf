package boot

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env string `env:"ENV,default=dev"`

	LockServiceAddr string `env:"LOCK_SERVICE_ADDR,default=:3003"`
	UserServiceAddr string `env:"USER_SERVICE_ADDR,default=:3001"`
	LogServiceAddr  string `env:"LOG_SERVICE_ADDR,default=:3002"`
	EventBusAddr    string `env:"EVENT_BUS_ADDR,default=:3004"`

	LockMetricsAddr string `env:"LOCK_METRICS_ADDR,default=:9003"`
	UserMetricsAddr string `env:"USER_METRICS_ADDR,default=:9001"`
	LogMetricsAddr  string `env:"LOG_METRICS_ADDR,default=:9002"`
	BusMetricsAddr  string `env:"EVENT_BUS_METRICS_ADDR,default=:9004"`

	LockServiceURL string `env:"LOCK_SERVICE_URL,default=http://localhost:3003"`
	UserServiceURL string `env:"USER_SERVICE_URL,default=http://localhost:3001"`
	LogServiceURL  string `env:"LOG_SERVICE_URL,default=http://localhost:3002"`
	EventBusURL    string `env:"EVENT_BUS_URL,default=http://localhost:3004"`

	// Empty DatabaseHost selects the in-memory user store.
	DatabaseHost     string `env:"DATABASE_HOST"`
	DatabasePort     int    `env:"DATABASE_PORT,default=5432"`
	DatabaseName     string `env:"DATABASE_NAME,default=electronic_lock_app"`
	DatabaseUser     string `env:"DATABASE_USER,default=admin"`
	DatabasePassword string `env:"DATABASE_PASSWORD,default=admin"`

	UploadDir     string `env:"UPLOAD_DIR,default=uploads"`
	LocksSeedFile string `env:"LOCKS_SEED_FILE"`
}

func Load() (*Config, error) {
	config := &Config{}
	if err := envconfig.Process(context.Background(), config); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}
	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "dev"
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseHost != ""
}

func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		c.DatabaseUser, c.DatabasePassword, c.DatabaseHost, c.DatabasePort, c.DatabaseName)
}
