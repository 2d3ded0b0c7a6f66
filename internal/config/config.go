package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr  string `env:"SERVER_ADDR" envDefault:":5000"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN      string `env:"DB_DSN"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"foodcompany"`

	UploadDir   string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	MaxUploadMB int    `env:"MAX_UPLOAD_MB" envDefault:"16"`

	UseS3         bool   `env:"USE_S3" envDefault:"false"`
	S3Bucket      string `env:"S3_BUCKET"`
	S3Region      string `env:"S3_REGION"`
	CloudFrontURL string `env:"CLOUDFRONT_URL"`

	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@foodcompany.ly"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	log.Println("✅ Config loaded")
	return cfg, nil
}

// DSN builds the driver-specific connection string unless DB_DSN overrides it.
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}

	switch c.DBDriver {
	case "postgres":
		return fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
		)
	case "mysql":
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
		)
	default:
		return "database.db"
	}
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

func (c *Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// AdminConfig configures the admin command-line client.
type AdminConfig struct {
	APIURL    string        `env:"ADMIN_API_URL" envDefault:"http://localhost:5000/api"`
	TokenFile string        `env:"ADMIN_TOKEN_FILE"`
	Timeout   time.Duration `env:"ADMIN_TIMEOUT" envDefault:"15s"`
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"WARN"`
}

func LoadAdmin() (*AdminConfig, error) {
	_ = godotenv.Load()

	cfg := &AdminConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse admin config: %w", err)
	}
	if cfg.TokenFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate home directory: %w", err)
		}
		cfg.TokenFile = filepath.Join(home, ".foodsite", "token")
	}
	return cfg, nil
}
