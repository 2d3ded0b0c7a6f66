package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_ADDR", "DB_DRIVER", "DB_DSN", "MAX_UPLOAD_MB", "CACHE_TTL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.ServerAddr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "database.db", cfg.DSN())
	assert.Equal(t, int64(16*1024*1024), cfg.MaxUploadBytes())
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
}

func TestDSN(t *testing.T) {
	t.Run("Postgres", func(t *testing.T) {
		cfg := &Config{DBDriver: "postgres", DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "food"}
		assert.Equal(t, "host=db user=u password=p dbname=food port=5432 sslmode=disable", cfg.DSN())
	})

	t.Run("MySQL", func(t *testing.T) {
		cfg := &Config{DBDriver: "mysql", DBHost: "db", DBPort: "3306", DBUser: "u", DBPassword: "p", DBName: "food"}
		assert.Equal(t, "u:p@tcp(db:3306)/food?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())
	})

	t.Run("Explicit DSN wins", func(t *testing.T) {
		cfg := &Config{DBDriver: "postgres", DBDSN: "postgres://x"}
		assert.Equal(t, "postgres://x", cfg.DSN())
	})
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(2*1024*1024), cfg.MaxUploadBytes())
	assert.True(t, cfg.UseRedisCache())
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
}

func TestLoadAdmin(t *testing.T) {
	t.Setenv("ADMIN_API_URL", "http://example.test/api")
	t.Setenv("ADMIN_TOKEN_FILE", "/tmp/token")
	t.Setenv("ADMIN_TIMEOUT", "5s")

	cfg, err := LoadAdmin()
	require.NoError(t, err)

	assert.Equal(t, "http://example.test/api", cfg.APIURL)
	assert.Equal(t, "/tmp/token", cfg.TokenFile)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoadAdminDefaultTokenFile(t *testing.T) {
	t.Setenv("ADMIN_TOKEN_FILE", "")
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadAdmin()
	require.NoError(t, err)
	assert.Contains(t, cfg.TokenFile, ".foodsite")
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}
