package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := writeConfigFile(t, `
auth:
  jwt_secret: "a-very-long-test-secret"
db:
  name: "training_test"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "training_test", cfg.Database.Name)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 60, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
auth:
  jwt_secret: "a-very-long-test-secret"
server:
  port: 9000
`)
	t.Setenv("TRAINING_SERVER_PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfigFile(t, "log:\n  level: debug\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: 8080},
		Auth:   AuthConfig{JWTSecret: "short"},
	}
	assert.Error(t, cfg.Validate(), "短密钥应校验失败")

	cfg.Auth.JWTSecret = "long-enough-secret-value"
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate(), "端口越界应校验失败")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p",
		Name: "n", SSLMode: "disable", Timezone: "Asia/Seoul",
	}
	assert.Equal(t,
		"host=db port=5432 user=u password=p dbname=n sslmode=disable TimeZone=Asia/Seoul",
		c.DSN())
}
