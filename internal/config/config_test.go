package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fleet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db.internal
  password: s3cret
jwt:
  secret: signing-key
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "fleet", cfg.Service.Name)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 200*time.Millisecond, cfg.Database.SlowQueryThreshold)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.HTTP.Addr())
	assert.Equal(t, []string{"*"}, cfg.Server.HTTP.AllowOrigins)
	assert.Equal(t, "de", cfg.Compliance.Locale)
	assert.Equal(t, LockBackendMemory, cfg.Compliance.LockBackend)
	assert.Equal(t, 30*time.Second, cfg.Compliance.LockTTL)
	assert.Equal(t, "fleet.audit", cfg.Compliance.AuditChannel)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadFile_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
compliance:
  locale: de
`)
	t.Setenv("FLEET_COMPLIANCE_LOCALE", "en")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Compliance.Locale)
}

func TestLoadFile_Invalid(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeConfig(t, `
compliance:
  lock_backend: redis
`)
	_, err = LoadFile(path)
	assert.ErrorContains(t, err, "redis.addr")
}

func TestValidate(t *testing.T) {
	valid := Config{Compliance: ComplianceConfig{LockBackend: LockBackendMemory, LockTTL: time.Second}}
	assert.NoError(t, valid.Validate())

	redis := valid
	redis.Compliance.LockBackend = LockBackendRedis
	assert.Error(t, redis.Validate())
	redis.Redis.Addr = "localhost:6379"
	assert.NoError(t, redis.Validate())

	unknown := valid
	unknown.Compliance.LockBackend = "zookeeper"
	assert.Error(t, unknown.Validate())

	noTTL := valid
	noTTL.Compliance.LockTTL = 0
	assert.Error(t, noTTL.Validate())
}

func TestRedacted(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{Host: "db", Password: "pw"},
		Redis:    RedisConfig{Addr: "redis:6379", Password: "rpw"},
		JWT:      JWTConfig{Secret: "jwt-secret", Issuer: "semo-auth"},
	}

	out, err := cfg.Redacted()
	require.NoError(t, err)
	text := string(out)
	assert.NotContains(t, text, "jwt-secret")
	assert.NotContains(t, text, "rpw")
	assert.Contains(t, text, "semo-auth")
	assert.Contains(t, text, "****")
	// the receiver is a copy
	assert.Equal(t, "jwt-secret", cfg.JWT.Secret)
}
