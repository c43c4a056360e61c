package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "dashboard.db", cfg.Database.Path)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "session_id", cfg.Auth.CookieName)
	assert.False(t, cfg.Auth.AllowAnonymousPosts)
	assert.False(t, cfg.Policy().AllowAnonymous)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
auth:
  allow_anonymous_posts: true
  session_ttl: 1h
logger:
  format: text
`), 0o644))

	t.Run("file", func(t *testing.T) {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Port)
		assert.True(t, cfg.Policy().AllowAnonymous)
		assert.Equal(t, time.Hour, cfg.Auth.SessionTTL)
		assert.Equal(t, "text", cfg.Logger.Format)
	})

	t.Run("prefixed env wins", func(t *testing.T) {
		t.Setenv("DASHBOARD_SERVER_PORT", "9100")
		t.Setenv("DASHBOARD_AUTH_REQUIRE_AUTH", "true")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 9100, cfg.Port)
		assert.True(t, cfg.Auth.RequireAuth)
	})
}

func TestLegacyEnvNames(t *testing.T) {
	t.Setenv("ALLOW_ANONYMOUS_POSTS", "true")
	t.Setenv("REQUIRE_AUTH", "true")
	t.Setenv("PORT", "3000")
	t.Setenv("DB_PATH", "/tmp/x.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Auth.AllowAnonymousPosts)
	assert.True(t, cfg.Auth.RequireAuth)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("DASHBOARD_SERVER_PORT", "0")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
