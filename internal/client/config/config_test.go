package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:50051", cfg.ServerEndpointAddr)
}

func TestLoadJSON(t *testing.T) {
	t.Run("overrides present fields", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		p := writeFile(t, `{"server_endpoint_addr":"auth:9000","request_timeout":"3s"}`)

		require.NoError(t, LoadJSON(cfg, p))
		assert.Equal(t, "auth:9000", cfg.ServerEndpointAddr)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	})

	t.Run("keeps defaults for missing fields", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		p := writeFile(t, `{"request_timeout":1000000000}`)

		require.NoError(t, LoadJSON(cfg, p))
		assert.Equal(t, "127.0.0.1:50051", cfg.ServerEndpointAddr)
		assert.Equal(t, time.Second, cfg.RequestTimeout)
	})

	t.Run("missing file", func(t *testing.T) {
		err := LoadJSON(&Config{}, filepath.Join(t.TempDir(), "nope.json"))
		require.ErrorContains(t, err, "read config")
	})

	t.Run("bad json", func(t *testing.T) {
		err := LoadJSON(&Config{}, writeFile(t, `{`))
		require.ErrorContains(t, err, "parse config")
	})
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("KVAUTH_CLIENT_SERVER_ADDR", "env:1")
	t.Setenv("KVAUTH_CLIENT_REQUEST_TIMEOUT", "2s")

	cfg, err := Load(writeFile(t, `{"server_endpoint_addr":"file:1"}`))
	require.NoError(t, err)
	assert.Equal(t, "env:1", cfg.ServerEndpointAddr)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
}

func TestLoadEnv_Malformed(t *testing.T) {
	t.Setenv("KVAUTH_CLIENT_REQUEST_TIMEOUT", "soon")
	require.ErrorContains(t, LoadEnv(&Config{}), "environment")
}
