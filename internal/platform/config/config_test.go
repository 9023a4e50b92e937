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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const validYAML = `
mode: dev
mongo:
  uri: "mongodb://localhost:27017"
  database: "passgate"
  timeout: 3s
qr:
  key: "c82a64c06c982ee1d50863aca97856cc"
auth:
  secret: "s"
  token_ttl: 12h
events:
  - id: "evt-1"
    name: "Main Stage"
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Mode)
	assert.Equal(t, ":3000", cfg.HTTP.Addr, "default addr")
	assert.Equal(t, 3*time.Second, cfg.Mongo.Timeout.Std())
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL.Std())
	require.Len(t, cfg.Events, 1)
	assert.Equal(t, "evt-1", cfg.Events[0].ID)
}

func TestLoadRejectsBadKeyLength(t *testing.T) {
	_, err := Load(writeConfig(t, `
mongo:
  uri: "mongodb://localhost:27017"
qr:
  key: "short"
`))
	assert.ErrorContains(t, err, "qr.key")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("QR_ENCRYPTION_KEY", "00000000000000000000000000000000")
	t.Setenv("PORT", "8081")

	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)
	assert.Equal(t, "00000000000000000000000000000000", cfg.QR.Key)
	assert.Equal(t, ":8081", cfg.HTTP.Addr)
}
