package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "local", cfg.Media.Backend)
	assert.Equal(t, []string{"png", "jpg", "jpeg", "gif"}, cfg.Media.AllowedExtensions)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server_port: "9000"
db_driver: sqlite
database_dsn: "file::memory:"
media:
  backend: minio
  allowed_extensions: [png]
  minio:
    endpoint: minio:9000
    bucket: posters
`)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("MEDIA_ALLOWED_EXTENSIONS", "png, webp ,")
	t.Setenv("MINIO_ACCESS_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "file::memory:", cfg.DatabaseDSN)
	assert.Equal(t, "minio", cfg.Media.Backend)
	assert.Equal(t, []string{"png", "webp"}, cfg.Media.AllowedExtensions)
	assert.Equal(t, "minio:9000", cfg.Media.MinIO.Endpoint)
	assert.Equal(t, "posters", cfg.Media.MinIO.Bucket)
	assert.Equal(t, "key", cfg.Media.MinIO.AccessKey)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "bad driver", body: "db_driver: oracle\n"},
		{name: "bad media backend", body: "media:\n  backend: ftp\n"},
		{name: "malformed yaml", body: "server_port: [\n"},
		{name: "token lifetime is not configurable", body: "token_ttl: 24h\n"},
		{name: "unknown key", body: "server_prot: \"9000\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", writeConfig(t, tt.body))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeConfig(t, ""))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
}
