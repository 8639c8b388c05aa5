package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := Load()

		assert.Equal(t, "0.0.0.0", cfg.ServerHost)
		assert.Equal(t, 8080, cfg.ServerPort)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 64*1024, cfg.ChunkSize)
		assert.Equal(t, "blob", cfg.MetadataBackend)
		assert.Equal(t, "file://./data/encrypted?create_dir=1", cfg.StorageBucketURL)
		assert.Equal(t, "filevault", cfg.MetricsNamespace)
		assert.True(t, cfg.MetricsEnabled)
		assert.False(t, cfg.CORSEnabled)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("CHUNK_SIZE", "4096")
		t.Setenv("METADATA_BACKEND", "postgres")
		t.Setenv("ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

		cfg := Load()

		assert.Equal(t, 9090, cfg.ServerPort)
		assert.Equal(t, 4096, cfg.ChunkSize)
		assert.Equal(t, "postgres", cfg.MetadataBackend)
		assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.EncryptionKey)
	})
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		want     string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.want, cfg.GetGinMode())
		})
	}
}
