package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8090", cfg.Address())
	assert.Empty(t, cfg.Backend.BaseURL)
	assert.Equal(t, 1000, cfg.Ingest.ChunkSize)
	assert.Equal(t, 100, cfg.Ingest.OverlapSize)

	require.Len(t, cfg.Projects, 2)
	assert.True(t, cfg.HasProject("1"))
	assert.True(t, cfg.HasProject("2"))
	assert.False(t, cfg.HasProject("3"))
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: 0.0.0.0
  port: 9000
backend:
  base_url: http://localhost:5000
ingest:
  chunk_size: 512
projects:
  - id: "alpha"
    name: "Alpha"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Address())
	assert.Equal(t, "http://localhost:5000", cfg.Backend.BaseURL)
	assert.Equal(t, 512, cfg.Ingest.ChunkSize)
	// Unset keys keep their defaults
	assert.Equal(t, 100, cfg.Ingest.OverlapSize)

	require.Len(t, cfg.Projects, 1)
	assert.True(t, cfg.HasProject("alpha"))
	assert.False(t, cfg.HasProject("1"))
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
