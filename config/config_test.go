package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orsinium-labs/jockey/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.MaxJobs)
	assert.Equal(t, 30*time.Second, cfg.DrainTimeout)
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jockey.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_jobs: 4\nmax_threads: 2\ndrain_timeout: 5s\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.MaxJobs)
	assert.Equal(t, 2, cfg.MaxThreads)
	assert.Equal(t, 5*time.Second, cfg.DrainTimeout)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
