package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := writeConfig(t, "database:\n  driver: sqlite\n")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DefaultAnalysisConfig(), cfg.Analysis)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 30*time.Second, cfg.Analysis.LockTTL())
	assert.Equal(t, 10*time.Second, cfg.Analysis.LockWait())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: sqlite
analysis:
  min_responses: 30
  group_fraction: 0.33
  allow_group_overlap: false
`)
	t.Setenv("SERVER_PORT", "9999")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, 30, cfg.Analysis.MinResponses)
	assert.Equal(t, 0.33, cfg.Analysis.GroupFraction)
	assert.False(t, cfg.Analysis.AllowGroupOverlap)
	assert.Equal(t, 2, cfg.Analysis.MinGroupSize)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Mode: "debug"},
			Database: DatabaseConfig{Driver: "postgres"},
			Analysis: DefaultAnalysisConfig(),
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"driver":         func(c *Config) { c.Database.Driver = "oracle" },
		"min responses":  func(c *Config) { c.Analysis.MinResponses = 0 },
		"fraction zero":  func(c *Config) { c.Analysis.GroupFraction = 0 },
		"fraction above": func(c *Config) { c.Analysis.GroupFraction = 1.5 },
		"median split":   func(c *Config) { c.Analysis.MinMedianSplit = 1 },
		"lock ttl":       func(c *Config) { c.Analysis.LockTTLSeconds = 0 },
		"lock wait":      func(c *Config) { c.Analysis.LockWaitSeconds = -1 },
		"release secret": func(c *Config) { c.Server.Mode = "release"; c.JWT.Secret = "short" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
