package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dualstream/stream"
)

func TestLoadConfigWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	cfg := LoadConfig()
	assert.Equal(t, DefaultConfig(), cfg)

	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	var saved Config
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, *DefaultConfig(), saved)
}

func TestLoadConfigMergesMissingFields(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`{"left_rate": 3, "right_rate": 0}`), 0644))

	cfg := LoadConfig()
	assert.Equal(t, 3.0, cfg.LeftRate)
	assert.Equal(t, 0.0, cfg.RightRate, "a zero rate is kept as paused")
	assert.Equal(t, string(stream.SharedSource), cfg.SourceMode)
	assert.Equal(t, stream.DefaultMinChunk, cfg.MinChunk)
	assert.Equal(t, stream.DefaultMaxChunk, cfg.MaxChunk)
	assert.Equal(t, RenderPlain, cfg.RenderMode)
	assert.Equal(t, 200, cfg.LogLimit)
}

func TestLoadConfigBadJSONFallsBack(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`{not json`), 0644))

	assert.Equal(t, DefaultConfig(), LoadConfig())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		check    func(*testing.T, *Config)
		problems int
	}{
		{
			name:   "Valid",
			mutate: func(c *Config) {},
			check:  func(t *testing.T, c *Config) { assert.Equal(t, DefaultConfig(), c) },
		},
		{
			name:     "Unknown source mode",
			mutate:   func(c *Config) { c.SourceMode = "mirrored" },
			check:    func(t *testing.T, c *Config) { assert.Equal(t, "shared", c.SourceMode) },
			problems: 1,
		},
		{
			name:   "Chunk bounds",
			mutate: func(c *Config) { c.MinChunk = -1; c.MaxChunk = 1 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 2, c.MinChunk)
				assert.Equal(t, 2, c.MaxChunk)
			},
			problems: 2,
		},
		{
			name:     "Render mode is case insensitive",
			mutate:   func(c *Config) { c.RenderMode = "Glamour" },
			check:    func(t *testing.T, c *Config) { assert.Equal(t, RenderGlamour, c.RenderMode) },
			problems: 0,
		},
		{
			name:     "Unknown render mode",
			mutate:   func(c *Config) { c.RenderMode = "html" },
			check:    func(t *testing.T, c *Config) { assert.Equal(t, RenderPlain, c.RenderMode) },
			problems: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			problems := cfg.Normalize()
			assert.Len(t, problems, tt.problems)
			tt.check(t, cfg)
		})
	}
}

func TestReferenceText(t *testing.T) {
	cfg := DefaultConfig()
	text, err := cfg.ReferenceText()
	require.NoError(t, err)
	assert.Equal(t, stream.ReferenceText, text)

	path := filepath.Join(t.TempDir(), "corpus.md")
	require.NoError(t, os.WriteFile(path, []byte("custom corpus"), 0644))
	cfg.ReferenceFile = path
	text, err = cfg.ReferenceText()
	require.NoError(t, err)
	assert.Equal(t, "custom corpus", text)

	empty := filepath.Join(t.TempDir(), "empty.md")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	cfg.ReferenceFile = empty
	_, err = cfg.ReferenceText()
	assert.True(t, errors.Is(err, ErrEmptyReference))

	cfg.ReferenceFile = filepath.Join(t.TempDir(), "missing.md")
	_, err = cfg.ReferenceText()
	assert.Error(t, err)
}

func TestControllerOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SourceMode = string(stream.IndependentSource)
	cfg.Seed = 9

	opts, err := cfg.ControllerOptions()
	require.NoError(t, err)
	assert.Equal(t, stream.IndependentSource, opts.Mode)
	assert.Equal(t, []float64{20, 8}, opts.Rates)
	assert.Equal(t, uint64(9), opts.Seed)
	assert.Len(t, opts.Names, 2)
}
