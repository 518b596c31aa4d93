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
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// withBase returns the defaults with an explicit line base, the minimum a
// valid configuration needs.
func withBase(base int) Engine {
	cfg := Default()
	cfg.LineBase = &base
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Nil(t, cfg.LineBase, "the line base must never default")
	assert.Equal(t, 30, cfg.MinPartialSearchLength)
	assert.Equal(t, 20, cfg.MinPartialMatchLength)
	assert.False(t, cfg.EnableFuzzy)
	assert.Equal(t, 0.75, cfg.FuzzyMinSimilarity)
	assert.Equal(t, 200, cfg.ContextRadius)
	assert.Equal(t, "", cfg.Expand)
	assert.Equal(t, 1500, cfg.MaxSpanLength)
	assert.ErrorContains(t, cfg.Validate(), "lineBase must be set")
	assert.NoError(t, withBase(0).Validate())
	assert.NoError(t, withBase(1).Validate())
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	path := writeConfig(t, "lineBase: 1\nenableFuzzy: true\nexpand: sentence\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, *cfg.LineBase)
	assert.True(t, cfg.EnableFuzzy)
	assert.Equal(t, "sentence", cfg.Expand)
	// Untouched keys keep their defaults.
	assert.Equal(t, 30, cfg.MinPartialSearchLength)
	assert.Equal(t, 1500, cfg.MaxSpanLength)
}

func TestLoadRequiresExplicitLineBase(t *testing.T) {
	// No file, no env, no caller override: there is no base to fall back on.
	_, err := Load("")
	assert.ErrorContains(t, err, "lineBase must be set")

	// A file that sets other keys but omits lineBase is just as incomplete.
	path := writeConfig(t, "enableFuzzy: true\n")
	_, err = Load(path)
	assert.ErrorContains(t, err, "lineBase must be set")
}

func TestReadEmptyPathKeepsDefaults(t *testing.T) {
	cfg, err := Read("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "lineBase: [unclosed\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := writeConfig(t, "lineBase: 0\ncontextRadius: 50\n")
	t.Setenv("HLRES_LINE_BASE", "1")
	t.Setenv("HLRES_CONTEXT_RADIUS", "75")
	t.Setenv("HLRES_ENABLE_FUZZY", "true")
	t.Setenv("HLRES_FUZZY_MIN_SIMILARITY", "0.9")
	t.Setenv("HLRES_EXPAND", "paragraph")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, *cfg.LineBase)
	assert.Equal(t, 75, cfg.ContextRadius)
	assert.True(t, cfg.EnableFuzzy)
	assert.Equal(t, 0.9, cfg.FuzzyMinSimilarity)
	assert.Equal(t, "paragraph", cfg.Expand)
}

func TestEnvCanSupplyLineBase(t *testing.T) {
	t.Setenv("HLRES_LINE_BASE", "1")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1, *cfg.LineBase)
}

func TestUnparsableEnvValueIsIgnored(t *testing.T) {
	t.Setenv("HLRES_LINE_BASE", "0")
	t.Setenv("HLRES_CONTEXT_RADIUS", "not-a-number")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.ContextRadius)
}

func TestValidateRejections(t *testing.T) {
	two := 2
	tests := []struct {
		name   string
		mutate func(*Engine)
		msg    string
	}{
		{"missing line base", func(c *Engine) { c.LineBase = nil }, "lineBase must be set"},
		{"line base out of range", func(c *Engine) { c.LineBase = &two }, "lineBase must be 0 or 1"},
		{"zero match length", func(c *Engine) { c.MinPartialMatchLength = 0 }, "minPartialMatchLength"},
		{"search shorter than match", func(c *Engine) { c.MinPartialSearchLength = 10 }, "minPartialSearchLength"},
		{"similarity above one", func(c *Engine) { c.FuzzyMinSimilarity = 1.5 }, "fuzzyMinSimilarity"},
		{"similarity zero", func(c *Engine) { c.FuzzyMinSimilarity = 0 }, "fuzzyMinSimilarity"},
		{"unknown expand", func(c *Engine) { c.Expand = "clause" }, "expand"},
		{"zero max span", func(c *Engine) { c.MaxSpanLength = 0 }, "maxSpanLength"},
		{"negative radius", func(c *Engine) { c.ContextRadius = -1 }, "contextRadius"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := withBase(0)
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.msg)
		})
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := writeConfig(t, "lineBase: 3\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "lineBase must be 0 or 1")
}
