// Package config loads engine configuration from YAML files with
// environment-variable overrides, and validates it before the engine runs.
//
// The line-numbering base has no default on purpose: callers disagree on 0-
// versus 1-based lines, so every configuration must state its convention
// explicitly.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Engine is the full engine configuration.
type Engine struct {
	// LineBase is the line-numbering convention: 0 or 1. Required.
	LineBase *int `yaml:"lineBase"`

	// Free-text finder knobs.
	MinPartialSearchLength int     `yaml:"minPartialSearchLength"`
	MinPartialMatchLength  int     `yaml:"minPartialMatchLength"`
	EnableFuzzy            bool    `yaml:"enableFuzzy"`
	FuzzyMinSimilarity     float64 `yaml:"fuzzyMinSimilarity"`
	ContextRadius          int     `yaml:"contextRadius"`

	// Expand grows accepted matches to "sentence" or "paragraph" edges;
	// empty leaves matches as found.
	Expand string `yaml:"expand"`

	// MaxSpanLength bounds accepted quoted text, in characters.
	MaxSpanLength int `yaml:"maxSpanLength"`
}

// Default returns the documented defaults. The line base is deliberately
// absent: it must come from the YAML file, the environment, or the caller,
// and Validate rejects a configuration that never received one.
func Default() Engine {
	return Engine{
		MinPartialSearchLength: 30,
		MinPartialMatchLength:  20,
		EnableFuzzy:            false,
		FuzzyMinSimilarity:     0.75,
		ContextRadius:          200,
		Expand:                 "",
		MaxSpanLength:          1500,
	}
}

// Load reads a YAML file over the defaults, applies HLRES_* environment
// overrides, and validates the result. An empty path loads defaults plus
// environment only; either way the line base must have been supplied
// somewhere or Load fails.
func Load(path string) (Engine, error) {
	cfg, err := Read(path)
	if err != nil {
		return Engine{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Engine{}, err
	}
	return cfg, nil
}

// Read loads defaults, the optional YAML file, and environment overrides
// without validating, for hosts that layer their own overrides (such as
// command-line flags) on top before calling Validate.
func Read(path string) (Engine, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Engine{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Engine{}, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Validate checks the configuration for values the engine cannot run with.
func (e Engine) Validate() error {
	if e.LineBase == nil {
		return fmt.Errorf("config: lineBase must be set explicitly (0 or 1)")
	}
	if *e.LineBase != 0 && *e.LineBase != 1 {
		return fmt.Errorf("config: lineBase must be 0 or 1, got %d", *e.LineBase)
	}
	if e.MinPartialMatchLength < 1 {
		return fmt.Errorf("config: minPartialMatchLength must be >= 1, got %d", e.MinPartialMatchLength)
	}
	if e.MinPartialSearchLength < e.MinPartialMatchLength {
		return fmt.Errorf("config: minPartialSearchLength (%d) must be >= minPartialMatchLength (%d)",
			e.MinPartialSearchLength, e.MinPartialMatchLength)
	}
	if e.FuzzyMinSimilarity <= 0 || e.FuzzyMinSimilarity > 1 {
		return fmt.Errorf("config: fuzzyMinSimilarity must be in (0,1], got %g", e.FuzzyMinSimilarity)
	}
	switch e.Expand {
	case "", "sentence", "paragraph":
	default:
		return fmt.Errorf("config: expand must be empty, %q, or %q, got %q", "sentence", "paragraph", e.Expand)
	}
	if e.MaxSpanLength < 1 {
		return fmt.Errorf("config: maxSpanLength must be >= 1, got %d", e.MaxSpanLength)
	}
	if e.ContextRadius < 0 {
		return fmt.Errorf("config: contextRadius must be >= 0, got %d", e.ContextRadius)
	}
	return nil
}

func applyEnvOverrides(cfg *Engine) {
	if v, ok := envInt("HLRES_LINE_BASE"); ok {
		cfg.LineBase = &v
	}
	if v, ok := envInt("HLRES_MIN_PARTIAL_SEARCH_LENGTH"); ok {
		cfg.MinPartialSearchLength = v
	}
	if v, ok := envInt("HLRES_MIN_PARTIAL_MATCH_LENGTH"); ok {
		cfg.MinPartialMatchLength = v
	}
	if v, ok := envBool("HLRES_ENABLE_FUZZY"); ok {
		cfg.EnableFuzzy = v
	}
	if v, ok := envFloat("HLRES_FUZZY_MIN_SIMILARITY"); ok {
		cfg.FuzzyMinSimilarity = v
	}
	if v, ok := envInt("HLRES_CONTEXT_RADIUS"); ok {
		cfg.ContextRadius = v
	}
	if v := os.Getenv("HLRES_EXPAND"); v != "" {
		cfg.Expand = v
	}
	if v, ok := envInt("HLRES_MAX_SPAN_LENGTH"); ok {
		cfg.MaxSpanLength = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func envFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
