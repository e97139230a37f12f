// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"slices"

	"github.com/bureau-foundation/bencode/lib/bencode"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable [Load] reads the config path
// from.
const EnvVar = "BENCODE_CONFIG"

// Profile selects a set of codec defaults.
type Profile string

const (
	// Standard matches the library's package-level defaults.
	Standard Profile = "standard"
	// Strict rejects non-canonical integers on decode and absent
	// values on encode.
	Strict Profile = "strict"
)

// Config is the master configuration for the bencode tool.
type Config struct {
	// Profile selects the base defaults (standard, strict).
	Profile Profile `yaml:"profile"`

	// Encode configures the encoder.
	Encode EncodeConfig `yaml:"encode"`

	// Decode configures the decoder.
	Decode DecodeConfig `yaml:"decode"`

	// Output configures how decoded documents are printed.
	Output OutputConfig `yaml:"output"`

	// Tools locates external programs.
	Tools ToolsConfig `yaml:"tools"`

	// StrictOverrides is applied after the base config is loaded
	// when Profile is strict.
	StrictOverrides *Overrides `yaml:"strict,omitempty"`
}

// EncodeConfig mirrors [bencode.EncOptions].
type EncodeConfig struct {
	// Canonical sorts dictionary entries by key bytes.
	// Default: true
	Canonical bool `yaml:"canonical"`

	// Bool permits booleans as i0e/i1e.
	// Default: false
	Bool bool `yaml:"bool"`

	// NoneIsError turns absent values into encode errors.
	// Default: false (standard), true (strict)
	NoneIsError bool `yaml:"none_is_error"`

	// MaxDepth bounds container nesting; 0 means the library default.
	MaxDepth int `yaml:"max_depth"`
}

// DecodeConfig mirrors [bencode.DecOptions].
type DecodeConfig struct {
	// Behavior is "auto" or "simple".
	// Default: auto
	Behavior string `yaml:"behavior"`

	// Strict rejects leading zeros, "-0" and leading '+'.
	// Default: false (standard), true (strict)
	Strict bool `yaml:"strict"`

	// MaxDepth bounds container nesting; 0 means the library default.
	MaxDepth int `yaml:"max_depth"`
}

// OutputConfig configures document output.
type OutputConfig struct {
	// Format is json, yaml, or cbor.
	// Default: json
	Format string `yaml:"format"`

	// Color is auto, always, or never. Auto colors only terminals.
	// Default: auto
	Color string `yaml:"color"`

	// Compact disables JSON indentation.
	Compact bool `yaml:"compact"`
}

// ToolsConfig locates external programs.
type ToolsConfig struct {
	// JQ is the jq binary used for filter expressions.
	// Default: jq (found in PATH)
	JQ string `yaml:"jq"`
}

// Overrides contains fields a profile section can override. Nil
// fields keep the base value.
type Overrides struct {
	Encode *EncodeOverrides `yaml:"encode,omitempty"`
	Decode *DecodeOverrides `yaml:"decode,omitempty"`
}

// EncodeOverrides overrides [EncodeConfig] fields.
type EncodeOverrides struct {
	Canonical   *bool `yaml:"canonical,omitempty"`
	Bool        *bool `yaml:"bool,omitempty"`
	NoneIsError *bool `yaml:"none_is_error,omitempty"`
	MaxDepth    *int  `yaml:"max_depth,omitempty"`
}

// DecodeOverrides overrides [DecodeConfig] fields.
type DecodeOverrides struct {
	Behavior *string `yaml:"behavior,omitempty"`
	Strict   *bool   `yaml:"strict,omitempty"`
	MaxDepth *int    `yaml:"max_depth,omitempty"`
}

// Default returns the default configuration: canonical encoding, Auto
// decoding, indented JSON output.
func Default() *Config {
	return &Config{
		Profile: Standard,
		Encode: EncodeConfig{
			Canonical: true,
		},
		Decode: DecodeConfig{
			Behavior: bencode.Auto.String(),
		},
		Output: OutputConfig{
			Format: "json",
			Color:  "auto",
		},
		Tools: ToolsConfig{
			JQ: "jq",
		},
	}
}

// Load loads configuration from the BENCODE_CONFIG environment
// variable. If it is not set, Load fails; callers that can run
// without a file use [Default] instead.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your bencode.yaml config file, or use --config flag", EnvVar)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, applies the
// profile's overrides, and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyProfileOverrides()
	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		// An empty file leaves the defaults in place.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyProfileOverrides applies the strict section. Without one, the
// strict profile turns on strict decoding and absent-value errors.
func (c *Config) applyProfileOverrides() {
	if c.Profile != Strict {
		return
	}

	overrides := c.StrictOverrides
	if overrides == nil {
		enabled := true
		overrides = &Overrides{
			Encode: &EncodeOverrides{NoneIsError: &enabled},
			Decode: &DecodeOverrides{Strict: &enabled},
		}
	}

	if encode := overrides.Encode; encode != nil {
		applyOverride(&c.Encode.Canonical, encode.Canonical)
		applyOverride(&c.Encode.Bool, encode.Bool)
		applyOverride(&c.Encode.NoneIsError, encode.NoneIsError)
		applyOverride(&c.Encode.MaxDepth, encode.MaxDepth)
	}

	if decode := overrides.Decode; decode != nil {
		applyOverride(&c.Decode.Behavior, decode.Behavior)
		applyOverride(&c.Decode.Strict, decode.Strict)
		applyOverride(&c.Decode.MaxDepth, decode.MaxDepth)
	}
}

func applyOverride[T any](field *T, override *T) {
	if override != nil {
		*field = *override
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in tool paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Tools.JQ = expandVars(c.Tools.JQ, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var (
	outputFormats = []string{"json", "yaml", "cbor"}
	colorModes    = []string{"auto", "always", "never"}
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Profile != Standard && c.Profile != Strict {
		errs = append(errs, fmt.Errorf("invalid profile: %s", c.Profile))
	}

	if _, err := bencode.ParseBehavior(c.Decode.Behavior); err != nil {
		errs = append(errs, fmt.Errorf("decode.behavior: %w", err))
	}

	if c.Encode.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("encode.max_depth must not be negative"))
	}
	if c.Decode.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("decode.max_depth must not be negative"))
	}

	if !slices.Contains(outputFormats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format must be one of: %v", outputFormats))
	}
	if !slices.Contains(colorModes, c.Output.Color) {
		errs = append(errs, fmt.Errorf("output.color must be one of: %v", colorModes))
	}

	if c.Tools.JQ == "" {
		errs = append(errs, fmt.Errorf("tools.jq is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EncOptions returns the encoder options the config describes.
func (c *Config) EncOptions() bencode.EncOptions {
	return bencode.EncOptions{
		Canonical:   c.Encode.Canonical,
		Bool:        c.Encode.Bool,
		NoneIsError: c.Encode.NoneIsError,
		MaxDepth:    c.Encode.MaxDepth,
	}
}

// DecOptions returns the decoder options the config describes. It
// fails only on a behavior name Validate would also reject.
func (c *Config) DecOptions() (bencode.DecOptions, error) {
	behavior, err := bencode.ParseBehavior(c.Decode.Behavior)
	if err != nil {
		return bencode.DecOptions{}, err
	}
	return bencode.DecOptions{
		Behavior: behavior,
		Strict:   c.Decode.Strict,
		MaxDepth: c.Decode.MaxDepth,
	}, nil
}

// JQPath returns the full path to the jq binary. A configured path
// containing a separator is used as-is; a bare name is looked up in
// PATH.
func (c *Config) JQPath() (string, error) {
	path, err := exec.LookPath(c.Tools.JQ)
	if err != nil {
		return "", fmt.Errorf("%s not found (set tools.jq in the config file): %w", c.Tools.JQ, err)
	}
	return path, nil
}
