// Package config provides configuration management for pak13.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/pak13/pkg/macro"
)

// DefaultConfigFile is used when neither a path nor PAK13_CONFIG is given.
const DefaultConfigFile = "config.json"

var (
	// ErrLoad is returned when the config file cannot be read.
	ErrLoad = errors.New("failed to read config file")
	// ErrParse is returned when the config file is not a valid document.
	ErrParse = errors.New("failed to parse config file")
	// ErrInvalid is returned by Validate.
	ErrInvalid = errors.New("invalid config")
)

// Compiler targets accepted in COMPILER.TARGET.
var Targets = []string{
	"es2015", "es2016", "es2017", "es2018", "es2019", "es2020",
	"es2021", "es2022", "es2023", "es2024", "esnext",
}

// Output formats accepted in COMPILER.FORMAT.
var Formats = []string{"iife", "esm"}

const (
	DefaultTarget = "es2020"
	DefaultFormat = "iife"
)

// Config holds one build's configuration. It is loaded and validated once
// and then passed by value; nothing mutates it afterwards.
type Config struct {
	Input    Input      `yaml:"INPUT" json:"INPUT"`
	Output   Output     `yaml:"OUTPUT" json:"OUTPUT"`
	Macros   MacroTable `yaml:"MACROS,omitempty" json:"MACROS,omitempty"`
	Compiler Compiler   `yaml:"COMPILER,omitempty" json:"COMPILER,omitempty"`
}

// Input lists the source files. JS files are concatenated in this order.
type Input struct {
	JS   []string `yaml:"JS" json:"JS"`
	HTML string   `yaml:"HTML" json:"HTML"`
	CSS  string   `yaml:"CSS" json:"CSS"`
}

// Output lists the four artifact paths.
type Output struct {
	Zip       string `yaml:"ZIP" json:"ZIP"`
	HTML      string `yaml:"HTML" json:"HTML"`
	DebugHTML string `yaml:"DEBUG_HTML" json:"DEBUG_HTML"`
	DebugJS   string `yaml:"DEBUG_JS" json:"DEBUG_JS"`
}

// Compiler tunes the JavaScript compiler.
type Compiler struct {
	Target string `yaml:"TARGET,omitempty" json:"TARGET,omitempty"`
	Format string `yaml:"FORMAT,omitempty" json:"FORMAT,omitempty"`
}

// TargetOrDefault returns the configured target or DefaultTarget.
func (c Compiler) TargetOrDefault() string {
	if c.Target == "" {
		return DefaultTarget
	}
	return strings.ToLower(c.Target)
}

// FormatOrDefault returns the configured format or DefaultFormat.
func (c Compiler) FormatOrDefault() string {
	if c.Format == "" {
		return DefaultFormat
	}
	return strings.ToLower(c.Format)
}

// Validate checks that all required fields are present and that every macro
// names a registered transformer.
func (c *Config) Validate() error {
	if len(c.Input.JS) == 0 {
		return fmt.Errorf("%w: INPUT.JS must list at least one file", ErrInvalid)
	}
	for i, js := range c.Input.JS {
		if js == "" {
			return fmt.Errorf("%w: INPUT.JS[%d] is empty", ErrInvalid, i)
		}
	}
	if c.Input.HTML == "" {
		return fmt.Errorf("%w: INPUT.HTML is required", ErrInvalid)
	}
	if c.Input.CSS == "" {
		return fmt.Errorf("%w: INPUT.CSS is required", ErrInvalid)
	}

	outputs := []struct {
		key, path string
	}{
		{"OUTPUT.ZIP", c.Output.Zip},
		{"OUTPUT.HTML", c.Output.HTML},
		{"OUTPUT.DEBUG_HTML", c.Output.DebugHTML},
		{"OUTPUT.DEBUG_JS", c.Output.DebugJS},
	}
	seen := make(map[string]string, len(outputs))
	inputs := make(map[string]bool, len(c.Input.JS)+2)
	for _, in := range append([]string{c.Input.HTML, c.Input.CSS}, c.Input.JS...) {
		inputs[filepath.Clean(in)] = true
	}
	for _, o := range outputs {
		if o.path == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalid, o.key)
		}
		clean := filepath.Clean(o.path)
		if inputs[clean] {
			return fmt.Errorf("%w: %s would overwrite input %s", ErrInvalid, o.key, o.path)
		}
		if prev, ok := seen[clean]; ok {
			return fmt.Errorf("%w: %s and %s both write %s", ErrInvalid, prev, o.key, o.path)
		}
		seen[clean] = o.key
	}

	if _, err := macro.Bind(c.Macros.Entries()); err != nil {
		return fmt.Errorf("%w: MACROS: %w", ErrInvalid, err)
	}

	if !slices.Contains(Targets, c.Compiler.TargetOrDefault()) {
		return fmt.Errorf("%w: COMPILER.TARGET %q (valid: %s)", ErrInvalid, c.Compiler.Target, strings.Join(Targets, ", "))
	}
	if !slices.Contains(Formats, c.Compiler.FormatOrDefault()) {
		return fmt.Errorf("%w: COMPILER.FORMAT %q (valid: %s)", ErrInvalid, c.Compiler.Format, strings.Join(Formats, ", "))
	}

	return nil
}

// DefaultConfigPath returns PAK13_CONFIG if set, otherwise config.json in
// the working directory.
func DefaultConfigPath() string {
	if p := os.Getenv("PAK13_CONFIG"); p != "" {
		return p
	}
	return DefaultConfigFile
}

// Save writes the configuration to path. Files ending in .yml or .yaml are
// written as YAML, anything else as indented JSON.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "    ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path. It does not
// validate; call Validate before use.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	cfg, err := Parse(data, isYAML(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadValid loads and validates in one step.
func LoadValid(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a config document. Unknown keys are rejected so that a typo
// in an output path is not silently ignored.
func Parse(data []byte, asYAML bool) (*Config, error) {
	var cfg Config

	if asYAML {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: document is empty", ErrParse)
			}
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		return &cfg, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: document is empty", ErrParse)
		}
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return &cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}

// ResolvePath picks the config file: an explicit path wins, then
// DefaultConfigPath.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return DefaultConfigPath()
}
