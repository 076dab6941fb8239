// Package config handles YAML workflow configuration parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"alfredflow/internal/core"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Workflow WorkflowConfig `yaml:"workflow"`

	// Dir is the directory of the loaded file; relative data paths resolve against it.
	Dir string `yaml:"-"`
}

// WorkflowConfig describes the output of a single Alfred script filter.
type WorkflowConfig struct {
	Name      string           `yaml:"name"`
	Rerun     float64          `yaml:"rerun,omitempty"` // seconds, 0 = no rerun
	Variables []VariableConfig `yaml:"variables,omitempty"`
	Items     []ItemConfig     `yaml:"items,omitempty"`
	Data      []DataConfig     `yaml:"data,omitempty"`

	// Extract maps variable names to JSONPath expressions evaluated
	// against the incoming Alfred payload.
	Extract map[string]string `yaml:"extract,omitempty"`

	// Config is emitted as alfredworkflow.config in object mode.
	Config map[string]string `yaml:"config,omitempty"`
}

// VariableConfig is an optional name/value pair. Either key may be omitted.
type VariableConfig struct {
	Name  *string `yaml:"name,omitempty"`
	Value *string `yaml:"value,omitempty"`
}

// Variable converts the config entry into a core.Variable, keeping
// absent keys absent.
func (vc VariableConfig) Variable() core.Variable {
	switch {
	case vc.Name == nil:
		return core.EmptyVariable()
	case vc.Value == nil:
		return core.NamedVariable(*vc.Name)
	default:
		return core.Var(*vc.Name, *vc.Value)
	}
}

// Variables converts a list of config entries, preserving order.
func Variables(configs []VariableConfig) []core.Variable {
	vars := make([]core.Variable, 0, len(configs))
	for _, vc := range configs {
		vars = append(vars, vc.Variable())
	}
	return vars
}

// ItemConfig defines a single script filter result.
type ItemConfig struct {
	UID          string               `yaml:"uid,omitempty"`
	Title        string               `yaml:"title"`
	Subtitle     string               `yaml:"subtitle,omitempty"`
	Arg          string               `yaml:"arg,omitempty"`
	Autocomplete string               `yaml:"autocomplete,omitempty"`
	Match        string               `yaml:"match,omitempty"`
	Type         string               `yaml:"type,omitempty"`
	Valid        *bool                `yaml:"valid,omitempty"`
	Icon         *IconConfig          `yaml:"icon,omitempty"`
	Text         *TextConfig          `yaml:"text,omitempty"`
	QuickLookURL string               `yaml:"quicklookurl,omitempty"`
	Mods         map[string]ModConfig `yaml:"mods,omitempty"`
	Variables    []VariableConfig     `yaml:"variables,omitempty"`
}

type IconConfig struct {
	Type string `yaml:"type,omitempty"` // "fileicon", "filetype" or empty
	Path string `yaml:"path"`
}

type TextConfig struct {
	Copy      string `yaml:"copy,omitempty"`
	LargeType string `yaml:"largetype,omitempty"`
}

// ModConfig overrides item fields while a modifier key is held.
type ModConfig struct {
	Valid     *bool            `yaml:"valid,omitempty"`
	Arg       string           `yaml:"arg,omitempty"`
	Subtitle  string           `yaml:"subtitle,omitempty"`
	Variables []VariableConfig `yaml:"variables,omitempty"`
}

// DataConfig generates one item per row of a CSV or JSON file.
// Row fields are available to Item as ${data.<name>.<field>}.
type DataConfig struct {
	Name string     `yaml:"name"`
	File string     `yaml:"file"`
	Item ItemConfig `yaml:"item"`
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// Parse parses YAML configuration held in memory.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &cfg, nil
}

// Validate reports structural problems that would otherwise surface
// only when the data files are loaded. All problems are joined.
func (c *Config) Validate() error {
	var errs []error
	seen := make(map[string]bool)
	for i, d := range c.Workflow.Data {
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("data[%d]: name is required", i))
		} else if seen[d.Name] {
			errs = append(errs, fmt.Errorf("data[%d]: duplicate name %q", i, d.Name))
		}
		seen[d.Name] = true
		if d.File == "" {
			errs = append(errs, fmt.Errorf("data[%d]: file is required", i))
		}
	}
	if c.Workflow.Rerun < 0 {
		errs = append(errs, fmt.Errorf("rerun must not be negative, got %v", c.Workflow.Rerun))
	}
	names := make([]string, 0, len(c.Workflow.Extract))
	for name := range c.Workflow.Extract {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if name == "" {
			errs = append(errs, errors.New("extract: variable name is required"))
		} else if c.Workflow.Extract[name] == "" {
			errs = append(errs, fmt.Errorf("extract.%s: path is required", name))
		}
	}
	return errors.Join(errs...)
}
