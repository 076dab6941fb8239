// Package alfred models the JSON documents Alfred reads from workflow
// scripts: script filter feedback and the alfredworkflow JSON utility object.
package alfred

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"alfredflow/internal/core"
)

// Rerun bounds accepted by Alfred, in seconds.
const (
	MinRerun = 0.1
	MaxRerun = 5.0
)

var (
	ErrInvalidRerun    = errors.New("rerun must be between 0.1 and 5.0 seconds")
	ErrMissingTitle    = errors.New("item title is required")
	ErrInvalidItemType = errors.New("item type must be default, file or file:skipcheck")
	ErrInvalidModifier = errors.New("modifier must combine cmd, alt, ctrl, shift and fn")
	ErrDuplicateUID    = errors.New("item uid must be unique")
)

var itemTypes = map[string]bool{
	"":               true,
	"default":        true,
	"file":           true,
	"file:skipcheck": true,
}

var modifierKeys = map[string]bool{
	"cmd":   true,
	"alt":   true,
	"ctrl":  true,
	"shift": true,
	"fn":    true,
}

// VariableMap merges variables into the flat object Alfred expects.
// It returns nil when nothing is named so the field is omitted.
func VariableMap(vars ...core.Variable) map[string]string {
	var m map[string]string
	for _, v := range vars {
		for name, value := range v.ToMap() {
			if m == nil {
				m = make(map[string]string)
			}
			m[name] = value
		}
	}
	return m
}

// Icon references an image, a file's icon, or a UTI's icon.
type Icon struct {
	Type string `json:"type,omitempty"`
	Path string `json:"path"`
}

// Text holds the copy and large type overrides of an item.
type Text struct {
	Copy      string `json:"copy,omitempty"`
	LargeType string `json:"largetype,omitempty"`
}

// Mod overrides an item while a modifier combination is held.
type Mod struct {
	Valid     *bool             `json:"valid,omitempty"`
	Arg       string            `json:"arg,omitempty"`
	Subtitle  string            `json:"subtitle,omitempty"`
	Icon      *Icon             `json:"icon,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
}

// Item is a single script filter result.
type Item struct {
	UID          string            `json:"uid,omitempty"`
	Title        string            `json:"title"`
	Subtitle     string            `json:"subtitle,omitempty"`
	Arg          string            `json:"arg,omitempty"`
	Autocomplete string            `json:"autocomplete,omitempty"`
	Match        string            `json:"match,omitempty"`
	Type         string            `json:"type,omitempty"`
	Valid        *bool             `json:"valid,omitempty"` // nil = Alfred default (true)
	Icon         *Icon             `json:"icon,omitempty"`
	Text         *Text             `json:"text,omitempty"`
	QuickLookURL string            `json:"quicklookurl,omitempty"`
	Mods         map[string]Mod    `json:"mods,omitempty"`
	Variables    map[string]string `json:"variables,omitempty"`
}

// IsValid reports whether Alfred will action the item.
func (it Item) IsValid() bool {
	return it.Valid == nil || *it.Valid
}

// Validate checks the item against Alfred's schema.
func (it Item) Validate() error {
	var errs []error
	if it.Title == "" {
		errs = append(errs, ErrMissingTitle)
	}
	if !itemTypes[it.Type] {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidItemType, it.Type))
	}
	for _, key := range sortedKeys(it.Mods) {
		if !validModifier(key) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidModifier, key))
		}
	}
	return errors.Join(errs...)
}

func validModifier(key string) bool {
	if key == "" {
		return false
	}
	seen := make(map[string]bool)
	for _, part := range strings.Split(key, "+") {
		if !modifierKeys[part] || seen[part] {
			return false
		}
		seen[part] = true
	}
	return true
}

// ScriptFilter is the document a script filter writes to stdout.
type ScriptFilter struct {
	Rerun     float64           `json:"rerun,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
	Items     []Item            `json:"items"`
}

func NewScriptFilter() *ScriptFilter {
	return &ScriptFilter{Items: []Item{}}
}

// SetRerun asks Alfred to rerun the script after the given interval.
func (sf *ScriptFilter) SetRerun(seconds float64) error {
	if seconds < MinRerun || seconds > MaxRerun {
		return fmt.Errorf("%w, got %v", ErrInvalidRerun, seconds)
	}
	sf.Rerun = seconds
	return nil
}

// AddVariables sets session variables passed to every item's actions.
// Empty variables are ignored; later names override earlier ones.
func (sf *ScriptFilter) AddVariables(vars ...core.Variable) {
	for name, value := range VariableMap(vars...) {
		if sf.Variables == nil {
			sf.Variables = make(map[string]string)
		}
		sf.Variables[name] = value
	}
}

func (sf *ScriptFilter) AddItems(items ...Item) {
	sf.Items = append(sf.Items, items...)
}

// Validate checks the rerun interval, every item, and that non-empty uids
// are not repeated. Problems are reported with the item index.
func (sf *ScriptFilter) Validate() error {
	var errs []error
	if sf.Rerun != 0 && (sf.Rerun < MinRerun || sf.Rerun > MaxRerun) {
		errs = append(errs, ErrInvalidRerun)
	}
	uids := make(map[string]int)
	for i, it := range sf.Items {
		if err := it.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
		}
		if it.UID == "" {
			continue
		}
		if first, ok := uids[it.UID]; ok {
			errs = append(errs, fmt.Errorf("item %d: %w: %q already used by item %d", i, ErrDuplicateUID, it.UID, first))
			continue
		}
		uids[it.UID] = i
	}
	return errors.Join(errs...)
}

// Arg is rendered as a string for one value and as a list for several.
type Arg []string

func (a Arg) MarshalJSON() ([]byte, error) {
	if len(a) == 1 {
		return json.Marshal(a[0])
	}
	return json.Marshal([]string(a))
}

// JSONObject is the alfredworkflow envelope understood by Alfred's
// JSON utility and by Run Script outputs.
type JSONObject struct {
	Arg       Arg
	Config    map[string]any
	Variables map[string]string
}

// AddVariables merges variables into the object. Empty variables are ignored.
func (o *JSONObject) AddVariables(vars ...core.Variable) {
	for name, value := range VariableMap(vars...) {
		if o.Variables == nil {
			o.Variables = make(map[string]string)
		}
		o.Variables[name] = value
	}
}

func (o JSONObject) MarshalJSON() ([]byte, error) {
	type body struct {
		Arg       Arg               `json:"arg,omitempty"`
		Config    map[string]any    `json:"config,omitempty"`
		Variables map[string]string `json:"variables,omitempty"`
	}
	return json.Marshal(struct {
		AlfredWorkflow body `json:"alfredworkflow"`
	}{body{Arg: o.Arg, Config: o.Config, Variables: o.Variables}})
}
