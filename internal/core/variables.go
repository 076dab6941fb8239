// Package core defines the variable types shared by alfredflow packages.
package core

import "sort"

// Variables provides shared state keyed by variable name.
type Variables interface {
	Get(name string) (string, bool)
	Set(name, value string)
}

// MapVariables is a simple map-based Variables implementation.
// It is not safe for concurrent mutation.
type MapVariables struct {
	data map[string]string
}

func NewVariables() *MapVariables {
	return &MapVariables{data: make(map[string]string)}
}

func (v *MapVariables) Get(name string) (string, bool) {
	val, ok := v.data[name]
	return val, ok
}

func (v *MapVariables) Set(name, value string) {
	v.data[name] = value
}

// Add merges each variable's mapping. Empty variables contribute nothing
// and later variables override earlier ones.
func (v *MapVariables) Add(vars ...Variable) {
	for _, variable := range vars {
		v.Merge(variable.ToMap())
	}
}

func (v *MapVariables) Merge(m map[string]string) {
	for name, value := range m {
		v.data[name] = value
	}
}

func (v *MapVariables) Len() int {
	return len(v.data)
}

// Names returns the variable names in sorted order.
func (v *MapVariables) Names() []string {
	names := make([]string, 0, len(v.data))
	for name := range v.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToMap returns a copy of the stored variables.
func (v *MapVariables) ToMap() map[string]string {
	m := make(map[string]string, len(v.data))
	for name, value := range v.data {
		m[name] = value
	}
	return m
}

// VariablesFromMap converts a mapping into variables sorted by name.
func VariablesFromMap(m map[string]string) []Variable {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := make([]Variable, 0, len(names))
	for _, name := range names {
		vars = append(vars, Var(name, m[name]))
	}
	return vars
}
