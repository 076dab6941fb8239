package core

import (
	"encoding/json"
	"fmt"
)

// Variable is an optional name/value pair exported to Alfred as a
// single-entry mapping, or as an empty mapping when it has no name.
// A Variable is immutable once created.
type Variable struct {
	name     string
	value    string
	hasName  bool
	hasValue bool
}

// NewVariable creates a Variable from zero, one or two arguments:
// the name followed by the value. It panics with more than two arguments.
func NewVariable(args ...string) Variable {
	switch len(args) {
	case 0:
		return EmptyVariable()
	case 1:
		return NamedVariable(args[0])
	case 2:
		return Var(args[0], args[1])
	default:
		panic(fmt.Sprintf("core.NewVariable: expected at most 2 arguments, got %d", len(args)))
	}
}

// EmptyVariable returns a Variable with neither name nor value.
func EmptyVariable() Variable {
	return Variable{}
}

// NamedVariable returns a Variable with a name and no value.
func NamedVariable(name string) Variable {
	return Variable{name: name, hasName: true}
}

// Var returns a Variable holding both name and value.
func Var(name, value string) Variable {
	return Variable{name: name, value: value, hasName: true, hasValue: true}
}

func (v Variable) Name() (string, bool) {
	return v.name, v.hasName
}

func (v Variable) Value() (string, bool) {
	return v.value, v.hasValue
}

// IsEmpty reports whether the variable has no name and therefore exports nothing.
func (v Variable) IsEmpty() bool {
	return !v.hasName
}

// ToMap returns {name: value}, or an empty map when the name is absent.
// A missing value is exported as "". The result is a fresh map on every call.
func (v Variable) ToMap() map[string]string {
	if !v.hasName {
		return map[string]string{}
	}
	return map[string]string{v.name: v.value}
}

func (v Variable) String() string {
	if !v.hasName {
		return "{}"
	}
	return fmt.Sprintf("%s=%q", v.name, v.value)
}

func (v Variable) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToMap())
}

func (v Variable) MarshalYAML() (interface{}, error) {
	return v.ToMap(), nil
}
