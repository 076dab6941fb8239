package core

import (
	"encoding/json"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestVariable_NameAndValue(t *testing.T) {
	v := NewVariable("fruit", "tomato")

	got := v.ToMap()
	expected := map[string]string{"fruit": "tomato"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestVariable_Empty(t *testing.T) {
	v := NewVariable()

	got := v.ToMap()
	if got == nil {
		t.Fatal("expected non-nil map")
	}
	if len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
	if !v.IsEmpty() {
		t.Error("expected IsEmpty() to be true")
	}
}

func TestVariable_ToMap(t *testing.T) {
	tests := []struct {
		name     string
		v        Variable
		expected map[string]string
	}{
		{"empty", EmptyVariable(), map[string]string{}},
		{"name only", NamedVariable("fruit"), map[string]string{"fruit": ""}},
		{"name and value", Var("fruit", "tomato"), map[string]string{"fruit": "tomato"}},
		{"empty value", Var("fruit", ""), map[string]string{"fruit": ""}},
		{"empty name", Var("", "tomato"), map[string]string{"": "tomato"}},
		{"unicode", Var("légume", "poireau 🥬"), map[string]string{"légume": "poireau 🥬"}},
		{"one arg", NewVariable("fruit"), map[string]string{"fruit": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.ToMap()
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestVariable_ToMapIdempotent(t *testing.T) {
	v := Var("fruit", "tomato")

	first := v.ToMap()
	second := v.ToMap()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected equal maps, got %v and %v", first, second)
	}

	first["fruit"] = "apple"
	first["extra"] = "x"
	if third := v.ToMap(); !reflect.DeepEqual(third, map[string]string{"fruit": "tomato"}) {
		t.Errorf("mutating a returned map changed the variable: %v", third)
	}
}

func TestVariable_Accessors(t *testing.T) {
	v := NamedVariable("fruit")

	name, ok := v.Name()
	if !ok || name != "fruit" {
		t.Errorf("expected name 'fruit', got %q (ok=%v)", name, ok)
	}
	if _, ok := v.Value(); ok {
		t.Error("expected value to be absent")
	}

	empty := EmptyVariable()
	if _, ok := empty.Name(); ok {
		t.Error("expected name to be absent")
	}

	blank := Var("", "")
	if blank.IsEmpty() {
		t.Error("an empty-string name is still a name")
	}
}

func TestVariable_ValueWithoutNameIsIgnored(t *testing.T) {
	// Only reachable through the zero value, but the mapping must stay empty.
	v := Variable{value: "orphan", hasValue: true}
	if got := v.ToMap(); len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestNewVariable_TooManyArgs(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for 3 arguments")
		}
	}()
	NewVariable("a", "b", "c")
}

func TestVariable_MarshalJSON(t *testing.T) {
	tests := []struct {
		v        Variable
		expected string
	}{
		{EmptyVariable(), `{}`},
		{Var("fruit", "tomato"), `{"fruit":"tomato"}`},
		{NamedVariable("fruit"), `{"fruit":""}`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.v)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != tt.expected {
			t.Errorf("expected %s, got %s", tt.expected, data)
		}
	}
}

func TestVariable_MarshalYAML(t *testing.T) {
	data, err := yaml.Marshal(Var("fruit", "tomato"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "fruit: tomato\n" {
		t.Errorf("expected 'fruit: tomato', got %q", data)
	}

	data, err = yaml.Marshal(EmptyVariable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "{}\n" {
		t.Errorf("expected '{}', got %q", data)
	}
}

func TestVariable_String(t *testing.T) {
	if s := Var("fruit", "tomato").String(); s != `fruit="tomato"` {
		t.Errorf("unexpected String(): %s", s)
	}
	if s := EmptyVariable().String(); s != "{}" {
		t.Errorf("unexpected String(): %s", s)
	}
}
