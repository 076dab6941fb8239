// Package template provides variable substitution and extraction for
// Alfred workflow output.
package template

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"alfredflow/internal/core"
)

// varPattern matches ${var}, ${env:VAR} and ${func(args)} placeholders.
var varPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Substitute replaces placeholders in text. Workflow variables take
// precedence over built-in functions of the same name.
// Returns all errors joined if multiple placeholders cannot be resolved.
func Substitute(text string, vars core.Variables) (string, error) {
	if !strings.Contains(text, "${") {
		return text, nil
	}

	var errs []error
	result := varPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-1]

		if strings.HasPrefix(name, "env:") {
			envName := name[4:]
			if val, ok := os.LookupEnv(envName); ok {
				return val
			}
			errs = append(errs, fmt.Errorf("env var %q not set", envName))
			return match
		}

		if val, ok := vars.Get(name); ok {
			return val
		}

		val, isFunc, err := evalFunction(name, vars)
		if isFunc {
			if err != nil {
				errs = append(errs, err)
				return match
			}
			return val
		}

		errs = append(errs, fmt.Errorf("variable %q not found", name))
		return match
	})

	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	return result, nil
}

// SubstituteMap resolves placeholders in every value of m. Failures are
// reported together in key order, and a nil map stays nil.
func SubstituteMap(m map[string]string, vars core.Variables) (map[string]string, error) {
	if m == nil {
		return nil, nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make(map[string]string, len(m))
	var errs []error
	for _, k := range keys {
		out, err := Substitute(m[k], vars)
		if err != nil {
			errs = append(errs, fmt.Errorf("key %q: %w", k, err))
			continue
		}
		result[k] = out
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return result, nil
}

// SubstituteVariables resolves placeholders in the value of each variable.
// Names are left untouched and empty variables pass through unchanged.
func SubstituteVariables(in []core.Variable, vars core.Variables) ([]core.Variable, error) {
	out := make([]core.Variable, 0, len(in))
	var errs []error

	for _, v := range in {
		name, ok := v.Name()
		if !ok {
			out = append(out, v)
			continue
		}
		value, hasValue := v.Value()
		if !hasValue {
			out = append(out, v)
			continue
		}
		substituted, err := Substitute(value, vars)
		if err != nil {
			errs = append(errs, fmt.Errorf("variable %q: %w", name, err))
			continue
		}
		out = append(out, core.Var(name, substituted))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
