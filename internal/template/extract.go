package template

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"alfredflow/internal/core"
)

// variablesPath locates the variables object in an Alfred JSON payload.
const variablesPath = "alfredworkflow.variables"

// Extract evaluates extract rules against an Alfred JSON payload. Rules map
// a variable name to a JSONPath expression ($.a.b, $.list[0], $.list[*].x).
// Strings come back unquoted; other values in their JSON text form.
// Every rule is evaluated and missing paths are reported together, in
// variable name order.
func Extract(body []byte, rules map[string]string) (map[string]string, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON in payload")
	}

	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make(map[string]string, len(rules))
	var errs []error
	for _, name := range names {
		value := gjson.GetBytes(body, gjsonPath(rules[name]))
		if !value.Exists() {
			errs = append(errs, fmt.Errorf("path %q not found for variable %q", rules[name], name))
			continue
		}
		result[name] = value.String()
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return result, nil
}

// ExtractVariables reads alfredworkflow.variables from an Alfred JSON
// payload. A payload without variables yields no variables and no error.
func ExtractVariables(body []byte) ([]core.Variable, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON in payload")
	}

	obj := gjson.GetBytes(body, variablesPath)
	if !obj.Exists() || obj.Type == gjson.Null {
		return nil, nil
	}
	if !obj.IsObject() {
		return nil, fmt.Errorf("%s must be an object, got %s", variablesPath, obj.Type)
	}

	m := make(map[string]string)
	obj.ForEach(func(key, value gjson.Result) bool {
		m[key.String()] = value.String()
		return true
	})
	return core.VariablesFromMap(m), nil
}

// gjsonPath rewrites a JSONPath expression into gjson's dotted syntax:
// $.items[0].id becomes items.0.id and $.items[*].id becomes items.#.id.
func gjsonPath(path string) string {
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")

	var b strings.Builder
	for path != "" {
		open := strings.IndexByte(path, '[')
		if open < 0 {
			b.WriteString(path)
			break
		}
		closing := strings.IndexByte(path[open:], ']')
		if closing < 0 {
			b.WriteString(path)
			break
		}
		closing += open

		index := path[open+1 : closing]
		if index == "*" {
			index = "#"
		}
		b.WriteString(path[:open])
		b.WriteByte('.')
		b.WriteString(index)
		path = path[closing+1:]
	}
	return b.String()
}
