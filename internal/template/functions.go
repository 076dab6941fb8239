package template

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"alfredflow/internal/core"
)

type builtin func(args string, vars core.Variables) (string, error)

// builtins are callable as ${name(args)} inside item fields.
var builtins = map[string]builtin{
	"uuid":         fnUUID,
	"timestamp":    fnTimestamp,
	"timestamp_ms": fnTimestampMs,
	"random":       fnRandom,
	"date":         fnDate,
	"upper":        fnUpper,
	"lower":        fnLower,
	"default":      fnDefault,
}

// evalFunction evaluates a built-in function call.
// The second return value is false when expr is not a known function call.
func evalFunction(expr string, vars core.Variables) (string, bool, error) {
	parenIdx := strings.Index(expr, "(")
	if parenIdx == -1 || !strings.HasSuffix(expr, ")") {
		return "", false, nil
	}

	name := expr[:parenIdx]
	fn, ok := builtins[name]
	if !ok {
		return "", false, nil
	}

	result, err := fn(expr[parenIdx+1:len(expr)-1], vars)
	if err != nil {
		return "", true, fmt.Errorf("function %s: %w", name, err)
	}
	return result, true, nil
}

// fnUUID generates a UUID v4, handy for item uids that must never be reordered.
func fnUUID(args string, _ core.Variables) (string, error) {
	if args != "" {
		return "", fmt.Errorf("uuid() takes no arguments")
	}

	uuid := make([]byte, 16)
	if _, err := rand.Read(uuid); err != nil {
		return "", err
	}

	uuid[6] = (uuid[6] & 0x0f) | 0x40
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		uuid[0:4], uuid[4:6], uuid[6:8], uuid[8:10], uuid[10:16]), nil
}

func fnTimestamp(args string, _ core.Variables) (string, error) {
	if args != "" {
		return "", fmt.Errorf("timestamp() takes no arguments")
	}
	return strconv.FormatInt(time.Now().Unix(), 10), nil
}

func fnTimestampMs(args string, _ core.Variables) (string, error) {
	if args != "" {
		return "", fmt.Errorf("timestamp_ms() takes no arguments")
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 10), nil
}

// fnRandom generates a random integer between min and max (inclusive).
// Usage: random(min,max)
func fnRandom(args string, _ core.Variables) (string, error) {
	parts := strings.Split(args, ",")
	if len(parts) != 2 {
		return "", fmt.Errorf("random(min,max) requires exactly 2 arguments")
	}

	lo, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid min value: %w", err)
	}
	hi, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid max value: %w", err)
	}
	if lo > hi {
		return "", fmt.Errorf("min (%d) must be <= max (%d)", lo, hi)
	}

	// The span can exceed int64 for wide ranges.
	span := new(big.Int).Sub(big.NewInt(hi), big.NewInt(lo))
	span.Add(span, big.NewInt(1))
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return n.Add(n, big.NewInt(lo)).String(), nil
}

// fnDate formats the current time using a Go layout, RFC 3339 by default.
func fnDate(args string, _ core.Variables) (string, error) {
	layout := strings.TrimSpace(args)
	if layout == "" {
		layout = time.RFC3339
	}
	return time.Now().Format(layout), nil
}

// fnUpper upper-cases the value of the named variable.
func fnUpper(args string, vars core.Variables) (string, error) {
	val, err := lookup(args, vars)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(val), nil
}

// fnLower lower-cases the value of the named variable.
func fnLower(args string, vars core.Variables) (string, error) {
	val, err := lookup(args, vars)
	if err != nil {
		return "", err
	}
	return strings.ToLower(val), nil
}

// fnDefault returns the named variable, or the fallback when it is unset or empty.
// Usage: default(name,fallback)
func fnDefault(args string, vars core.Variables) (string, error) {
	name, fallback, ok := strings.Cut(args, ",")
	if !ok {
		return "", fmt.Errorf("default(name,fallback) requires exactly 2 arguments")
	}
	if val, found := vars.Get(strings.TrimSpace(name)); found && val != "" {
		return val, nil
	}
	return fallback, nil
}

func lookup(name string, vars core.Variables) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("variable name required")
	}
	val, ok := vars.Get(name)
	if !ok {
		return "", fmt.Errorf("variable %q not found", name)
	}
	return val, nil
}
