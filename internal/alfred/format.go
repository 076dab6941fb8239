package alfred

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// FormatJSON writes v as indented JSON, the form Alfred reads from stdout.
func FormatJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}

// FormatText writes a script filter in a human-readable layout for terminals.
func FormatText(w io.Writer, sf *ScriptFilter) {
	if len(sf.Items) == 0 {
		fmt.Fprintln(w, "No items")
	}

	for i, it := range sf.Items {
		marker := " "
		if !it.IsValid() {
			marker = "✗"
		}
		fmt.Fprintf(w, "%s %2d. %s\n", marker, i+1, it.Title)
		if it.Subtitle != "" {
			fmt.Fprintf(w, "       %s\n", it.Subtitle)
		}
		if it.Arg != "" {
			fmt.Fprintf(w, "       arg: %s\n", it.Arg)
		}
		for _, key := range sortedKeys(it.Mods) {
			fmt.Fprintf(w, "       %s: %s\n", key, it.Mods[key].Subtitle)
		}
		if len(it.Variables) > 0 {
			fmt.Fprintf(w, "       vars: %s\n", formatVariables(it.Variables))
		}
	}

	if len(sf.Variables) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintf(w, "Variables: %s\n", formatVariables(sf.Variables))
	}
	if sf.Rerun > 0 {
		fmt.Fprintf(w, "Rerun:     %.1fs\n", sf.Rerun)
	}
}

// formatVariables renders name=value pairs sorted by name.
func formatVariables(vars map[string]string) string {
	pairs := make([]string, 0, len(vars))
	for _, name := range sortedKeys(vars) {
		pairs = append(pairs, fmt.Sprintf("%s=%q", name, vars[name]))
	}
	return strings.Join(pairs, " ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
