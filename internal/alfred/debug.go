package alfred

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"unicode/utf8"
)

const maxValueLogSize = 256

// DebugLogger traces variable resolution and item building.
// A nil *DebugLogger discards everything.
type DebugLogger struct {
	out io.Writer
	mu  sync.Mutex
}

func NewDebugLogger(out io.Writer) *DebugLogger {
	return &DebugLogger{out: out}
}

func (d *DebugLogger) LogVariables(stage string, vars map[string]string) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("[vars] %s (%d)\n", stage, len(vars)))
	for _, name := range sortedKeys(vars) {
		buf.WriteString(fmt.Sprintf("  %s = %s\n", name, truncateValue(vars[name])))
	}
	fmt.Fprint(d.out, buf.String())
}

func (d *DebugLogger) LogItem(source string, it Item) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("[item] %s: %s\n", source, it.Title))
	if it.Arg != "" {
		buf.WriteString(fmt.Sprintf("  arg: %s\n", truncateValue(it.Arg)))
	}
	for _, name := range sortedKeys(it.Variables) {
		buf.WriteString(fmt.Sprintf("  var %s = %s\n", name, truncateValue(it.Variables[name])))
	}
	fmt.Fprint(d.out, buf.String())
}

func (d *DebugLogger) LogSkipped(title, query string) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "[skip] %s (query %q)\n", title, query)
}

func (d *DebugLogger) LogError(stage string, err error) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "[error] %s\n  %v\n", stage, err)
}

func truncateValue(v string) string {
	if len(v) <= maxValueLogSize {
		return v
	}
	cut := maxValueLogSize
	for cut > 0 && !utf8.RuneStart(v[cut]) {
		cut--
	}
	return v[:cut] + fmt.Sprintf("... (truncated, %d bytes total)", len(v))
}
