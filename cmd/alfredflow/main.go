package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"alfredflow/internal/alfred"
	"alfredflow/internal/config"
	"alfredflow/internal/core"
	"alfredflow/internal/data"
)

const (
	ExitSuccess          = 0
	ExitValidationFailed = 1
	ExitError            = 2
)

// variableFlags collects repeated -var name[=value] flags.
type variableFlags []core.Variable

func (v *variableFlags) String() string {
	parts := make([]string, 0, len(*v))
	for _, variable := range *v {
		parts = append(parts, variable.String())
	}
	return strings.Join(parts, ",")
}

func (v *variableFlags) Set(s string) error {
	name, value, hasValue := strings.Cut(s, "=")
	if name == "" {
		return fmt.Errorf("variable name required in %q", s)
	}
	if hasValue {
		*v = append(*v, core.Var(name, value))
	} else {
		*v = append(*v, core.NamedVariable(name))
	}
	return nil
}

// argFlags collects repeated -arg flags.
type argFlags []string

func (a *argFlags) String() string     { return strings.Join(*a, ",") }
func (a *argFlags) Set(s string) error { *a = append(*a, s); return nil }

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("alfredflow", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var vars variableFlags
	var objArgs argFlags
	configPath := fs.String("config", "", "path to YAML workflow config")
	inputPath := fs.String("input", "", `Alfred JSON payload to read variables from ("-" for stdin)`)
	query := fs.String("query", "", "filter items by title (defaults to remaining arguments)")
	output := fs.String("output", "json", "output format: json, text")
	mode := fs.String("mode", "filter", "output document: filter (script filter), object (alfredworkflow JSON)")
	verbose := fs.Bool("verbose", false, "trace variable resolution to stderr")
	fs.Var(&vars, "var", "set a variable as name=value, or name alone for an empty value (repeatable)")
	fs.Var(&objArgs, "arg", "argument for object mode (repeatable)")

	if err := fs.Parse(args); err != nil {
		return ExitError
	}

	if *output != "text" && *output != "json" {
		fmt.Fprintf(stderr, "error: --output must be 'text' or 'json', got %q\n", *output)
		return ExitError
	}
	if *mode != "filter" && *mode != "object" {
		fmt.Fprintf(stderr, "error: --mode must be 'filter' or 'object', got %q\n", *mode)
		return ExitError
	}
	if *query == "" && fs.NArg() > 0 {
		*query = strings.Join(fs.Args(), " ")
	}

	cfg := &config.Config{}
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return ExitError
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "error: invalid config: %v\n", err)
			return ExitValidationFailed
		}
	} else if *mode == "filter" {
		fmt.Fprintln(stderr, "error: --config is required in filter mode")
		fs.Usage()
		return ExitError
	}

	payload, err := readInput(*inputPath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}

	var debugLogger *alfred.DebugLogger
	if *verbose {
		debugLogger = alfred.NewDebugLogger(stderr)
	}

	specs := make([]data.Spec, 0, len(cfg.Workflow.Data))
	for _, d := range cfg.Workflow.Data {
		specs = append(specs, data.Spec{Name: d.Name, File: d.File})
	}
	sources, err := data.Load(cfg.Dir, specs...)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}

	builder := &alfred.Builder{
		Workflow: cfg.Workflow,
		Sources:  sources,
		Debug:    debugLogger,
	}

	var input []core.Variable
	if payload != nil {
		input, err = builder.InputVariables(payload)
		if err != nil {
			fmt.Fprintf(stderr, "error: parsing input: %v\n", err)
			return ExitValidationFailed
		}
	}

	resolved, err := builder.Resolve(input, vars)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitValidationFailed
	}

	if *mode == "object" {
		obj, err := builder.Object(resolved, objArgs)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return ExitValidationFailed
		}
		if err := alfred.FormatJSON(stdout, obj); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return ExitError
		}
		return ExitSuccess
	}

	sf, err := builder.Build(resolved, *query)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitValidationFailed
	}
	if err := sf.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: invalid script filter: %v\n", err)
		return ExitValidationFailed
	}

	if *output == "text" {
		alfred.FormatText(stdout, sf)
		return ExitSuccess
	}
	if err := alfred.FormatJSON(stdout, sf); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

// readInput returns the raw Alfred JSON payload, if one was given.
// "-" reads it from stdin.
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return nil, nil
	}

	var body []byte
	var err error
	if path == "-" {
		body, err = io.ReadAll(stdin)
	} else {
		body, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return body, nil
}
