// Package data loads CSV and JSON files whose rows expand into script filter items.
package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"alfredflow/internal/core"
)

// Row is a single record with every field rendered as a string.
type Row map[string]string

// Source represents a loaded data file.
type Source struct {
	name string
	rows []Row
}

// NewSource creates a data source from loaded rows.
func NewSource(name string, rows []Row) *Source {
	return &Source{name: name, rows: rows}
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Len() int {
	return len(s.rows)
}

// Rows returns the rows in file order.
func (s *Source) Rows() []Row {
	return s.rows
}

// Variables exposes a row as data.<source>.<field> variables, sorted by field.
func (s *Source) Variables(row Row) []core.Variable {
	prefixed := make(map[string]string, len(row))
	for field, value := range row {
		prefixed[fmt.Sprintf("data.%s.%s", s.name, field)] = value
	}
	return core.VariablesFromMap(prefixed)
}

// LoadFile loads a data file (CSV or JSON) and returns a Source.
func LoadFile(name, path, configDir string) (*Source, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(configDir, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var rows []Row
	var err error

	switch ext {
	case ".csv":
		rows, err = loadCSV(path)
	case ".json":
		rows, err = loadJSON(path)
	default:
		return nil, fmt.Errorf("unsupported file format %q (use .csv or .json)", ext)
	}

	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("data file %s is empty", path)
	}

	return NewSource(name, rows), nil
}

// loadCSV loads a CSV file. First row is headers, subsequent rows are data.
func loadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("CSV must have header row and at least one data row")
	}

	headers := records[0]
	rows := make([]Row, 0, len(records)-1)

	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// loadJSON loads a JSON file. Must be an array of objects; nested values
// are kept as raw JSON text.
func loadJSON(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("JSON must be an array of objects")
	}

	var rows []Row
	var rowErr error
	doc.ForEach(func(_, obj gjson.Result) bool {
		if !obj.IsObject() {
			rowErr = fmt.Errorf("element %d is not an object", len(rows))
			return false
		}
		row := make(Row)
		obj.ForEach(func(key, value gjson.Result) bool {
			row[key.String()] = value.String()
			return true
		})
		rows = append(rows, row)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return rows, nil
}

// Sources is a collection of data sources in configuration order.
type Sources []*Source

// Load loads every source, returning the first error encountered.
func Load(configDir string, specs ...Spec) (Sources, error) {
	sources := make(Sources, 0, len(specs))
	for _, spec := range specs {
		src, err := LoadFile(spec.Name, spec.File, configDir)
		if err != nil {
			return nil, fmt.Errorf("data source %q: %w", spec.Name, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// Spec names a file to load as a source.
type Spec struct {
	Name string
	File string
}

// Lookup returns the source with the given name.
func (s Sources) Lookup(name string) (*Source, bool) {
	for _, src := range s {
		if src.name == name {
			return src, true
		}
	}
	return nil, false
}
