package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "fruits.csv")

	content := `name,color,price
tomato,red,1.20
banana,yellow
kiwi,green,0.50`

	writeFile(t, csvPath, content)

	src, err := LoadFile("fruits", csvPath, "")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if src.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", src.Len())
	}
	if src.Name() != "fruits" {
		t.Errorf("Name() = %q, want fruits", src.Name())
	}

	rows := src.Rows()
	if rows[0]["name"] != "tomato" || rows[0]["color"] != "red" || rows[0]["price"] != "1.20" {
		t.Errorf("rows[0] = %v", rows[0])
	}
	if rows[1]["price"] != "" {
		t.Errorf("short record should pad with empty string, got %q", rows[1]["price"])
	}
	if rows[2]["name"] != "kiwi" {
		t.Errorf("rows[2][name] = %q, want kiwi (file order)", rows[2]["name"])
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "fruits.json")

	content := `[
		{"id": 1, "name": "tomato", "price": 1.2, "tags": ["red", "round"]},
		{"id": 2, "name": "kiwi", "organic": true}
	]`
	writeFile(t, jsonPath, content)

	src, err := LoadFile("fruits", jsonPath, "")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if src.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", src.Len())
	}
	row := src.Rows()[0]
	if row["id"] != "1" || row["name"] != "tomato" || row["price"] != "1.2" {
		t.Errorf("rows[0] = %v", row)
	}
	if row["tags"] != `["red", "round"]` {
		t.Errorf("nested value should stay raw JSON, got %q", row["tags"])
	}
	if src.Rows()[1]["organic"] != "true" {
		t.Errorf("rows[1][organic] = %q, want true", src.Rows()[1]["organic"])
	}
}

func TestLoadJSON_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := map[string]string{
		"broken.json":  `[{"name": `,
		"object.json":  `{"name": "tomato"}`,
		"scalars.json": `[1, 2]`,
	}
	for name, content := range tests {
		path := filepath.Join(dir, name)
		writeFile(t, path, content)
		if _, err := LoadFile("x", path, ""); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestRelativePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data.csv"), "name\ntomato\n")

	src, err := LoadFile("d", "data.csv", dir)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if src.Len() != 1 {
		t.Errorf("Len() = %d, want 1", src.Len())
	}
}

func TestEmptyFile(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "header.csv"), "name\n")
	if _, err := LoadFile("d", "header.csv", dir); err == nil {
		t.Error("expected error for header-only CSV")
	}

	writeFile(t, filepath.Join(dir, "empty.json"), "[]")
	_, err := LoadFile("d", "empty.json", dir)
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Errorf("expected empty file error, got %v", err)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := LoadFile("d", "data.xml", "")
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported file format") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSourceVariables(t *testing.T) {
	src := NewSource("fruits", []Row{{"name": "tomato", "color": "red"}})

	vars := src.Variables(src.Rows()[0])
	if len(vars) != 2 {
		t.Fatalf("expected 2 variables, got %d", len(vars))
	}
	name, _ := vars[0].Name()
	value, _ := vars[0].Value()
	if name != "data.fruits.color" || value != "red" {
		t.Errorf("vars[0] = %s=%s, want data.fruits.color=red", name, value)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.csv"), "name\na\n")
	writeFile(t, filepath.Join(dir, "b.json"), `[{"name": "b"}]`)

	sources, err := Load(dir, Spec{Name: "a", File: "a.csv"}, Spec{Name: "b", File: "b.json"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sources) != 2 || sources[1].Name() != "b" {
		t.Errorf("unexpected sources: %v", sources)
	}

	_, err = Load(dir, Spec{Name: "missing", File: "missing.csv"})
	if err == nil || !strings.Contains(err.Error(), `data source "missing"`) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestSourcesLookup(t *testing.T) {
	sources := Sources{NewSource("a", nil), NewSource("b", nil)}

	if src, ok := sources.Lookup("b"); !ok || src.Name() != "b" {
		t.Errorf("expected to find source b")
	}
	if _, ok := sources.Lookup("c"); ok {
		t.Error("expected source c to be missing")
	}
}
