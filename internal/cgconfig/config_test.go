package cgconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if !cfg.Cycles.Show {
		t.Fatal("expected cycles shown by default")
	}
	if len(cfg.Dumps.Globs) == 0 {
		t.Fatal("expected default dump globs")
	}
}

func TestLoadKDLMissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadKDL(dir)
	if err != nil {
		t.Fatalf("LoadKDL: %v", err)
	}
	if cfg.Project.Root != dir {
		t.Fatalf("Project.Root = %q, want %q", cfg.Project.Root, dir)
	}
}

func TestLoadKDLParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `
project {
    name "demo"
}
cycles {
    show #false
    cut_fraction 0.05
}
dumps {
    globs "callgrind.out.*" "*.cg"
    watch_debounce_ms 500
}
search {
    enable_fuzzy #false
    max_results 10
}
`
	if err := os.WriteFile(filepath.Join(dir, ".cgview.kdl"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadKDL(dir)
	if err != nil {
		t.Fatalf("LoadKDL: %v", err)
	}
	if cfg.Project.Name != "demo" {
		t.Fatalf("Project.Name = %q", cfg.Project.Name)
	}
	if cfg.Cycles.Show {
		t.Fatal("expected cycles.show=false")
	}
	if cfg.Cycles.CutFraction != 0.05 {
		t.Fatalf("CutFraction = %v, want 0.05", cfg.Cycles.CutFraction)
	}
	if len(cfg.Dumps.Globs) != 2 {
		t.Fatalf("Dumps.Globs = %v", cfg.Dumps.Globs)
	}
	if cfg.Dumps.WatchDebounceMs != 500 {
		t.Fatalf("WatchDebounceMs = %d, want 500", cfg.Dumps.WatchDebounceMs)
	}
	if cfg.Search.EnableFuzzy {
		t.Fatal("expected search.enable_fuzzy=false")
	}
	if cfg.Search.MaxResults != 10 {
		t.Fatalf("MaxResults = %d, want 10", cfg.Search.MaxResults)
	}
}

func TestLoadEventTypesMissingFile(t *testing.T) {
	dir := t.TempDir()
	decls, err := LoadEventTypes(dir)
	if err != nil {
		t.Fatalf("LoadEventTypes: %v", err)
	}
	if decls != nil {
		t.Fatalf("expected nil for missing file, got %v", decls)
	}
}

func TestLoadEventTypesParsesDerived(t *testing.T) {
	dir := t.TempDir()
	content := `
[[derived]]
short_name = "MyMiss"
long_name = "Custom Miss Sum"
formula = "I1mr + D1mr"
`
	if err := os.WriteFile(filepath.Join(dir, "events.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	decls, err := LoadEventTypes(dir)
	if err != nil {
		t.Fatalf("LoadEventTypes: %v", err)
	}
	if len(decls) != 1 || decls[0].ShortName != "MyMiss" {
		t.Fatalf("decls = %+v", decls)
	}
}
