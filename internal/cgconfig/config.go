// Package cgconfig loads cgview's project configuration: an optional
// ".cgview.kdl" file for graph and tool behavior, and an optional
// "events.toml" for custom derived event-type declarations.
package cgconfig

// Config holds every user-tunable setting. Default returns one with
// cgview's built-in defaults; LoadKDL overlays whatever a ".cgview.kdl"
// file specifies on top of those defaults.
type Config struct {
	Project struct {
		Root string
		Name string
	}

	Cycles struct {
		// Show disables cycle collapsing entirely when false.
		Show bool
		// CutFraction configures the cost-cut pruning heuristic the cycle
		// detector uses to break low-cost edges before running Tarjan's
		// algorithm; 0 disables pruning.
		CutFraction float64
	}

	Dumps struct {
		// Globs selects which files in a directory argument count as dump
		// files, evaluated with doublestar.
		Globs []string
		// WatchDebounceMs batches rapid successive filesystem events before
		// triggering a reload.
		WatchDebounceMs int
	}

	Cache struct {
		// Dir, when non-empty, turns on the in-memory per-file parse cache
		// for one run; nothing is written to it. Empty disables caching.
		Dir string
	}

	Search struct {
		EnableFuzzy bool
		MaxResults  int
	}

	MCP struct {
		Enabled bool
	}
}

// Default returns cgview's built-in configuration, used whenever no
// ".cgview.kdl" file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Cycles.Show = true
	cfg.Cycles.CutFraction = 0
	cfg.Dumps.Globs = []string{"callgrind.out.*", "cachegrind.out.*"}
	cfg.Dumps.WatchDebounceMs = 250
	cfg.Search.EnableFuzzy = true
	cfg.Search.MaxResults = 50
	cfg.MCP.Enabled = true
	return cfg
}
