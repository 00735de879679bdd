package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/cgview/internal/cgconfig"
	"github.com/standardbeagle/cgview/internal/cgerrors"
	"github.com/standardbeagle/cgview/internal/costgraph"
	"github.com/standardbeagle/cgview/internal/cycledetect"
	"github.com/standardbeagle/cgview/internal/dumpcache"
	"github.com/standardbeagle/cgview/internal/dumpparser"
	"github.com/standardbeagle/cgview/internal/dumpselect"
	"github.com/standardbeagle/cgview/internal/dumpwatch"
	"github.com/standardbeagle/cgview/internal/mcpsrv"
	"github.com/standardbeagle/cgview/internal/query"
	"github.com/standardbeagle/cgview/internal/version"
)

func main() {
	app := &cli.App{
		Name:    "cgview",
		Usage:   "Inspect Callgrind/Cachegrind profile dumps from the command line or over MCP",
		Version: version.FullInfo(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root to load .cgview.kdl and events.toml from",
				Value:   ".",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress load progress output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "top",
				Usage:     "Show the functions with the largest self or inclusive cost",
				ArgsUsage: "<dump-path-or-dir> [more...]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "event", Aliases: []string{"e"}, Usage: "Event type short name (default: first real type)"},
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "Maximum entries to show"},
					&cli.BoolFlag{Name: "inclusive", Aliases: []string{"i"}, Usage: "Rank by inclusive cost instead of self cost"},
					&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
				},
				Action: topCommand,
			},
			{
				Name:      "search",
				Usage:     "Find functions by name",
				ArgsUsage: "<dump-path-or-dir> <term>",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "threshold", Value: 0.75, Usage: "Minimum fuzzy similarity 0-1"},
					&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
				},
				Action: searchCommand,
			},
			{
				Name:      "watch",
				Usage:     "Watch a directory for new dump files and report totals as they arrive",
				ArgsUsage: "<directory>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "event", Aliases: []string{"e"}, Usage: "Event type short name (default: first real type)"},
				},
				Action: watchCommand,
			},
			{
				Name:      "mcp",
				Usage:     "Serve the query surface as an MCP tool server over stdio",
				ArgsUsage: "<dump-path-or-dir> [more...]",
				Action:    mcpCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "cgview: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*cgconfig.Config, error) {
	cfg, err := cgconfig.LoadKDL(c.String("root"))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLoader(c *cli.Context) cgerrors.Loader {
	if c.Bool("quiet") {
		return cgerrors.NopLoader{}
	}
	return cgerrors.NewStderrLoader()
}

// loadDumps resolves args into dump file paths per cfg.Dumps.Globs, loads
// them into a fresh costgraph.Data, registers any custom derived event
// types from events.toml, and runs cycle detection per cfg.Cycles.
func loadDumps(c *cli.Context, cfg *cgconfig.Config, args []string) (*costgraph.Data, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no dump file or directory given")
	}
	paths, err := dumpselect.Resolve(args, cfg.Dumps.Globs)
	if err != nil {
		return nil, fmt.Errorf("resolving dump paths: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no dump files found among: %v", args)
	}

	data := costgraph.NewData()
	if _, err := dumpparser.Load(data, paths, newLoader(c), 4); err != nil {
		if _, ok := err.(*cgerrors.MultiError); !ok {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "cgview: %v\n", err)
	}
	data.EventTypes.TryAddKnownDerived()

	decls, err := cgconfig.LoadEventTypes(cfg.Project.Root)
	if err != nil {
		return nil, err
	}
	for _, d := range decls {
		if _, err := data.EventTypes.AddDerived(d.ShortName, d.LongName, d.Formula); err != nil {
			fmt.Fprintf(os.Stderr, "cgview: event type %q: %v\n", d.ShortName, err)
		}
	}

	if cfg.Cycles.Show {
		cycledetect.Detect(data, cfg.Cycles.CutFraction)
	}

	return data, nil
}

// resolveEventType returns name if it names a registered event type, or the
// first real event type declared by the loaded dumps if name is empty.
func resolveEventType(data *costgraph.Data, name string) (string, error) {
	if name != "" {
		if _, ok := data.EventTypes.Type(name); !ok {
			return "", fmt.Errorf("unknown event type %q", name)
		}
		return name, nil
	}
	if et := data.EventTypes.RealType(0); et != nil {
		return et.ShortName, nil
	}
	return "", fmt.Errorf("dump declares no event types")
}

func topCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: cgview top <dump-path-or-dir> [more...]")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	data, err := loadDumps(c, cfg, c.Args().Slice())
	if err != nil {
		return err
	}
	eventName, err := resolveEventType(data, c.String("event"))
	if err != nil {
		return err
	}
	et, _ := data.EventTypes.Type(eventName)

	limit := c.Int("limit")
	var entries []query.Entry
	if c.Bool("inclusive") {
		entries = query.TopInclusive(data, et, limit)
	} else {
		entries = query.TopSelf(data, et, limit)
	}

	if c.Bool("json") {
		return json.NewEncoder(os.Stdout).Encode(entries)
	}
	for _, e := range entries {
		fmt.Printf("%12d  %12d  %s\n", e.Self, e.Inclusive, e.Function.PrettyName())
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("usage: cgview search <dump-path-or-dir> <term>")
	}
	args := c.Args().Slice()
	term := args[len(args)-1]
	dumpArgs := args[:len(args)-1]

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	data, err := loadDumps(c, cfg, dumpArgs)
	if err != nil {
		return err
	}

	results := query.Search(data, term, c.Float64("threshold"))

	if c.Bool("json") {
		return json.NewEncoder(os.Stdout).Encode(results)
	}
	for _, r := range results {
		fmt.Printf("%6.2f  %s\n", r.Score, r.Function.PrettyName())
	}
	return nil
}

func watchCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: cgview watch <directory>")
	}
	dir := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	debounce := time.Duration(cfg.Dumps.WatchDebounceMs) * time.Millisecond
	w, err := dumpwatch.New(dir, cfg.Dumps.Globs, debounce)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Stop()

	var cache *dumpcache.Cache
	if cfg.Cache.Dir != "" {
		cache = dumpcache.New()
	}

	data := costgraph.NewData()
	loader := newLoader(c)
	eventName := c.String("event")

	reload := func(path string) {
		var part *costgraph.Part
		if cache != nil {
			if cached, ok := cache.Lookup(path); ok {
				part = cached
			}
		}
		if part == nil {
			p := dumpparser.New(data, loader)
			var err error
			part, err = p.ParseFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "cgview: %s: %v\n", path, err)
				return
			}
			if cache != nil {
				_ = cache.Store(path, part)
			}
		}
		data.EventTypes.TryAddKnownDerived()

		name := eventName
		if name == "" {
			if et := data.EventTypes.RealType(0); et != nil {
				name = et.ShortName
			}
		}
		et, ok := data.EventTypes.Type(name)
		if !ok {
			fmt.Fprintf(os.Stderr, "cgview: unknown event type %q\n", name)
			return
		}
		fmt.Printf("%s: part %d loaded, total %s = %d\n", path, part.Number, name, query.Totals(data, et))
	}
	w.SetCallbacks(reload, nil)
	w.Start()

	fmt.Fprintf(os.Stderr, "watching %s for %v\n", dir, cfg.Dumps.Globs)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	return nil
}

func mcpCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: cgview mcp <dump-path-or-dir> [more...]")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	data, err := loadDumps(c, cfg, c.Args().Slice())
	if err != nil {
		return err
	}
	if !cfg.MCP.Enabled {
		return fmt.Errorf("MCP server disabled by configuration")
	}

	srv := mcpsrv.New(data, version.Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return srv.Run(ctx)
}
