// Package main is the snipstorm interactive shell: a terminal line
// editor wired to the expansion engine. Type a trigger (":sig") and
// press space, tab, or enter to expand it in place.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dshills/snipstorm/internal/ambient"
	"github.com/dshills/snipstorm/internal/config"
	"github.com/dshills/snipstorm/internal/dictionary"
	"github.com/dshills/snipstorm/internal/event"
	"github.com/dshills/snipstorm/internal/plugin/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", "snipstorm.toml", "engine configuration file")
		dictPath    = flag.String("dict", "", "snippet dictionary file (overrides config)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("snipstorm %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *dictPath != "" {
		cfg.DictionaryPath = *dictPath
	}

	dict := dictionary.New()
	if err := dictionary.Load(dict, cfg.DictionaryPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := event.NewNotifier()

	// Keep the dictionary in sync with on-disk edits for the session.
	if watcher, err := dictionary.NewWatcher(dict, cfg.DictionaryPath, notifier); err == nil {
		go func() {
			_ = watcher.Run(ctx)
		}()
	}

	scripts := script.NewEngine()
	defer scripts.Close()

	provider := &ambient.Page{
		Title: "snipstorm shell",
		URL:   "https://localhost/snipstorm",
	}

	shell, err := newShell(cfg, dict, provider, notifier, scripts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	if err := shell.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}
