package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/askov/klokind/internal/engine"
	"github.com/askov/klokind/internal/logging"
	"github.com/askov/klokind/internal/store"
	"github.com/askov/klokind/internal/tui"
)

var version = "dev"

type cli struct {
	DataDir string           `help:"Data directory (defaults to the user config dir)." type:"path"`
	Year    int              `help:"Ledger year to open (defaults to the current year)."`
	Debug   bool             `help:"Verbose logging, mirrored to stderr."`
	Version kong.VersionFlag `help:"Print version and exit."`
}

func main() {
	var args cli
	kong.Parse(&args,
		kong.Name("klokind"),
		kong.Description("Personal timesheet and leave balance tracker."),
		kong.Vars{"version": version},
	)

	dir := args.DataDir
	if dir == "" {
		d, err := store.DefaultDataDir()
		if err != nil {
			fatal(fmt.Errorf("resolve data directory: %w", err))
		}
		dir = d
	}

	year := args.Year
	if year == 0 {
		year = time.Now().Year()
	}

	logger, err := logging.New(logging.Config{Debug: args.Debug, DataDir: dir})
	if err != nil {
		fatal(fmt.Errorf("initialize logging: %w", err))
	}

	st, err := store.New(dir, year)
	if err != nil {
		fatal(fmt.Errorf("open data directory: %w", err))
	}

	svc := engine.NewService(st, logger)
	logger.Debug("starting", "dir", dir, "year", year)

	app := tui.NewApp(svc)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
