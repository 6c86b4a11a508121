package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Digital-Shane/reelshelf/internal/catalog"
	"github.com/Digital-Shane/reelshelf/internal/config"
	oplog "github.com/Digital-Shane/reelshelf/internal/log"
	"github.com/Digital-Shane/reelshelf/internal/logger"
	"github.com/Digital-Shane/reelshelf/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// app carries the state shared by every command of one invocation.
type app struct {
	cfg   *config.Config
	store storage.Store
	svc   *catalog.Service

	openStore  func(*config.Config) (storage.Store, error)
	runProgram func(tea.Model) (tea.Model, error)
}

func newApp() *app {
	return &app{
		openStore: storage.Open,
		runProgram: func(m tea.Model) (tea.Model, error) {
			return tea.NewProgram(m, tea.WithAltScreen()).Run()
		},
	}
}

// newRootCmd builds the command tree around a.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "reelshelf",
		Short: "A personal catalog for movies and series streamed by URL",
		Long: `reelshelf keeps a catalog of movies and series you stream from URLs.

It recognizes release-style filenames (Show.S01E01.720p.WEB.x265.mkv) to fill in
series details, generates the URLs for every episode from one sample, tracks what
you watched, and hands streams to VLC, MX Player, Infuse or a browser.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.AddCommand(
		newParseCmd(a),
		newAddCmd(a),
		newQuickAddCmd(a),
		newRangeCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newDeleteCmd(a),
		newWatchCmd(a),
		newBookmarkCmd(a),
		newUnbookmarkCmd(a),
		newBookmarksCmd(a),
		newRateCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newClearCmd(a),
		newBrowseCmd(a),
		newPreviewCmd(a),
		newConfigCmd(a),
		newUndoCmd(a),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads and applies the configuration before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	if err := logger.SetLevel(a.cfg.LogLevel); err != nil {
		return err
	}
	oplog.Initialize(a.cfg.EnableLogging, a.cfg.LogRetentionDays)
	cmd.SetContext(logger.WithCtx(cmd.Context(), logger.Get()))
	return nil
}

func (a *app) catalog(cmd *cobra.Command) (*catalog.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	store, err := a.openStore(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	a.store = store
	a.svc = catalog.New(store,
		catalog.WithConfig(a.cfg),
		catalog.WithLogger(logger.FromCtx(cmd.Context(), "command", cmd.Name())),
	)
	return a.svc, nil
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		logger.Get().Warnw("closing catalog store", "error", err)
	}
	a.store = nil
	a.svc = nil
}

type catalogRunE func(cmd *cobra.Command, args []string, svc *catalog.Service) error

// read wraps a command that only reads the catalog.
func (a *app) read(fn catalogRunE) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		svc, err := a.catalog(cmd)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, args, svc)
	}
}

// write wraps a command that changes the catalog. Its changes are recorded
// in an operation log session so they can be undone.
func (a *app) write(fn catalogRunE) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		svc, err := a.catalog(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		name, rest := sessionArgs(cmd, args)
		if err := oplog.StartSession(name, rest); err != nil {
			return fmt.Errorf("failed to start operation log: %w", err)
		}
		defer func() {
			if endErr := oplog.EndSession(); endErr != nil && err == nil {
				err = fmt.Errorf("failed to write operation log: %w", endErr)
			}
		}()
		return fn(cmd, args, svc)
	}
}

// sessionArgs splits the command path below the root into the session
// command name and its arguments, e.g. "add" and ["series", URL].
func sessionArgs(cmd *cobra.Command, args []string) (string, []string) {
	path := strings.Fields(cmd.CommandPath())
	if len(path) < 2 {
		return cmd.Name(), args
	}
	return path[1], append(path[2:], args...)
}
