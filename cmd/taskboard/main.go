// taskboard tracks tasks and checklist projects shared between users.
//
// Subcommands:
//
//	serve        run the JSON HTTP API
//	user add     register a user
//	user list    list registered users
//	task new     create a task through an interactive form
//	dashboard    print a user's task counts
//	browse       open the interactive task board
//
// Every subcommand accepts --config, --db and --log-level.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/nhle/taskboard/internal/config"
	"github.com/nhle/taskboard/internal/filestore"
	"github.com/nhle/taskboard/internal/projects"
	"github.com/nhle/taskboard/internal/store"
	"github.com/nhle/taskboard/internal/tasks"
)

// errUsage marks a command line that could not be understood. The
// usage text has already been printed.
var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

type command struct {
	name    string
	summary string
	run     func(args []string) error
}

func commands() []command {
	return []command{
		{"serve", "run the JSON HTTP API", runServe},
		{"user", "manage users (add, list)", runUser},
		{"task", "create tasks (new)", runTask},
		{"dashboard", "print a user's task counts", runDashboard},
		{"browse", "open the interactive task board", runBrowse},
	}
}

func run(args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage()
		if len(args) == 0 {
			return errUsage
		}
		return nil
	}
	for _, c := range commands() {
		if c.name == args[0] {
			return c.run(args[1:])
		}
	}
	printUsage()
	return fmt.Errorf("unknown command %q", args[0])
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: taskboard <command> [flags]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	for _, c := range commands() {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Run 'taskboard <command> --help' for command flags.")
}

// globalFlags are accepted by every subcommand.
type globalFlags struct {
	configPath string
}

// newFlagSet returns a flag set for name carrying the global flags.
// The --db and --log-level values are read by config.Load.
func newFlagSet(name string, g *globalFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet("taskboard "+name, pflag.ContinueOnError)
	fs.StringVar(&g.configPath, "config", config.DefaultPath(), "path to the YAML config file")
	fs.String("db", "", "path to the SQLite database (overrides db.path)")
	fs.String("log-level", "", "log level: debug, info, warn or error (overrides log.level)")
	return fs
}

// parse parses args into fs, turning --help into a clean exit.
func parse(fs *pflag.FlagSet, args []string) (help bool, err error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return true, nil
		}
		return false, errUsage
	}
	return false, nil
}

// env is everything a subcommand needs once configuration is loaded.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	location *time.Location
	store    *store.SQLiteStore
}

// openEnv loads configuration and opens the database. The caller must
// call close.
func openEnv(g *globalFlags, fs *pflag.FlagSet) (*env, error) {
	cfg, err := config.Load(g.configPath, fs)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	logger := cfg.NewLogger(os.Stderr)

	if cfg.DB.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	st, err := store.NewSQLiteStore(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	logger.Debug("database opened", "path", cfg.DB.Path)

	return &env{cfg: cfg, logger: logger, location: loc, store: st}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("closing database", "error", err)
	}
}

// services builds the task and project services over the configured
// file store.
func (e *env) services() (*tasks.Service, *projects.Service, error) {
	files, err := filestore.NewDisk(e.cfg.Storage.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening file store: %w", err)
	}
	ts := tasks.NewService(e.store, files,
		tasks.WithLogger(e.logger),
		tasks.WithLocation(e.location),
	)
	ps := projects.NewService(e.store, files,
		projects.WithLogger(e.logger),
	)
	return ts, ps, nil
}
