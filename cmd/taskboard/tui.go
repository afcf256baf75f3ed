package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/pflag"

	"github.com/nhle/taskboard/internal/app"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/ui"
	"github.com/nhle/taskboard/internal/ui/dashboard"
	"github.com/nhle/taskboard/internal/ui/taskform"
)

// userFlag adds the required --user flag naming who acts.
func userFlag(fs *pflag.FlagSet) *string {
	return fs.String("user", "", "username to act as (required)")
}

// lookupUser resolves --user. An empty value is a usage error.
func (e *env) lookupUser(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, errors.New("--user is required")
	}
	u, err := e.store.GetUserByUsername(ctx, username)
	if model.IsNotFound(err) {
		return nil, fmt.Errorf("no user named %q; add one with 'taskboard user add'", username)
	}
	return u, err
}

func runTask(args []string) error {
	if len(args) == 0 || args[0] != "new" {
		fmt.Fprintln(os.Stderr, "Usage: taskboard task new --user <username> [flags]")
		return errUsage
	}

	var g globalFlags
	fs := newFlagSet("task new", &g)
	username := userFlag(fs)
	if help, err := parse(fs, args[1:]); help || err != nil {
		return err
	}

	e, err := openEnv(&g, fs)
	if err != nil {
		return err
	}
	defer e.close()

	ctx := context.Background()
	u, err := e.lookupUser(ctx, *username)
	if err != nil {
		return err
	}
	ts, _, err := e.services()
	if err != nil {
		return err
	}
	others, err := ts.Users(ctx, u.ID)
	if err != nil {
		return err
	}

	in, err := taskform.Run(*u, others, e.location)
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Fprintln(os.Stderr, "cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	t, err := ts.Create(ctx, u.ID, in)
	if err != nil {
		return err
	}
	fmt.Printf("created %s (%s)\n", t, t.ID)
	return nil
}

func runDashboard(args []string) error {
	var g globalFlags
	fs := newFlagSet("dashboard", &g)
	username := userFlag(fs)
	if help, err := parse(fs, args); help || err != nil {
		return err
	}

	e, err := openEnv(&g, fs)
	if err != nil {
		return err
	}
	defer e.close()

	ctx := context.Background()
	u, err := e.lookupUser(ctx, *username)
	if err != nil {
		return err
	}
	ts, _, err := e.services()
	if err != nil {
		return err
	}

	fmt.Println(dashboard.Panel(*u, ts.Dashboard(ctx, u.ID)))
	return nil
}

func runBrowse(args []string) error {
	var g globalFlags
	fs := newFlagSet("browse", &g)
	username := userFlag(fs)
	logFile := fs.String("log-file", "", "append log records to this file (logging is off otherwise)")
	if help, err := parse(fs, args); help || err != nil {
		return err
	}

	e, err := openEnv(&g, fs)
	if err != nil {
		return err
	}
	defer e.close()

	// The terminal belongs to the program, so logs go to a file or
	// nowhere.
	e.logger = slog.New(slog.DiscardHandler)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		e.logger = e.cfg.NewLogger(f)
	}

	u, err := e.lookupUser(context.Background(), *username)
	if err != nil {
		return err
	}
	ts, ps, err := e.services()
	if err != nil {
		return err
	}

	disp := ui.NewDisplay(e.location, e.cfg.Display.DateFormat)
	p := tea.NewProgram(app.New(ts, ps, *u, disp), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
