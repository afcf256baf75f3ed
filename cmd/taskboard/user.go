package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

func runUser(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: taskboard user <add|list> [flags]")
		return errUsage
	}
	switch args[0] {
	case "add":
		return runUserAdd(args[1:])
	case "list":
		return runUserList(args[1:])
	}
	return fmt.Errorf("unknown user command %q", args[0])
}

func runUserAdd(args []string) error {
	var g globalFlags
	var u model.User
	fs := newFlagSet("user add", &g)
	fs.StringVar(&u.Username, "username", "", "login name (required)")
	fs.StringVar(&u.FirstName, "first", "", "first name")
	fs.StringVar(&u.LastName, "last", "", "last name")
	fs.StringVar(&u.Email, "email", "", "email address")
	if help, err := parse(fs, args); help || err != nil {
		return err
	}

	e, err := openEnv(&g, fs)
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.store.CreateUser(context.Background(), &u); err != nil {
		return err
	}
	e.logger.Info("user created", "user_id", u.ID, "username", u.Username)
	fmt.Printf("created %s (%s)\n", u.Username, u.ID)
	return nil
}

func runUserList(args []string) error {
	var g globalFlags
	fs := newFlagSet("user list", &g)
	if help, err := parse(fs, args); help || err != nil {
		return err
	}

	e, err := openEnv(&g, fs)
	if err != nil {
		return err
	}
	defer e.close()

	users, err := e.store.GetUsers(context.Background())
	if err != nil {
		return err
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers("USERNAME", "NAME", "EMAIL", "ID").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, u := range users {
		t.Row(u.Username, u.DisplayName(), u.Email, u.ID)
	}
	fmt.Println(t.Render())
	return nil
}
