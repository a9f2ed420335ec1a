package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/authfront/internal/config"
)

// NewRootCmd creates the root command. Without a subcommand it starts the
// line-oriented REPL.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authfront",
		Short: "authfront - a demo login and signup front end",
		Long: `authfront is a demo authentication front end: a login form, a signup
form with live password checks and a dashboard, backed by an in-memory
or file-backed store seeded with a demo account.`,
		SilenceUsage: true,
		RunE:         runREPL,
	}

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewREPLCmd())
	cmd.AddCommand(NewTUICmd())
	cmd.AddCommand(NewUsersCmd())
	cmd.AddCommand(NewResetCmd())

	return cmd
}

// NewREPLCmd creates the repl subcommand.
func NewREPLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the line-oriented front end",
		Args:  cobra.NoArgs,
		RunE:  runREPL,
	}
}

// NewTUICmd creates the tui subcommand.
func NewTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the full-screen front end",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
}

// NewUsersCmd creates the users subcommand.
func NewUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List the registered accounts",
		Long: `List the accounts in the registry. Only useful with --state-file;
an in-memory store only ever holds the demo account at startup.`,
		Args: cobra.NoArgs,
		RunE: runUsers,
	}
}

// NewResetCmd creates the reset subcommand.
func NewResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Erase the registry and session in the state file",
		Args:  cobra.NoArgs,
		RunE:  runReset,
	}
}
