package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/authfront/internal/frontend"
	"github.com/dmitrijs2005/authfront/internal/style"
	"github.com/dmitrijs2005/authfront/internal/ui/terminal"
	"github.com/dmitrijs2005/authfront/internal/ui/tui"
)

func runREPL(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := open(ctx, cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	r := terminal.NewRenderer(out)
	err = e.serve(ctx, r, func(ctx context.Context, front *frontend.Frontend) error {
		terminal.NewApp(front, r, cmd.InOrStdin(), out).Run(ctx, e.log)
		return nil
	})
	return joinClose(ctx, e, err)
}

// runTUI logs to the configured file only: anything written to the
// terminal would corrupt the screen.
func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := open(ctx, cmd, nil)
	if err != nil {
		return err
	}

	bridge := tui.NewBridge()
	err = e.serve(ctx, bridge, func(ctx context.Context, front *frontend.Frontend) error {
		return tui.Run(ctx, front, bridge)
	})
	return joinClose(ctx, e, err)
}

func runUsers(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := open(ctx, cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	printUsers(cmd.OutOrStdout(), e)
	return joinClose(ctx, e, nil)
}

func printUsers(w io.Writer, e *env) {
	current, signedIn := e.c.Session.Current()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tCREATED\t")
	for _, u := range e.c.Registry.All() {
		created := "-"
		if !u.CreatedAt.IsZero() {
			created = u.CreatedAt.Format(time.DateOnly)
		}
		mark := ""
		if signedIn && u.ID == current.ID {
			mark = style.SuccessPrefix
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, created, mark)
	}
	_ = tw.Flush()
}

func runReset(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := open(ctx, cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if e.c.Store.Ephemeral() {
		cmd.Println(style.Dim.Render("Nothing to reset: no --state-file given."))
		return joinClose(ctx, e, nil)
	}

	if err := e.c.Store.Wipe(ctx); err != nil {
		return joinClose(ctx, e, err)
	}
	// Close would flush the loaded registry back; start over from the empty
	// store so the next run seeds again.
	if err := e.c.Reload(ctx); err != nil {
		return joinClose(ctx, e, err)
	}
	cmd.Println(style.SuccessPrefix, "State reset; the demo account is the only user.")
	return joinClose(ctx, e, nil)
}

func joinClose(ctx context.Context, e *env, err error) error {
	if cerr := e.close(context.WithoutCancel(ctx)); cerr != nil && err == nil {
		return cerr
	}
	return err
}
