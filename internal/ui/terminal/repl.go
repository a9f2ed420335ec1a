package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/authfront/internal/logging"
	"github.com/dmitrijs2005/authfront/internal/style"
	"github.com/dmitrijs2005/authfront/internal/view"
)

// execIface defines the minimal command surface the REPL needs to operate.
// App satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	View(ctx context.Context) view.View
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	ShowSignup(ctx context.Context) error
	ShowLogin(ctx context.Context) error
	ClosePopup(ctx context.Context) error
	Logout(ctx context.Context) error
	Forgot(ctx context.Context) error
	Check(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Reload(ctx context.Context) error
	Stats(ctx context.Context) error
}

// View reports the visible view.
func (a *App) View(ctx context.Context) view.View {
	return a.state(ctx)
}

// runREPL reads a line, parses the first token as the command and dispatches
// to a. The loop exits on EOF, when ctx is done, or on "exit"/"quit".
//
// Command errors are printed and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, printFn func(...any), log logging.Logger) {
	for {
		if ctx.Err() != nil {
			return
		}
		printFn(fmt.Sprintf("af %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Warn(ctx, "read command", "error", err)
			}
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		if len(parts) > 1 && cmd == "show" {
			cmd += " " + parts[1]
		}

		var cmdErr error
		switch cmd {
		case "help":
			switch a.View(ctx) {
			case view.Dashboard:
				printFn("Available commands: whoami, logout, close, reload, stats, exit")
			case view.Signup:
				printFn("Available commands: signup, show login, check, reload, stats, exit")
			default:
				printFn("Available commands: login, show signup, signup, forgot, close, reload, stats, exit")
			}

		case "login":
			cmdErr = a.Login(ctx)

		case "signup", "register":
			cmdErr = a.Signup(ctx)

		case "show signup":
			cmdErr = a.ShowSignup(ctx)

		case "show login":
			cmdErr = a.ShowLogin(ctx)

		case "close":
			cmdErr = a.ClosePopup(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "forgot":
			cmdErr = a.Forgot(ctx)

		case "check":
			cmdErr = a.Check(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "reload":
			cmdErr = a.Reload(ctx)

		case "stats":
			cmdErr = a.Stats(ctx)

		case "exit", "quit":
			printFn("Bye!")
			return

		default:
			printFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			if errors.Is(cmdErr, io.EOF) {
				return
			}
			logging.LogError(ctx, log, "command failed", cmdErr)
			printFn(style.ErrorPrefix, cmdErr.Error())
		}
	}
}

// Run starts the REPL and blocks until the user exits or ctx is done.
func (a *App) Run(ctx context.Context, log logging.Logger) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	a.r.Println(style.Bold.Render("Welcome to authfront (type 'help' for commands)"))
	runREPL(ctx, a, func() string { return a.status(ctx) }, a.reader, a.r.Println, log)
}
