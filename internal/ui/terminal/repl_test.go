package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/authfront/internal/logging"
	"github.com/dmitrijs2005/authfront/internal/view"
)

type fakeExec struct {
	view  view.View
	calls []string
	err   error
}

func (f *fakeExec) call(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeExec) View(context.Context) view.View { return f.view }
func (f *fakeExec) Login(context.Context) error {
	f.view = view.Dashboard
	return f.call("login")
}
func (f *fakeExec) Signup(context.Context) error     { return f.call("signup") }
func (f *fakeExec) ShowSignup(context.Context) error { return f.call("show signup") }
func (f *fakeExec) ShowLogin(context.Context) error  { return f.call("show login") }
func (f *fakeExec) ClosePopup(context.Context) error { return f.call("close") }
func (f *fakeExec) Logout(context.Context) error {
	f.view = view.Login
	return f.call("logout")
}
func (f *fakeExec) Forgot(context.Context) error { return f.call("forgot") }
func (f *fakeExec) Check(context.Context) error  { return f.call("check") }
func (f *fakeExec) WhoAmI(context.Context) error { return f.call("whoami") }
func (f *fakeExec) Reload(context.Context) error { return f.call("reload") }
func (f *fakeExec) Stats(context.Context) error  { return f.call("stats") }

type printed struct{ lines []string }

func (p *printed) println(a ...any) {
	p.lines = append(p.lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
}

func run(t *testing.T, exec *fakeExec, input string) *printed {
	t.Helper()
	out := &printed{}
	runREPL(context.Background(), exec, func() string { return "status" },
		bufio.NewReader(strings.NewReader(input)), out.println, logging.NewNopLogger())
	return out
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	exec := &fakeExec{view: view.Login}

	run(t, exec, strings.Join([]string{
		"help",
		"show signup",
		"signup",
		"show login",
		"login",
		"whoami",
		"close",
		"stats",
		"reload",
		"logout",
		"forgot",
		"check",
		"register",
		"exit",
		"login",
	}, "\n"))

	assert.Equal(t, []string{
		"show signup", "signup", "show login", "login", "whoami", "close",
		"stats", "reload", "logout", "forgot", "check", "signup",
	}, exec.calls, "nothing runs after exit")
}

func TestRunREPL_HelpDependsOnView(t *testing.T) {
	out := run(t, &fakeExec{view: view.Dashboard}, "help\nquit\n")
	assert.Contains(t, out.lines, "Available commands: whoami, logout, close, reload, stats, exit")

	out = run(t, &fakeExec{view: view.Login}, "help\n")
	assert.Contains(t, out.lines, "Available commands: login, show signup, signup, forgot, close, reload, stats, exit")
}

func TestRunREPL_UnknownAndBlank(t *testing.T) {
	exec := &fakeExec{view: view.Login}
	out := run(t, exec, "\n   \nfoobar\nshow\nquit\n")

	assert.Empty(t, exec.calls)
	assert.Contains(t, out.lines, "Unknown command: foobar")
	assert.Contains(t, out.lines, "Unknown command: show")
	assert.Equal(t, "Bye!", out.lines[len(out.lines)-1])
}

func TestRunREPL_CommandErrorsArePrinted(t *testing.T) {
	exec := &fakeExec{view: view.Login, err: errors.New("boom")}
	out := run(t, exec, "stats\nexit\n")

	var found bool
	for _, l := range out.lines {
		if strings.HasSuffix(l, "boom") {
			found = true
		}
	}
	assert.True(t, found, "error not printed: %v", out.lines)
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	exec := &fakeExec{view: view.Login}
	out := run(t, exec, "stats")
	assert.Equal(t, []string{"stats"}, exec.calls)
	assert.NotContains(t, out.lines, "Bye!")
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec := &fakeExec{view: view.Login}
	runREPL(ctx, exec, func() string { return "" },
		bufio.NewReader(strings.NewReader("stats\n")), func(...any) {}, logging.NewNopLogger())
	assert.Empty(t, exec.calls)
}
