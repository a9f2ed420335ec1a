package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/authfront/internal/common"
	"github.com/dmitrijs2005/authfront/internal/metrics"
	"github.com/dmitrijs2005/authfront/internal/models"
	"github.com/dmitrijs2005/authfront/internal/style"
	"github.com/dmitrijs2005/authfront/internal/validation"
	"github.com/dmitrijs2005/authfront/internal/view"
)

// Frontend is what the REPL drives. *frontend.Frontend satisfies it.
type Frontend interface {
	Submit(form view.Form, fields map[string]string)
	ShowSignup()
	ShowLogin()
	ClosePopup()
	Logout()
	ForgotPassword(email string)
	CheckSignupEmail(email string)
	CheckSignupPassword(password, confirm string)
	Reload(ctx context.Context) error
	State(ctx context.Context) (view.State, error)
	Sync(ctx context.Context) error
	Await(ctx context.Context) error
	CurrentUser() (models.UserRecord, bool)
	Requirements(password string) []validation.Requirement
	Metrics() *metrics.Metrics
}

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// App binds the REPL commands to a frontend.
type App struct {
	front  Frontend
	r      *Renderer
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(front Frontend, r *Renderer, in io.Reader, out io.Writer) *App {
	return &App{front: front, r: r, reader: bufio.NewReader(in), out: out}
}

func (a *App) state(ctx context.Context) view.View {
	st, err := a.front.State(ctx)
	if err != nil {
		return a.r.View()
	}
	return st.View
}

// ensureView switches to the form the command needs. It reports false when
// that is impossible, i.e. on the dashboard.
func (a *App) ensureView(ctx context.Context, want view.View) (bool, error) {
	switch cur := a.state(ctx); {
	case cur == want:
		return true, nil
	case cur == view.Dashboard:
		u, _ := a.front.CurrentUser()
		a.r.Println(style.Dim.Render(fmt.Sprintf("Signed in as %s, logout first.", u.Email)))
		return false, nil
	case want == view.Login:
		a.front.ShowLogin()
	default:
		a.front.ShowSignup()
	}
	return true, a.front.Sync(ctx)
}

func (a *App) submitAndWait(ctx context.Context, form view.Form, fields map[string]string) error {
	a.front.Submit(form, fields)
	if err := a.front.Await(ctx); err != nil {
		return err
	}
	return a.front.Sync(ctx)
}

// Login prompts for credentials and submits the login form. An email
// pre-filled after signup is used when the answer is left empty.
func (a *App) Login(ctx context.Context) error {
	ok, err := a.ensureView(ctx, view.Login)
	if !ok || err != nil {
		return err
	}

	prompt := "Enter email"
	prefilled := a.r.TakePrefill(view.FieldLoginEmail)
	if prefilled != "" {
		prompt = fmt.Sprintf("Enter email [%s]", prefilled)
	}
	email, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if email == "" {
		email = prefilled
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.submitAndWait(ctx, view.FormLogin, map[string]string{
		view.FieldLoginEmail:    email,
		view.FieldLoginPassword: string(password),
	})
}

// Signup prompts for every signup field, giving live feedback on the email
// and password before submitting.
func (a *App) Signup(ctx context.Context) error {
	ok, err := a.ensureView(ctx, view.Signup)
	if !ok || err != nil {
		return err
	}

	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	a.front.CheckSignupEmail(email)
	if err := a.front.Sync(ctx); err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	a.front.CheckSignupPassword(string(password), string(confirm))
	if err := a.front.Sync(ctx); err != nil {
		return err
	}

	return a.submitAndWait(ctx, view.FormSignup, map[string]string{
		view.FieldSignupUsername:  username,
		view.FieldSignupEmail:     email,
		view.FieldSignupPassword:  string(password),
		view.FieldConfirmPassword: string(confirm),
	})
}

func (a *App) ShowSignup(ctx context.Context) error {
	a.front.ShowSignup()
	return a.front.Sync(ctx)
}

func (a *App) ShowLogin(ctx context.Context) error {
	a.front.ShowLogin()
	return a.front.Sync(ctx)
}

func (a *App) ClosePopup(ctx context.Context) error {
	a.front.ClosePopup()
	return a.front.Sync(ctx)
}

func (a *App) Logout(ctx context.Context) error {
	a.front.Logout()
	return a.front.Sync(ctx)
}

// Forgot runs the demo password-reset lookup.
func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Please enter your email address", a.out)
	if err != nil {
		return err
	}
	a.front.ForgotPassword(email)
	return a.front.Sync(ctx)
}

// Check prints the requirement checklist for a password without submitting
// anything.
func (a *App) Check(ctx context.Context) error {
	password, err := getPassword(a.reader, "Password to check", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	for _, req := range a.front.Requirements(string(password)) {
		a.r.Println("  " + style.Check(req.Met, req.Label))
	}
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, ok := a.front.CurrentUser()
	if !ok {
		a.r.Println(style.Dim.Render("Not signed in."))
		return nil
	}
	a.r.Println(fmt.Sprintf("%s <%s>, member since %s", u.Username, u.Email, memberSince(u.CreatedAt)))
	return nil
}

func (a *App) Reload(ctx context.Context) error {
	return a.front.Reload(ctx)
}

func (a *App) Stats(ctx context.Context) error {
	lines, err := a.front.Metrics().Snapshot()
	if err != nil {
		return err
	}
	for _, l := range lines {
		a.r.Println(l)
	}
	return nil
}

// status is shown in the prompt, e.g. "(demo dashboard)".
func (a *App) status(ctx context.Context) string {
	s := string(a.state(ctx))
	if u, ok := a.front.CurrentUser(); ok {
		s = u.Username + " " + s
	}
	return fmt.Sprintf("(%s)", s)
}
