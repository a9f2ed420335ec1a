package terminal

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/authfront/internal/style"
	"github.com/dmitrijs2005/authfront/internal/validation"
	"github.com/dmitrijs2005/authfront/internal/view"
)

var fieldLabels = map[string]string{
	view.FieldLoginEmail:      "Email",
	view.FieldLoginPassword:   "Password",
	view.FieldSignupUsername:  "Username",
	view.FieldSignupEmail:     "Email",
	view.FieldSignupPassword:  "Password",
	view.FieldConfirmPassword: "Confirm password",
}

// Renderer prints every UI callback as a styled line. It is called from the
// frontend loop and read by the REPL, hence the mutex.
type Renderer struct {
	mu       sync.Mutex
	w        io.Writer
	view     view.View
	prefills map[string]string
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w, prefills: make(map[string]string)}
}

func (r *Renderer) println(s string) {
	fmt.Fprintln(r.w, s)
}

func (r *Renderer) RenderFieldError(field, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if label, ok := fieldLabels[field]; ok {
		r.println(fmt.Sprintf("%s %s: %s", style.ErrorPrefix, label, style.Error.Render(msg)))
		return
	}
	r.println(fmt.Sprintf("%s %s", style.ErrorPrefix, style.Error.Render(msg)))
}

// RenderFieldOK is silent: a terminal cannot un-print an error.
func (r *Renderer) RenderFieldOK(string) {}

func (r *Renderer) RenderSuccess(_ string, msg string) {
	if msg == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.println(fmt.Sprintf("%s %s", style.SuccessPrefix, style.Success.Render(msg)))
}

func (r *Renderer) NavigateTo(v view.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view = v
	r.println(fmt.Sprintf("%s %s", style.ArrowPrefix, style.Title.Render(viewTitle(v))))
}

func (r *Renderer) ShowPopup(title, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.println(style.Popup.Render(style.Bold.Render(title) + "\n" + msg))
}

func (r *Renderer) HidePopup() {}

func (r *Renderer) SetLoading(_ view.Form, loading bool, label string) {
	if !loading {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.println(style.Dim.Render(label))
}

func (r *Renderer) Prefill(field, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefills[field] = value
}

func (r *Renderer) RenderProfile(p view.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.println(style.Bold.Render(fmt.Sprintf("Welcome back, %s!", p.Username)))
	r.println(fmt.Sprintf("  Username:     %s", p.Username))
	r.println(fmt.Sprintf("  Email:        %s", p.Email))
	r.println(fmt.Sprintf("  Member since: %s", memberSince(p.MemberSince)))
}

func (r *Renderer) RenderRequirements(reqs []validation.Requirement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range reqs {
		r.println("  " + style.Check(req.Met, req.Label))
	}
}

// View is the last view navigated to.
func (r *Renderer) View() view.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view
}

// TakePrefill returns and forgets the value pre-filled into field.
func (r *Renderer) TakePrefill(field string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.prefills[field]
	delete(r.prefills, field)
	return v
}

// Println prints a plain line without interleaving with renders.
func (r *Renderer) Println(a ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, a...)
}

func viewTitle(v view.View) string {
	switch v {
	case view.Login:
		return "Login"
	case view.Signup:
		return "Create account"
	case view.Dashboard:
		return "Dashboard"
	default:
		return string(v)
	}
}

func memberSince(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format(time.DateOnly)
}
