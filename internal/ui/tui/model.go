package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmitrijs2005/authfront/internal/style"
	"github.com/dmitrijs2005/authfront/internal/validation"
	"github.com/dmitrijs2005/authfront/internal/view"
)

// Frontend is the part of *frontend.Frontend the model drives.
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
}

var fieldLabels = map[string]string{
	view.FieldLoginEmail:      "Email",
	view.FieldLoginPassword:   "Password",
	view.FieldSignupUsername:  "Username",
	view.FieldSignupEmail:     "Email",
	view.FieldSignupPassword:  "Password",
	view.FieldConfirmPassword: "Confirm password",
}

var secretFields = map[string]bool{
	view.FieldLoginPassword:   true,
	view.FieldSignupPassword:  true,
	view.FieldConfirmPassword: true,
}

// Model is the bubbletea model for the login, signup and dashboard views.
// What is shown is decided by the frontend; the model only mirrors the
// callbacks it receives through the Bridge.
type Model struct {
	ctx    context.Context
	front  Frontend
	bridge *Bridge
	help   help.Model

	view    view.View
	popup   *popupMsg
	inputs  map[view.Form][]textinput.Model
	focus   int
	errs    map[string]string
	success map[string]string
	loading map[view.Form]string
	profile *view.Profile
	reqs    []validation.Requirement
	err     error
}

func New(ctx context.Context, front Frontend, bridge *Bridge) Model {
	m := Model{
		ctx:     ctx,
		front:   front,
		bridge:  bridge,
		help:    help.New(),
		view:    view.Login,
		inputs:  make(map[view.Form][]textinput.Model, len(view.FormFields)),
		errs:    make(map[string]string),
		success: make(map[string]string),
		loading: make(map[view.Form]string),
	}
	for form, fields := range view.FormFields {
		ins := make([]textinput.Model, len(fields))
		for i, field := range fields {
			in := textinput.New()
			in.Prompt = "> "
			in.Placeholder = strings.ToLower(fieldLabels[field])
			in.CharLimit = 128
			if secretFields[field] {
				in.EchoMode = textinput.EchoPassword
				in.EchoCharacter = '•'
			}
			ins[i] = in
		}
		m.inputs[form] = ins
	}
	m.inputs[view.FormLogin][0].Focus()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.bridge.wait)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case reloadedMsg:
		m.err = msg.err
		return m, nil
	}

	if m.apply(msg) {
		return m, m.bridge.wait
	}

	form, ok := formOf(m.view)
	if !ok {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[form][m.focus], cmd = m.inputs[form][m.focus].Update(msg)
	return m, cmd
}

// apply mirrors one frontend callback. It reports whether msg was one.
func (m *Model) apply(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case fieldErrorMsg:
		m.errs[msg.field] = msg.text
	case fieldOKMsg:
		delete(m.errs, msg.field)
	case successMsg:
		if msg.text == "" {
			delete(m.success, msg.area)
		} else {
			m.success[msg.area] = msg.text
		}
	case navigateMsg:
		m.navigate(msg.view)
	case popupMsg:
		m.popup = &msg
	case hidePopupMsg:
		m.popup = nil
	case loadingMsg:
		if msg.loading {
			m.loading[msg.form] = msg.label
		} else {
			delete(m.loading, msg.form)
		}
	case prefillMsg:
		if in := m.input(msg.field); in != nil {
			in.SetValue(msg.value)
		}
	case profileMsg:
		p := msg.profile
		m.profile = &p
	case requirementsMsg:
		m.reqs = msg.reqs
	default:
		return false
	}
	return true
}

func (m *Model) navigate(v view.View) {
	if form, ok := formOf(m.view); ok {
		m.inputs[form][m.focus].Blur()
	}
	m.view = v
	m.focus = 0
	m.err = nil

	if v == view.Dashboard {
		for _, ins := range m.inputs {
			for i := range ins {
				ins[i].Reset()
			}
		}
		m.reqs = nil
		return
	}
	m.profile = nil
	form, _ := formOf(v)
	m.inputs[form][0].Focus()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Reload):
		return m, m.reload
	case m.popup != nil && key.Matches(msg, keys.ClosePopup):
		m.front.ClosePopup()
		return m, nil
	}

	form, ok := formOf(m.view)
	if !ok {
		if key.Matches(msg, keys.Logout) {
			m.front.Logout()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.SwitchForm):
		if m.view == view.Login {
			m.front.ShowSignup()
		} else {
			m.front.ShowLogin()
		}
		return m, nil
	case m.view == view.Login && key.Matches(msg, keys.Forgot):
		m.front.ForgotPassword(m.value(view.FieldLoginEmail))
		return m, nil
	case key.Matches(msg, keys.Next):
		return m, m.moveFocus(1)
	case key.Matches(msg, keys.Prev):
		return m, m.moveFocus(-1)
	case key.Matches(msg, keys.Submit):
		if m.focus < len(m.inputs[form])-1 {
			return m, m.moveFocus(1)
		}
		m.front.Submit(form, m.fields(form))
		return m, nil
	}

	field := view.FormFields[form][m.focus]
	before := m.inputs[form][m.focus].Value()
	var cmd tea.Cmd
	m.inputs[form][m.focus], cmd = m.inputs[form][m.focus].Update(msg)
	if secretFields[field] && form == view.FormSignup && m.inputs[form][m.focus].Value() != before {
		m.front.CheckSignupPassword(m.value(view.FieldSignupPassword), m.value(view.FieldConfirmPassword))
	}
	return m, cmd
}

// moveFocus cycles through the visible form. Leaving the signup email runs
// the availability check.
func (m *Model) moveFocus(delta int) tea.Cmd {
	form, _ := formOf(m.view)
	ins := m.inputs[form]
	if view.FormFields[form][m.focus] == view.FieldSignupEmail {
		m.front.CheckSignupEmail(ins[m.focus].Value())
	}
	ins[m.focus].Blur()
	m.focus = (m.focus + delta + len(ins)) % len(ins)
	return ins[m.focus].Focus()
}

func (m Model) reload() tea.Msg {
	return reloadedMsg{err: m.front.Reload(m.ctx)}
}

func (m Model) input(field string) *textinput.Model {
	for form, fields := range view.FormFields {
		for i, f := range fields {
			if f == field {
				return &m.inputs[form][i]
			}
		}
	}
	return nil
}

func (m Model) value(field string) string {
	if in := m.input(field); in != nil {
		return in.Value()
	}
	return ""
}

func (m Model) fields(form view.Form) map[string]string {
	out := make(map[string]string, len(view.FormFields[form]))
	for i, field := range view.FormFields[form] {
		out[field] = m.inputs[form][i].Value()
	}
	return out
}

func formOf(v view.View) (view.Form, bool) {
	switch v {
	case view.Login:
		return view.FormLogin, true
	case view.Signup:
		return view.FormSignup, true
	default:
		return "", false
	}
}

func (m Model) View() string {
	var b strings.Builder

	switch m.view {
	case view.Dashboard:
		b.WriteString(style.Title.Render("Dashboard") + "\n")
		if p := m.profile; p != nil {
			b.WriteString(style.Bold.Render(fmt.Sprintf("Welcome back, %s!", p.Username)) + "\n\n")
			fmt.Fprintf(&b, "  Username:     %s\n", p.Username)
			fmt.Fprintf(&b, "  Email:        %s\n", p.Email)
			fmt.Fprintf(&b, "  Member since: %s\n", memberSince(p.MemberSince))
		}
	case view.Signup:
		b.WriteString(style.Title.Render("Create account") + "\n")
		m.writeForm(&b, view.FormSignup)
		for _, r := range m.reqs {
			b.WriteString("  " + style.Check(r.Met, r.Label) + "\n")
		}
		m.writeArea(&b, view.AreaSignupStatus)
		m.writeArea(&b, view.AreaSignupSuccess)
	default:
		b.WriteString(style.Title.Render("Login") + "\n")
		m.writeForm(&b, view.FormLogin)
		m.writeArea(&b, view.AreaLoginStatus)
	}

	if form, ok := formOf(m.view); ok {
		if label := m.loading[form]; label != "" {
			b.WriteString("\n" + style.Dim.Render(label) + "\n")
		}
	}
	if m.popup != nil {
		b.WriteString("\n" + style.Popup.Render(style.Bold.Render(m.popup.title)+"\n"+m.popup.text) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + style.ErrorPrefix + " " + style.Error.Render(errText(m.err)) + "\n")
	}

	b.WriteString("\n" + m.help.View(contextual{m.bindings()}))
	return b.String()
}

func (m Model) writeForm(b *strings.Builder, form view.Form) {
	for i, field := range view.FormFields[form] {
		b.WriteString(style.Bold.Render(fieldLabels[field]) + "\n")
		b.WriteString(m.inputs[form][i].View() + "\n")
		if e := m.errs[field]; e != "" {
			b.WriteString("  " + style.ErrorPrefix + " " + style.Error.Render(e) + "\n")
		}
	}
}

func (m Model) writeArea(b *strings.Builder, area string) {
	if e := m.errs[area]; e != "" {
		b.WriteString("\n" + style.ErrorPrefix + " " + style.Error.Render(e) + "\n")
	}
	if s := m.success[area]; s != "" {
		b.WriteString("\n" + style.SuccessPrefix + " " + style.Success.Render(s) + "\n")
	}
}

func (m Model) bindings() []key.Binding {
	var bs []key.Binding
	switch m.view {
	case view.Dashboard:
		bs = []key.Binding{keys.Logout}
	case view.Login:
		bs = []key.Binding{keys.Next, keys.Submit, keys.SwitchForm, keys.Forgot}
	default:
		bs = []key.Binding{keys.Next, keys.Submit, keys.SwitchForm}
	}
	if m.popup != nil {
		bs = append(bs, keys.ClosePopup)
	}
	return append(bs, keys.Reload, keys.Quit)
}

func memberSince(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format(time.DateOnly)
}

func errText(err error) string {
	if errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	return err.Error()
}
