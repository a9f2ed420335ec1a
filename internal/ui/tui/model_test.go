package tui

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/authfront/internal/validation"
	"github.com/dmitrijs2005/authfront/internal/view"
)

type fakeFront struct {
	calls     []string
	submitted map[string]string
	reloadErr error
}

func (f *fakeFront) Submit(form view.Form, fields map[string]string) {
	f.calls = append(f.calls, "submit "+string(form))
	f.submitted = fields
}
func (f *fakeFront) ShowSignup() { f.calls = append(f.calls, "show signup") }
func (f *fakeFront) ShowLogin()  { f.calls = append(f.calls, "show login") }
func (f *fakeFront) ClosePopup() { f.calls = append(f.calls, "close popup") }
func (f *fakeFront) Logout()     { f.calls = append(f.calls, "logout") }
func (f *fakeFront) ForgotPassword(e string) {
	f.calls = append(f.calls, "forgot "+e)
}
func (f *fakeFront) CheckSignupEmail(e string) {
	f.calls = append(f.calls, "check email "+e)
}
func (f *fakeFront) CheckSignupPassword(p, c string) {
	f.calls = append(f.calls, fmt.Sprintf("check password %q %q", p, c))
}
func (f *fakeFront) Reload(context.Context) error {
	f.calls = append(f.calls, "reload")
	return f.reloadErr
}

func newModel(t *testing.T) (Model, *fakeFront) {
	t.Helper()
	front := &fakeFront{}
	b := NewBridge()
	t.Cleanup(b.Close)
	return New(context.Background(), front, b), front
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func typed(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEscape}
)

func TestModel_LoginSubmit(t *testing.T) {
	m, front := newModel(t)

	m = send(t, m, navigateMsg{view.Login}, typed("demo@example.com"), enter, typed("Demo123!"), enter)

	assert.Equal(t, []string{"submit login"}, front.calls)
	assert.Equal(t, map[string]string{
		view.FieldLoginEmail:    "demo@example.com",
		view.FieldLoginPassword: "Demo123!",
	}, front.submitted)
	assert.NotContains(t, m.View(), "Demo123!", "password is masked")
}

func TestModel_SignupLiveChecks(t *testing.T) {
	m, front := newModel(t)

	m = send(t, m, navigateMsg{view.Signup},
		typed("bob"), tab,
		typed("bob@x.com"), tab,
		typed("a"), tab,
		typed("b"),
	)

	assert.Equal(t, []string{
		"check email bob@x.com",
		`check password "a" ""`,
		`check password "a" "b"`,
	}, front.calls)
	assert.Contains(t, m.View(), "Create account")
}

func TestModel_SwitchAndForgot(t *testing.T) {
	m, front := newModel(t)
	ctrlN := tea.KeyMsg{Type: tea.KeyCtrlN}

	m = send(t, m, typed("who@x.com"), tea.KeyMsg{Type: tea.KeyCtrlF}, ctrlN, navigateMsg{view.Signup}, ctrlN)

	assert.Equal(t, []string{"forgot who@x.com", "show signup", "show login"}, front.calls)
	assert.Equal(t, view.Signup, m.view)
}

func TestModel_MirrorsCallbacks(t *testing.T) {
	m, _ := newModel(t)

	m = send(t, m,
		navigateMsg{view.Signup},
		fieldErrorMsg{view.FieldConfirmPassword, "Passwords do not match"},
		requirementsMsg{[]validation.Requirement{{Label: "one number"}}},
		loadingMsg{view.FormSignup, true, view.LoadingSignup},
	)
	out := m.View()
	assert.Contains(t, out, "Passwords do not match")
	assert.Contains(t, out, "one number")
	assert.Contains(t, out, view.LoadingSignup)

	m = send(t, m,
		fieldOKMsg{view.FieldConfirmPassword},
		loadingMsg{view.FormSignup, false, ""},
		successMsg{view.AreaSignupSuccess, "Account created successfully! You can now login."},
	)
	out = m.View()
	assert.NotContains(t, out, "Passwords do not match")
	assert.NotContains(t, out, view.LoadingSignup)
	assert.Contains(t, out, "Account created successfully!")

	m = send(t, m, successMsg{view.AreaSignupSuccess, ""}, navigateMsg{view.Login}, prefillMsg{view.FieldLoginEmail, "new@x.com"})
	assert.NotContains(t, m.View(), "Account created")
	assert.Equal(t, "new@x.com", m.value(view.FieldLoginEmail))
}

func TestModel_PopupAndDashboard(t *testing.T) {
	m, front := newModel(t)

	m = send(t, m, typed("demo@example.com"), popupMsg{"Welcome demo!", "Welcome back!"})
	assert.Contains(t, m.View(), "Welcome demo!")

	m = send(t, m, esc, hidePopupMsg{})
	assert.NotContains(t, m.View(), "Welcome demo!")
	assert.Equal(t, []string{"close popup"}, front.calls)

	m = send(t, m,
		navigateMsg{view.Dashboard},
		profileMsg{view.Profile{Username: "demo", Email: "demo@example.com", MemberSince: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}},
	)
	out := m.View()
	assert.Contains(t, out, "Welcome back, demo!")
	assert.Contains(t, out, "Member since: 2024-01-01")
	assert.Empty(t, m.value(view.FieldLoginEmail), "forms reset on the dashboard")

	m = send(t, m, typed("x"), tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, []string{"close popup", "logout"}, front.calls)
}

func TestModel_QuitAndReload(t *testing.T) {
	m, front := newModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	front.reloadErr = context.Canceled
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, reloadedMsg{err: context.Canceled}, msg)

	m = send(t, m, msg)
	assert.Contains(t, m.View(), "cancelled")
	assert.Equal(t, []string{"reload"}, front.calls)
}

func TestBridge(t *testing.T) {
	b := NewBridge()
	var ui view.UI = b
	ui.NavigateTo(view.Signup)
	ui.RenderFieldError(view.FieldSignupEmail, "taken")

	assert.Equal(t, navigateMsg{view.Signup}, b.wait())
	assert.Equal(t, fieldErrorMsg{view.FieldSignupEmail, "taken"}, b.wait())

	b.Close()
	b.Close()
	assert.Nil(t, b.wait())

	done := make(chan struct{})
	go func() {
		for range cap(b.events) + 1 {
			b.HidePopup()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send blocked after Close")
	}
}

func TestModel_BridgeMessagesRearmWait(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(hidePopupMsg{})
	assert.NotNil(t, cmd)

	_, cmd = m.Update(reloadedMsg{})
	assert.Nil(t, cmd)
}
