package view

import (
	"errors"
	"fmt"
	"sync"
)

// View is one of the mutually exclusive top-level screens.
type View string

const (
	Login     View = "login"
	Signup    View = "signup"
	Dashboard View = "dashboard"
)

// Event drives the machine.
type Event string

const (
	EventShowSignup      Event = "show_signup"
	EventShowLogin       Event = "show_login"
	EventLoginSucceeded  Event = "login_succeeded"
	EventPopupElapsed    Event = "popup_elapsed"
	EventPopupClosed     Event = "popup_closed"
	EventSignupSucceeded Event = "signup_succeeded"
	EventSignupElapsed   Event = "signup_elapsed"
	EventLogout          Event = "logout"
)

var ErrInvalidTransition = errors.New("invalid view transition")

type popupEffect int

const (
	popupKeep popupEffect = iota
	popupShow
	popupHide
)

type transition struct {
	to    View
	popup popupEffect
}

type key struct {
	from  View
	event Event
}

var transitions = map[key]transition{
	{Login, EventShowSignup}:       {to: Signup},
	{Signup, EventShowLogin}:       {to: Login},
	{Login, EventLoginSucceeded}:   {to: Login, popup: popupShow},
	{Login, EventPopupElapsed}:     {to: Dashboard, popup: popupHide},
	{Signup, EventPopupElapsed}:    {to: Dashboard, popup: popupHide},
	{Signup, EventSignupSucceeded}: {to: Signup},
	{Signup, EventSignupElapsed}:   {to: Login},
	{Login, EventSignupElapsed}:    {to: Login},
}

// State is a point-in-time copy of the machine.
type State struct {
	View  View
	Popup bool
}

// Machine is the view state machine. Fire is safe for concurrent use but the
// frontend only ever calls it from its event loop.
type Machine struct {
	mu    sync.Mutex
	state State
}

// NewMachine starts on the dashboard when a session was restored, otherwise
// on login.
func NewMachine(sessionRestored bool) *Machine {
	v := Login
	if sessionRestored {
		v = Dashboard
	}
	return &Machine{state: State{View: v}}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Fire applies ev and returns the state before and after. An event with no
// transition from the current view returns ErrInvalidTransition and leaves
// the state as it was.
func (m *Machine) Fire(ev Event) (from, to State, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	from = m.state
	switch {
	case ev == EventPopupClosed:
		m.state.Popup = false
		return from, m.state, nil
	case ev == EventLogout && from.View == Dashboard:
		m.state = State{View: Login}
		return from, m.state, nil
	}

	tr, ok := transitions[key{from.View, ev}]
	if !ok {
		return from, from, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, from.View)
	}

	m.state.View = tr.to
	switch tr.popup {
	case popupShow:
		m.state.Popup = true
	case popupHide:
		m.state.Popup = false
	}
	return from, m.state, nil
}
