package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMachine_InitialState(t *testing.T) {
	assert.Equal(t, State{View: Login}, NewMachine(false).State())
	assert.Equal(t, State{View: Dashboard}, NewMachine(true).State())
}

func TestFire_Transitions(t *testing.T) {
	tests := []struct {
		name  string
		start State
		event Event
		want  State
	}{
		{"toggle to signup", State{View: Login}, EventShowSignup, State{View: Signup}},
		{"toggle to login", State{View: Signup}, EventShowLogin, State{View: Login}},
		{"login success shows popup", State{View: Login}, EventLoginSucceeded, State{View: Login, Popup: true}},
		{"popup elapses to dashboard", State{View: Login, Popup: true}, EventPopupElapsed, State{View: Dashboard}},
		{"popup elapses after toggling", State{View: Signup, Popup: true}, EventPopupElapsed, State{View: Dashboard}},
		{"popup closed keeps view", State{View: Login, Popup: true}, EventPopupClosed, State{View: Login}},
		{"popup closed without popup", State{View: Dashboard}, EventPopupClosed, State{View: Dashboard}},
		{"signup success stays", State{View: Signup}, EventSignupSucceeded, State{View: Signup}},
		{"signup elapsed goes to login", State{View: Signup}, EventSignupElapsed, State{View: Login}},
		{"signup elapsed on login is a no-op", State{View: Login}, EventSignupElapsed, State{View: Login}},
		{"logout", State{View: Dashboard}, EventLogout, State{View: Login}},
		{"logout hides popup", State{View: Dashboard, Popup: true}, EventLogout, State{View: Login}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Machine{state: tt.start}
			from, to, err := m.Fire(tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.start, from)
			assert.Equal(t, tt.want, to)
			assert.Equal(t, tt.want, m.State())
		})
	}
}

func TestFire_InvalidTransitionsLeaveStateAlone(t *testing.T) {
	tests := []struct {
		start State
		event Event
	}{
		{State{View: Signup}, EventShowSignup},
		{State{View: Login}, EventShowLogin},
		{State{View: Dashboard}, EventShowSignup},
		{State{View: Dashboard}, EventShowLogin},
		{State{View: Signup}, EventLoginSucceeded},
		{State{View: Login}, EventSignupSucceeded},
		{State{View: Dashboard}, EventPopupElapsed},
		{State{View: Login}, EventLogout},
		{State{View: Signup, Popup: true}, EventLogout},
		{State{View: Login}, Event("teleport")},
	}

	for _, tt := range tests {
		m := &Machine{state: tt.start}
		_, to, err := m.Fire(tt.event)
		require.ErrorIs(t, err, ErrInvalidTransition, "%s from %s", tt.event, tt.start.View)
		assert.Equal(t, tt.start, to)
		assert.Equal(t, tt.start, m.State())
	}
}

func TestFire_FullCycle(t *testing.T) {
	m := NewMachine(false)
	for _, ev := range []Event{
		EventShowSignup, EventSignupSucceeded, EventSignupElapsed,
		EventLoginSucceeded, EventPopupElapsed, EventLogout,
	} {
		_, _, err := m.Fire(ev)
		require.NoError(t, err, ev)
	}
	assert.Equal(t, State{View: Login}, m.State())
}
