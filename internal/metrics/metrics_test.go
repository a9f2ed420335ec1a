package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New()

	m.RecordLogin(OutcomeSuccess)
	m.RecordLogin(OutcomeWrongPassword)
	m.RecordLogin(OutcomeWrongPassword)
	m.RecordSignup(OutcomeValidationFailed)
	m.RecordLogout()
	m.RecordCancelled()
	m.SetRegistryUsers(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginAttempts.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginAttempts.WithLabelValues(OutcomeWrongPassword)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SignupAttempts.WithLabelValues(OutcomeValidationFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Logouts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsCancelled))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RegistryUsers))
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.RecordLogout()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Logouts))
}

func TestSnapshot(t *testing.T) {
	m := New()
	m.RecordLogin(OutcomeNoSuchAccount)
	m.SetRegistryUsers(2)
	m.ObserveRequest("login", 1500*time.Millisecond)

	lines, err := m.Snapshot()
	require.NoError(t, err)

	assert.Contains(t, lines, `authfront_login_attempts_total{outcome="no_such_account"} 1`)
	assert.Contains(t, lines, `authfront_registry_users 2`)
	assert.Contains(t, lines, `authfront_logouts_total 0`)
	assert.Contains(t, lines, `authfront_request_duration_seconds_count{kind="login"} 1`)
	assert.IsIncreasing(t, lines)
}
