package terminal

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/authfront/internal/frontend"
	"github.com/dmitrijs2005/authfront/internal/registry"
	"github.com/dmitrijs2005/authfront/internal/services"
	"github.com/dmitrijs2005/authfront/internal/store"
	"github.com/dmitrijs2005/authfront/internal/view"
)

// lockedBuffer is written by the frontend loop and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type appEnv struct {
	app   *App
	front *frontend.Frontend
	out   *lockedBuffer
}

func newAppEnv(t *testing.T, input string) *appEnv {
	t.Helper()
	stubTerminal(t, false, nil)

	ctx, cancel := context.WithCancel(context.Background())
	c, err := frontend.Init(ctx, store.Options{ContextID: uuid.NewString()}, registry.DefaultOptions(), nil)
	require.NoError(t, err)

	out := &lockedBuffer{}
	r := NewRenderer(out)

	opts := frontend.DefaultOptions()
	opts.Latency = 0
	opts.PopupDelay = 10 * time.Millisecond
	opts.SignupRedirectDelay = 10 * time.Millisecond
	front := frontend.New(c, r, opts)

	errc := make(chan error, 1)
	go func() { errc <- front.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-errc)
		require.NoError(t, c.Close(context.Background()))
	})
	require.NoError(t, front.Sync(ctx))

	return &appEnv{
		app:   NewApp(front, r, strings.NewReader(input), out),
		front: front,
		out:   out,
	}
}

func (e *appEnv) waitView(t *testing.T, want view.View) {
	t.Helper()
	assert.Eventually(t, func() bool {
		return e.app.View(context.Background()) == want
	}, time.Second, 5*time.Millisecond)
}

func TestApp_LoginWrongPasswordThenDemo(t *testing.T) {
	env := newAppEnv(t, "demo@example.com\nnope\ndemo@example.com\nDemo123!\n")
	ctx := context.Background()

	require.NoError(t, env.app.Login(ctx))
	assert.Contains(t, env.out.String(), services.MsgWrongPassword)
	assert.Equal(t, view.Login, env.app.View(ctx))

	require.NoError(t, env.app.Login(ctx))
	assert.Contains(t, env.out.String(), "Welcome demo!")
	env.waitView(t, view.Dashboard)
	assert.Contains(t, env.out.String(), "Member since: 2024-01-01")

	require.NoError(t, env.app.WhoAmI(ctx))
	assert.Contains(t, env.out.String(), "demo <demo@example.com>, member since 2024-01-01")
	assert.Equal(t, "(demo dashboard)", env.app.status(ctx))

	require.NoError(t, env.app.Logout(ctx))
	assert.Equal(t, view.Login, env.app.View(ctx))
	_, ok := env.front.CurrentUser()
	assert.False(t, ok)
}

func TestApp_SignupThenLoginWithPrefill(t *testing.T) {
	env := newAppEnv(t, strings.Join([]string{
		"newbie", "new@example.com", "Secret12!", "Secret12!",
		"", "Secret12!",
	}, "\n")+"\n")
	ctx := context.Background()

	require.NoError(t, env.app.Signup(ctx))
	assert.Contains(t, env.out.String(), services.MsgSignupSucceeded)

	env.waitView(t, view.Login)
	require.NoError(t, env.front.Sync(ctx))

	require.NoError(t, env.app.Login(ctx))
	assert.Contains(t, env.out.String(), "Enter email [new@example.com]")
	assert.Contains(t, env.out.String(), "Welcome newbie!")
}

func TestApp_SignupDuplicateEmail(t *testing.T) {
	env := newAppEnv(t, "someone\ndemo@example.com\nSecret12!\nSecret12!\n")
	ctx := context.Background()

	require.NoError(t, env.app.Signup(ctx))
	assert.Contains(t, env.out.String(), services.MsgEmailAlreadyRegistered)
	assert.Equal(t, view.Signup, env.app.View(ctx))
}

func TestApp_LoginFromDashboardIsRefused(t *testing.T) {
	env := newAppEnv(t, "demo@example.com\nDemo123!\n")
	ctx := context.Background()

	require.NoError(t, env.app.Login(ctx))
	env.waitView(t, view.Dashboard)

	require.NoError(t, env.app.Login(ctx))
	assert.Contains(t, env.out.String(), "Signed in as demo@example.com, logout first.")
}

func TestApp_ForgotAndCheck(t *testing.T) {
	env := newAppEnv(t, "nobody@example.com\ndemo@example.com\nabc\n")
	ctx := context.Background()

	require.NoError(t, env.app.Forgot(ctx))
	assert.Contains(t, env.out.String(), services.MsgResetNoSuchAccount)

	require.NoError(t, env.app.Forgot(ctx))
	assert.Contains(t, env.out.String(), services.MsgResetSent)

	require.NoError(t, env.app.Check(ctx))
	assert.Contains(t, env.out.String(), "at least 8 characters")
}

func TestApp_StatsAndReload(t *testing.T) {
	env := newAppEnv(t, "demo@example.com\nwrong\n")
	ctx := context.Background()

	require.NoError(t, env.app.Login(ctx))
	require.NoError(t, env.app.Reload(ctx))
	require.NoError(t, env.app.Stats(ctx))

	out := env.out.String()
	assert.Contains(t, out, `authfront_login_attempts_total{outcome="wrong_password"} 1`)
	assert.Contains(t, out, "authfront_registry_users 1")
}

func TestApp_EOFDuringPrompt(t *testing.T) {
	env := newAppEnv(t, "")
	err := env.app.Login(context.Background())
	assert.Error(t, err)
}
