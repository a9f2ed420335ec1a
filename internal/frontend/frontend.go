// Package frontend hosts the single event loop that connects a UI
// collaborator to the authentication core.
//
// Every state change happens on the goroutine running Run. Public methods
// post work to the loop and return; Reload, State, Sync and Await wait for
// the loop to answer. A submission waits out the simulated latency on a
// timer and posts its decision back to the loop.
//
// Navigation (toggling forms, logout, the popup handing over to the
// dashboard, the signup redirect), a newer submission and Reload cancel
// the in-flight request: its decision never runs, so it neither mutates the
// registry or session nor renders anything. Logout and Reload also cancel
// the courtesy timers (popup auto-dismiss, signup redirect).
package frontend

import (
	"context"
	"errors"
	"maps"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/authfront/internal/logging"
	"github.com/dmitrijs2005/authfront/internal/metrics"
	"github.com/dmitrijs2005/authfront/internal/models"
	"github.com/dmitrijs2005/authfront/internal/services"
	"github.com/dmitrijs2005/authfront/internal/validation"
	"github.com/dmitrijs2005/authfront/internal/view"
)

var (
	ErrStopped        = errors.New("frontend is not running")
	ErrAlreadyRunning = errors.New("frontend is already running")
)

// Options configures delays and collaborators. Zero-value collaborators are
// replaced with defaults by New.
type Options struct {
	Latency             time.Duration
	PopupDelay          time.Duration
	SignupRedirectDelay time.Duration
	PrefillLoginEmail   bool
	Policy              validation.PasswordPolicy

	Scheduler Scheduler
	Metrics   *metrics.Metrics
	Logger    logging.Logger
}

func DefaultOptions() Options {
	return Options{
		Latency:             time.Second,
		PopupDelay:          2 * time.Second,
		SignupRedirectDelay: 2 * time.Second,
		PrefillLoginEmail:   true,
		Policy:              validation.DefaultPolicy(),
	}
}

type request struct {
	id     string
	form   view.Form
	fields map[string]string
	ctx    context.Context
	cancel context.CancelFunc
	timer  Timer
	start  time.Time
	done   chan struct{}
}

type Frontend struct {
	c       *Context
	ui      view.UI
	auth    *services.AuthController
	opts    Options
	log     logging.Logger
	metrics *metrics.Metrics

	events  chan func()
	done    chan struct{}
	running atomic.Bool

	// Owned by the loop.
	runCtx      context.Context
	machine     *view.Machine
	inflight    *request
	popupTimer  Timer
	signupTimer Timer
}

func New(c *Context, ui view.UI, opts Options) *Frontend {
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	_, restored := c.Session.Current()

	return &Frontend{
		c:       c,
		ui:      ui,
		auth:    services.NewAuthController(c.Registry, c.Session, opts.Policy, opts.Metrics, opts.Logger.With("component", "auth")),
		opts:    opts,
		log:     opts.Logger.With("component", "frontend"),
		metrics: opts.Metrics,
		events:  make(chan func(), 64),
		done:    make(chan struct{}),
		runCtx:  context.Background(),
		machine: view.NewMachine(restored),
	}
}

// Run processes events until ctx is cancelled. It can be called once.
func (f *Frontend) Run(ctx context.Context) error {
	if !f.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(f.done)

	f.runCtx = ctx
	f.showCurrent()
	f.log.Info(ctx, "frontend started", "view", f.machine.State().View)

	for {
		select {
		case <-ctx.Done():
			f.cancelInflight()
			f.stopTimers()
			f.log.Info(context.WithoutCancel(ctx), "frontend stopped")
			return nil
		case fn := <-f.events:
			fn()
		}
	}
}

// Done is closed once Run has returned.
func (f *Frontend) Done() <-chan struct{} {
	return f.done
}

func (f *Frontend) post(fn func()) bool {
	select {
	case f.events <- fn:
		return true
	case <-f.done:
		return false
	}
}

func (f *Frontend) call(ctx context.Context, fn func() error) error {
	res := make(chan error, 1)
	if !f.post(func() { res <- fn() }) {
		return ErrStopped
	}
	select {
	case err := <-res:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-f.done:
		select {
		case err := <-res:
			return err
		default:
			return ErrStopped
		}
	}
}

// Submit starts a login or signup request with the raw field values.
func (f *Frontend) Submit(form view.Form, fields map[string]string) {
	fields = maps.Clone(fields)
	f.post(func() { f.submit(form, fields) })
}

func (f *Frontend) ShowSignup() { f.post(func() { f.toggle(view.EventShowSignup) }) }

func (f *Frontend) ShowLogin() { f.post(func() { f.toggle(view.EventShowLogin) }) }

func (f *Frontend) ClosePopup() { f.post(f.closePopup) }

func (f *Frontend) Logout() { f.post(f.logout) }

// ForgotPassword runs the demo reset lookup. An empty email is ignored.
func (f *Frontend) ForgotPassword(email string) {
	f.post(func() { f.forgotPassword(email) })
}

// CheckSignupEmail is the on-blur availability check.
func (f *Frontend) CheckSignupEmail(email string) {
	f.post(func() { f.render(f.auth.CheckEmailAvailable(email)) })
}

// CheckSignupPassword is the as-you-type password and confirmation check.
func (f *Frontend) CheckSignupPassword(password, confirm string) {
	f.post(func() {
		if r, ok := f.ui.(view.RequirementsRenderer); ok {
			r.RenderRequirements(f.auth.Policy().Requirements(password))
		}
		for _, c := range f.auth.CheckPassword(password, confirm) {
			f.render(c)
		}
	})
}

// Reload re-reads registry and session from the store and shows the view a
// fresh start would show.
func (f *Frontend) Reload(ctx context.Context) error {
	return f.call(ctx, func() error {
		f.cancelInflight()
		f.stopTimers()
		if err := f.c.Reload(f.runCtx); err != nil {
			logging.LogError(f.runCtx, f.log, "reload", err)
			return err
		}
		_, restored := f.c.Session.Current()
		f.machine = view.NewMachine(restored)
		f.metrics.SetRegistryUsers(f.c.Registry.Len())
		f.ui.HidePopup()
		f.showCurrent()
		f.log.Info(f.runCtx, "reloaded", "view", f.machine.State().View)
		return nil
	})
}

// State returns the current view state.
func (f *Frontend) State(ctx context.Context) (view.State, error) {
	var st view.State
	err := f.call(ctx, func() error {
		st = f.machine.State()
		return nil
	})
	return st, err
}

// Sync returns once every event posted before it has been processed.
func (f *Frontend) Sync(ctx context.Context) error {
	return f.call(ctx, func() error { return nil })
}

// Await blocks until the in-flight request, if any, is decided or
// cancelled.
func (f *Frontend) Await(ctx context.Context) error {
	var wait chan struct{}
	err := f.call(ctx, func() error {
		if f.inflight != nil {
			wait = f.inflight.done
		}
		return nil
	})
	if err != nil || wait == nil {
		return err
	}
	select {
	case <-wait:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-f.done:
		return ErrStopped
	}
}

// CurrentUser is the signed-in user, if any.
func (f *Frontend) CurrentUser() (models.UserRecord, bool) {
	return f.c.Session.Current()
}

// Requirements evaluates the password checklist without touching the UI.
func (f *Frontend) Requirements(password string) []validation.Requirement {
	return f.auth.Policy().Requirements(password)
}

func (f *Frontend) Metrics() *metrics.Metrics {
	return f.metrics
}

// ---- loop side ----

var formViews = map[view.Form]view.View{
	view.FormLogin:  view.Login,
	view.FormSignup: view.Signup,
}

func (f *Frontend) submit(form view.Form, fields map[string]string) {
	want, ok := formViews[form]
	if !ok {
		f.log.Warn(f.runCtx, "unknown form submitted", "form", form)
		return
	}
	if st := f.machine.State(); st.View != want {
		f.log.Warn(f.runCtx, "submission ignored", "form", form, "view", st.View)
		return
	}

	f.cancelInflight()
	for _, field := range view.FormFields[form] {
		f.ui.RenderFieldOK(field)
	}

	// Signup input is checked up front; only a valid form waits out the
	// latency. The check repeats at decision time.
	if form == view.FormSignup {
		out := f.auth.ValidateSignup(f.runCtx,
			fields[view.FieldSignupUsername],
			fields[view.FieldSignupEmail],
			fields[view.FieldSignupPassword],
			fields[view.FieldConfirmPassword],
		)
		if !out.Success() {
			for _, e := range out.Errors {
				f.ui.RenderFieldError(e.Field, e.Message)
			}
			return
		}
	}

	ctx, cancel := context.WithCancel(f.runCtx)
	req := &request{
		id:     uuid.NewString(),
		form:   form,
		fields: fields,
		ctx:    ctx,
		cancel: cancel,
		start:  time.Now(),
		done:   make(chan struct{}),
	}
	f.inflight = req
	f.setLoading(form, true)
	req.timer = f.opts.Scheduler.AfterFunc(f.opts.Latency, func() {
		f.post(func() { f.decide(req) })
	})
	f.log.Debug(ctx, "request started", "request_id", req.id, "form", form)
}

func (f *Frontend) decide(req *request) {
	if req != f.inflight || req.ctx.Err() != nil {
		f.log.Debug(f.runCtx, "stale result dropped", "request_id", req.id)
		return
	}
	f.inflight = nil
	defer close(req.done)
	defer req.cancel()

	f.setLoading(req.form, false)
	f.metrics.ObserveRequest(string(req.form), time.Since(req.start))

	switch req.form {
	case view.FormLogin:
		f.finishLogin(req)
	case view.FormSignup:
		f.finishSignup(req)
	}
}

func (f *Frontend) finishLogin(req *request) {
	out := f.auth.Login(req.ctx, req.fields[view.FieldLoginEmail], req.fields[view.FieldLoginPassword])
	if !out.Success() {
		f.ui.RenderFieldError(out.Error.Field, out.Error.Message)
		return
	}
	if _, _, err := f.machine.Fire(view.EventLoginSucceeded); err != nil {
		f.log.Warn(req.ctx, "login succeeded off the login view", "error", err)
		return
	}
	f.ui.ShowPopup(services.WelcomeTitle(out.User), services.MsgWelcomeBack)
	f.schedule(&f.popupTimer, f.opts.PopupDelay, f.popupElapsed)
}

func (f *Frontend) popupElapsed() {
	_, to, err := f.machine.Fire(view.EventPopupElapsed)
	if err != nil {
		f.log.Debug(f.runCtx, "popup timer ignored", "error", err)
		return
	}
	f.cancelInflight()
	f.ui.HidePopup()
	f.ui.NavigateTo(to.View)
	f.renderProfile()
}

func (f *Frontend) finishSignup(req *request) {
	out := f.auth.Signup(req.ctx,
		req.fields[view.FieldSignupUsername],
		req.fields[view.FieldSignupEmail],
		req.fields[view.FieldSignupPassword],
		req.fields[view.FieldConfirmPassword],
	)
	if !out.Success() {
		for _, e := range out.Errors {
			f.ui.RenderFieldError(e.Field, e.Message)
		}
		return
	}
	if _, _, err := f.machine.Fire(view.EventSignupSucceeded); err != nil {
		f.log.Warn(req.ctx, "signup succeeded off the signup view", "error", err)
		return
	}
	f.ui.RenderSuccess(view.AreaSignupSuccess, services.MsgSignupSucceeded)

	email := out.User.Email
	f.schedule(&f.signupTimer, f.opts.SignupRedirectDelay, func() { f.signupElapsed(email) })
}

func (f *Frontend) signupElapsed(email string) {
	from, to, err := f.machine.Fire(view.EventSignupElapsed)
	if err != nil {
		f.log.Debug(f.runCtx, "signup timer ignored", "error", err)
		return
	}
	if from.View == to.View {
		return
	}
	f.cancelInflight()
	f.ui.NavigateTo(to.View)
	f.ui.RenderSuccess(view.AreaSignupSuccess, "")
	if f.opts.PrefillLoginEmail {
		if p, ok := f.ui.(view.Prefiller); ok {
			p.Prefill(view.FieldLoginEmail, email)
		}
	}
}

func (f *Frontend) toggle(ev view.Event) {
	_, to, err := f.machine.Fire(ev)
	if err != nil {
		f.log.Debug(f.runCtx, "navigation ignored", "error", err)
		return
	}
	f.cancelInflight()
	f.ui.NavigateTo(to.View)
}

func (f *Frontend) closePopup() {
	from, _, _ := f.machine.Fire(view.EventPopupClosed)
	if from.Popup {
		f.ui.HidePopup()
	}
}

func (f *Frontend) logout() {
	f.cancelInflight()
	f.stopTimers()
	f.auth.Logout(f.runCtx)

	from, to, err := f.machine.Fire(view.EventLogout)
	if err != nil {
		// Logged out before the popup handed over to the dashboard.
		f.closePopup()
		return
	}
	if from.Popup {
		f.ui.HidePopup()
	}
	for _, form := range []view.Form{view.FormLogin, view.FormSignup} {
		for _, field := range view.FormFields[form] {
			f.ui.RenderFieldOK(field)
		}
	}
	f.ui.RenderSuccess(view.AreaSignupSuccess, "")
	f.ui.NavigateTo(to.View)
}

func (f *Frontend) forgotPassword(email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		return
	}
	out := f.auth.RequestPasswordReset(f.runCtx, email)
	if out.Sent {
		f.ui.RenderSuccess(view.AreaLoginStatus, out.Message)
		return
	}
	f.ui.RenderFieldError(view.AreaLoginStatus, out.Message)
}

func (f *Frontend) render(c services.FieldCheck) {
	if c.OK {
		f.ui.RenderFieldOK(c.Field)
		return
	}
	f.ui.RenderFieldError(c.Field, c.Message)
}

func (f *Frontend) showCurrent() {
	st := f.machine.State()
	f.ui.NavigateTo(st.View)
	if st.View == view.Dashboard {
		f.renderProfile()
	}
}

func (f *Frontend) renderProfile() {
	pr, ok := f.ui.(view.ProfileRenderer)
	if !ok {
		return
	}
	u, ok := f.c.Session.Current()
	if !ok {
		return
	}
	pr.RenderProfile(view.Profile{Username: u.Username, Email: u.Email, MemberSince: u.CreatedAt})
}

func (f *Frontend) setLoading(form view.Form, loading bool) {
	li, ok := f.ui.(view.LoadingIndicator)
	if !ok {
		return
	}
	label := ""
	if loading {
		label = view.LoadingLogin
		if form == view.FormSignup {
			label = view.LoadingSignup
		}
	}
	li.SetLoading(form, loading, label)
}

// schedule arms a courtesy timer in slot, replacing any pending one. The
// callback runs on the loop and only if the timer is still the one in slot.
func (f *Frontend) schedule(slot *Timer, d time.Duration, fn func()) {
	if *slot != nil {
		(*slot).Stop()
	}
	var t Timer
	t = f.opts.Scheduler.AfterFunc(d, func() {
		f.post(func() {
			if *slot != t {
				return
			}
			*slot = nil
			fn()
		})
	})
	*slot = t
}

func (f *Frontend) stopTimers() {
	for _, slot := range []*Timer{&f.popupTimer, &f.signupTimer} {
		if *slot != nil {
			(*slot).Stop()
			*slot = nil
		}
	}
}

func (f *Frontend) cancelInflight() {
	req := f.inflight
	if req == nil {
		return
	}
	f.inflight = nil
	req.timer.Stop()
	req.cancel()
	close(req.done)

	f.setLoading(req.form, false)
	f.metrics.RecordCancelled()
	switch req.form {
	case view.FormLogin:
		f.metrics.RecordLogin(metrics.OutcomeCancelled)
	case view.FormSignup:
		f.metrics.RecordSignup(metrics.OutcomeCancelled)
	}
	f.log.Debug(f.runCtx, "request cancelled", "request_id", req.id)
}
