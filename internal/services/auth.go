package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authfront/internal/logging"
	"github.com/dmitrijs2005/authfront/internal/metrics"
	"github.com/dmitrijs2005/authfront/internal/models"
	"github.com/dmitrijs2005/authfront/internal/registry"
	"github.com/dmitrijs2005/authfront/internal/validation"
	"github.com/dmitrijs2005/authfront/internal/view"
)

// Registry is the view of the user registry the controller needs.
type Registry interface {
	FindByEmail(email string) (models.UserRecord, bool)
	EmailTaken(email string) bool
	Create(ctx context.Context, username, email, password string) (models.UserRecord, error)
	Len() int
}

// Sessions starts and ends the single authenticated session.
type Sessions interface {
	Start(ctx context.Context, user models.UserRecord) error
	End(ctx context.Context) error
}

// AuthController decides authentication outcomes.
type AuthController struct {
	users    Registry
	sessions Sessions
	policy   validation.PasswordPolicy
	metrics  *metrics.Metrics
	log      logging.Logger
}

// NewAuthController wires the controller. m may be nil.
func NewAuthController(users Registry, sessions Sessions, policy validation.PasswordPolicy, m *metrics.Metrics, log logging.Logger) *AuthController {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if m == nil {
		m = metrics.New()
	}
	m.SetRegistryUsers(users.Len())
	return &AuthController{users: users, sessions: sessions, policy: policy, metrics: m, log: log}
}

// Policy returns the password policy in force.
func (a *AuthController) Policy() validation.PasswordPolicy {
	return a.policy
}

// Login authenticates email/password. An unknown email is reported before a
// wrong password, and each against its own field.
func (a *AuthController) Login(ctx context.Context, email, password string) LoginOutcome {
	user, ok := a.users.FindByEmail(email)
	if !ok {
		a.metrics.RecordLogin(metrics.OutcomeNoSuchAccount)
		a.log.Info(ctx, "login rejected", "reason", ReasonNoSuchAccount)
		return LoginOutcome{Error: &FieldError{
			Field: view.FieldLoginEmail, Reason: ReasonNoSuchAccount, Message: MsgNoSuchAccount,
		}}
	}
	if user.Password != password {
		a.metrics.RecordLogin(metrics.OutcomeWrongPassword)
		a.log.Info(ctx, "login rejected", "reason", ReasonWrongPassword, "user_id", user.ID)
		return LoginOutcome{Error: &FieldError{
			Field: view.FieldLoginPassword, Reason: ReasonWrongPassword, Message: MsgWrongPassword,
		}}
	}

	if err := a.sessions.Start(ctx, user); err != nil {
		a.metrics.RecordLogin(metrics.OutcomeInternal)
		logging.LogError(ctx, a.log, "start session", err)
		return LoginOutcome{Error: &FieldError{
			Field: view.AreaLoginStatus, Reason: ReasonInternal, Message: MsgInternal,
		}}
	}

	a.metrics.RecordLogin(metrics.OutcomeSuccess)
	a.log.Info(ctx, "login succeeded", "user_id", user.ID)
	return LoginOutcome{User: user}
}

// Signup validates every field, collecting all violations, and creates the
// account only if there are none. It never starts a session.
func (a *AuthController) Signup(ctx context.Context, username, email, password, confirm string) SignupOutcome {
	if out := a.ValidateSignup(ctx, username, email, password, confirm); !out.Success() {
		return out
	}

	user, err := a.users.Create(ctx, username, email, password)
	switch {
	case errors.Is(err, registry.ErrDuplicateEmail):
		a.metrics.RecordSignup(metrics.OutcomeValidationFailed)
		a.log.Warn(ctx, "duplicate email slipped past validation")
		return SignupOutcome{Errors: []FieldError{{
			Field: view.FieldSignupEmail, Reason: ReasonEmailAlreadyRegistered, Message: MsgEmailAlreadyRegistered,
		}}}
	case err != nil:
		a.metrics.RecordSignup(metrics.OutcomeInternal)
		logging.LogError(ctx, a.log, "create user", err)
		return SignupOutcome{Errors: []FieldError{{
			Field: view.AreaSignupStatus, Reason: ReasonInternal, Message: MsgInternal,
		}}}
	}

	a.metrics.RecordSignup(metrics.OutcomeSuccess)
	a.metrics.SetRegistryUsers(a.users.Len())
	a.log.Info(ctx, "signup succeeded", "user_id", user.ID)
	return SignupOutcome{User: user}
}

// ValidateSignup runs every signup check without creating anything. A
// failure is counted as a rejected signup.
func (a *AuthController) ValidateSignup(ctx context.Context, username, email, password, confirm string) SignupOutcome {
	out := a.validateSignup(username, email, password, confirm)
	if !out.Success() {
		a.metrics.RecordSignup(metrics.OutcomeValidationFailed)
		a.log.Info(ctx, "signup rejected", "violations", len(out.Errors))
	}
	return out
}

func (a *AuthController) validateSignup(username, email, password, confirm string) SignupOutcome {
	var out SignupOutcome
	if !validation.UsernameValid(username) {
		out.Errors = append(out.Errors, FieldError{
			Field: view.FieldSignupUsername, Reason: ReasonUsernameTooShort, Message: MsgUsernameTooShort,
		})
	}
	if a.users.EmailTaken(email) {
		out.Errors = append(out.Errors, FieldError{
			Field: view.FieldSignupEmail, Reason: ReasonEmailAlreadyRegistered, Message: MsgEmailAlreadyRegistered,
		})
	}
	if missing := a.policy.Score(password); len(missing) > 0 {
		out.Missing = missing
		out.Errors = append(out.Errors, FieldError{
			Field: view.FieldSignupPassword, Reason: ReasonWeakPassword, Message: a.policy.Describe(missing),
		})
	}
	if password != confirm {
		out.Errors = append(out.Errors, FieldError{
			Field: view.FieldConfirmPassword, Reason: ReasonPasswordMismatch, Message: MsgPasswordMismatch,
		})
	}
	return out
}

// Logout ends the session. It always succeeds; store errors are logged.
func (a *AuthController) Logout(ctx context.Context) {
	if err := a.sessions.End(ctx); err != nil {
		logging.LogError(ctx, a.log, "end session", err)
	}
	a.metrics.RecordLogout()
	a.log.Info(ctx, "logged out")
}

// RequestPasswordReset looks the email up. Nothing is actually sent.
func (a *AuthController) RequestPasswordReset(ctx context.Context, email string) ResetOutcome {
	if !a.users.EmailTaken(email) {
		return ResetOutcome{Message: MsgResetNoSuchAccount}
	}
	a.log.Info(ctx, "password reset requested")
	return ResetOutcome{Sent: true, Message: MsgResetSent}
}

// CheckEmailAvailable is the on-blur signup email check.
func (a *AuthController) CheckEmailAvailable(email string) FieldCheck {
	if email != "" && a.users.EmailTaken(email) {
		return FieldCheck{Field: view.FieldSignupEmail, Message: MsgEmailAlreadyRegistered}
	}
	return FieldCheck{Field: view.FieldSignupEmail, OK: true}
}

// CheckPassword is the live password check: strength once something has
// been typed, and the confirmation once it is non-empty.
func (a *AuthController) CheckPassword(password, confirm string) []FieldCheck {
	var checks []FieldCheck
	if password != "" {
		if missing := a.policy.Score(password); len(missing) > 0 {
			checks = append(checks, FieldCheck{Field: view.FieldSignupPassword, Message: a.policy.Describe(missing)})
		} else {
			checks = append(checks, FieldCheck{Field: view.FieldSignupPassword, OK: true})
		}
	}
	if confirm != "" {
		if password != confirm {
			checks = append(checks, FieldCheck{Field: view.FieldConfirmPassword, Message: MsgPasswordMismatch})
		} else {
			checks = append(checks, FieldCheck{Field: view.FieldConfirmPassword, OK: true})
		}
	}
	return checks
}

// WelcomeTitle is the popup title shown after a successful login.
func WelcomeTitle(u models.UserRecord) string {
	return fmt.Sprintf("Welcome %s!", u.Username)
}
