package services

import (
	"github.com/dmitrijs2005/authfront/internal/models"
	"github.com/dmitrijs2005/authfront/internal/validation"
)

// Messages shown against fields and message areas.
const (
	MsgNoSuchAccount          = "No account found with this email address"
	MsgWrongPassword          = "Incorrect password"
	MsgUsernameTooShort       = "Username must be at least 3 characters"
	MsgEmailAlreadyRegistered = "This email address is already registered"
	MsgPasswordMismatch       = "Passwords do not match"
	MsgSignupSucceeded        = "Account created successfully! You can now login."
	MsgResetSent              = "Password reset email sent! (This is a demo - no actual email sent)"
	MsgResetNoSuchAccount     = "No account found with this email address."
	MsgInternal               = "Something went wrong. Please try again."
	MsgWelcomeBack            = "Welcome back!"
)

// Reason classifies why an operation did not succeed.
type Reason string

const (
	ReasonNone                   Reason = ""
	ReasonNoSuchAccount          Reason = "no_such_account"
	ReasonWrongPassword          Reason = "wrong_password"
	ReasonUsernameTooShort       Reason = "username_too_short"
	ReasonEmailAlreadyRegistered Reason = "email_already_registered"
	ReasonWeakPassword           Reason = "weak_password"
	ReasonPasswordMismatch       Reason = "password_mismatch"
	ReasonInternal               Reason = "internal"
)

// FieldError is a reason scoped to a form field.
type FieldError struct {
	Field   string
	Reason  Reason
	Message string
}

// LoginOutcome is Success (Reason empty, User set) or a single FieldError.
type LoginOutcome struct {
	User  models.UserRecord
	Error *FieldError
}

func (o LoginOutcome) Success() bool { return o.Error == nil }

func (o LoginOutcome) Reason() Reason {
	if o.Error == nil {
		return ReasonNone
	}
	return o.Error.Reason
}

// SignupOutcome is Success (User set) or ValidationFailed with every
// violation, in evaluation order.
type SignupOutcome struct {
	User   models.UserRecord
	Errors []FieldError
	// Missing lists the violated password rules when ReasonWeakPassword is
	// among Errors.
	Missing []validation.RuleID
}

func (o SignupOutcome) Success() bool { return len(o.Errors) == 0 }

// Has reports whether r is among the violations.
func (o SignupOutcome) Has(r Reason) bool {
	for _, e := range o.Errors {
		if e.Reason == r {
			return true
		}
	}
	return false
}

// Fields maps each failing field to its message.
func (o SignupOutcome) Fields() map[string]string {
	out := make(map[string]string, len(o.Errors))
	for _, e := range o.Errors {
		out[e.Field] = e.Message
	}
	return out
}

// ResetOutcome is the result of the demo password-reset lookup.
type ResetOutcome struct {
	Sent    bool
	Message string
}

// FieldCheck is the live verdict for one field: OK or an error message.
type FieldCheck struct {
	Field   string
	OK      bool
	Message string
}
