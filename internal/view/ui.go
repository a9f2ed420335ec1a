// Package view models which top-level screen is visible and whether the
// welcome popup overlays it. It also names the fields and message areas the
// core reports against, and the outward UI contract.
package view

import (
	"time"

	"github.com/dmitrijs2005/authfront/internal/validation"
)

// Field ids that errors are rendered against.
const (
	FieldLoginEmail      = "loginEmail"
	FieldLoginPassword   = "loginPassword"
	FieldSignupUsername  = "signupUsername"
	FieldSignupEmail     = "signupEmail"
	FieldSignupPassword  = "signupPassword"
	FieldConfirmPassword = "confirmPassword"
)

// Message areas for success and status text.
const (
	AreaSignupSuccess = "signupSuccess"
	AreaLoginStatus   = "loginStatus"
	AreaSignupStatus  = "signupStatus"
)

// UI is everything the core calls outward. Implementations render; they
// never decide.
type UI interface {
	RenderFieldError(field, msg string)
	RenderFieldOK(field string)
	RenderSuccess(area, msg string)
	NavigateTo(v View)
	ShowPopup(title, msg string)
	HidePopup()
}

// Form identifies which form a submission came from.
type Form string

const (
	FormLogin  Form = "login"
	FormSignup Form = "signup"
)

// FormFields lists the fields of each form, in display order.
var FormFields = map[Form][]string{
	FormLogin:  {FieldLoginEmail, FieldLoginPassword},
	FormSignup: {FieldSignupUsername, FieldSignupEmail, FieldSignupPassword, FieldConfirmPassword},
}

// Loading labels shown while a request is in flight.
const (
	LoadingLogin  = "Signing in..."
	LoadingSignup = "Creating account..."
)

// Profile is what the dashboard shows about the signed-in user.
type Profile struct {
	Username    string
	Email       string
	MemberSince time.Time
}

// Optional UI extensions, detected with a type assertion.
type (
	// LoadingIndicator shows or clears a form's busy state.
	LoadingIndicator interface {
		SetLoading(form Form, loading bool, label string)
	}
	// Prefiller puts a value into an input field.
	Prefiller interface {
		Prefill(field, value string)
	}
	// ProfileRenderer fills in the dashboard.
	ProfileRenderer interface {
		RenderProfile(p Profile)
	}
	// RequirementsRenderer shows the live password checklist.
	RequirementsRenderer interface {
		RenderRequirements(reqs []validation.Requirement)
	}
)
