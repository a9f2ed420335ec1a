// Package validation scores credentials against composable rules.
//
// A PasswordPolicy evaluates every enabled rule independently and reports
// all violations in a fixed order, so callers can render one combined
// message ("Password must contain at least 8 characters, one number").
// Rules are expressed as go-playground/validator tags and evaluated one at a
// time with Validate.Var; nothing here has side effects.
//
// Usernames are deliberately permissive: any characters are accepted as long
// as there are at least MinUsernameLength of them.
package validation
