package validation

import "fmt"

// MinUsernameLength is the only username constraint.
const MinUsernameLength = 3

var usernameTag = fmt.Sprintf("min=%d", MinUsernameLength)

// UsernameValid reports whether candidate has at least MinUsernameLength
// characters. No character set restriction is applied.
func UsernameValid(candidate string) bool {
	return validate.Var(candidate, usernameTag) == nil
}
