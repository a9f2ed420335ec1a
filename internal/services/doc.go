// Package services contains the authentication controller: it orchestrates
// login, signup, logout and the password-reset lookup against the validator,
// the user registry and the session manager.
//
// Every operation is a complete, synchronous transaction that returns a
// discriminated outcome. Simulated latency, cancellation and rendering are
// the caller's concern.
package services
