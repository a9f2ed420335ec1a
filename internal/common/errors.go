package common

import "errors"

var (
	// Store-level errors.
	ErrorStoreLocked = errors.New("store is locked by another process")
	ErrorStoreClosed = errors.New("store is closed")

	// Configuration errors.
	ErrorInvalidConfig = errors.New("invalid configuration")
)
