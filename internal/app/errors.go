package app

import "errors"

// Messages are returned to end users verbatim, so they are capitalized
// and carry no internal detail.
var (
	ErrEmailAndPasswordRequired = errors.New("Email and password are required")
	ErrEmailAlreadyRegistered   = errors.New("Email already registered")

	// ErrInvalidCredentials covers unknown email, missing password hash,
	// and failed verification alike, so it cannot enable account enumeration.
	ErrInvalidCredentials = errors.New("Invalid email or password")

	ErrQueryRequired = errors.New("Query is required")
)
