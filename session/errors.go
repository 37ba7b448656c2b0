package session

import "errors"

var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrVendorNotFound     = errors.New("vendor not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidLogin       = errors.New("invalid username or password")
	ErrSessionNotFound    = errors.New("session not found")
)

const (
	MsgInvalidLogin     = "Invalid username or password"
	MsgPasswordMismatch = "New passwords do not match."
	MsgPasswordTooShort = "Password must be at least 6 characters."
)
