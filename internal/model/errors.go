package model

import "errors"

// ErrNotFound is returned by stores when no row matches.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned by stores on a uniqueness violation.
var ErrAlreadyExists = errors.New("already exists")

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenKind    = errors.New("token type mismatch")
	ErrTokenRevoked = errors.New("token revoked")
)

// ErrPasswordTooLong is returned by a PasswordHasher that cannot hash the given password length.
var ErrPasswordTooLong = errors.New("password too long")
