package apierror

import "fmt"

// ValidationErrors accumulates per-field messages.
type ValidationErrors map[string][]string

// Add appends a message for the field.
func (v ValidationErrors) Add(field, msg string) {
	v[field] = append(v[field], msg)
}

// Err returns nil when nothing was added.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return &APIError{Kind: KindValidation, Fields: v}
}

func NewErrBadRequest(detail string) *APIError {
	return New(KindBadRequest, detail)
}

func NewErrEmailIsTaken(email string) *APIError {
	e := New(KindConflict, "User with this email already exists")
	e.Err = fmt.Errorf("email %q is taken", email)
	return e
}

func NewErrInvalidCredentials() *APIError {
	return New(KindInvalidCredentials, "Invalid email or password")
}

func NewErrMissingAuthorizationToken() *APIError {
	return New(KindUnauthenticated, "Authorization header missing or invalid")
}

func NewErrInvalidAuthorizationToken() *APIError {
	return New(KindUnauthenticated, "Invalid or expired token")
}

func NewErrUserNotFound() *APIError {
	return New(KindUnauthenticated, "User not found")
}

func NewErrNotAuthorized() *APIError {
	return New(KindForbidden, "You are not authorized to perform this action")
}

func NewErrLogoutFailed(err error) *APIError {
	e := New(KindLogoutFailed, "Logout failed")
	e.Err = err
	return e
}

func NewErrTooManyFiles(limit int) *APIError {
	return New(KindBadRequest, fmt.Sprintf("Maximum %d files allowed", limit))
}

func NewErrInternalServerError(err error) *APIError {
	e := New(KindInternal, "Internal server error")
	e.Err = err
	return e
}
