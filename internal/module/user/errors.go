package user

import "errors"

// Module errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrAccountDeleted     = errors.New("account deleted")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrForbidden          = errors.New("forbidden")

	ErrPasswordTooShort = errors.New("password must be at least 8 characters")

	ErrInvalidRole        = errors.New("invalid user role")
	ErrCannotSuspendAdmin = errors.New("cannot suspend admin user")
	ErrUserAlreadyActive  = errors.New("user is already active")
)
