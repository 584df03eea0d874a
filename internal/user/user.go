package user

import "errors"

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
	// ErrUnauthorized covers unknown emails, wrong passwords and unusable tokens.
	ErrUnauthorized = errors.New("unauthorized")
)
