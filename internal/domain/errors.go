package domain

import "errors"

var (
	// ErrUnauthenticated is returned when a request carries no bearer token
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidToken is returned when the identity provider rejects a token
	ErrInvalidToken = errors.New("invalid token")
	// ErrIdentityUnavailable is returned when the identity provider cannot be reached in time
	ErrIdentityUnavailable = errors.New("identity provider unavailable")
	// ErrValidation is returned for malformed input
	ErrValidation = errors.New("validation failed")
	// ErrUserNotFound is returned when no local user matches
	ErrUserNotFound = errors.New("user not found")
	// ErrWalletNotFound is returned when a wallet does not exist or belongs to another user
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrTransactionNotFound is returned when a transaction does not exist or belongs to another user
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrEmailTaken is returned when another account already holds the email address
	ErrEmailTaken = errors.New("email already in use")
)
