package domain

import "errors"

var (
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountExists signals a unique-index violation on username or email.
	ErrAccountExists      = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrWrongPassword is returned when the supplied current password does not
	// match the stored hash.
	ErrWrongPassword   = errors.New("invalid password")
	ErrTooManyAttempts = errors.New("too many failed password attempts")
	ErrTokenNotFound   = errors.New("refresh token not found")
	ErrTokenExpired    = errors.New("refresh token expired")
	ErrOtpInvalid      = errors.New("otp is invalid or expired")
)
