package model

import (
	"errors"
)

var (
	ErrConfig               = errors.New("invalid configuration")
	ErrUnauthenticated      = errors.New("not authenticated")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrTokenRejected        = errors.New("token rejected")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserExists           = errors.New("user with this email or username already exists")
	ErrSignupRoleNotAllowed = errors.New("only students can sign up")
	ErrUnsupportedFormat    = errors.New("unsupported export format")
	ErrSessionUnavailable   = errors.New("session store unavailable")
)
