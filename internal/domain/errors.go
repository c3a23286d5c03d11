package domain

import "errors"

var (
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrForbidden              = errors.New("forbidden")
	ErrTenantNotSet           = errors.New("tenant not set")
	ErrDeviceNotAssigned      = errors.New("device not assigned to a location")
	ErrLocationHeaderRequired = errors.New("location header required")
	ErrLocationNotFound       = errors.New("location not found")
	ErrDeviceRevoked          = errors.New("device revoked")
	ErrNotFound               = errors.New("not found")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrConflict               = errors.New("conflict")
)
