package models

import "errors"

// Domain errors shared by services, repositories and handlers. Repositories
// translate driver errors into these; handlers map them onto HTTP statuses
// with errors.Is.
var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrDuplicateApplication = errors.New("application already exists for this project")
	ErrInvalidTransition    = errors.New("application is already resolved")
	ErrStoreUnavailable     = errors.New("store unavailable")
)
