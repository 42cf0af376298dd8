package service

import "errors"

// Sentinel outcomes for expected business conditions. The domain layer
// returns these instead of status codes; only the HTTP boundary translates
// them. Anything else that comes back as an error is a real failure.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("not the resource owner")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrEmptyField         = errors.New("required field is blank")
)

// VoteOutcome is the tagged result of a vote attempt.
type VoteOutcome int

const (
	VoteRecorded VoteOutcome = iota
	// VoteAlreadyCast means the (user, resource) membership row already
	// exists. It is an idempotent no-op, not an error.
	VoteAlreadyCast
	// VoteSelfRejected means the voter authored the resource; no row is
	// written.
	VoteSelfRejected
)
