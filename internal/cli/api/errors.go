package api

import "errors"

var (
	// ErrNoConnection — the request never reached the server. Callers must
	// not retry automatically; the record stays where it is until the next
	// trigger.
	ErrNoConnection = errors.New("no connection to the story API")
	// ErrUnauthorized — the credential is invalid or expired (401). The UI
	// should prompt a re-login rather than a generic retry.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation — the server rejected the input (400-class).
	ErrValidation = errors.New("invalid input")
	// ErrRemote — any other non-2xx response.
	ErrRemote = errors.New("remote error")
)
