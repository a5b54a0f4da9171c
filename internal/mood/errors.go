package mood

import "errors"

var (
	// ErrInvalidRequest means the caller supplied an empty message. Never
	// retried.
	ErrInvalidRequest = errors.New("message is required")
	// ErrOracleUnavailable means the text-generation call failed at the
	// transport level.
	ErrOracleUnavailable = errors.New("mood oracle unavailable")
	// ErrOracleResponseInvalid means the oracle replied but the payload
	// failed shape validation. User-visible handling matches
	// ErrOracleUnavailable; logged distinctly for diagnosability.
	ErrOracleResponseInvalid = errors.New("mood oracle returned an invalid response")
)
