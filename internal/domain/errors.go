package domain

import "errors"

var (
	ErrNotFound  = errors.New("shop not found")
	ErrInvalidID = errors.New("invalid id")
	// ErrDuplicateSource means the sparse unique sourceId index rejected a write.
	ErrDuplicateSource = errors.New("duplicate sourceId")
)

// ValidationError is a caller mistake; handlers turn it into a 400.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func Invalid(msg string) error { return &ValidationError{Msg: msg} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UpstreamError wraps a failure of the external map-data service; handlers
// turn it into a 502-class problem.
type UpstreamError struct {
	Msg string
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
