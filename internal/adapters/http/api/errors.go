package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrTooLarge         = errors.New("request body too large")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrUnavailable      = errors.New("catalog unavailable")
	ErrNotImplemented   = errors.New("not enabled")
	ErrInternal         = errors.New("internal error")
)

// KindError tags an underlying error with the operation that failed and a
// sentinel kind callers can match with errors.Is.
type KindError struct {
	Op   string
	Kind error
	Err  error
}

// NewKind returns an error of kind for op with no further cause.
func NewKind(op string, kind error) error {
	return &KindError{Op: op, Kind: kind}
}

// WrapKind returns an error of kind for op caused by err.
func WrapKind(op string, kind, err error) error {
	return &KindError{Op: op, Kind: kind, Err: err}
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.Error()
	}
	return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
}

// Unwrap exposes both the kind and the cause.
func (e *KindError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
