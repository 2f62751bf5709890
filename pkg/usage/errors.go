package usage

import "fmt"

// ErrorKind classifies a fetch failure for display purposes.
type ErrorKind int

const (
	// ErrNoConnection covers DNS and connect-level failures.
	ErrNoConnection ErrorKind = iota
	// ErrTimeout means the request deadline was exceeded.
	ErrTimeout
	// ErrOther covers everything else, including malformed response bodies.
	ErrOther
)

// FetchError wraps a failed fetch with a display classification. The Label
// is rendered verbatim in the degraded status string.
type FetchError struct {
	Kind ErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch usage: %s: %v", e.Label(), e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Label returns the short human-readable reason shown in the status text.
func (e *FetchError) Label() string {
	switch e.Kind {
	case ErrNoConnection:
		return "No internet"
	case ErrTimeout:
		return "Timed out"
	default:
		return "Fetch error"
	}
}
