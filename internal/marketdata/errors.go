package marketdata

import (
	"errors"
	"fmt"
)

// ErrorKind classifies data-source failures so callers can choose their
// degradation instead of swallowing everything alike.
type ErrorKind int

const (
	KindUnavailable      ErrorKind = iota // transport or HTTP-level failure
	KindBadPayload                        // response arrived but did not parse
	KindInsufficientData                  // series shorter than the caller needs
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindBadPayload:
		return "bad_payload"
	case KindInsufficientData:
		return "insufficient_data"
	default:
		return "unknown"
	}
}

// Error carries the kind plus the symbol it applies to, when there is one.
type Error struct {
	Kind   ErrorKind
	Symbol string
	Err    error
}

func (e *Error) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("marketdata %s (%s): %v", e.Kind, e.Symbol, e.Err)
	}
	return fmt.Sprintf("marketdata %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, symbol string, err error) *Error {
	return &Error{Kind: kind, Symbol: symbol, Err: err}
}

// IsUnavailable reports whether err is a transport-level source failure.
func IsUnavailable(err error) bool {
	var me *Error
	return errors.As(err, &me) && me.Kind == KindUnavailable
}
