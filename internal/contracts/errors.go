package contracts

import (
	"errors"
	"fmt"
)

// ErrUnavailable matches every UnavailableError via errors.Is
var ErrUnavailable = errors.New("score unavailable")

// Reasons a ticker could not be scored
const (
	ReasonNoPrice       = "no price"
	ReasonMalformed     = "malformed metrics"
	ReasonProviderFault = "provider fault"
)

// UnavailableError is the "no score for this ticker" outcome.
// Cause is attached for diagnostic logging only.
type UnavailableError struct {
	Ticker string
	Reason string
	Cause  error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Ticker, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Ticker, e.Reason)
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// Unavailable builds an UnavailableError
func Unavailable(ticker, reason string, cause error) *UnavailableError {
	return &UnavailableError{Ticker: ticker, Reason: reason, Cause: cause}
}
