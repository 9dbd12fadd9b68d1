package analysis

import (
	"errors"
	"fmt"
)

// Usage errors, raised synchronously before any I/O.
var (
	ErrMissingStockCode  = errors.New("stock code is required")
	ErrUnsupportedMarket = errors.New("unsupported market region")
)

// RequiredFetchError wraps the failure of a fetch the analysis cannot
// proceed without. Price history is the only such dependency:
// chip/fundamental failures degrade to category absence instead.
// Callers distinguish it from usage errors via errors.As, and from
// cancellation because context errors are never wrapped in it.
type RequiredFetchError struct {
	StockCode string
	Source    string
	Err       error
}

func (e *RequiredFetchError) Error() string {
	return fmt.Sprintf("required %s fetch for %s failed: %v", e.Source, e.StockCode, e.Err)
}

func (e *RequiredFetchError) Unwrap() error {
	return e.Err
}

// IsUsageError reports whether the error is a caller mistake rather
// than a data failure; retrying with the same input will not help.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrMissingStockCode) || errors.Is(err, ErrUnsupportedMarket)
}
