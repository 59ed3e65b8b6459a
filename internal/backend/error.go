package backend

import (
	"errors"
	"fmt"
)

// FetchError reports a backend request that failed, either because the
// transport could not complete it (StatusCode 0) or because the backend
// answered with a non-2xx status.
type FetchError struct {
	Op         string // "fields", "alerts", "create_field", "recompute"
	StatusCode int    // HTTP status, 0 for transport failures
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err is (or wraps) a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
