package facemesh

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable       = errors.New("facemesh service unavailable")
	ErrInvalidResponse   = errors.New("invalid response from facemesh")
	ErrEmptyImage        = errors.New("empty image for facemesh")
	ErrMalformedLandmark = errors.New("malformed landmark in facemesh response")
)

// StatusError is a non-2xx response from the sidecar.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("facemesh returned status %d: %s", e.StatusCode, e.Body)
}

// isClientError reports whether err carries a 4xx status.
func isClientError(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 400 && se.StatusCode < 500
	}
	return false
}
