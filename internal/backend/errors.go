package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is returned for 401 answers.
	ErrUnauthorized = errors.New("backend: unauthorized")
	// ErrInvalidBaseURL is returned by New for URLs without scheme or host.
	ErrInvalidBaseURL = errors.New("backend: invalid base url")
)

// StatusError is a non-2xx answer other than 401.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 answer.
func IsNotFound(err error) bool {
	var se *StatusError

	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}
