package service

import (
	"errors"
	"fmt"
)

// ErrStreamAborted means the relay failed after the response was committed.
var ErrStreamAborted = errors.New("stream aborted")

// ValidationError reports a request that does not match the expected schema
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
