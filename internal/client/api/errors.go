package api

import (
	"errors"
	"fmt"
)

var ErrUnavailable = errors.New("server unavailable")

// SubmissionError is a non-success backend response on a submit path.
type SubmissionError struct {
	StatusCode int
	Message    string
}

func (e *SubmissionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("submission failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("submission failed with status %d: %s", e.StatusCode, e.Message)
}
