package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/ghostwatch/internal/cache"
	"github.com/jonathan/ghostwatch/internal/source"
	"github.com/jonathan/ghostwatch/internal/validation"
)

// AdmissionDeniedError is returned when a request is refused before any
// work happens, either because a request is already in flight for the user
// or because the token allotment is exhausted.
type AdmissionDeniedError struct {
	TokensRemaining int
}

func (e *AdmissionDeniedError) Error() string {
	if e.TokensRemaining <= 0 {
		return "request limit reached: no analysis tokens remaining"
	}
	return "another analysis is already running for this user"
}

// UserMessage maps a pipeline error to a sentence fit for an end user.
// Internal detail stays in the error chain for the logs.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var denied *AdmissionDeniedError
	if errors.As(err, &denied) {
		if denied.TokensRemaining <= 0 {
			return "You have used all of your analysis requests."
		}
		return "An analysis is already running for you. Wait for it to finish and try again."
	}

	var rejection *validation.RejectionError
	if errors.As(err, &rejection) {
		return fmt.Sprintf("The posting is too sparse to analyze (missing: %s).", strings.Join(rejection.Missing, ", "))
	}

	switch {
	case errors.Is(err, source.ErrInvalidURL):
		return "That does not look like a job posting URL."
	case errors.Is(err, source.ErrBlocked):
		return "The job site refused the request. Try again later or paste the posting text."
	case errors.Is(err, cache.ErrPostingGone):
		return "This posting appears to have been taken down."
	case errors.Is(err, cache.ErrNotFound):
		return "No job posting was found at that URL."
	default:
		return "The analysis could not be completed. Please try again."
	}
}
