package app

import (
	"context"
	stderrors "errors"

	"surveystat/internal/errors"
)

// Message converts a workflow error into the text shown to the user.
// Format and computation failures carry their own detail; anything else is
// reported generically and should be logged by the caller.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return "The request was cancelled before the analysis finished."
	}

	switch errors.GetCode(err) {
	case errors.CodeFormatError:
		return "There was an error processing this file: " + err.Error()
	case errors.CodeComputationError:
		return "The analysis could not be computed: " + err.Error()
	case errors.CodeInvalidInput, errors.CodeValidationError:
		return err.Error()
	default:
		return "An unexpected error occurred while analysing the file."
	}
}

// IsUserError reports whether err was caused by the upload or the selection
// rather than by the service itself.
func IsUserError(err error) bool {
	switch errors.GetCode(err) {
	case errors.CodeFormatError, errors.CodeComputationError, errors.CodeInvalidInput, errors.CodeValidationError:
		return true
	}
	return false
}
