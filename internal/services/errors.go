package services

import "errors"

// Input validation failures. These are the only errors the pipeline
// surfaces to a caller as a client error.
var (
	ErrMissingVideo = errors.New("interview video is required")
	ErrNoQuestions  = errors.New("questions array is required")
	ErrNoSkills     = errors.New("no skills found in user profile or request")
)

// Collaborator failures. Always absorbed into a neutral default.
var (
	ErrCollaboratorDisabled = errors.New("collaborator not configured")
	ErrEmptyTranscript      = errors.New("transcription service returned no transcript")
	ErrNoConfidence         = errors.New("facial service response has no confidence score")
	ErrUnexpectedStatus     = errors.New("unexpected collaborator status")
	ErrEmptyCompletion      = errors.New("llm service returned an empty completion")
)

// IsValidationError reports whether err should be answered with a 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingVideo) ||
		errors.Is(err, ErrNoQuestions) ||
		errors.Is(err, ErrNoSkills)
}

// RootMessage returns the message of the innermost wrapped error.
func RootMessage(err error) string {
	if err == nil {
		return ""
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
