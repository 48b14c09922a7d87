package jenkins

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found on Jenkins")
	ErrAuthFailed       = errors.New("authentication failed")
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// StatusError is returned for non-200 responses other than 401/403/404.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// UserError wraps errors with user-friendly messages
type UserError struct {
	Message string
	Hint    string
	Err     error
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n\nDetails: %v", e.Err)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// WrapError converts client errors to user-friendly messages
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrAuthFailed) {
		return &UserError{
			Message: "Jenkins rejected the credentials",
			Hint:    "Set JENKINS_USER and JENKINS_TOKEN to a user with read access to the job.",
			Err:     err,
		}
	}

	if errors.Is(err, ErrNotFound) {
		return &UserError{
			Message: "Build not found",
			Hint:    "Check the job name and build number. Old builds are rotated out of Jenkins.",
			Err:     err,
		}
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode >= 500 {
		return &UserError{
			Message: "Jenkins is having trouble",
			Hint:    "Retry in a few minutes, or point JENKINS_URL at a different instance.",
			Err:     err,
		}
	}

	return err
}
