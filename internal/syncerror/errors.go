// Package syncerror defines the error types surfaced by the ingestion and
// classification pipeline.
package syncerror

import "fmt"

// TransportError represents a non-success response from an upstream API
// call. It is fatal to the current fetch and is never retried at the
// fetcher layer.
type TransportError struct {
	Status int
	URL    string
	Body   string
}

func (e *TransportError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("upstream returned status %d for %s: %s", e.Status, e.URL, e.Body)
	}
	return fmt.Sprintf("upstream returned status %d for %s", e.Status, e.URL)
}

// UnusableInputError represents an input file the tabular layer cannot
// work with: absent, unreadable, or malformed.
type UnusableInputError struct {
	Path   string
	Reason string
}

func (e *UnusableInputError) Error() string {
	return fmt.Sprintf("unusable tabular input %s: %s", e.Path, e.Reason)
}

// AuthError represents a failed token acquisition.
type AuthError struct {
	Status int
	Err    error
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("oauth token request failed (%d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("oauth token request failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
