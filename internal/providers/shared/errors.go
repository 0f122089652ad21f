// Package shared holds the HTTP plumbing and error taxonomy common to the
// vendor billing clients.
package shared

import (
	"errors"
	"fmt"
	"strings"
)

// maxBodyPreview bounds how much of a response body is embedded in error
// messages.
const maxBodyPreview = 500

// TruncateBody trims a response body for inclusion in an error message.
func TruncateBody(body string) string {
	body = strings.TrimSpace(body)
	if len(body) > maxBodyPreview {
		return body[:maxBodyPreview] + "..."
	}
	return body
}

// TransportError is a network-level or non-success HTTP failure. Status
// is zero when the request never produced a response.
type TransportError struct {
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("API error: %d - %s", e.Status, e.Body)
	}
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means the response body did not match the expected schema.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("parse error: %v: %s", e.Err, e.Body)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// AllSourcesFailedError is surfaced when every sub-resource of a fan-out
// failed; the joined message lists each source's error.
type AllSourcesFailedError struct {
	Errors []string
}

func (e *AllSourcesFailedError) Error() string {
	return "failed to fetch usage from any endpoint: " + strings.Join(e.Errors, "; ")
}

// IsTransport reports whether err wraps a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsDecode reports whether err wraps a DecodeError.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
