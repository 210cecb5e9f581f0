// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package figshare

import (
	"errors"
	"fmt"
)

// Common errors returned by the library.
var (
	// ErrInvalidArticle is returned when the article ID is empty.
	ErrInvalidArticle = errors.New("invalid article ID")

	// ErrNotFound is returned when the article or file does not exist.
	ErrNotFound = errors.New("article or file not found")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limited: too many requests")

	// ErrSchema is returned when the file listing does not match the expected shape.
	ErrSchema = errors.New("unexpected file listing schema")
)

// APIError represents a non-success response from the Figshare API or a
// download URL. Payload holds the decoded error body when it is a JSON
// object; Raw holds any other JSON value; Body keeps non-JSON text.
type APIError struct {
	StatusCode int
	Status     string
	URL        string
	Payload    map[string]any
	Raw        any
	Body       string
}

func (e *APIError) Error() string {
	if msg, ok := e.Payload["message"].(string); ok && msg != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Status, msg)
	}
	if e.Payload != nil {
		return fmt.Sprintf("API error %d (%s): %v", e.StatusCode, e.Status, e.Payload)
	}
	if e.Raw != nil {
		return fmt.Sprintf("API error %d (%s): %v", e.StatusCode, e.Status, e.Raw)
	}
	if e.Body != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Status, e.Body)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Status)
}

// Is implements errors.Is for common error comparisons.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 404:
		return target == ErrNotFound
	case 429:
		return target == ErrRateLimited
	default:
		return false
	}
}

// SchemaError reports a listing entry that is missing a field or carries a
// field of the wrong type. Index is the position in the JSON array.
type SchemaError struct {
	Index int
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("file listing: %v", e.Err)
	}
	return fmt.Sprintf("file listing item %d: field %q: %v", e.Index, e.Field, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// FilterError is returned when a name filter is not a valid regular expression.
type FilterError struct {
	Pattern string
	Err     error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid filter %q: %v", e.Pattern, e.Err)
}

func (e *FilterError) Unwrap() error {
	return e.Err
}

// DownloadError wraps an error with file context.
type DownloadError struct {
	Name string
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.Name, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}
