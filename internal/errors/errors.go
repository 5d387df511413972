// Package errors holds the sentinel and typed errors shared across steamdocs.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	New = errors.New
	Is  = errors.Is
	As  = errors.As
)

var (
	// ErrNotFound indicates an interface or method is not in the catalog.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed user input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotArrayParameter is returned when expanding a parameter that is not a
	// declared [N] parameter.
	ErrNotArrayParameter = errors.New("not an array parameter")

	// ErrEmptyCatalog is returned when a catalog source yields no interfaces.
	ErrEmptyCatalog = errors.New("catalog is empty")
)

// NotFoundError names the missing catalog entry.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// UserFriendlyError carries a hint for the CLI user alongside the cause.
type UserFriendlyError struct {
	Message string
	Reason  string
	Hint    string
	Err     error
}

func (e UserFriendlyError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Message)
	if e.Reason != "" {
		buf.WriteString("\n  Reason: " + e.Reason)
	}
	if e.Hint != "" {
		buf.WriteString("\n  Hint: " + e.Hint)
	}
	if e.Err != nil {
		buf.WriteString("\n  Details: " + e.Err.Error())
	}
	return buf.String()
}

func (e UserFriendlyError) Unwrap() error {
	return e.Err
}

// WrapCatalogError explains a failed catalog load.
func WrapCatalogError(err error, source string) error {
	if err == nil {
		return nil
	}
	return UserFriendlyError{
		Message: fmt.Sprintf("Failed to load catalog from %s", source),
		Reason:  reason(err),
		Hint:    "Pass a Steam-style api.json, a YAML catalog or an OpenAPI 3 document",
		Err:     err,
	}
}

// WrapLookupError explains an unknown "<interface>/<method>" argument.
func WrapLookupError(err error, name string) error {
	if err == nil {
		return nil
	}
	return UserFriendlyError{
		Message: fmt.Sprintf("No method named %s", name),
		Hint:    "Use `steamdocs search` to find the qualified name",
		Err:     err,
	}
}

func reason(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "no such file"):
		return "file does not exist"
	case strings.Contains(msg, "connection refused"):
		return "connection refused"
	case errors.Is(err, ErrEmptyCatalog):
		return "source contains no interfaces"
	}
	return ""
}
