package gqlopgen

import (
	"fmt"
	"net/http"
	"strings"
)

// IntrospectionError reports that the schema could not be fetched: the
// endpoint was unreachable, answered with a non-2xx status, or returned a
// GraphQL errors array.
type IntrospectionError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Errors     Errors
	Err        error
}

func (e *IntrospectionError) Error() string {
	var b strings.Builder
	b.WriteString("introspection of ")
	b.WriteString(e.Endpoint)
	b.WriteString(" failed")
	if e.StatusCode != 0 && e.StatusCode != http.StatusOK {
		fmt.Fprintf(&b, ": %d %s; body: %q", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
	}
	if len(e.Errors) > 0 {
		b.WriteString(": ")
		b.WriteString(e.Errors.Error())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *IntrospectionError) Unwrap() error {
	return e.Err
}

// SchemaLoadError reports an introspection payload that cannot be turned into
// a type graph, most commonly because the query root is missing.
type SchemaLoadError struct {
	Reason string
	Err    error
}

func (e *SchemaLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema load: %s: %v", e.Reason, e.Err)
	}
	return "schema load: " + e.Reason
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Err
}

// UnknownTypeError reports a type reference to a name the schema does not
// declare.
type UnknownTypeError struct {
	Name string
	// Context describes where the reference was found, e.g. "User.friends".
	Context string
}

func (e *UnknownTypeError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("unknown type %q", e.Name)
	}
	return fmt.Sprintf("unknown type %q referenced by %s", e.Name, e.Context)
}

// WriteError reports a filesystem failure while emitting a document. Files
// written before the failure are left in place.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ValidationError reports a generated document the schema rejects.
type ValidationError struct {
	Operation string
	Err       error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("generated operation %s is invalid: %v", e.Operation, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Errors represents the "errors" array in a response from a GraphQL server.
// If returned via error interface, the slice is expected to contain at least 1 element.
//
// Specification: https://facebook.github.io/graphql/#sec-Errors.
type Errors []Error

// Error is one entry of a GraphQL errors array.
type Error struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions"`
	Locations  []struct {
		Line   int `json:"line"`
		Column int `json:"column"`
	} `json:"locations"`
}

// Error implements error interface.
func (e Error) Error() string {
	return fmt.Sprintf("Message: %s, Locations: %+v", e.Message, e.Locations)
}

// Error implements error interface.
func (e Errors) Error() string {
	b := strings.Builder{}
	for i, err := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

// GetCode returns the error code from the extensions, or an empty string if
// not present.
func (e Error) GetCode() string {
	if e.Extensions == nil {
		return ""
	}
	code, ok := e.Extensions["code"].(string)
	if !ok {
		return ""
	}
	return code
}
