// internal/domain/entity/errors.go
package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoPatterns      = errors.New("no search pattern file uploaded")
	ErrNoProducts      = errors.New("no product file uploaded")
	ErrRouteNotFound   = errors.New("route not found")
	ErrAirportNotFound = errors.New("airport not found")
)

// DecodeError means a file could not be read as CSV under any supported
// encoding. The file has to be uploaded again.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unable to read %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// SchemaError means a file is missing columns it is required to have.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s is missing required columns: %s", e.Source, strings.Join(e.Missing, ", "))
}
