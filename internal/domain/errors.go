package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrCountryNotFound = errors.New("country not found")
	ErrCountryExists   = errors.New("country already exists")
	ErrSummaryNotFound = errors.New("summary image not found")
)

const (
	SourceCountryDirectory = "country directory"
	SourceRateTable        = "rate table"
)

// ExternalUnavailableError marks a failed upstream fetch. Source is set by the
// client that made the call.
type ExternalUnavailableError struct {
	Source string
	Err    error
}

func NewExternalUnavailableError(source string, err error) *ExternalUnavailableError {
	return &ExternalUnavailableError{Source: source, Err: err}
}

func (e *ExternalUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Source, e.Err)
}

func (e *ExternalUnavailableError) Unwrap() error {
	return e.Err
}

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s %s", name, e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
