package parser

import (
	"errors"
	"fmt"
)

// MalformedInputError reports a document that cannot be parsed as an XML
// tree at all. It is fatal for that document.
type MalformedInputError struct {
	Err error
}

// Error implements the error interface.
func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed report document: %v", e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// MissingIdentifierError reports a single result record that lacks the id
// attribute. The reader stays usable; skipping the record or aborting the
// run is the caller's decision.
type MissingIdentifierError struct {
	Index int
}

// Error implements the error interface.
func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("result record %d has no id attribute", e.Index)
}

// IsMalformedInput checks whether the error is a MalformedInputError.
func IsMalformedInput(err error) bool {
	var m *MalformedInputError
	return errors.As(err, &m)
}

// IsMissingIdentifier checks whether the error is a MissingIdentifierError.
func IsMissingIdentifier(err error) bool {
	var m *MissingIdentifierError
	return errors.As(err, &m)
}
