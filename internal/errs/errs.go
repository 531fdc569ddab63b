package errs

import "fmt"

// MissingResourceError reports a dataset file or model artifact that was not
// found at its expected path.
type MissingResourceError struct {
	Path string
	Err  error
}

func (e *MissingResourceError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Path)
}

func (e *MissingResourceError) Unwrap() error { return e.Err }

// MissingResource wraps err as a MissingResourceError for path.
func MissingResource(path string, err error) error {
	return &MissingResourceError{Path: path, Err: err}
}

// SchemaError reports a missing column or an unparsable value in the input
// data. Column names the offending column; Value carries the raw value when
// one exists.
type SchemaError struct {
	Column string
	Value  string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("schema violation in column %q: bad value %q", e.Column, e.Value)
	}
	return fmt.Sprintf("schema violation: missing column %q", e.Column)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Schema builds a SchemaError for a missing column.
func Schema(column string) error {
	return &SchemaError{Column: column}
}

// SchemaValue builds a SchemaError for an unparsable value.
func SchemaValue(column, value string, err error) error {
	return &SchemaError{Column: column, Value: value, Err: err}
}

// UpstreamError reports a failed or malformed response from an external
// collaborator, currently only the weather source.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Upstream wraps err as an UpstreamError for the named service.
func Upstream(service string, err error) error {
	return &UpstreamError{Service: service, Err: err}
}

// ModelError reports a failure inside the regression backend or its
// persistence. The original cause text is always preserved.
type ModelError struct {
	Op  string
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %s: %v", e.Op, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// Model wraps err as a ModelError for the given operation.
func Model(op string, err error) error {
	return &ModelError{Op: op, Err: err}
}
