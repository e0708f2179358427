package transform

import "fmt"

// SchemaConflictError reports two distinct input column names collapsing to
// the same normalized name.
type SchemaConflictError struct {
	Name   string // the normalized name both inputs map to
	First  string
	Second string
}

func (e *SchemaConflictError) Error() string {
	return fmt.Sprintf("transform: columns %q and %q both normalize to %q", e.First, e.Second, e.Name)
}

// TransformError reports an unexpected type coercion failure.
type TransformError struct {
	Column string
	Row    int
	Err    error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform: column %q row %d: %v", e.Column, e.Row, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }
