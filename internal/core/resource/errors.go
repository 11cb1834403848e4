package resource

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a Persistence error. It names the operation that
// failed, not the underlying Go error type.
type ErrorKind string

const (
	ErrorConnection ErrorKind = "connection"
	ErrorInsert     ErrorKind = "insert"
	ErrorRemove     ErrorKind = "remove"
	ErrorGet        ErrorKind = "get"
	ErrorList       ErrorKind = "list"
	ErrorValidation ErrorKind = "validation"
)

// Error is the one error type the core ever returns for infrastructure
// failure (as opposed to a user closure's own error, returned unmodified
// from Mutate). It carries enough context — kind, offending id, cause — to
// render directly into an RPC status without the caller re-deriving it.
type Error struct {
	Kind       ErrorKind
	Resource   Kind
	ResourceID fmt.Stringer
	cause      error
}

func NewError(kind ErrorKind, resourceKind Kind, id fmt.Stringer, cause error) *Error {
	return &Error{Kind: kind, Resource: resourceKind, ResourceID: id, cause: cause}
}

func (e *Error) Error() string {
	if e.ResourceID != nil {
		return fmt.Sprintf("persistence: %s %s %s: %v", e.Kind, e.Resource, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("persistence: %s %s: %v", e.Kind, e.Resource, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// Cause returns the innermost wrapped error, following github.com/pkg/errors
// conventions used throughout the relational mappers.
func (e *Error) Cause() error { return errors.Cause(e.cause) }
