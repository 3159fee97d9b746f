package usecase

import (
	"errors"
	"fmt"

	"github.com/hszk-dev/catalog/internal/domain/model"
	"github.com/hszk-dev/catalog/internal/domain/repository"
)

// NotFoundError reports that a requested entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
	Err    error
}

func newVideoNotFound(id fmt.Stringer) *NotFoundError {
	return &NotFoundError{Entity: "Video", ID: id.String(), Err: repository.ErrVideoNotFound}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s was not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// InternalError wraps an unexpected infrastructure failure with operation context.
type InternalError struct {
	Message string
	Err     error
}

func newInternalError(err error, format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// isDomainError reports whether err is an expected business failure that must
// reach the caller unchanged.
func isDomainError(err error) bool {
	var verr *model.ValidationError
	var nf *NotFoundError
	return errors.As(err, &verr) || errors.As(err, &nf)
}
