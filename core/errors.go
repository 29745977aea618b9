package core

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound     = errors.New("sumpage: not found")
	ErrViewNotFound = errors.New("sumpage: view not found")
	ErrMissingParam = errors.New("sumpage: required parameter is not present")
	ErrInvalidParam = errors.New("sumpage: parameter is not a valid integer")
	ErrInvalidRoute = errors.New("sumpage: route is outside the output directory")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrViewNotFound)
}

// BindError reports a request parameter that could not be bound.
type BindError struct {
	Param string
	Value string
	Err   error
}

func (e *BindError) Error() string {
	if errors.Is(e.Err, ErrMissingParam) {
		return fmt.Sprintf("required parameter '%s' is not present", e.Param)
	}
	return fmt.Sprintf("parameter '%s' must be a 32-bit integer, got %q", e.Param, e.Value)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

func IsBindError(err error) bool {
	var be *BindError
	return errors.As(err, &be)
}
