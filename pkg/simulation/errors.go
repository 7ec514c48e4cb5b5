package simulation

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrDomain           = errors.New("domain error")
	ErrEmptySampleSet   = fmt.Errorf("%w: empty sample set", ErrDomain)
	ErrOutOfRange       = fmt.Errorf("%w: value out of range", ErrDomain)
)

// ParameterError names the offending field of a rejected Parameters value.
type ParameterError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s=%v %s", ErrInvalidParameter, e.Field, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}
