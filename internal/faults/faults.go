package faults

import (
	"errors"
	"fmt"
)

// Kind separates "retry later" failures from "give up" ones.
type Kind int

const (
	Unknown Kind = iota
	IOFailure
	NotFound
	ExternalServiceFailure
)

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap tags err with a kind, keeping the original chain intact.
func Wrap(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the kind of err, Unknown if it was never tagged.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}
