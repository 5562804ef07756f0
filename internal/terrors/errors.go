// Package terrors is the shared error taxonomy for the T3 substrate.
package terrors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Kind tags an Error with one of the failure classes of the error
// handling design: InvalidArgument, Overflow, Underflow, DivideByZero,
// AllocationFailure, Timeout, StructuralInvariant.
type Kind string

const (
	InvalidArgument     Kind = "InvalidArgument"
	Overflow            Kind = "Overflow"
	Underflow           Kind = "Underflow"
	DivideByZero        Kind = "DivideByZero"
	AllocationFailure   Kind = "AllocationFailure"
	Timeout             Kind = "Timeout"
	StructuralInvariant Kind = "StructuralInvariant"
)

// Error is the value every component returns or stores in place of a
// bare error. It carries a Kind, a message, optional structured context
// (register index, address, gate id, step count, ...), and an optional
// wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]any
	Cause   error
}

// New builds an Error of the given kind with a stack-captured cause via
// pkg/errors, so %+v on the result prints the allocation/invariant site.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: errors.New(message)}
}

// Wrap attaches kind and message to an existing cause, preserving its
// stack via pkg/errors.Wrap.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: errors.Wrap(cause, message)}
}

// With returns a copy of e with a context field set, for chaining at the
// call site: terrors.New(...).With("register", 7).
func (e *Error) With(key string, value any) *Error {
	cp := *e
	cp.Context = make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		cp.Context[k] = v
	}
	cp.Context[key] = value
	return &cp
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s", e.Kind, e.Message))
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" [")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		sb.WriteString("]")
	}
	return sb.String()
}

// Unwrap exposes the wrapped cause so errors.Is/errors.As keep working.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, terrors.New(terrors.DivideByZero, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
