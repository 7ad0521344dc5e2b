// Package pexerrors implements the error taxonomy of spec §7. Only
// DefinitionError and InputError ever propagate as Go errors; the
// constraint-failure kinds (UnsatisfiedConstraint, LimitDisclosureUnsupported,
// SubmissionSynthesisFailure) are recorded in the result log or the
// synthesis failure list, never thrown — see exchange.HandlerCheckResult
// and exchange.SynthesisError.
package pexerrors

import "github.com/pkg/errors"

// Kind classifies an error for callers that want to branch on taxonomy
// without string-matching messages.
type Kind string

const (
	// KindDefinition marks a malformed Presentation Definition document.
	KindDefinition Kind = "definition"
	// KindInput marks a caller error: non-JSON credential, missing
	// required opts, or similar contract violations.
	KindInput Kind = "input"
)

// Error wraps an underlying cause with a taxonomy Kind.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}

	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// NewDefinitionError reports a malformed Presentation Definition.
func NewDefinitionError(msg string) error {
	return &Error{Kind: KindDefinition, msg: msg}
}

// WrapDefinitionError reports a malformed Presentation Definition, wrapping
// the underlying cause (e.g. a JSON Schema validation error).
func WrapDefinitionError(err error, msg string) error {
	return &Error{Kind: KindDefinition, msg: msg, err: err}
}

// NewInputError reports a caller contract violation: a non-JSON credential,
// a missing required opt, or similar.
func NewInputError(msg string) error {
	return &Error{Kind: KindInput, msg: msg}
}

// WrapInputError reports a caller contract violation, wrapping the cause.
func WrapInputError(err error, msg string) error {
	return &Error{Kind: KindInput, msg: msg, err: err}
}

// Is reports whether err carries the given Kind, unwrapping as needed.
func Is(err error, kind Kind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}

	return false
}
