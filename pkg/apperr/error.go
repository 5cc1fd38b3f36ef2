// Package apperr defines the single error type every outbound failure converges to.
//
// An Error carries a stable code and a caller-safe message. Transport details never
// travel inside it; callers that need them read the logs.
package apperr

import (
	"errors"
	"fmt"
)

// Error is the unified application error: a code + message pair tagged with its kind.
type Error struct {
	code    string
	message string
	kind    Kind
}

// New builds an Error from a family template.
func New(kind Kind, meta Meta) *Error {
	return &Error{code: meta.Code, message: meta.Message, kind: kind}
}

// System returns the fixed system error used for every transport fault.
func System() *Error {
	return New(KindSystem, SysError)
}

// HTTPRequest returns an error of the "HTTP request error" family with a status-specific message.
func HTTPRequest(kind Kind, msg string) *Error {
	return New(kind, HTTPRequestError.WithMessage(msg))
}

// Business converts a failed result envelope into an Error. Code and message come
// from the envelope untouched.
func Business(code, description string) *Error {
	return &Error{code: code, message: description, kind: KindBusiness}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Code() string    { return e.code }
func (e *Error) Message() string { return e.message }
func (e *Error) Kind() Kind      { return e.kind }

// Is reports equality by code and kind so errors.Is works against fresh instances.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.code == t.code && e.kind == t.kind
}

// As returns the *Error inside err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or the empty Kind when err is not an *Error.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.kind
	}
	return ""
}
