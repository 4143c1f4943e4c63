// Package apperr classifies failures so the tool surface can report them
// without leaking Go errors across the boundary.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInput         Kind = "input"
	KindFetch         Kind = "fetch"
	KindSummarization Kind = "summarization"
	KindPersistence   Kind = "persistence"
	KindConfig        Kind = "config"
)

// Error wraps an underlying failure with its kind and the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func Input(op, format string, args ...any) error {
	return &Error{Kind: KindInput, Op: op, Err: fmt.Errorf(format, args...)}
}

func Fetch(op string, err error) error         { return New(KindFetch, op, err) }
func Persistence(op string, err error) error   { return New(KindPersistence, op, err) }
func Config(op string, err error) error        { return New(KindConfig, op, err) }
func Summarization(op string, err error) error { return New(KindSummarization, op, err) }

// KindOf reports the kind of the outermost classified error in the chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
