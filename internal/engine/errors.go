package engine

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies errors for the top-level error boundary.
type Kind int

const (
	KindInternal Kind = iota
	// KindUsage covers malformed arguments, flags, filters and config files.
	KindUsage
	// KindIO covers missing or unreadable inputs, unwritable outputs and storage failures.
	KindIO
	// KindFormat covers archives that are not archives, malformed sizes and truncated data.
	KindFormat
	// KindUnsafeName is returned when an entry name would escape the extraction root.
	KindUnsafeName
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindIO:
		return "io"
	case KindFormat:
		return "format"
	case KindUnsafeName:
		return "unsafe_name"
	default:
		return "internal"
	}
}

// Error is a classified error carrying the operation and path it happened on.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	if e.Err == nil {
		return msg
	}
	if msg == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func UsageError(op string, err error) error {
	return &Error{Kind: KindUsage, Op: op, Err: err}
}

func IOError(op, path string, err error) error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

func FormatError(op string, err error) error {
	return &Error{Kind: KindFormat, Op: op, Err: err}
}

func UnsafeNameError(name string, err error) error {
	return &Error{Kind: KindUnsafeName, Op: "unsafe entry name", Path: fmt.Sprintf("%q", name), Err: err}
}

// KindOf returns the kind of the outermost classified error in err's chain.
// Context cancellation counts as an I/O failure; anything else unclassified is internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindIO
	}

	return KindInternal
}
