// Package fault classifies the fatal failures of the playback pipeline.
package fault

import (
	"errors"
	"fmt"
)

// Kind identifies the pipeline stage a failure belongs to.
type Kind int

const (
	// Allocation means a context, picture or process could not be created.
	Allocation Kind = iota + 1
	// StreamDiscovery means the input has no decodable video stream or its
	// header could not be read.
	StreamDiscovery
	// Decode means a packet could not be decoded into a picture.
	Decode
	// Scaling means a picture could not be resampled.
	Scaling
)

func (k Kind) String() string {
	switch k {
	case Allocation:
		return "allocation"
	case StreamDiscovery:
		return "stream discovery"
	case Decode:
		return "decode"
	case Scaling:
		return "scaling"
	default:
		return "unknown"
	}
}

// Error is a classified pipeline failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s failure", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s failure: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err as a failure of the given kind raised by op.
func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf is New with a formatted cause.
func Newf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// Is reports whether err carries a failure of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
