package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated       = errors.New("protocol: truncated data")
	ErrValueOutOfRange = errors.New("protocol: channel value out of range")
)

// ErrKind classifies a decode failure.
type ErrKind uint8

const (
	ErrKindTruncated ErrKind = iota + 1
	ErrKindIO
)

// DecodeError reports why one command could not be read.
type DecodeError struct {
	Kind ErrKind
	// Read is the number of bytes consumed for the failed command.
	Read int
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Kind == ErrKindTruncated {
		return fmt.Sprintf("protocol: truncated data after %d bytes", e.Read)
	}
	return fmt.Sprintf("protocol: read failed after %d bytes: %v", e.Read, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is matches ErrTruncated for truncation failures.
func (e *DecodeError) Is(target error) bool {
	return target == ErrTruncated && e.Kind == ErrKindTruncated
}

// IsTruncated reports whether err is a mid-command end of stream.
func IsTruncated(err error) bool {
	return errors.Is(err, ErrTruncated)
}
