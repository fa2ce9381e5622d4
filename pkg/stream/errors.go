package stream

import "github.com/pkg/errors"

var (
	// ErrClosed is returned by any operation on a stream after Close.
	ErrClosed = errors.New("stream: closed")

	// ErrNegativeLength is returned when a length or allocation target is negative.
	ErrNegativeLength = errors.New("stream: negative length")

	// ErrNegativeCapacity is returned when a stream is created with a negative capacity.
	ErrNegativeCapacity = errors.New("stream: negative capacity")

	// ErrSeekOutOfRange is returned when a seek lands outside the allowed range.
	ErrSeekOutOfRange = errors.New("stream: seek out of range")

	// ErrInvalidWhence is returned for a whence other than io.SeekStart, io.SeekCurrent or io.SeekEnd.
	ErrInvalidWhence = errors.New("stream: invalid whence")
)
