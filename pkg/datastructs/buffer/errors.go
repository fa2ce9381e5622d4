package buffer

import "github.com/pkg/errors"

var (
	// ErrReleased is returned by any operation on a buffer after Release.
	ErrReleased = errors.New("buffer: released")

	// ErrNegativeCount is returned when a byte count is negative.
	ErrNegativeCount = errors.New("buffer: negative count")

	// ErrOutOfRange is returned when offset and length do not fit the caller's slice.
	ErrOutOfRange = errors.New("buffer: offset/length out of range")

	// ErrNotEnoughData is returned when fewer bytes are readable than requested.
	ErrNotEnoughData = errors.New("buffer: not enough readable bytes")

	// ErrIndexOutOfRange is returned by Get* when the index is outside the written region.
	ErrIndexOutOfRange = errors.New("buffer: index out of range")

	// ErrMaxLimitExceeded is returned when growth would pass the limit set by WithMaxLimit.
	ErrMaxLimitExceeded = errors.New("buffer: max limit exceeded")

	// ErrCharOutOfRange is returned when a rune does not fit a single UTF-16 code unit.
	ErrCharOutOfRange = errors.New("buffer: char out of range")
)
