package castor

import "errors"

var (
	// ErrInvalidObjectSize is returned when a container is constructed with a
	// non-positive element width.
	ErrInvalidObjectSize = errors.New("castor: object size must be positive")

	// ErrObjectSize is returned when an element buffer does not match the
	// container's object size.
	ErrObjectSize = errors.New("castor: buffer length does not match object size")

	// ErrEmpty is returned by removal and overwrite operations on an empty
	// container.
	ErrEmpty = errors.New("castor: container is empty")

	// ErrIndexOutOfRange is returned when an index is >= the live element count.
	ErrIndexOutOfRange = errors.New("castor: index out of range")

	// ErrNegativeCount is returned when a negative slot count is requested.
	ErrNegativeCount = errors.New("castor: negative count")

	// ErrCapacityOverflow is returned when a requested capacity would
	// overflow the buffer's byte size.
	ErrCapacityOverflow = errors.New("castor: capacity overflows buffer size")

	// ErrClosed is returned when operating on a closed container.
	ErrClosed = errors.New("castor: container is closed")
)
