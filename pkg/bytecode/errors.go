package bytecode

import "errors"

var (
	// ErrLineNotFound is returned when a byte offset is not covered by any
	// run in a LineMap. It means the code and the line map disagree in length,
	// so the chunk was built incorrectly.
	ErrLineNotFound = errors.New("instruction not found in line map")

	// ErrIndexOutOfRange is returned by the checked accessors.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrTooManyConstants is returned when a constant index does not fit in
	// a single operand byte.
	ErrTooManyConstants = errors.New("too many constants in one chunk")

	// ErrBadMagic is returned when decoding data that is not a chunk image.
	ErrBadMagic = errors.New("invalid chunk image magic")

	// ErrUnsupportedVersion is returned for images newer than ImageVersion.
	ErrUnsupportedVersion = errors.New("unsupported chunk image version")

	// ErrCorruptImage is returned for truncated or inconsistent images.
	ErrCorruptImage = errors.New("corrupt chunk image")
)
