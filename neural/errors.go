package neural

import "errors"

var (
	// ErrInvalidConfig reports a malformed topology, population size or
	// mutation setting. It is returned at construction time.
	ErrInvalidConfig = errors.New("neural: invalid configuration")

	// ErrIndexOutOfRange reports a parent or score index outside [0, size).
	ErrIndexOutOfRange = errors.New("neural: index out of range")

	// ErrNoPairs reports a pairing matrix in which no cell can ever fire.
	ErrNoPairs = errors.New("neural: pairing matrix has no positive entry")
)
