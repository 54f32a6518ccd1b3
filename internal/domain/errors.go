package domain

import (
	"errors"
)

// Error kinds raised by the description layer. All are reported synchronously
// at the point of violation and wrapped with context via fmt.Errorf("%w: ...").
var (
	ErrInvalidBounds    = errors.New("invalid parameter bounds")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrDuplicateName    = errors.New("duplicate name")
	ErrCapacityExceeded = errors.New("capacity exceeded")
)
