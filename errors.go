package xlgrid

import "errors"

// Errors returned by grid operations. Callers compare with errors.Is; the
// returned errors wrap these with the offending address or value.
var (
	ErrInvalidAddress       = errors.New("invalid address")
	ErrCapacityExceeded     = errors.New("capacity exceeded")
	ErrReferenceInvalidated = errors.New("reference invalidated")
	ErrOutlineLimitExceeded = errors.New("outline limit exceeded")
	ErrInvalidOutlineLevel  = errors.New("invalid outline level")
	ErrInvalidRange         = errors.New("invalid range")
	ErrInvalidRangeSpec     = errors.New("invalid range spec")
)
