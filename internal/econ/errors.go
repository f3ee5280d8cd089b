package econ

import "fmt"

// PriceError reports a price outside the protocol's allowed bounds.
type PriceError struct {
	Price   uint64
	Bound   uint64
	TooHigh bool
}

func (e *PriceError) Error() string {
	if e.TooHigh {
		return fmt.Sprintf("econ: price %d exceeds maximum %d", e.Price, e.Bound)
	}
	return fmt.Sprintf("econ: price %d is below minimum %d", e.Price, e.Bound)
}

var (
	// ErrEmptyEntries is returned when a Merkle proof is requested over
	// an empty entry set.
	ErrEmptyEntries = fmt.Errorf("econ: cannot build a merkle tree over zero entries")
	// ErrIndexOutOfBounds is returned when a proof is requested for an
	// index outside the entry set.
	ErrIndexOutOfBounds = fmt.Errorf("econ: entry index out of bounds")
)
