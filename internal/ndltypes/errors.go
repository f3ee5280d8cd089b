package ndltypes

import "errors"

// ErrInvalidEnum is returned by enum UnmarshalText implementations when
// the text does not match a known variant.
var ErrInvalidEnum = errors.New("ndltypes: invalid enum value")
