package vector

import "errors"

// ErrDimensionMismatch indicates a vector whose length does not match the
// collection's configured dimensionality.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")
