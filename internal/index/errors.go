package index

import "errors"

var (
	// ErrIndexUnavailable means the index service is unreachable or
	// not configured. Callers must treat this differently from an
	// empty result set: it triggers the fixed fallback example path.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrDimensionMismatch means a vector does not match the
	// collection's configured dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
