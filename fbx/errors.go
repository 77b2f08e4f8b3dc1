package fbx

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidHeader       = errors.New("invalid fbx binary header")
	ErrUnknownPropertyTag  = errors.New("unknown property type")
	ErrInvalidSentinel     = errors.New("non-zero scope sentinel")
	ErrOffsetMismatch      = errors.New("scope end offset mismatch")
	ErrDecompressionFailed = errors.New("array decompression failed")

	// Returned only when the corresponding option is enabled.
	ErrPropertyListLength = errors.New("property list length mismatch")
	ErrArrayLength        = errors.New("invalid array length")
	ErrDepthExceeded      = errors.New("node nesting too deep")
)

// ParseError reports where in the stream decoding stopped.
// Use errors.Is against the Err* values to classify it.
type ParseError struct {
	Offset int64  // stream position when the error was detected
	Path   string // slash separated names of the enclosing nodes
	Err    error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("fbx: %v (offset %d)", e.Err, e.Offset)
	}
	return fmt.Sprintf("fbx: %v (offset %d, node %s)", e.Err, e.Offset, e.Path)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
