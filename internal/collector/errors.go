package collector

import (
	"errors"
	"fmt"
)

var (
	// ErrSpawn is matched by every *SpawnError.
	ErrSpawn = errors.New("status command could not be started")

	// ErrEncoding is matched by every *EncodingError.
	ErrEncoding = errors.New("status command output is not valid text")
)

// SpawnError is returned when the status program cannot be located or started.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("running %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Is reports ErrSpawn as matching so callers can classify without errors.As.
func (e *SpawnError) Is(target error) bool { return target == ErrSpawn }

// EncodingError is returned when the captured stdout is not valid UTF-8.
type EncodingError struct {
	Command string
	// Offset is the byte offset of the first invalid sequence.
	Offset int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("output of %s is not valid UTF-8 (invalid byte at offset %d)", e.Command, e.Offset)
}

func (e *EncodingError) Is(target error) bool { return target == ErrEncoding }
