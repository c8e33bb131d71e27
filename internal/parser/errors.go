package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrFormatMismatch is matched by every *FormatMismatchError.
	ErrFormatMismatch = errors.New("status report does not match the expected layout")

	// ErrNumericConversion is matched by every *NumericConversionError.
	ErrNumericConversion = errors.New("status field is out of range")
)

// maxQuotedInput bounds how much of the report is repeated in error messages.
const maxQuotedInput = 120

// FormatMismatchError is returned when the status layout is not found in the
// report. This is expected when the vendor tool changes its output format or
// language, or reports a state without load figures.
type FormatMismatchError struct {
	Input string
}

func (e *FormatMismatchError) Error() string {
	in := e.Input
	if len(in) > maxQuotedInput {
		in = in[:maxQuotedInput] + "..."
	}
	return fmt.Sprintf("%v: %q", ErrFormatMismatch, in)
}

func (e *FormatMismatchError) Is(target error) bool { return target == ErrFormatMismatch }

// NumericConversionError is returned when a captured digit sequence does not
// fit the numeric range of its field.
type NumericConversionError struct {
	Field string
	Value string
	Err   error
}

func (e *NumericConversionError) Error() string {
	return fmt.Sprintf("parsing %s value %q: %v", e.Field, e.Value, e.Err)
}

func (e *NumericConversionError) Unwrap() error { return e.Err }

func (e *NumericConversionError) Is(target error) bool { return target == ErrNumericConversion }
