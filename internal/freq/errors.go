package freq

import (
	"errors"
	"fmt"
)

// ErrDataFormat matches every DataFormatError through errors.Is.
var ErrDataFormat = errors.New("malformed frequency data")

// DataFormatError describes a frequency source line that could not be parsed.
type DataFormatError struct {
	Source string
	Line   int
	Text   string
	Reason string
}

func (e *DataFormatError) Error() string {
	if e.Line <= 0 {
		return fmt.Sprintf("%s: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("%s:%d: %s (%q)", e.Source, e.Line, e.Reason, e.Text)
}

// Is reports whether target is ErrDataFormat.
func (e *DataFormatError) Is(target error) bool {
	return target == ErrDataFormat
}
