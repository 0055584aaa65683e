package financials

import (
	"errors"
	"fmt"

	"github.com/seenimoa/compounder/internal/document"
)

// ErrDataShape is matched by errors.Is for every DataShapeError.
var ErrDataShape = errors.New("unexpected data shape")

// DataShapeError reports a section, table or row that is absent or
// malformed at extraction time.
type DataShapeError struct {
	Section document.SectionKey
	Reason  string
	Err     error // underlying cause, may be nil
}

func (e *DataShapeError) Error() string {
	msg := fmt.Sprintf("data shape: %s", e.Reason)
	if e.Section != "" {
		msg = fmt.Sprintf("data shape: section %s: %s", e.Section, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the cause to errors.Is/As.
func (e *DataShapeError) Unwrap() error { return e.Err }

// Is makes every DataShapeError match ErrDataShape.
func (e *DataShapeError) Is(target error) bool { return target == ErrDataShape }

func shapeErrorf(section document.SectionKey, cause error, format string, args ...any) *DataShapeError {
	return &DataShapeError{
		Section: section,
		Reason:  fmt.Sprintf(format, args...),
		Err:     cause,
	}
}
