package primitive

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNoEnumMember     = errors.New("value matches no enum member")
	ErrCategoryDisabled = errors.New("conversion category is disabled")
	ErrOverflow         = errors.New("value overflows target type")
	ErrUnsupported      = errors.New("unsupported conversion")
)

// ConversionError reports a cell that could not be coerced into its field's type.
type ConversionError struct {
	Column string
	Value  any
	Target reflect.Type
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("cannot convert %v (%T) to %s: %v", e.Value, e.Value, e.Target, e.Err)
	}

	return fmt.Sprintf("column %q: cannot convert %v (%T) to %s: %v", e.Column, e.Value, e.Value, e.Target, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// WithColumn attaches the column name to a ConversionError found in err's chain.
func WithColumn(err error, column string) error {
	var convErr *ConversionError
	if errors.As(err, &convErr) && convErr.Column == "" {
		convErr.Column = column
	}

	return err
}
