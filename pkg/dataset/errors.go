package dataset

import "errors"

var (
	ErrUnknownColumn   = errors.New("unknown column")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrLengthMismatch  = errors.New("column length mismatch")
	ErrKindMismatch    = errors.New("column kind mismatch")
	ErrInvalidKind     = errors.New("invalid column kind")
	ErrRowOutOfRange   = errors.New("row out of range")
	ErrNotNumeric      = errors.New("column is not numeric")
)
