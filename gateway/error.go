package gateway

import (
	"errors"
	"fmt"
)

// Error is a failed submission. Definitive means the executor confirmed that
// no funds moved and a retry of governance is safe; anything else must be
// treated as an unknown outcome. IsDefinitive deliberately reports false for
// foreign error types: when in doubt, the engine must not mark the proposal
// FAILED.
type Error struct {
	definitive bool
	code       string
	message    string
}

func (e *Error) Error() string {
	if e.definitive {
		return fmt.Sprintf("execution rejected (%s): %s", e.code, e.message)
	}
	return fmt.Sprintf("execution outcome unknown (%s): %s", e.code, e.message)
}

func (e *Error) Code() string {
	return e.code
}

func NewDefinitiveErr(code, format string, values ...interface{}) *Error {
	return &Error{
		definitive: true,
		code:       code,
		message:    fmt.Sprintf(format, values...),
	}
}

func NewAmbiguousErr(code, format string, values ...interface{}) *Error {
	return &Error{
		definitive: false,
		code:       code,
		message:    fmt.Sprintf(format, values...),
	}
}

func IsDefinitive(err error) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.definitive
}
