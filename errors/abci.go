package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessABCICode is the code of a successful result.
	SuccessABCICode = 0

	// internalABCICode is used for every error that was not created from a
	// registered error. Its message is never exposed outside of debug mode.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and the log of a transaction result.
//
// Errors created from a registered error expose their code and message.
// Any other error is reported with code 1 and, unless debug is set, a
// generic message so that no internal details leak to clients. In debug
// mode the log contains the stack trace.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

type coder interface {
	ABCICode() uint32
}

// abciCode unwraps the error until a registered code is found.
func abciCode(err error) uint32 {
	for !errIsNil(err) {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	if errIsNil(err) {
		return SuccessABCICode
	}
	return internalABCICode
}

// Redact replaces errors without a registered code and panics with a
// generic internal error. It returns the error unchanged in debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}
