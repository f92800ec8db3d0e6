package emulator

import (
	"github.com/ezrec/tribit/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Ip     int
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo != 0 {
		return f("ip %d line %d %v", err.Ip, err.LineNo, err.Err)
	}
	return f("ip %d %v", err.Ip, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
