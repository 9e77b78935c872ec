package emulator

import (
	"errors"

	"github.com/ezrec/gbacore/translate"
)

var f = translate.From

var (
	ErrProgramOrigin = errors.New(f("program origin outside ROM"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Address uint32
	LineNo  int
	Err     error
}

func (err *ErrRuntime) Error() string {
	return f("0x%08x line %d %v", err.Address, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
