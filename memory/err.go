package memory

import (
	"errors"

	"github.com/ezrec/gbacore/translate"
)

var f = translate.From

var (
	// Image errors
	ErrImageRead = errors.New(f("image unreadable"))
	ErrImageSize = errors.New(f("image too large"))
)
