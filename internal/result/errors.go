package result

import "github.com/atlanticdynamic/scriptsvc/internal/errz"

var (
	ErrIndexOutOfRange = errz.ErrIndexOutOfRange
	ErrFieldNotFound   = errz.ErrFieldNotFound
	ErrTypeMismatch    = errz.ErrTypeMismatch
)
