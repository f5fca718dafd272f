package engine

import "errors"

var (
	ErrUnknownEngine  = errors.New("unknown engine type")
	ErrEmptySource    = errors.New("script source is empty")
	ErrModuleNotFound = errors.New("module not found")
	ErrImportCycle    = errors.New("import cycle")
)
