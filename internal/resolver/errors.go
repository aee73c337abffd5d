package resolver

import "errors"

var (
	// ErrInvalidModuleName is returned when a caller identifier names neither an existing path nor a resolvable package.
	ErrInvalidModuleName = errors.New("invalid module name")
	// ErrConfigDirNotFound is returned when the resolved root has no config directory.
	ErrConfigDirNotFound = errors.New("config directory not found")
)
