package appcfg

import (
	"github.com/eugenenazirov/appcfg/internal/loader"
	"github.com/eugenenazirov/appcfg/internal/resolver"
)

var (
	// ErrInvalidModuleName is returned when the caller cannot be resolved to a source location.
	ErrInvalidModuleName = resolver.ErrInvalidModuleName
	// ErrConfigDirNotFound is returned when the caller's project has no config directory.
	ErrConfigDirNotFound = resolver.ErrConfigDirNotFound
	// ErrConfigFileNotFound is returned when the config directory has no default file.
	ErrConfigFileNotFound = loader.ErrConfigFileNotFound
	// ErrYAMLExtraRequired is returned when a YAML file is found but YAML support is not compiled in.
	ErrYAMLExtraRequired = loader.ErrYAMLExtraRequired
	// ErrNotMapping is returned when a config file does not hold a mapping at the top level.
	ErrNotMapping = loader.ErrNotMapping
	// ErrDuplicateKey is returned when two keys of a config mapping convert to the same string.
	ErrDuplicateKey = loader.ErrDuplicateKey
)
