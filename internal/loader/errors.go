package loader

import "errors"

var (
	// ErrConfigFileNotFound is returned in strict mode when no file with a known extension exists.
	ErrConfigFileNotFound = errors.New("config file not found")
	// ErrYAMLExtraRequired is returned when a YAML file is found but YAML support was not compiled in.
	ErrYAMLExtraRequired = errors.New("YAML support is required to load this file (build without the appcfg_noyaml tag)")
	// ErrUnsupportedFormat is returned when a file is found for an extension that has no codec.
	ErrUnsupportedFormat = errors.New("no codec registered for config file extension")
	// ErrNotMapping is returned when a config file does not hold a mapping at the top level.
	ErrNotMapping = errors.New("config file must contain a mapping at the top level")
	// ErrDuplicateKey is returned when two mapping keys become equal once converted to strings.
	ErrDuplicateKey = errors.New("duplicate mapping key after converting keys to strings")
)
