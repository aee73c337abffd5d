// Package environment determines the active deployment environment from
// process variables.
package environment

import "os"

const (
	// Default is used when no environment variable selects another one.
	Default = "default"
	// Development is the canonical name for the dev aliases.
	Development = "development"
)

// Variables lists the process variables consulted, highest priority first.
var Variables = []string{"ENV", "PY_ENV", "ENVIRONMENT"}

var aliases = map[string]string{
	"":        Default,
	"dev":     Development,
	"develop": Development,
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Resolve returns the active environment name. The first variable in
// Variables that is set wins, even when it is set to an empty string.
// A nil lookup falls back to os.LookupEnv.
func Resolve(lookup LookupFunc) string {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	for _, name := range Variables {
		value, ok := lookup(name)
		if !ok {
			continue
		}
		return Normalize(value)
	}

	return Default
}

// Normalize maps aliases to their canonical environment name. Unknown values
// are returned unchanged.
func Normalize(value string) string {
	if canonical, ok := aliases[value]; ok {
		return canonical
	}
	return value
}
