// Package appcfg loads environment-specific configuration for a Go program.
//
// Configuration lives in a config directory next to the caller's go.mod:
//
//	project/
//	  go.mod
//	  config/
//	    default.yml      required
//	    production.json  optional, selected by ENV / PY_ENV / ENVIRONMENT
//	    env-vars.yaml    optional, maps config keys to process variables
//
// Get resolves the directory for a caller, loads default, merges the file for
// the active environment over it and finally merges the values of the
// process variables named in env-vars. Files are tried with the yml, yaml and
// json extensions in that order.
//
//	cfg, err := appcfg.Get(appcfg.Here(), true)
//
// Cached lookups return the same map for a caller until an uncached lookup
// replaces it. Callers must treat the returned map as read-only.
//
// YAML support can be compiled out with the appcfg_noyaml build tag; YAML
// files then fail with ErrYAMLExtraRequired.
package appcfg
