// Package config loads the appcfg command's own settings from multiple sources
// (APPCFG_* environment variables, CLI flags) with precedence: CLI flags >
// Environment variables > Defaults. It does not read project config files;
// that is the job of the appcfg package.
package config
