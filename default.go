package appcfg

import (
	"fmt"
	"runtime"
	"sync"
)

var (
	defaultLoader     *Loader
	defaultLoaderOnce sync.Once
)

// Default returns the process-wide Loader used by Get, MustGet and Reset.
func Default() *Loader {
	defaultLoaderOnce.Do(func() {
		defaultLoader = New()
	})
	return defaultLoader
}

// Get returns the configuration for caller using the process-wide Loader.
//
// Example:
//
//	cfg, err := appcfg.Get(appcfg.Here(), true)
//	if err != nil {
//		// Handle error
//	}
func Get(caller string, cached bool) (Config, error) {
	return Default().Get(caller, cached)
}

// MustGet works like Get but panics if the configuration cannot be loaded.
func MustGet(caller string, cached bool) Config {
	cfg, err := Get(caller, cached)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration for %s: %v", caller, err))
	}
	return cfg
}

// Reset clears the process-wide cache.
func Reset() {
	Default().Reset()
}

// Here returns the path of the source file calling it, for use as a caller
// identifier. It returns an empty string when the information is unavailable.
func Here() string {
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		return ""
	}
	return file
}
