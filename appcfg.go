package appcfg

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/appcfg/internal/cache"
	"github.com/eugenenazirov/appcfg/internal/environment"
	"github.com/eugenenazirov/appcfg/internal/envvars"
	"github.com/eugenenazirov/appcfg/internal/loader"
	"github.com/eugenenazirov/appcfg/internal/logging"
	"github.com/eugenenazirov/appcfg/internal/merge"
	"github.com/eugenenazirov/appcfg/internal/resolver"
)

// Base names of the files looked up in a config directory.
const (
	DefaultFile = "default"
	EnvVarsFile = "env-vars"
)

// Config is a resolved configuration: a nested mapping of string keys to
// scalars, sequences ([]any) and nested Config-shaped maps.
type Config = map[string]any

// Resolver locates the config directory for a caller.
type Resolver interface {
	ConfigDir(caller string) (string, error)
}

// Cache stores resolved configurations keyed by caller.
type Cache interface {
	Get(key string) (map[string]any, bool)
	Put(key string, cfg map[string]any)
	Reset()
}

// Option configures a Loader.
type Option func(*loaderConfig)

type loaderConfig struct {
	logger      *zap.Logger
	cache       Cache
	resolver    Resolver
	lookup      func(string) (string, bool)
	fileOptions []loader.Option
}

// WithLogger sets the logger receiving env-vars template warnings and debug
// traces of each lookup.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *loaderConfig) {
		cfg.logger = logger
	}
}

// WithCache replaces the loader's private in-memory cache.
func WithCache(c Cache) Option {
	return func(cfg *loaderConfig) {
		cfg.cache = c
	}
}

// WithResolver overrides how callers are mapped to config directories.
func WithResolver(r Resolver) Option {
	return func(cfg *loaderConfig) {
		cfg.resolver = r
	}
}

// WithLookupEnv overrides how process variables are read (primarily for
// tests). The function must behave like os.LookupEnv.
func WithLookupEnv(lookup func(key string) (string, bool)) Option {
	return func(cfg *loaderConfig) {
		cfg.lookup = lookup
	}
}

// WithTOML enables config files with the toml extension, tried after json.
func WithTOML() Option {
	return func(cfg *loaderConfig) {
		cfg.fileOptions = append(cfg.fileOptions, loader.WithTOML())
	}
}

// Loader resolves, loads and caches configurations.
type Loader struct {
	logger   *zap.Logger
	cache    Cache
	resolver Resolver
	files    *loader.FileLoader
	lookup   func(string) (string, bool)
}

// New creates a Loader. Without options it resolves callers against the
// filesystem, reads the process environment, logs warnings to stderr and
// keeps its own cache.
func New(opts ...Option) *Loader {
	cfg := loaderConfig{
		lookup: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.logger == nil {
		logger, err := logging.New()
		if err != nil {
			logger = zap.NewNop()
		}
		cfg.logger = logger
	}
	if cfg.cache == nil {
		cfg.cache = cache.NewMemoryCache()
	}
	if cfg.resolver == nil {
		cfg.resolver = resolver.New()
	}
	if cfg.lookup == nil {
		cfg.lookup = os.LookupEnv
	}

	return &Loader{
		logger:   cfg.logger,
		cache:    cfg.cache,
		resolver: cfg.resolver,
		files:    loader.New(cfg.fileOptions...),
		lookup:   cfg.lookup,
	}
}

// Get returns the configuration for caller. With cached set, a configuration
// stored by an earlier call is returned as is, even if the files changed
// since. Without it the files are always read again and the result replaces
// the cached entry.
func (l *Loader) Get(caller string, cached bool) (Config, error) {
	if cached {
		if cfg, ok := l.cache.Get(caller); ok {
			return cfg, nil
		}
	}

	cfg, err := l.Load(caller)
	if err != nil {
		return nil, err
	}

	l.cache.Put(caller, cfg)
	return cfg, nil
}

// Load resolves the configuration for caller without touching the cache.
func (l *Loader) Load(caller string) (Config, error) {
	dir, err := l.resolver.ConfigDir(caller)
	if err != nil {
		return nil, err
	}

	cfg, err := l.files.Load(dir, DefaultFile, true)
	if err != nil {
		return nil, fmt.Errorf("load default config: %w", err)
	}

	env := environment.Resolve(l.lookup)
	logger := l.logger.With(zap.String("caller", caller), zap.String("config_dir", dir))
	logger.Debug("resolving config", zap.String("environment", env))

	if env != environment.Default {
		override, err := l.loadEnvironment(dir, env, logger)
		if err != nil {
			return nil, err
		}
		if override != nil {
			cfg = merge.Merge(cfg, override)
		}
	}

	template, err := l.files.Load(dir, EnvVarsFile, false)
	if err != nil {
		return nil, fmt.Errorf("load env-vars template: %w", err)
	}
	if template != nil {
		envvars.Validate(template, logger)
		envvars.Compile(template, l.lookup)
		cfg = merge.Merge(cfg, template)
	}

	return cfg, nil
}

// ConfigDir returns the config directory Load reads for caller.
func (l *Loader) ConfigDir(caller string) (string, error) {
	return l.resolver.ConfigDir(caller)
}

// Reset drops every cached configuration.
func (l *Loader) Reset() {
	l.cache.Reset()
}

func (l *Loader) loadEnvironment(dir, env string, logger *zap.Logger) (map[string]any, error) {
	if strings.ContainsAny(env, `/\`) || env == "." || env == ".." {
		logger.Warn("ignoring environment name that is not a plain file name", zap.String("environment", env))
		return nil, nil
	}

	override, err := l.files.Load(dir, env, false)
	if err != nil {
		return nil, fmt.Errorf("load %s config: %w", env, err)
	}
	if override == nil {
		logger.Debug("no config file for environment", zap.String("environment", env))
	}
	return override, nil
}
