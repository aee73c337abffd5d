// Package loader reads a single configuration file by base name, trying a
// fixed, ordered list of extensions.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DecodeFunc parses raw file contents into a configuration mapping.
type DecodeFunc func(data []byte) (map[string]any, error)

// DefaultExtensions is the lookup order used by New. When several files share
// a base name, the first extension in this list wins.
var DefaultExtensions = []string{"yml", "yaml", "json"}

// builtinCodecs is filled by the codec files; the YAML entries are absent
// when the module is built with the appcfg_noyaml tag.
var builtinCodecs = map[string]DecodeFunc{}

// Option configures a FileLoader.
type Option func(*FileLoader)

// WithTOML appends the toml extension to the lookup order.
func WithTOML() Option {
	return WithCodec("toml", decodeTOML)
}

// WithCodec registers decode for ext, appending ext to the lookup order when
// it is not already part of it.
func WithCodec(ext string, decode DecodeFunc) Option {
	return func(l *FileLoader) {
		ext = strings.TrimPrefix(ext, ".")
		if !slices.Contains(l.extensions, ext) {
			l.extensions = append(l.extensions, ext)
		}
		l.codecs[ext] = decode
	}
}

// WithoutCodec drops the codec for ext while keeping ext in the lookup
// order, so a matching file is reported instead of silently skipped.
func WithoutCodec(ext string) Option {
	return func(l *FileLoader) {
		delete(l.codecs, strings.TrimPrefix(ext, "."))
	}
}

// FileLoader locates and decodes config files.
type FileLoader struct {
	extensions    []string
	codecs        map[string]DecodeFunc
	yamlSupported bool
}

// New creates a FileLoader using DefaultExtensions and the codecs compiled
// into the binary.
func New(opts ...Option) *FileLoader {
	l := &FileLoader{
		extensions: slices.Clone(DefaultExtensions),
		codecs:     make(map[string]DecodeFunc, len(builtinCodecs)),
	}
	for ext, decode := range builtinCodecs {
		l.codecs[ext] = decode
	}
	for _, opt := range opts {
		opt(l)
	}

	_, hasYML := l.codecs["yml"]
	_, hasYAML := l.codecs["yaml"]
	l.yamlSupported = hasYML && hasYAML

	return l
}

// Extensions returns a copy of the lookup order.
func (l *FileLoader) Extensions() []string {
	return slices.Clone(l.extensions)
}

// YAMLSupported reports whether YAML files can be decoded.
func (l *FileLoader) YAMLSupported() bool {
	return l.yamlSupported
}

// Load decodes the first existing file named name.<ext> in dir. When none
// exists it returns a nil mapping, or ErrConfigFileNotFound if strict is set.
func (l *FileLoader) Load(dir, name string, strict bool) (map[string]any, error) {
	for _, ext := range l.extensions {
		path := filepath.Join(dir, name+"."+ext)

		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}

		return l.decodeFile(path, ext)
	}

	if strict {
		pattern := filepath.Join(dir, name+".{"+strings.Join(l.extensions, ",")+"}")
		return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, pattern)
	}
	return nil, nil
}

func (l *FileLoader) decodeFile(path, ext string) (map[string]any, error) {
	decode, ok := l.codecs[ext]
	if !ok {
		if isYAML(ext) {
			return nil, fmt.Errorf("%w: %s", ErrYAMLExtraRequired, path)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	cfg, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg == nil {
		cfg = map[string]any{}
	}
	return cfg, nil
}

func isYAML(ext string) bool {
	return ext == "yml" || ext == "yaml"
}

// asMapping converts a decoded document into a configuration mapping,
// rewriting nested mappings with non-string keys on the way.
func asMapping(doc any) (map[string]any, error) {
	if doc == nil {
		return map[string]any{}, nil
	}
	normalized, err := normalize(doc)
	if err != nil {
		return nil, err
	}
	m, ok := normalized.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotMapping, doc)
	}
	return m, nil
}

// normalize stringifies mapping keys. Two keys that print the same, such as
// 1.0 and "1", are an error rather than a silent overwrite.
func normalize(value any) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			v[key] = n
		}
		return v, nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			name := fmt.Sprint(key)
			if _, dup := out[name]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, name)
			}
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[name] = n
		}
		return out, nil
	case []any:
		for i, item := range v {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			v[i] = n
		}
		return v, nil
	default:
		return value, nil
	}
}
