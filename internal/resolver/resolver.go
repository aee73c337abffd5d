// Package resolver maps a caller identifier to the project root that holds
// its config directory.
//
// A caller identifier is either a filesystem path to a source file or
// directory, or a Go import path. The project root is the nearest enclosing
// directory with a go.mod file; code outside any module uses its own
// directory.
package resolver

import (
	"errors"
	"fmt"
	"go/build"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ConfigDirName is the directory under the project root holding config files.
const ConfigDirName = "config"

const moduleFile = "go.mod"

// Resolver finds the config directory for a caller.
type Resolver interface {
	ConfigDir(caller string) (string, error)
}

// ModuleResolver resolves callers against the filesystem and, for import
// paths, the Go build context.
type ModuleResolver struct {
	build  *build.Context
	srcDir string
}

// New creates a ModuleResolver that resolves import paths with the default
// build context relative to the working directory.
func New() *ModuleResolver {
	srcDir, err := os.Getwd()
	if err != nil {
		srcDir = "."
	}
	return &ModuleResolver{build: &build.Default, srcDir: srcDir}
}

// ModulePath returns the absolute source file or directory for caller.
func (r *ModuleResolver) ModulePath(caller string) (string, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return "", fmt.Errorf("%w: empty caller", ErrInvalidModuleName)
	}

	if filepath.IsAbs(caller) || build.IsLocalImport(caller) || exists(caller) {
		abs, err := filepath.Abs(caller)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrInvalidModuleName, caller, err)
		}
		if !exists(abs) {
			return "", fmt.Errorf("%w: %q: no such file or directory", ErrInvalidModuleName, caller)
		}
		return abs, nil
	}

	importPath := caller
	if strings.HasSuffix(caller, ".go") {
		// binaries built with -trimpath report source files under their import path
		importPath = path.Dir(filepath.ToSlash(caller))
	}

	pkg, err := r.build.Import(importPath, r.srcDir, build.FindOnly)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidModuleName, caller, err)
	}
	return pkg.Dir, nil
}

// Root returns the project root for caller.
func (r *ModuleResolver) Root(caller string) (string, error) {
	path, err := r.ModulePath(caller)
	if err != nil {
		return "", err
	}
	return RootPath(path), nil
}

// ConfigDir returns the config directory under the project root for caller.
func (r *ModuleResolver) ConfigDir(caller string) (string, error) {
	root, err := r.Root(caller)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(root, ConfigDirName)
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrConfigDirNotFound, dir)
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrConfigDirNotFound, dir)
	}
	return dir, nil
}

// RootPath returns the nearest directory at or above path that contains a
// go.mod file. Without one, it returns the directory of path itself.
func RootPath(path string) string {
	start := path
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		start = filepath.Dir(path)
	}

	for dir := start; ; {
		if info, err := os.Stat(filepath.Join(dir, moduleFile)); err == nil && !info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return start
}

func exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
