package appcfg

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/appcfg/internal/loader"
)

type project struct {
	t         *testing.T
	caller    string
	configDir string
	vars      map[string]string
}

func newProject(t *testing.T) *project {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/app\n"), 0o600))

	caller := filepath.Join(root, "cmd", "app", "main.go")
	require.NoError(t, os.MkdirAll(filepath.Dir(caller), 0o755))
	require.NoError(t, os.WriteFile(caller, []byte("package main\n"), 0o600))

	configDir := filepath.Join(root, "config")
	require.NoError(t, os.Mkdir(configDir, 0o755))

	return &project{t: t, caller: caller, configDir: configDir, vars: map[string]string{}}
}

func (p *project) write(name, contents string) {
	p.t.Helper()
	require.NoError(p.t, os.WriteFile(filepath.Join(p.configDir, name), []byte(contents), 0o600))
}

func (p *project) lookup(key string) (string, bool) {
	value, ok := p.vars[key]
	return value, ok
}

func (p *project) loader(opts ...Option) *Loader {
	opts = append([]Option{
		WithLookupEnv(p.lookup),
		WithLogger(zaptest.NewLogger(p.t)),
	}, opts...)
	return New(opts...)
}

func sameMap(a, b map[string]any) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func TestGetDefault(t *testing.T) {
	p := newProject(t)
	p.write("default.yml", "key: value")
	l := p.loader()

	cfg, err := l.Get(p.caller, false)
	require.NoError(t, err)
	assert.Equal(t, Config{"key": "value"}, cfg)

	p.vars["ENV"] = "test"
	cfg, err = l.Get(p.caller, false)
	require.NoError(t, err)
	assert.Equal(t, Config{"key": "value"}, cfg)
}

func TestGetEnvironmentOverride(t *testing.T) {
	p := newProject(t)
	p.write("default.yml", "source: default")
	p.write("development.json", `{"source": "dev"}`)
	p.write("production.yml", "source: production")
	l := p.loader()

	assertSource := func(want string) {
		t.Helper()
		cfg, err := l.Get(p.caller, false)
		require.NoError(t, err)
		assert.Equal(t, Config{"source": want}, cfg)
	}

	assertSource("default")

	p.vars["ENV"] = "default"
	assertSource("default")

	p.vars["ENV"] = "development"
	assertSource("dev")

	p.vars["ENV"] = "dev"
	assertSource("dev")

	delete(p.vars, "ENV")
	p.vars["ENVIRONMENT"] = "production"
	assertSource("production")
}

func TestGetMerging(t *testing.T) {
	p := newProject(t)
	p.write("default.yaml", "a: 1\nb:\n  c: 1\n  d: 1\n")
	p.write("test.json", `{"a": "a", "b": {"c": 2}}`)
	p.vars["ENV"] = "test"

	cfg, err := p.loader().Get(p.caller, false)
	require.NoError(t, err)
	assert.Equal(t, Config{"a": "a", "b": map[string]any{"c": float64(2), "d": 1}}, cfg)
}

func TestGetEnvVarOverride(t *testing.T) {
	p := newProject(t)
	p.write("default.yaml", "a: orig\nb:\n  c: orig\n  d: orig\n")
	p.write("env-vars.yaml", "a: A\nb:\n  c: C\n  d: D\n")
	p.vars["A"] = "env"
	p.vars["C"] = "env"

	cfg, err := p.loader().Get(p.caller, false)
	require.NoError(t, err)
	assert.Equal(t, Config{"a": "env", "b": map[string]any{"c": "env", "d": "orig"}}, cfg)
}

func TestGetEnvVarsOverrideEnvironmentFile(t *testing.T) {
	p := newProject(t)
	p.write("default.yml", "db:\n  host: localhost\n  port: 5432\n")
	p.write("production.yml", "db:\n  host: db.internal\n")
	p.write("env-vars.yml", "db:\n  host: DB_HOST\n  port: [not, a, name]\n")
	p.vars["ENV"] = "production"
	p.vars["DB_HOST"] = "10.0.0.5"

	cfg, err := p.loader().Get(p.caller, false)
	require.NoError(t, err)
	assert.Equal(t, Config{"db": map[string]any{"host": "10.0.0.5", "port": 5432}}, cfg)
}

func TestGetCaching(t *testing.T) {
	p := newProject(t)
	p.write("default.yml", "version: 1")
	l := p.loader()

	cfg, err := l.Get(p.caller, true)
	require.NoError(t, err)
	assert.Equal(t, Config{"version": 1}, cfg)

	again, err := l.Get(p.caller, true)
	require.NoError(t, err)
	assert.True(t, sameMap(cfg, again), "cached lookups must return the same map")

	p.write("default.yml", "version: 2")

	again, err = l.Get(p.caller, true)
	require.NoError(t, err)
	assert.True(t, sameMap(cfg, again), "cached lookups must ignore file changes")

	fresh, err := l.Get(p.caller, false)
	require.NoError(t, err)
	assert.False(t, sameMap(cfg, fresh))
	assert.Equal(t, Config{"version": 2}, fresh)

	again, err = l.Get(p.caller, true)
	require.NoError(t, err)
	assert.True(t, sameMap(fresh, again), "an uncached lookup replaces the cache entry")

	l.Reset()
	again, err = l.Get(p.caller, true)
	require.NoError(t, err)
	assert.False(t, sameMap(fresh, again))
}

func TestGetErrors(t *testing.T) {
	t.Run("InvalidModuleName", func(t *testing.T) {
		_, err := New(WithLogger(zaptest.NewLogger(t))).Get("my_invalid_module_name", false)
		require.ErrorIs(t, err, ErrInvalidModuleName)
		assert.Contains(t, err.Error(), "my_invalid_module_name")
	})

	t.Run("ConfigDirNotFound", func(t *testing.T) {
		p := newProject(t)
		require.NoError(t, os.Remove(p.configDir))

		_, err := p.loader().Get(p.caller, false)
		require.ErrorIs(t, err, ErrConfigDirNotFound)
	})

	t.Run("DefaultFileNotFound", func(t *testing.T) {
		p := newProject(t)
		p.write("production.yml", "a: 1")

		_, err := p.loader().Get(p.caller, false)
		require.ErrorIs(t, err, ErrConfigFileNotFound)
		assert.Contains(t, err.Error(), "default.{yml,yaml,json}")
	})

	t.Run("YAMLExtraRequired", func(t *testing.T) {
		p := newProject(t)
		p.write("default.json", `{"a": 1}`)
		p.write("env-vars.yml", "a: A")

		l := p.loader()
		l.files = loader.New(loader.WithoutCodec("yml"), loader.WithoutCodec("yaml"))

		_, err := l.Get(p.caller, false)
		require.ErrorIs(t, err, ErrYAMLExtraRequired)
	})

	t.Run("NotMapping", func(t *testing.T) {
		p := newProject(t)
		p.write("default.yml", "- a\n- b\n")

		_, err := p.loader().Get(p.caller, false)
		require.ErrorIs(t, err, ErrNotMapping)
	})

	t.Run("FailedLookupIsNotCached", func(t *testing.T) {
		p := newProject(t)
		l := p.loader()

		_, err := l.Get(p.caller, true)
		require.ErrorIs(t, err, ErrConfigFileNotFound)

		p.write("default.yml", "a: 1")
		cfg, err := l.Get(p.caller, true)
		require.NoError(t, err)
		assert.Equal(t, Config{"a": 1}, cfg)
	})
}

func TestGetTOML(t *testing.T) {
	p := newProject(t)
	p.write("default.toml", "name = \"svc\"\n")

	_, err := p.loader().Get(p.caller, false)
	require.ErrorIs(t, err, ErrConfigFileNotFound)

	cfg, err := p.loader(WithTOML()).Get(p.caller, false)
	require.NoError(t, err)
	assert.Equal(t, Config{"name": "svc"}, cfg)
}

func TestGetIgnoresEnvironmentPaths(t *testing.T) {
	p := newProject(t)
	p.write("default.yml", "a: 1")
	p.vars["ENV"] = "../config/default"

	cfg, err := p.loader().Get(p.caller, false)
	require.NoError(t, err)
	assert.Equal(t, Config{"a": 1}, cfg)
}

func TestGetProcessEnvironment(t *testing.T) {
	p := newProject(t)
	p.write("default.yml", "source: default\n")
	p.write("staging.yml", "source: staging\n")
	p.write("env-vars.yml", "token: APPCFG_TEST_TOKEN\n")

	t.Setenv("ENV", "staging")
	t.Setenv("APPCFG_TEST_TOKEN", "secret")

	cfg, err := New(WithLogger(zaptest.NewLogger(t))).Get(p.caller, false)
	require.NoError(t, err)
	assert.Equal(t, Config{"source": "staging", "token": "secret"}, cfg)
}

func TestHere(t *testing.T) {
	assert.True(t, strings.HasSuffix(Here(), "appcfg_test.go"), Here())
}

func TestPackageLevelGet(t *testing.T) {
	t.Cleanup(Reset)

	// the module this test lives in has no config directory
	_, err := Get(Here(), true)
	require.ErrorIs(t, err, ErrConfigDirNotFound)

	assert.Panics(t, func() {
		MustGet(Here(), true)
	})

	p := newProject(t)
	p.write("default.yml", "a: 1")
	cfg := MustGet(p.caller, true)
	assert.Equal(t, Config{"a": 1}, cfg)
	assert.True(t, sameMap(cfg, MustGet(p.caller, true)))
}
