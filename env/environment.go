// Package env exposes the process-environment probe described in
// spec §6.3: a small, immutable view over the handful of environment
// variables the config loader and repository locator need (HOME,
// XDG_CONFIG_HOME, PROGRAMDATA, PATH), snapshotted once so that the
// rest of the module never reads os.Environ directly.
package env

import (
	"path/filepath"
	"runtime"

	ienv "github.com/arborist-run/gitmeta/internal/env"
)

// Environment is an immutable snapshot of the process environment,
// taken once at construction (§5 "Environment reads occur once at
// construction and are snapshotted into an Environment value").
type Environment struct {
	raw *ienv.Env
	os  string
}

// New wraps an already-built internal/env.Env into an Environment.
// Exposed so callers (and tests) can drive the probe from a synthetic
// key/value list instead of the real process environment.
func New(raw *ienv.Env) *Environment {
	return &Environment{raw: raw, os: runtime.GOOS}
}

// FromOS snapshots the real process environment.
func FromOS() *Environment {
	return New(ienv.NewFromOS())
}

// FromKVList snapshots a synthetic "key=value" list, for tests.
func FromKVList(kv []string) *Environment {
	return New(ienv.NewFromKVList(kv))
}

// Get returns the raw value of key, or "" if unset.
func (e *Environment) Get(key string) string {
	return e.raw.Get(key)
}

// Has reports whether key has a value set.
func (e *Environment) Has(key string) bool {
	return e.raw.Has(key)
}

// OS returns the runtime.GOOS value this Environment was built for.
// Tests may not override this; it always reflects the platform the
// binary is actually running on, since path-separator and system
// directory conventions are a platform property, not an environment
// one.
func (e *Environment) OS() string {
	return e.os
}

// Home returns $HOME (or %USERPROFILE% on Windows) and whether it was
// set.
func (e *Environment) Home() (string, bool) {
	if e.os == "windows" {
		if v := e.Get("USERPROFILE"); v != "" {
			return v, true
		}
		return "", false
	}
	v := e.Get("HOME")
	return v, v != ""
}

// XDGConfigHome returns $XDG_CONFIG_HOME verbatim (the "or HOME/.config"
// default in §4.2 is computed by the config loader, which is the only
// caller that also needs Home()).
func (e *Environment) XDGConfigHome() (string, bool) {
	v := e.Get("XDG_CONFIG_HOME")
	return v, v != ""
}

// ProgramData returns %PROGRAMDATA%, used for the first tier of the
// hierarchical config load order on Windows.
func (e *Environment) ProgramData() (string, bool) {
	v := e.Get("PROGRAMDATA")
	return v, v != ""
}

// PathDirs splits $PATH into its component directories, using the
// platform list separator. Nothing in this module calls it; the
// default system config locator does not search $PATH.
func (e *Environment) PathDirs() []string {
	p := e.Get("PATH")
	if p == "" {
		return nil
	}
	return filepath.SplitList(p)
}
