// Package pathutil contains the path-normalization primitives shared by
// every other package in this module: posix/native conversion,
// normalization ("canonicalization"), absoluteness checks, and the
// trailing-separator discipline the spec requires on every directory
// path (§3 Invariants, §4.1).
package pathutil

import (
	"path"
	"path/filepath"
	"strings"
)

// ToPosix converts a native path to its posix (forward-slash) form.
// It never touches the filesystem.
func ToPosix(p string) string {
	return filepath.ToSlash(p)
}

// FromPosix converts a posix path to the current platform's native
// form. It never touches the filesystem.
func FromPosix(p string) string {
	return filepath.FromSlash(p)
}

// IsAbsolute reports whether p is an absolute path on the current
// platform.
func IsAbsolute(p string) bool {
	return filepath.IsAbs(p)
}

// WithTrailingSeparator returns p with exactly one trailing
// os.PathSeparator appended, unless p is already empty.
//
// §3 requires every directory path held by a RepositoryLocation to
// carry a trailing separator; this is the single place that invariant
// is enforced.
func WithTrailingSeparator(p string) string {
	if p == "" {
		return p
	}
	if strings.HasSuffix(p, string(filepath.Separator)) {
		return p
	}
	return p + string(filepath.Separator)
}

// WithoutTrailingSeparator strips every trailing os.PathSeparator from p.
func WithoutTrailingSeparator(p string) string {
	for len(p) > 1 && strings.HasSuffix(p, string(filepath.Separator)) {
		p = p[:len(p)-1]
	}
	return p
}

// Normalize returns the absolute, cleaned form of p, resolving it
// against base when p is relative. Normalize never touches the
// filesystem: it is a purely lexical "full path" function and is
// idempotent (Normalize(Normalize(base, p)) == Normalize(base, p)),
// satisfying the invariant in §3 that every stored path is normalized
// under the platform's full-path function.
func Normalize(base, p string) string {
	if p == "" {
		p = base
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, p)
	}
	return filepath.Clean(p)
}

// NormalizeDir is Normalize followed by WithTrailingSeparator, for the
// directory-path fields of RepositoryLocation.
func NormalizeDir(base, p string) string {
	return WithTrailingSeparator(Normalize(base, p))
}

// JoinPosix joins posix path segments, always returning a posix path.
// Used by the glob/ignore engines, which operate purely on posix
// paths regardless of host platform.
func JoinPosix(elem ...string) string {
	return path.Join(elem...)
}

// ExpandTilde replaces a leading "~/" (or a bare "~") with home. The
// config loader does its own inline "~/" expansion for include paths
// and includeIf patterns rather than calling this. It does not
// handle "~user/" forms, which git itself does not special-case for
// includeIf/include resolution either.
func ExpandTilde(p, home string) string {
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return path.Join(home, p[2:])
	}
	return p
}
