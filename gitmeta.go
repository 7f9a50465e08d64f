// Package gitmeta is a read-only Git repository metadata reader: it
// locates the enclosing repository from a starting path, loads the
// full configuration chain, resolves HEAD, enumerates submodules, and
// classifies paths against .gitignore — without invoking a git
// executable and without writing to disk.
//
// Grounded on the teacher's repo.go (Repository struct shape,
// InitOptions/OpenOptions-style construction, afero.Fs for the working
// tree), generalized away from object-database read/write (out of
// scope, spec §1) toward the locator/config/ref-resolver/ignore
// pipeline this module actually implements.
package gitmeta

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/arborist-run/gitmeta/config"
	"github.com/arborist-run/gitmeta/env"
	"github.com/arborist-run/gitmeta/githash"
	"github.com/arborist-run/gitmeta/ignore"
	"github.com/arborist-run/gitmeta/internal/pathutil"
	"github.com/arborist-run/gitmeta/refs"
	"github.com/arborist-run/gitmeta/refs/reftable"
	"github.com/arborist-run/gitmeta/submodule"
)

// Errors returned by Open, mirroring spec §7's taxonomy for the
// repository-format gate (§4.1).
var (
	ErrRepositoryNotExist         = errors.New("gitmeta: not a git repository")
	ErrUnsupportedFormatVersion   = errors.New("gitmeta: unsupported repositoryformatversion")
	ErrUnknownExtension           = errors.New("gitmeta: unknown repository extension")
	ErrInvalidWorktreeOverride    = errors.New("gitmeta: invalid core.worktree path")
	ErrUnknownReferenceStorageFmt = errors.New("gitmeta: unknown extensions.refstorage value")
)

// knownExtensions is the whitelist a repositoryformatversion=1
// repository's extensions.* keys must stay within (spec §4.1).
var knownExtensions = map[string]bool{
	"noop":              true,
	"preciousobjects":   true,
	"partialclone":      true,
	"worktreeconfig":    true,
	"refstorage":        true,
	"objectformat":      true,
	"relativeworktrees": true,
}

// Repository is the top-level object composing the locator, config,
// reference resolver, ignore matcher and submodule enumerator (spec
// §2's "Repository" row). Construct one with Open. Lazy caches (HEAD,
// submodules, ignore matcher) are populated on first access and live
// for the Repository's lifetime, per spec §9.
type Repository struct {
	fs  afero.Fs
	env *env.Environment

	loc    RepositoryLocation
	cfg    *config.Config
	format githash.Format

	refBackend refs.Backend
	chain      *reftable.Chain // non-nil only when format is refTable; owns file handles to release on Close

	ignoreOnce sync.Once
	ignore     *ignore.Matcher

	headOnce  sync.Once
	headValue string
	headFound bool
	headErr   error

	submodulesOnce sync.Once
	submodules     []submodule.Submodule
	submodulesErr  error
}

// Open builds a Repository from an already-located RepositoryLocation
// (spec §6.2 "open(location, env) -> Result<Repository>"): it loads
// the hierarchical config, applies the repository-format-version gate,
// resolves the core.worktree override, and selects the reference
// storage backend.
func Open(fs afero.Fs, e *env.Environment, loc RepositoryLocation) (*Repository, error) {
	loader := config.NewLoader(fs, e)
	cfg, err := loader.Load(pathutil.WithoutTrailingSeparator(loc.CommonDir), loc.GitDirPosix())
	if err != nil {
		return nil, xerrors.Errorf("gitmeta: loading config: %w", err)
	}

	if err := checkFormatVersion(cfg); err != nil {
		return nil, err
	}

	format, err := githash.FromExtensionValue(objectFormatValue(cfg))
	if err != nil {
		return nil, xerrors.Errorf("gitmeta: %w", err)
	}

	loc, err = applyWorktreeOverride(fs, cfg, loc)
	if err != nil {
		return nil, err
	}

	r := &Repository{fs: fs, env: e, loc: loc, cfg: cfg, format: format}

	backend, chain, err := openRefBackend(fs, cfg, format, loc)
	if err != nil {
		return nil, err
	}
	r.refBackend, r.chain = backend, chain

	return r, nil
}

// OpenFromPath combines Locate and Open (spec §6.2's "locate(path)"
// and "open(location, env)" pipeline), the entry point most callers
// (including cmd/gitmeta-info) actually want: find the repository
// enclosing startPath, then open it. Returns ErrRepositoryNotExist if
// no repository encloses startPath.
func OpenFromPath(fs afero.Fs, e *env.Environment, startPath string) (*Repository, error) {
	loc, found, err := Locate(fs, startPath)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrRepositoryNotExist
	}
	return Open(fs, e, *loc)
}

// checkFormatVersion implements spec §4.1's repository-format gate:
// core.repositoryformatversion > 1 is fatal; at version 1, every
// extensions.* key must be in the known whitelist.
func checkFormatVersion(cfg *config.Config) error {
	raw, ok := cfg.Get("core", "", "repositoryformatversion")
	if !ok {
		return nil // absent means version 0
	}
	version, err := parseGitInt(raw)
	if err != nil {
		return xerrors.Errorf("gitmeta: core.repositoryformatversion %q: %w", raw, err)
	}
	if version > 1 {
		return xerrors.Errorf("gitmeta: repositoryformatversion %d: %w", version, ErrUnsupportedFormatVersion)
	}
	if version == 1 {
		for _, k := range cfg.Keys() {
			if k.Section != "extensions" {
				continue
			}
			if !knownExtensions[strings.ToLower(k.Name)] {
				return xerrors.Errorf("gitmeta: extensions.%s: %w", k.Name, ErrUnknownExtension)
			}
		}
	}
	return nil
}

// parseGitInt parses an integer with an optional trailing k/K, m/M, or
// g/G multiplier suffix (spec §4.1 "integer with optional K/M/G
// suffix").
func parseGitInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, xerrors.New("empty integer")
	}
	mult := int64(1)
	switch s[len(s)-1] {
	case 'k', 'K':
		mult = 1024
		s = s[:len(s)-1]
	case 'm', 'M':
		mult = 1024 * 1024
		s = s[:len(s)-1]
	case 'g', 'G':
		mult = 1024 * 1024 * 1024
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	return n * mult, nil
}

func objectFormatValue(cfg *config.Config) string {
	v, _ := cfg.Get("extensions", "", "objectformat")
	return v
}

// applyWorktreeOverride implements spec §4.1's "Working-directory
// override": if core.worktree is set, it replaces working_dir,
// resolved relative to git_dir.
func applyWorktreeOverride(fs afero.Fs, cfg *config.Config, loc RepositoryLocation) (RepositoryLocation, error) {
	raw, ok := cfg.Get("core", "", "worktree")
	if !ok {
		return loc, nil
	}
	resolved := pathutil.NormalizeDir(pathutil.WithoutTrailingSeparator(loc.GitDir), raw)
	if isDir, _ := afero.IsDir(fs, pathutil.WithoutTrailingSeparator(resolved)); !isDir {
		return loc, xerrors.Errorf("gitmeta: core.worktree %q: %w", raw, ErrInvalidWorktreeOverride)
	}
	loc.WorkingDir = resolved
	loc.HasWorkingDir = true
	return loc, nil
}

// openRefBackend selects and constructs the reference-resolution
// backend named by extensions.refstorage (spec §3
// "ReferenceStorageFormat"): absent means loose files + packed-refs,
// "reftable" means the binary reftable chain, anything else is fatal.
// chain is non-nil only in the reftable case, so Close can release its
// file handles.
func openRefBackend(fs afero.Fs, cfg *config.Config, format githash.Format, loc RepositoryLocation) (refs.Backend, *reftable.Chain, error) {
	raw, _ := cfg.Get("extensions", "", "refstorage")
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return refs.NewLooseBackend(fs, pathutil.WithoutTrailingSeparator(loc.CommonDir), format), nil, nil
	case "reftable":
		chain, err := reftable.OpenChain(fs, pathutil.WithoutTrailingSeparator(loc.GitDir))
		if err != nil {
			return nil, nil, xerrors.Errorf("gitmeta: opening reftable chain: %w", err)
		}
		return chain, chain, nil
	default:
		return nil, nil, xerrors.Errorf("gitmeta: extensions.refstorage %q: %w", raw, ErrUnknownReferenceStorageFmt)
	}
}

// Location returns the RepositoryLocation this Repository was opened
// from.
func (r *Repository) Location() RepositoryLocation { return r.loc }

// Config returns the repository's fully merged configuration (spec
// §6.2 "repository.config.get/get_all").
func (r *Repository) Config() *config.Config { return r.cfg }

// ObjectNameFormat returns the hash algorithm this repository's object
// names use.
func (r *Repository) ObjectNameFormat() githash.Format { return r.format }

// IsBare reports whether this repository has no working directory.
func (r *Repository) IsBare() bool { return !r.loc.HasWorkingDir }

// HeadCommit resolves HEAD to an object name (spec §6.2
// "repository.head_commit() -> Option<object_name>"). found is false
// when HEAD's symbolic chain dead-ends on a missing reference; that is
// not an error.
func (r *Repository) HeadCommit() (objectName string, found bool, err error) {
	r.headOnce.Do(func() {
		raw, readErr := r.readHeadEntryPoint()
		if readErr != nil {
			r.headErr = readErr
			return
		}
		r.headValue, r.headFound, r.headErr = refs.Resolve(r.refBackend, r.format, raw)
	})
	return r.headValue, r.headFound, r.headErr
}

// readHeadEntryPoint reads HEAD's raw stored content, which differs
// by storage backend (spec §4.3 "The HEAD entry point reads"): loose
// files read <git_dir>/HEAD directly; reftable looks up the literal
// name "HEAD" in the chain.
func (r *Repository) readHeadEntryPoint() (string, error) {
	if r.chain != nil {
		val, ok, err := r.chain.Lookup("HEAD")
		if err != nil {
			return "", err
		}
		if !ok {
			return "", refs.ErrRefNotFound
		}
		return val, nil
	}
	return refs.ReadHEAD(r.fs, pathutil.WithoutTrailingSeparator(r.loc.GitDir))
}

// IgnoreMatcher returns the repository's .gitignore matcher, or nil if
// this repository is bare (there is no working tree to classify paths
// against, spec §4.5). The matcher is built once and cached.
func (r *Repository) IgnoreMatcher() *ignore.Matcher {
	if !r.loc.HasWorkingDir {
		return nil
	}
	r.ignoreOnce.Do(func() {
		ignoreCase := boolConfig(r.cfg, "core", "", "ignorecase", false)
		excludesFile, _ := r.cfg.Get("core", "", "excludesfile")
		if excludesFile != "" {
			if home, ok := r.env.Home(); ok {
				excludesFile = pathutil.FromPosix(expandTilde(excludesFile, home))
			}
		} else {
			excludesFile = defaultExcludesFile(r.env)
		}
		r.ignore = ignore.NewMatcher(r.fs,
			pathutil.WithoutTrailingSeparator(r.loc.WorkingDir),
			pathutil.WithoutTrailingSeparator(r.loc.CommonDir),
			excludesFile, ignoreCase)
	})
	return r.ignore
}

// defaultExcludesFile mirrors git's own default for core.excludesFile
// when unset: "$XDG_CONFIG_HOME/git/ignore" (or "$HOME/.config" if
// XDG_CONFIG_HOME is unset).
func defaultExcludesFile(e *env.Environment) string {
	if xdg, ok := e.XDGConfigHome(); ok {
		return pathutil.FromPosix(xdg + "/git/ignore")
	}
	if home, ok := e.Home(); ok {
		return pathutil.FromPosix(home + "/.config/git/ignore")
	}
	return ""
}

func expandTilde(p, home string) string {
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return home + "/" + p[2:]
	}
	return p
}

func boolConfig(cfg *config.Config, section, subsection, name string, def bool) bool {
	v, ok := cfg.Get(section, subsection, name)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "on", "1", "":
		return true
	case "false", "no", "off", "0":
		return false
	default:
		return def
	}
}

// Submodules enumerates <working_dir>/.gitmodules (spec §6.2
// "repository.submodules() -> [Submodule]"). Returns an empty slice
// for a bare repository.
func (r *Repository) Submodules() ([]submodule.Submodule, error) {
	if !r.loc.HasWorkingDir {
		return nil, nil
	}
	r.submodulesOnce.Do(func() {
		r.submodules, r.submodulesErr = submodule.Enumerate(r.fs, r.env,
			pathutil.WithoutTrailingSeparator(r.loc.WorkingDir))
	})
	return r.submodules, r.submodulesErr
}

// Close releases every file handle this Repository's lazy reftable
// chain opened (spec §5 "on repository close, all handles opened
// through the lazy chain are released"). Safe to call on a repository
// that never performed a lookup, and safe on a loose-files repository
// (a no-op).
func (r *Repository) Close() error {
	if r.chain == nil {
		return nil
	}
	return r.chain.Close()
}
