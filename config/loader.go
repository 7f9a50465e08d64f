package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/arborist-run/gitmeta/env"
	"github.com/arborist-run/gitmeta/glob"
	"github.com/arborist-run/gitmeta/internal/errutil"
	"github.com/arborist-run/gitmeta/internal/pathutil"
)

// maxIncludeDepth bounds include/includeIf recursion (spec §4.2
// "Maximum include recursion depth is 10").
const maxIncludeDepth = 10

// ErrRecursionExceeded is returned when include/includeIf expansion
// nests deeper than maxIncludeDepth.
var ErrRecursionExceeded = xerrors.New("config: include recursion exceeded")

// ErrHomeUnavailable is returned when a "~/"-prefixed include or
// includeIf path is encountered but the environment has no home
// directory.
var ErrHomeUnavailable = xerrors.New("config: cannot expand '~/' path, HOME is unset")

// SystemEtcLocator resolves the directory git's system-wide config
// lives under. Finding this directory (on Windows, by walking $PATH
// to locate a git installation) is explicitly out of scope for this
// module (spec §1, "external collaborators" / "/etc discovery") — the
// loader accepts it as an injected dependency rather than implementing
// installation discovery itself. DefaultSystemEtcLocator is a
// reasonable stand-in for tests and simple callers.
type SystemEtcLocator func(e *env.Environment) (dir string, ok bool)

// DefaultSystemEtcLocator returns "/etc" outside Windows. On Windows
// it cannot discover a git installation (that's the collaborator's
// job) and reports "not found", which the loader treats as "skip this
// tier" rather than an error.
func DefaultSystemEtcLocator(e *env.Environment) (string, bool) {
	if e.OS() == "windows" {
		return "", false
	}
	return "/etc", true
}

// Loader assembles the hierarchical config described in spec §4.2:
// PROGRAMDATA, system, XDG, global, and local tiers, each with
// include/includeIf expansion.
type Loader struct {
	FS  afero.Fs
	Env *env.Environment

	// SystemEtc resolves the system config directory. Defaults to
	// DefaultSystemEtcLocator.
	SystemEtc SystemEtcLocator
}

// NewLoader returns a Loader reading through fs, deriving
// HOME/XDG/PROGRAMDATA from e.
func NewLoader(fs afero.Fs, e *env.Environment) *Loader {
	return &Loader{FS: fs, Env: e, SystemEtc: DefaultSystemEtcLocator}
}

// Load builds the merged Config for a repository whose common
// directory is commonDir and whose git directory (posix form, trailing
// separator included) is gitDirPosix — the latter is only used to
// evaluate includeIf "gitdir:" conditions.
func (l *Loader) Load(commonDir, gitDirPosix string) (*Config, error) {
	cfg := New()

	for _, tier := range l.tierPaths() {
		if tier == "" {
			continue
		}
		if err := l.loadFile(cfg, tier, gitDirPosix, 0); err != nil {
			return nil, err
		}
	}

	localPath := filepath.Join(commonDir, "config")
	if err := l.loadFile(cfg, localPath, gitDirPosix, 0); err != nil {
		return nil, err
	}
	return cfg, nil
}

// tierPaths returns the PROGRAMDATA/system/XDG/global tier file
// paths, in load order, skipping any tier this platform/environment
// doesn't define (spec §4.2 "Hierarchical load order", tiers 1-4;
// tier 5, local, is handled separately by Load since it depends on
// commonDir).
func (l *Loader) tierPaths() []string {
	var tiers []string

	if pd, ok := l.Env.ProgramData(); ok {
		tiers = append(tiers, filepath.Join(pd, "git", "config"))
	} else {
		tiers = append(tiers, "")
	}

	if etc, ok := l.systemEtcDir(); ok {
		tiers = append(tiers, filepath.Join(etc, "gitconfig"))
	} else {
		tiers = append(tiers, "")
	}

	if xdg, ok := l.xdgConfigHome(); ok {
		tiers = append(tiers, filepath.Join(xdg, "git", "config"))
	} else {
		tiers = append(tiers, "")
	}

	if home, ok := l.Env.Home(); ok {
		tiers = append(tiers, filepath.Join(home, ".gitconfig"))
	} else {
		tiers = append(tiers, "")
	}

	return tiers
}

// systemEtcDir applies the Windows mingw64 override from spec §4.2:
// "if <system_etc>/../mingw64/etc exists, use that as the system dir
// instead".
func (l *Loader) systemEtcDir() (string, bool) {
	locate := l.SystemEtc
	if locate == nil {
		locate = DefaultSystemEtcLocator
	}
	dir, ok := locate(l.Env)
	if !ok {
		return "", false
	}
	if l.Env.OS() == "windows" {
		mingw := filepath.Join(dir, "..", "mingw64", "etc")
		if isDir, _ := afero.IsDir(l.FS, mingw); isDir {
			return mingw, true
		}
	}
	return dir, true
}

func (l *Loader) xdgConfigHome() (string, bool) {
	if xdg, ok := l.Env.XDGConfigHome(); ok {
		return xdg, true
	}
	home, ok := l.Env.Home()
	if !ok {
		return "", false
	}
	return filepath.Join(home, ".config"), true
}

// loadFile parses the config file at path (a no-op, non-fatal skip if
// it doesn't exist) merges it into cfg, then recursively expands any
// include.path / includeif.<cond>.path variables it contains.
func (l *Loader) loadFile(cfg *Config, path, gitDirPosix string, depth int) (err error) {
	if depth > maxIncludeDepth {
		return ErrRecursionExceeded
	}

	f, openErr := l.FS.Open(path)
	if openErr != nil {
		if os.IsNotExist(openErr) {
			return nil
		}
		return xerrors.Errorf("config: open %s: %w", path, openErr)
	}
	defer errutil.Close(f, &err)

	fileCfg, err := NewParser(f, path).Parse()
	if err != nil {
		return err
	}
	cfg.Merge(fileCfg)

	dir := filepath.Dir(path)
	for _, k := range fileCfg.Keys() {
		switch {
		case k.Section == "include" && k.Subsection == "" && k.Name == "path":
			for _, v := range fileCfg.GetAll(k.Section, k.Subsection, k.Name) {
				if err := l.expandInclude(cfg, v, dir, gitDirPosix, depth); err != nil {
					return err
				}
			}
		case k.Section == "includeif" && k.Name == "path" && k.Subsection != "":
			for _, v := range fileCfg.GetAll(k.Section, k.Subsection, k.Name) {
				matched, err := l.matchIncludeIf(k.Subsection, dir, gitDirPosix)
				if err != nil {
					return err
				}
				if !matched {
					continue
				}
				if err := l.expandInclude(cfg, v, dir, gitDirPosix, depth); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (l *Loader) expandInclude(cfg *Config, raw, baseDir, gitDirPosix string, depth int) error {
	target, err := l.expandIncludePath(raw, baseDir)
	if err != nil {
		return err
	}
	return l.loadFile(cfg, target, gitDirPosix, depth+1)
}

// expandIncludePath implements spec §4.2's include-path expansion
// rule: "~/ -> HOME ...; leading ./ -> relative to the directory of
// the current config file; otherwise canonicalized relative to that
// directory."
func (l *Loader) expandIncludePath(raw, baseDir string) (string, error) {
	if filepath.IsAbs(raw) {
		return pathutil.Normalize(raw, ""), nil
	}
	if strings.HasPrefix(raw, "~/") {
		home, ok := l.Env.Home()
		if !ok {
			return "", ErrHomeUnavailable
		}
		return pathutil.Normalize(home, raw[len("~/"):]), nil
	}
	return pathutil.Normalize(baseDir, raw), nil
}
