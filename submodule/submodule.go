// Package submodule implements the submodule enumerator of spec §4.6:
// parsing a working tree's .gitmodules file (itself a config-grammar
// document, §4.6 "reuses the config grammar") and resolving each
// submodule's own HEAD commit through the same ref-resolver pipeline
// the top-level repository uses.
//
// No teacher counterpart exists (git-go has no submodule support); the
// .gitmodules-is-a-config-file parsing is grounded on config.Parser,
// and the directory/redirection-file detection mirrors gitmeta's own
// locate.go (factored into internal/gitdirfile so both share the
// ".git file" grammar instead of duplicating it).
package submodule

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/arborist-run/gitmeta/config"
	"github.com/arborist-run/gitmeta/env"
	"github.com/arborist-run/gitmeta/internal/errutil"
	"github.com/arborist-run/gitmeta/internal/gitdirfile"
	"github.com/arborist-run/gitmeta/internal/gitpath"
	"github.com/arborist-run/gitmeta/internal/headresolve"
	"github.com/arborist-run/gitmeta/internal/pathutil"
)

// Submodule is one entry parsed out of .gitmodules (spec §3
// "Submodule").
type Submodule struct {
	Name              string
	RelativePathPosix string
	FullPath          string // native, no trailing separator

	URL string // empty means unset

	HeadCommit    string
	HasHeadCommit bool
}

// Enumerate parses <workingDir>/.gitmodules and resolves each
// submodule's HEAD. A missing .gitmodules is not an error (no
// submodules). A submodule record missing a "path" is diagnosed by
// being dropped (spec §4.6 "require a non-empty path, diagnose and
// skip otherwise"); a submodule whose own .git cannot be located is
// silently dropped too ("they contribute no source files").
func Enumerate(fs afero.Fs, e *env.Environment, workingDir string) (subs []Submodule, err error) {
	gitmodulesPath := filepath.Join(workingDir, gitpath.GitModulesName)
	f, openErr := fs.Open(gitmodulesPath)
	if openErr != nil {
		if os.IsNotExist(openErr) {
			return nil, nil
		}
		return nil, xerrors.Errorf("submodule: opening %s: %w", gitpath.GitModulesName, openErr)
	}
	defer errutil.Close(f, &err)

	cfg, err := config.NewParser(f, gitmodulesPath).Parse()
	if err != nil {
		return nil, err
	}

	var out []Submodule
	seen := map[string]bool{}
	for _, k := range cfg.Keys() {
		if k.Section != "submodule" || seen[k.Subsection] {
			continue
		}
		seen[k.Subsection] = true
		name := k.Subsection

		subPath, ok := cfg.Get("submodule", name, "path")
		if !ok || subPath == "" {
			continue
		}
		url, _ := cfg.Get("submodule", name, "url")

		sub := Submodule{
			Name:              name,
			RelativePathPosix: path.Clean(pathutil.ToPosix(subPath)),
			FullPath:          pathutil.Normalize(workingDir, subPath),
			URL:               url,
		}

		subGitDir, ok, err := locateSubGitDir(fs, sub.FullPath)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		commonDir := subCommonDir(fs, subGitDir)
		headCommit, found, err := headresolve.Resolve(fs, e, subGitDir, commonDir)
		if err != nil {
			return nil, xerrors.Errorf("submodule %q: resolving HEAD: %w", name, err)
		}
		if found {
			sub.HeadCommit = headCommit
			sub.HasHeadCommit = true
		}

		out = append(out, sub)
	}
	return out, nil
}

// locateSubGitDir resolves a submodule's own git directory from its
// working-tree path, per spec §4.6 "directory or .git file
// redirection". ok is false when no usable .git entry exists there —
// the caller silently omits the submodule in that case, matching
// spec's "cannot be located" rule.
func locateSubGitDir(fs afero.Fs, fullPath string) (string, bool, error) {
	dotGit := filepath.Join(fullPath, gitpath.DotGit)
	info, err := fs.Stat(dotGit)
	switch {
	case err == nil && info.IsDir():
		return pathutil.WithoutTrailingSeparator(dotGit), true, nil
	case err == nil:
		rel, rerr := gitdirfile.Read(fs, dotGit)
		if rerr != nil {
			return "", false, nil
		}
		return pathutil.WithoutTrailingSeparator(pathutil.Normalize(fullPath, rel)), true, nil
	case os.IsNotExist(err):
		return "", false, nil
	default:
		return "", false, xerrors.Errorf("submodule: stat %s: %w", dotGit, err)
	}
}

// subCommonDir resolves a submodule git directory's own "commondir"
// file, the same rule locate.go applies to the top-level repository.
// Most submodules have no linked worktrees of their own, so this is
// usually just gitDir unchanged.
func subCommonDir(fs afero.Fs, gitDir string) string {
	data, err := afero.ReadFile(fs, filepath.Join(gitDir, gitpath.CommonDirName))
	if err != nil {
		return gitDir
	}
	trimmed := strings.TrimRight(string(data), " \t\r\n\f\v")
	return pathutil.Normalize(gitDir, trimmed)
}
