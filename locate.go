package gitmeta

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/arborist-run/gitmeta/internal/gitdirfile"
	"github.com/arborist-run/gitmeta/internal/gitpath"
	"github.com/arborist-run/gitmeta/internal/pathutil"
)

// ErrInvalidGitDirFile is returned when a ".git" file's content isn't
// the "gitdir: <path>" redirection grammar spec §4.1/§6.1 requires.
var ErrInvalidGitDirFile = gitdirfile.ErrInvalidFormat

// RepositoryLocation is the result of Locate: the three directories a
// repository is built from (spec §3 "RepositoryLocation"). Every field
// is absolute, normalized, and OS-native; directory paths carry a
// trailing separator.
type RepositoryLocation struct {
	// GitDir is the repository's own git directory (what ".git"
	// resolves to, after any "gitdir:" redirection).
	GitDir string
	// CommonDir is the git directory shared with any main working
	// tree (equal to GitDir except for linked worktrees).
	CommonDir string
	// WorkingDir is the directory the repository was checked out
	// into. Empty when HasWorkingDir is false (bare repository, or a
	// git directory discovered directly rather than through a
	// working tree).
	WorkingDir    string
	HasWorkingDir bool
}

// GitDirPosix returns GitDir in posix form, trailing separator
// included — the form the config loader's includeIf matching (§4.2)
// expects.
func (loc RepositoryLocation) GitDirPosix() string {
	return pathutil.ToPosix(loc.GitDir)
}

// Locate walks from startPath toward the filesystem root looking for
// an enclosing git repository, per spec §4.1. startPath must be an
// absolute, directory path; Locate does not resolve a relative path
// against a working directory of its own (that's the caller's job,
// typically via os.Getwd before calling in).
//
// found is false, err is nil when the walk reaches the filesystem
// root without finding a repository. A non-nil err means the walk hit
// a structurally invalid ".git" file or an I/O error distinct from
// "not found" and must be treated as fatal.
func Locate(fs afero.Fs, startPath string) (loc *RepositoryLocation, found bool, err error) {
	d := pathutil.WithoutTrailingSeparator(filepath.Clean(startPath))

	for {
		loc, found, err = tryCandidate(fs, d)
		if err != nil {
			return nil, false, err
		}
		if found {
			return loc, true, nil
		}

		parent := filepath.Dir(d)
		if parent == d {
			return nil, false, nil
		}
		d = parent
	}
}

// tryCandidate evaluates one ancestor directory d against spec §4.1's
// three candidate shapes: a ".git" directory, a ".git" redirection
// file, or d itself being a valid git directory (HEAD present).
func tryCandidate(fs afero.Fs, d string) (*RepositoryLocation, bool, error) {
	dotGitPath := filepath.Join(d, gitpath.DotGit)

	info, statErr := fs.Stat(dotGitPath)
	switch {
	case statErr == nil && info.IsDir():
		gitDir := pathutil.NormalizeDir(d, dotGitPath)
		return finalizeLocation(fs, gitDir, d, true)

	case statErr == nil:
		rel, err := gitdirfile.Read(fs, dotGitPath)
		if err != nil {
			return nil, false, xerrors.Errorf("locate %s: %w", dotGitPath, err)
		}
		gitDir := pathutil.NormalizeDir(d, rel)
		return finalizeLocation(fs, gitDir, d, true)

	case !os.IsNotExist(statErr):
		return nil, false, xerrors.Errorf("locate %s: %w", dotGitPath, statErr)
	}

	if ok, _ := afero.Exists(fs, filepath.Join(d, gitpath.HEADName)); ok {
		gitDir := pathutil.NormalizeDir(d, "")
		return finalizeLocation(fs, gitDir, "", false)
	}

	return nil, false, nil
}

// finalizeLocation resolves common_dir for a candidate git_dir (via
// its optional "commondir" file, spec §4.1/§6.1) and rejects the
// candidate (found=false, no error — the walk keeps going outward) if
// the resolved common_dir doesn't exist as a directory.
func finalizeLocation(fs afero.Fs, gitDir, workingDir string, hasWorkingDir bool) (*RepositoryLocation, bool, error) {
	commonDir := gitDir

	commondirPath := filepath.Join(pathutil.WithoutTrailingSeparator(gitDir), gitpath.CommonDirName)
	data, err := afero.ReadFile(fs, commondirPath)
	switch {
	case err == nil:
		trimmed := strings.TrimRight(string(data), " \t\r\n\f\v")
		commonDir = pathutil.NormalizeDir(pathutil.WithoutTrailingSeparator(gitDir), trimmed)
	case !os.IsNotExist(err):
		return nil, false, xerrors.Errorf("locate: reading %s: %w", commondirPath, err)
	}

	if isDir, _ := afero.IsDir(fs, pathutil.WithoutTrailingSeparator(commonDir)); !isDir {
		return nil, false, nil
	}

	var wd string
	if hasWorkingDir {
		wd = pathutil.NormalizeDir(workingDir, "")
	}
	return &RepositoryLocation{
		GitDir:        gitDir,
		CommonDir:     commonDir,
		WorkingDir:    wd,
		HasWorkingDir: hasWorkingDir,
	}, true, nil
}
