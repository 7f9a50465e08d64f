package ignore

import (
	"bufio"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/arborist-run/gitmeta/glob"
	"github.com/arborist-run/gitmeta/internal/cache"
	"github.com/arborist-run/gitmeta/internal/pathutil"
)

// groupCacheSize and dirCacheSize are generous bounds for the two
// memoization caches; a working tree walk rarely visits more distinct
// directories than this within one Repository's lifetime.
const (
	groupCacheSize = 8192
	dirCacheSize   = 65536
)

// Matcher classifies paths against a working tree's hierarchy of
// .gitignore files (spec §4.5).
type Matcher struct {
	fs         afero.Fs
	workingDir string // native, normalized, trailing separator
	ignoreCase bool

	root *PatternGroup // excludesFile + info/exclude, see NewMatcher

	groups *cache.LRU // posix dir -> *PatternGroup (nil entries stored via groupCacheEntry)
	states *cache.LRU // posix full path -> bool
}

type groupCacheEntry struct {
	group *PatternGroup
}

// NewMatcher builds a Matcher rooted at workingDir. excludesFilePath
// is core.excludesFile's resolved value (empty if unset); commonDir is
// used to locate <common_dir>/info/exclude. Per spec §9's Open
// Question resolution, info/exclude's group is modeled as a child of
// excludesFile's group.
func NewMatcher(fs afero.Fs, workingDir, commonDir, excludesFilePath string, ignoreCase bool) *Matcher {
	wdPosix := pathutil.ToPosix(pathutil.WithoutTrailingSeparator(workingDir))

	m := &Matcher{
		fs:         fs,
		workingDir: pathutil.WithTrailingSeparator(workingDir),
		ignoreCase: ignoreCase,
		groups:     cache.NewLRU(groupCacheSize),
		states:     cache.NewLRU(dirCacheSize),
	}

	var excludesGroup *PatternGroup
	if excludesFilePath != "" {
		if patterns := m.readPatternsFile(excludesFilePath); len(patterns) > 0 {
			excludesGroup = &PatternGroup{ContainingDirPosix: wdPosix, Patterns: patterns}
		}
	}

	infoExcludePath := filepath.Join(commonDir, "info", "exclude")
	if patterns := m.readPatternsFile(infoExcludePath); len(patterns) > 0 {
		m.root = &PatternGroup{ContainingDirPosix: wdPosix, Patterns: patterns, Parent: excludesGroup}
	} else {
		m.root = excludesGroup
	}

	return m
}

// Classify reports whether fullPathNative is ignored. inside is false
// when the path lies outside the working directory (spec's
// Option<bool>, None == outside).
func (m *Matcher) Classify(fullPathNative string) (ignored, inside bool) {
	full := pathutil.ToPosix(pathutil.Normalize(m.workingDir, fullPathNative))
	wdPosix := strings.TrimSuffix(pathutil.ToPosix(m.workingDir), "/")

	if full == wdPosix {
		return false, true
	}
	if !strings.HasPrefix(full, wdPosix+"/") {
		return false, false
	}
	return m.classify(full, wdPosix), true
}

func (m *Matcher) classify(full, wdPosix string) bool {
	if full == wdPosix {
		return false
	}
	if v, ok := m.states.Get(full); ok {
		return v.(bool)
	}

	base := path.Base(full)
	if m.eqBasename(base, ".git") {
		m.states.Add(full, true)
		return true
	}

	isDir := m.isDirectory(full)
	groups := chain(m.loadGroup(path.Dir(full), wdPosix))

	state := false
	for _, g := range groups {
		for _, p := range g.Patterns {
			if p.Flags&DirectoryOnly != 0 && !isDir {
				continue
			}
			if !m.patternMatches(p, g, full) {
				continue
			}
			if p.Flags&Negative != 0 {
				state = false
			} else {
				state = true
			}
		}
	}

	if !state {
		parent := path.Dir(full)
		if parent != full && (parent == wdPosix || strings.HasPrefix(parent, wdPosix+"/")) {
			if m.classify(parent, wdPosix) {
				state = true
			}
		}
	}

	m.states.Add(full, state)
	return state
}

func (m *Matcher) patternMatches(p Pattern, g *PatternGroup, full string) bool {
	if p.Flags&Anchored != 0 {
		rel := strings.TrimPrefix(full, g.ContainingDirPosix)
		rel = strings.TrimPrefix(rel, "/")
		return glob.Match(p.Glob, rel, m.ignoreCase, false)
	}
	return glob.Match(p.Glob, path.Base(full), m.ignoreCase, false)
}

// loadGroup lazily builds (and caches) the PatternGroup for dirPosix,
// coalescing empty .gitignore files into their nearest ancestor group.
func (m *Matcher) loadGroup(dirPosix, wdPosix string) *PatternGroup {
	if v, ok := m.groups.Get(dirPosix); ok {
		return v.(groupCacheEntry).group
	}

	var parent *PatternGroup
	if dirPosix == wdPosix {
		parent = m.root
	} else {
		parent = m.loadGroup(path.Dir(dirPosix), wdPosix)
	}

	patterns := m.readPatternsFile(filepath.Join(pathutil.FromPosix(dirPosix), ".gitignore"))

	var group *PatternGroup
	if len(patterns) == 0 {
		group = parent
	} else {
		group = &PatternGroup{ContainingDirPosix: dirPosix, Patterns: patterns, Parent: parent}
	}

	m.groups.Add(dirPosix, groupCacheEntry{group: group})
	return group
}

func (m *Matcher) readPatternsFile(nativePath string) []Pattern {
	f, err := m.fs.Open(nativePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []Pattern
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if p, ok := ParsePattern(sc.Text()); ok {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

func (m *Matcher) isDirectory(fullPosix string) bool {
	info, err := m.fs.Stat(pathutil.FromPosix(fullPosix))
	return err == nil && info.IsDir()
}

func (m *Matcher) eqBasename(a, b string) bool {
	if m.ignoreCase {
		return strings.EqualFold(a, b)
	}
	return a == b
}
