package config

import (
	"strings"

	"github.com/arborist-run/gitmeta/glob"
	"github.com/arborist-run/gitmeta/internal/pathutil"
)

// matchIncludeIf implements the GlobMatchForIncludeIf component (spec
// §2): builds the effective pattern from an includeIf subsection key
// ("gitdir:<pattern>" or "gitdir/i:<pattern>") and matches it against
// the repository's git directory. Condition kinds this module doesn't
// recognize simply don't match — they're not a parse error, since new
// includeIf condition kinds are a Git extension point.
func (l *Loader) matchIncludeIf(subsection, baseDir, gitDirPosix string) (bool, error) {
	var ignoreCase bool
	var rawPattern string
	switch {
	case strings.HasPrefix(subsection, "gitdir:"):
		rawPattern = subsection[len("gitdir:"):]
	case strings.HasPrefix(subsection, "gitdir/i:"):
		ignoreCase = true
		rawPattern = subsection[len("gitdir/i:"):]
	default:
		return false, nil
	}

	pattern, err := l.expandIncludeIfPattern(rawPattern, baseDir)
	if err != nil {
		return false, err
	}
	return glob.Match(pattern, gitDirPosix, ignoreCase, true), nil
}

// expandIncludeIfPattern applies spec §4.2's pattern-expansion rule:
// same ~/ and ./ expansion as include.path, plus "a pattern not
// starting with ./, ~/, or an absolute root becomes **/<pattern>; a
// pattern ending in / gets ** appended."
func (l *Loader) expandIncludeIfPattern(raw, baseDir string) (string, error) {
	pattern := raw
	switch {
	case strings.HasPrefix(raw, "~/"):
		home, ok := l.Env.Home()
		if !ok {
			return "", ErrHomeUnavailable
		}
		pattern = pathutil.JoinPosix(pathutil.ToPosix(home), raw[len("~/"):])
	case strings.HasPrefix(raw, "./"):
		pattern = pathutil.JoinPosix(pathutil.ToPosix(baseDir), raw[len("./"):])
	case strings.HasPrefix(raw, "/"):
		// already an absolute root pattern
	default:
		pattern = "**/" + raw
	}
	if strings.HasSuffix(pattern, "/") {
		pattern += "**"
	}
	return pattern, nil
}
