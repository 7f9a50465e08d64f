// Package ignore implements the hierarchical .gitignore matcher of
// spec §4.5: pattern parsing, per-directory PatternGroup trees with a
// root group derived from core.excludesFile/info-exclude, and a cached
// classify(path) predicate with negation and directory-ignore
// propagation.
package ignore

import "strings"

// Flags are the per-pattern modifiers recognized while parsing a
// .gitignore line (spec §4.5).
type Flags uint8

const (
	// Negative patterns (leading "!") can un-ignore a path.
	Negative Flags = 1 << iota
	// DirectoryOnly patterns (trailing "/") apply only to directories.
	DirectoryOnly
	// Anchored patterns (containing a non-trailing "/") match the full
	// path relative to the owning .gitignore's directory, rather than
	// just the basename.
	Anchored
)

// Pattern is a single parsed .gitignore line.
type Pattern struct {
	Glob  string
	Flags Flags
}

// ParsePattern parses one raw .gitignore line per spec §4.5. ok is
// false for blank or comment lines, which contribute no pattern.
func ParsePattern(raw string) (p Pattern, ok bool) {
	line := trimTrailingUnescapedSpaces(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return Pattern{}, false
	}

	var flags Flags
	if strings.HasPrefix(line, "!") {
		flags |= Negative
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		flags |= DirectoryOnly
		line = line[:len(line)-1]
	}
	if strings.Contains(line, "/") {
		flags |= Anchored
		line = strings.TrimPrefix(line, "/")
	}

	line = unescapePattern(line)
	if line == "" {
		return Pattern{}, false
	}
	return Pattern{Glob: line, Flags: flags}, true
}

// trimTrailingUnescapedSpaces strips trailing ' ' characters unless
// the final space is itself preceded by an odd number of backslashes
// (i.e. is itself backslash-escaped).
func trimTrailingUnescapedSpaces(s string) string {
	for len(s) > 0 && s[len(s)-1] == ' ' {
		n := 0
		for i := len(s) - 2; i >= 0 && s[i] == '\\'; i-- {
			n++
		}
		if n%2 == 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}

// unescapePattern turns each "\X" into "X"; a trailing lone "\" is
// kept literal.
func unescapePattern(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			buf.WriteByte(s[i+1])
			i++
			continue
		}
		buf.WriteByte(s[i])
	}
	return buf.String()
}
