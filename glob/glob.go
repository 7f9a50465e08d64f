// Package glob implements the single-predicate fnmatch-style matcher
// described in spec §4.4: `?`, `*`, `**`, character classes, escape
// handling, optional ASCII case-folding, and the
// wildcard-crosses-separator toggle used by both includeIf (§4.2) and
// .gitignore (§4.5).
//
// This is hand-written rather than delegated to a library (the corpus
// offers github.com/bmatcuk/doublestar/v4, pulled in by one of the
// retrieved repos) because the spec's `**` boundary rules and the
// wildcard-crosses-separator toggle are not standard doublestar
// semantics — see DESIGN.md.
package glob

// Match reports whether path matches pattern under the given options.
// ignoreCase folds ASCII letters on both sides (including inside
// character classes) before comparing. wildcardCrossesSeparator lets
// `?`, `*` and character classes match '/', matching the teacher's
// convention of plumbing boolean "mode" flags through a single
// exported entry point rather than exposing matcher state.
func Match(pattern, path string, ignoreCase, wildcardCrossesSeparator bool) bool {
	return newMatcher(pattern, ignoreCase, wildcardCrossesSeparator).match(path)
}

type matcher struct {
	pattern    []rune
	ignoreCase bool
	crossSep   bool
}

func newMatcher(pattern string, ignoreCase, crossSep bool) *matcher {
	return &matcher{
		pattern:    []rune(pattern),
		ignoreCase: ignoreCase,
		crossSep:   crossSep,
	}
}

func (m *matcher) eq(a, b rune) bool {
	if a == b {
		return true
	}
	if !m.ignoreCase {
		return false
	}
	return foldASCII(a) == foldASCII(b)
}

func foldASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// isDoubleStarAt reports whether pr[pi] begins a "**" token that has
// the special whole-component meaning: two consecutive '*' preceded
// by '/' or start-of-pattern, and followed by '/' or end-of-pattern.
func isDoubleStarAt(pr []rune, pi int) bool {
	if pi+1 >= len(pr) || pr[pi] != '*' || pr[pi+1] != '*' {
		return false
	}
	precededOK := pi == 0 || pr[pi-1] == '/'
	followedOK := pi+2 == len(pr) || pr[pi+2] == '/'
	return precededOK && followedOK
}

func (m *matcher) match(path string) bool {
	pr := m.pattern
	sr := []rune(path)

	pi, si := 0, 0

	// backtrack point for the most recent bare '*' or '?'
	starPi, starSi := -1, -1
	// backtrack point for the most recent "**"
	dsPi, dsSi := -1, -1
	dsInternal := false // true when "**" is followed by more pattern (not the trailing/whole-remainder case)

	// growDS advances dsSi by at least one character. When dsInternal
	// is set, it keeps advancing until the new position is a real
	// post-'/' component boundary (never accepting end-of-string as a
	// substitute, so a leading "**/" can't degenerate into matching
	// zero characters of a single, slash-free path — see DESIGN.md for
	// why this needs to differ from the "zero-or-more, including
	// empty" wording for a truly internal /**/ token).
	growDS := func() bool {
		dsSi++
		if dsInternal {
			for dsSi < len(sr) && !(dsSi > 0 && sr[dsSi-1] == '/') {
				dsSi++
			}
			if !(dsSi > 0 && sr[dsSi-1] == '/') {
				return false
			}
		}
		if dsSi > len(sr) {
			return false
		}
		return true
	}

	resumeAfterDS := func() int {
		p := dsPi + 2
		if p < len(pr) && pr[p] == '/' {
			p++
		}
		return p
	}

	for si < len(sr) {
		matched := false
		if pi < len(pr) {
			c := pr[pi]
			switch {
			case c == '*' && isDoubleStarAt(pr, pi):
				dsPi, dsSi = pi, si
				newPi := resumeAfterDS()
				dsInternal = newPi < len(pr)
				pi = newPi
				if dsInternal && dsPi == 0 {
					// Pattern-initial "**/" must consume at least one
					// full directory component; it may not collapse
					// to zero the way an internal "X/**/Y" can.
					if !growDS() {
						dsPi = -1
						break
					}
					si = dsSi
				}
				continue
			case c == '*':
				starPi, starSi = pi, si
				pi++
				continue
			case c == '?':
				if (m.crossSep || sr[si] != '/') {
					pi++
					si++
					matched = true
				}
			case c == '[':
				if newPi, ok := matchClass(pr, pi, sr[si], m.ignoreCase, m.crossSep); ok {
					pi = newPi
					si++
					matched = true
				}
			case c == '\\':
				if pi+1 < len(pr) {
					if m.eq(pr[pi+1], sr[si]) {
						pi += 2
						si++
						matched = true
					}
				} else if m.eq('\\', sr[si]) {
					pi++
					si++
					matched = true
				}
			default:
				if m.eq(c, sr[si]) {
					pi++
					si++
					matched = true
				}
			}
		}
		if matched {
			continue
		}

		// Mismatch: rewind to the doubler first, then the singler.
		if dsPi != -1 {
			if growDS() {
				si = dsSi
				pi = resumeAfterDS()
				continue
			}
			dsPi = -1
		}
		if starPi != -1 {
			if !m.crossSep && sr[starSi] == '/' {
				starPi = -1
			} else {
				starSi++
				si = starSi
				pi = starPi + 1
				continue
			}
		}
		return false
	}

	// Trailing pattern must only consist of tokens that can match the
	// empty string: bare '*' and a (possibly "/"-prefixed) trailing "**".
	for pi < len(pr) {
		if pr[pi] == '/' && isDoubleStarAt(pr, pi+1) {
			pi += 3
			continue
		}
		if pr[pi] == '*' && isDoubleStarAt(pr, pi) {
			pi += 2
			continue
		}
		if pr[pi] == '*' {
			pi++
			continue
		}
		break
	}
	return pi == len(pr)
}
