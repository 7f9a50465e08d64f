package glob

// classItem is either a single rune (lo == hi) or an inclusive range.
type classItem struct {
	lo, hi rune
}

// parseClass parses the bracket expression starting at pr[open] (which
// must be '['), returning the index of its closing ']' and whether the
// class is well-formed and non-empty.
//
// A literal ']' is allowed as the class's first member when there is
// no negator. When there IS a negator ('!' or '^'), the ']' right
// after it closes the class immediately instead — giving an empty,
// and therefore malformed, class. This asymmetry isn't spelled out
// directly, but it's what falls out of treating the negator and the
// "leading ]" allowance as two independent, non-stacking exceptions,
// and it's the only reading consistent with both worked examples.
//
// A '-' is only a range operator when both its neighbors are ordinary
// members; a range is never allowed to swallow the class's closing
// ']' as its upper bound, since doing so would make the bracket
// unclosable whenever a range happens to sit right before it.
func parseClass(pr []rune, open int) (negate bool, items []classItem, end int, ok bool) {
	j := open + 1
	if j < len(pr) && (pr[j] == '!' || pr[j] == '^') {
		negate = true
		j++
	}
	start := j
	allowLeadingBracket := !negate

	first := true
	for j < len(pr) {
		if pr[j] == ']' && !(first && allowLeadingBracket) {
			end = j
			ok = j > start
			return negate, items, end, ok
		}
		first = false

		c1 := pr[j]
		if j+2 < len(pr) && pr[j+1] == '-' && pr[j+2] != ']' {
			items = append(items, classItem{lo: c1, hi: pr[j+2]})
			j += 3
			continue
		}
		items = append(items, classItem{lo: c1, hi: c1})
		j++
	}
	return negate, nil, -1, false
}

// matchClass attempts to match a single bracket expression at pr[pi]
// against c. It returns the pattern index to resume at and whether the
// class matched; a malformed or empty class always reports no match.
func matchClass(pr []rune, pi int, c rune, ignoreCase, crossSep bool) (int, bool) {
	negate, items, end, ok := parseClass(pr, pi)
	if !ok {
		return pi, false
	}
	newPi := end + 1

	if c == '/' && !crossSep {
		return newPi, false
	}

	member := false
	for _, it := range items {
		lo, hi := it.lo, it.hi
		if lo > hi {
			continue
		}
		if classContains(lo, hi, c, ignoreCase) {
			member = true
			break
		}
	}
	if negate {
		member = !member
	}
	return newPi, member
}

func classContains(lo, hi, c rune, ignoreCase bool) bool {
	if lo <= c && c <= hi {
		return true
	}
	if !ignoreCase {
		return false
	}
	fc := foldASCII(c)
	return foldASCII(lo) <= fc && fc <= foldASCII(hi) ||
		(lo <= foldSwapCase(c) && foldSwapCase(c) <= hi)
}

// foldSwapCase returns the opposite-case ASCII letter for c, or c
// unchanged for non-letters.
func foldSwapCase(c rune) rune {
	switch {
	case c >= 'a' && c <= 'z':
		return c - ('a' - 'A')
	case c >= 'A' && c <= 'Z':
		return c + ('a' - 'A')
	default:
		return c
	}
}
