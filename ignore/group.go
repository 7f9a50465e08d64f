package ignore

// PatternGroup is every pattern contributed by one .gitignore file (or
// the synthetic excludesFile/info-exclude roots), chained to the
// nearest ancestor group that actually has patterns (spec §3: "empty
// groups are coalesced to 'no group present'"). Immutable once built.
type PatternGroup struct {
	ContainingDirPosix string
	Patterns           []Pattern
	Parent             *PatternGroup
}

// chain returns the groups from g up through its ancestors,
// outermost-first — the order spec §4.5 classification applies them
// in, so that closer groups are applied last and override.
func chain(g *PatternGroup) []*PatternGroup {
	var c []*PatternGroup
	for cur := g; cur != nil; cur = cur.Parent {
		c = append(c, cur)
	}
	for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
		c[i], c[j] = c[j], c[i]
	}
	return c
}
