// Package config implements Git's configuration file grammar: a
// single-file tokenizer (§4.2), the (section, subsection, name) key
// model (§3), and a hierarchical loader that assembles the five
// config tiers and expands include/includeIf directives.
//
// A generic INI library (the teacher reaches for gopkg.in/ini.v1 via
// github.com/go-ini/ini) can't express this grammar bit-exact —
// quoted subsections with backslash escaping, includeIf conditionals,
// the section-name-split-at-first-dot rule, and the exact
// trailing-whitespace/continuation rules for values all fall outside
// what ini.v1 models. See DESIGN.md.
package config

import "strings"

// VariableKey identifies a config variable by its section,
// subsection, and name (spec §3). Section and Name are compared
// case-insensitively (ASCII only); Subsection is compared
// case-sensitively. An empty Subsection denotes the unqualified
// section.
type VariableKey struct {
	Section    string
	Subsection string
	Name       string
}

// NewKey builds a VariableKey, lower-casing Section and Name the way
// the parser does so callers can't accidentally build a key that
// wouldn't compare equal to one the parser produced.
func NewKey(section, subsection, name string) VariableKey {
	return VariableKey{
		Section:    strings.ToLower(section),
		Subsection: subsection,
		Name:       strings.ToLower(name),
	}
}
