// Package refs implements the reference resolver of spec §4.3: parsing
// a stored reference's raw content into an object name or a symbolic
// target, and following symbolic chains against a storage backend
// (loose files + packed-refs, or reftable).
//
// Grounded on the teacher's ginternals/reference.go (Reference type,
// ResolveReference's RefContent/visited-set shape) generalized to the
// spec's exact grammar (only "refs/"-prefixed symbolic targets are
// legal, ASCII-whitespace trimming per §6.1).
package refs

import (
	"errors"
	"strings"

	"golang.org/x/xerrors"

	"github.com/arborist-run/gitmeta/githash"
)

// ErrInvalidReference is returned when a reference's stored content is
// neither a valid hex object name nor a well-formed "ref: refs/..."
// symbolic reference.
var ErrInvalidReference = errors.New("reference is not valid")

// ErrRefCycle is returned when resolving a reference would revisit a
// symbolic reference name already seen in the current resolution.
var ErrRefCycle = errors.New("circular symbolic reference")

// ErrRefNotFound reports that a looked-up reference name has no stored
// value. Backends report a miss through Lookup's ok result instead;
// the repository returns this error when a reftable chain has no HEAD
// record.
var ErrRefNotFound = errors.New("reference not found")

// Type distinguishes how a Reference's value is stored.
type Type int8

const (
	// ObjectNameRef references target an object name directly.
	ObjectNameRef Type = iota + 1
	// SymbolicRef references target another reference by name.
	SymbolicRef
)

// Reference is one parsed reference value: either a resolved object
// name, or a symbolic pointer to another reference name.
type Reference struct {
	name   string
	typ    Type
	target string
	oid    string
}

// NewObjectNameReference returns a Reference whose value is an object
// name.
func NewObjectNameReference(name, objectName string) *Reference {
	return &Reference{name: name, typ: ObjectNameRef, oid: objectName}
}

// NewSymbolicReference returns a Reference that points at another
// reference name.
func NewSymbolicReference(name, target string) *Reference {
	return &Reference{name: name, typ: SymbolicRef, target: target}
}

// Name returns the reference's own name (e.g. "HEAD", "refs/heads/main").
func (r *Reference) Name() string { return r.name }

// Type reports whether this reference targets an object name or
// another reference.
func (r *Reference) Type() Type { return r.typ }

// Target returns the name targeted by a SymbolicRef.
func (r *Reference) Target() string { return r.target }

// ObjectName returns the hex object name targeted by an ObjectNameRef.
func (r *Reference) ObjectName() string { return r.oid }

// asciiWhitespace is the exact set spec §6.1 trims: space, tab, CR, LF,
// FF, VT.
const asciiWhitespace = " \t\r\n\f\v"

func trimTrailingASCIIWhitespace(s string) string {
	return strings.TrimRight(s, asciiWhitespace)
}

// ParseReferenceString parses one stored reference value (loose-file
// contents, or a reftable record already rendered to this same
// grammar) per spec §4.3's "reference string" input rule: a hex object
// name, or "ref: <name>" where <name> begins with "refs/".
func ParseReferenceString(name, raw string, format githash.Format) (*Reference, error) {
	s := trimTrailingASCIIWhitespace(raw)
	if format.IsHex(s) {
		return NewObjectNameReference(name, format.Canonicalize(s)), nil
	}
	if strings.HasPrefix(s, "ref: ") {
		target := s[len("ref: "):]
		if !strings.HasPrefix(target, "refs/") {
			return nil, xerrors.Errorf("reference %q targets %q: %w", name, target, ErrInvalidReference)
		}
		return NewSymbolicReference(name, target), nil
	}
	return nil, xerrors.Errorf("reference %q: %w", name, ErrInvalidReference)
}

// Backend looks up the raw stored value of a reference name. ok is
// false when the name has no stored value; err is reserved for I/O or
// structural failures distinct from "not found".
type Backend interface {
	Lookup(name string) (value string, ok bool, err error)
}

// Resolve follows refString (typically a repository's HEAD contents,
// or the value an entry-point lookup returned) through backend until
// it lands on an object name, per spec §4.3's resolution algorithm.
// found is false when a symbolic chain dead-ends on a missing
// reference; this is not an error.
func Resolve(backend Backend, format githash.Format, refString string) (objectName string, found bool, err error) {
	return resolve(backend, format, "HEAD", refString, map[string]struct{}{})
}

// ResolveNamed is Resolve, but reports the originating reference's own
// name in error messages instead of the constant "HEAD".
func ResolveNamed(backend Backend, format githash.Format, name, refString string) (objectName string, found bool, err error) {
	return resolve(backend, format, name, refString, map[string]struct{}{})
}

func resolve(backend Backend, format githash.Format, name, raw string, visited map[string]struct{}) (string, bool, error) {
	ref, err := ParseReferenceString(name, raw, format)
	if err != nil {
		return "", false, err
	}
	if ref.Type() == ObjectNameRef {
		return ref.ObjectName(), true, nil
	}

	target := ref.Target()
	if _, seen := visited[target]; seen {
		return "", false, xerrors.Errorf("reference %q: %w", target, ErrRefCycle)
	}
	visited[target] = struct{}{}

	val, ok, err := backend.Lookup(target)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return resolve(backend, format, target, val, visited)
}
