// Package githash implements the object-name format abstraction (spec
// §3 "ObjectNameFormat"): the SHA-1/SHA-256 byte-length and hex-string
// conventions that every other package (refs, reftable, repository)
// needs to size and validate object names, without needing to decode
// the objects those names point to (decoding is out of scope, §1).
//
// Grounded on the teacher's ginternals/githash Hash/Oid split, reduced
// to the format metadata this spec actually needs: we resolve ref
// names to object-name strings, we never hash or compare object
// content.
package githash

import (
	"errors"
	"strings"
)

// ErrUnknownHash is returned when a hash id read from a reftable
// header, or an extensions.objectFormat value, names a hash this
// module doesn't support.
var ErrUnknownHash = errors.New("unknown hash algorithm")

// Format identifies which hash algorithm a repository's object names
// use.
type Format int

const (
	// SHA1 is the original, still-default git hash algorithm.
	SHA1 Format = iota
	// SHA256 is the newer, opt-in algorithm enabled via
	// extensions.objectFormat or a reftable header's hash id.
	SHA256
)

// Size returns the raw byte length of an object name in this format.
func (f Format) Size() int {
	switch f {
	case SHA256:
		return 32
	default:
		return 20
	}
}

// HexSize returns the length of the lowercase-hex string
// representation of an object name in this format.
func (f Format) HexSize() int {
	return f.Size() * 2
}

// Name returns the git-facing name of the algorithm ("sha1"/"sha256").
func (f Format) Name() string {
	switch f {
	case SHA256:
		return "sha256"
	default:
		return "sha1"
	}
}

// String implements fmt.Stringer.
func (f Format) String() string {
	return f.Name()
}

// FromExtensionValue maps the value of extensions.objectFormat (or the
// empty string, meaning "unset") to a Format.
func FromExtensionValue(v string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "sha1":
		return SHA1, nil
	case "sha256":
		return SHA256, nil
	default:
		return SHA1, ErrUnknownHash
	}
}

// FromReftableHashID maps a reftable v2 header's 4-byte hash id
// ("sha1"/"s256") to a Format, per spec §4.3.2.
func FromReftableHashID(id string) (Format, error) {
	switch id {
	case "sha1":
		return SHA1, nil
	case "s256":
		return SHA256, nil
	default:
		return SHA1, ErrUnknownHash
	}
}

// IsHex reports whether s is a valid object-name string in this
// format: hex digits (case-insensitive), of exactly HexSize() length.
func (f Format) IsHex(s string) bool {
	if len(s) != f.HexSize() {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Canonicalize lower-cases a hex object name, assuming IsHex(s) holds.
func (f Format) Canonicalize(s string) string {
	return strings.ToLower(s)
}
