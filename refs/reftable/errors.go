// Package reftable implements the binary reftable reader of spec
// §4.3.2: header/footer parsing, block framing with prefix-compressed
// records, restart-offset binary search within a block, and the
// ref-index-guided (or sequential-fallback) top-level lookup chained
// across a tables.list.
//
// Grounded on the teacher's plumbing/packfile/packfile.go for the
// byte-level decoding idiom (explicit MSB/continuation-bit helpers,
// binary.BigEndian reads, a small io.ReaderAt-backed reader type) —
// the reftable format itself has no counterpart in the teacher, so the
// decoder is new code written in that same low-level style.
package reftable

import "errors"

var (
	// ErrInvalidMagic is returned when a reftable's header doesn't
	// start with "REFT".
	ErrInvalidMagic = errors.New("reftable: invalid magic")
	// ErrInvalidVersion is returned for a header version outside {1, 2}.
	ErrInvalidVersion = errors.New("reftable: unsupported version")
	// ErrInvalidData covers every other structural violation: a
	// malformed block, an out-of-range restart offset, a prefix length
	// exceeding the prior name, invalid UTF-8 in a name, an unknown
	// record value type, or a varint overflow.
	ErrInvalidData = errors.New("reftable: invalid data")
	// ErrCRCMismatch is returned when the footer's CRC-32 doesn't match
	// the computed checksum of the preceding footer bytes.
	ErrCRCMismatch = errors.New("reftable: footer CRC mismatch")
)
