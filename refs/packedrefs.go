package refs

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/arborist-run/gitmeta/githash"
)

// ErrPackedRefsInvalid is returned when a packed-refs file is missing
// its header line or is otherwise structurally broken, per spec
// §4.3.1.
var ErrPackedRefsInvalid = errors.New("packed-refs file is invalid")

const packedRefsHeaderPrefix = "# pack-refs with:"

// ParsePackedRefs parses a packed-refs file per spec §4.3.1: the first
// non-empty line must be a "# pack-refs with:" header (a wholly empty
// file is exempt and yields an empty map); subsequent lines map
// "<object-name> <ref-name>" pairs, "^<object-name>" peeled-tag lines
// are checked and discarded (this package never surfaces peeled
// values; a peeled object name that is not valid hex of the format's
// length makes the file invalid), other malformed or
// non-"refs/"-prefixed lines are silently ignored, and the first
// occurrence of a given ref name wins.
func ParsePackedRefs(r io.Reader, format githash.Format) (map[string]string, error) {
	refs := map[string]string{}

	sc := bufio.NewScanner(r)
	headerSeen := false
	sawContent := false
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		sawContent = true

		if !headerSeen {
			if !strings.HasPrefix(line, packedRefsHeaderPrefix) {
				return nil, ErrPackedRefsInvalid
			}
			headerSeen = true
			continue
		}

		if line[0] == '^' {
			// Peeled-tag continuation line for the previous ref; the
			// hash is validated but not surfaced (spec §6.2 never
			// exposes peeled tags).
			if !format.IsHex(line[1:]) {
				return nil, ErrPackedRefsInvalid
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			// A missing or extra (third) token makes the whole line
			// ignored rather than fatal.
			continue
		}
		oid, name := fields[0], fields[1]
		if !format.IsHex(oid) {
			continue
		}
		if !strings.HasPrefix(name, "refs/") {
			continue
		}
		if _, exists := refs[name]; exists {
			continue
		}
		refs[name] = format.Canonicalize(oid)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if sawContent && !headerSeen {
		return nil, ErrPackedRefsInvalid
	}
	return refs, nil
}
