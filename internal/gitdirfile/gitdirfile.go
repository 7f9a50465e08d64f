// Package gitdirfile reads the one-line "gitdir: <path>" redirection
// format used by both a working tree's top-level ".git" file (spec
// §4.1) and a submodule's ".git" file (spec §4.6) — the same grammar,
// read from two different callers.
package gitdirfile

import (
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// ErrInvalidFormat is returned when a ".git" file's content isn't
// prefixed "gitdir: " (spec §6.1: "exactly gitdir: <path>\n").
var ErrInvalidFormat = xerrors.New("gitdirfile: not a valid gitdir redirection file")

const prefix = "gitdir: "

// Read parses the ".git" file at path and returns the raw path that
// follows "gitdir: ", trimmed of trailing ASCII whitespace. It is the
// caller's job to resolve that path (absolute or relative to the
// directory containing the ".git" file).
func Read(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", err
	}
	content := strings.TrimRight(string(data), " \t\r\n\f\v")
	if !strings.HasPrefix(content, prefix) {
		return "", xerrors.Errorf("%s: %w", path, ErrInvalidFormat)
	}
	return strings.TrimSpace(content[len(prefix):]), nil
}
