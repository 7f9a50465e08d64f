// Package headresolve resolves a git directory's HEAD to an object
// name, end to end: load its config, pick a reference storage
// backend (spec §4.1/§4.3), and resolve. It exists so submodule
// enumeration (spec §4.6, "resolve its HEAD commit via the same
// ref-resolver pipeline") can reuse the same format-selection logic
// gitmeta.Open uses for the top-level repository, without submodule
// importing the root gitmeta package (which imports submodule).
package headresolve

import (
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/arborist-run/gitmeta/config"
	"github.com/arborist-run/gitmeta/env"
	"github.com/arborist-run/gitmeta/githash"
	"github.com/arborist-run/gitmeta/internal/pathutil"
	"github.com/arborist-run/gitmeta/refs"
	"github.com/arborist-run/gitmeta/refs/reftable"
)

// ErrUnknownReferenceStorageFormat mirrors gitmeta's own sentinel for
// an extensions.refstorage value that's neither absent nor "reftable".
var ErrUnknownReferenceStorageFormat = xerrors.New("headresolve: unknown extensions.refstorage value")

// Resolve loads gitDir's configuration (commonDir is used both as the
// local config tier and as the loose-refs search root) and resolves
// HEAD through whichever backend extensions.refstorage names.
func Resolve(fs afero.Fs, e *env.Environment, gitDir, commonDir string) (objectName string, found bool, err error) {
	cfg, err := config.NewLoader(fs, e).Load(commonDir, pathutil.ToPosix(gitDir)+"/")
	if err != nil {
		return "", false, xerrors.Errorf("headresolve: loading config: %w", err)
	}

	objectFormatValue, _ := cfg.Get("extensions", "", "objectformat")
	format, err := githash.FromExtensionValue(objectFormatValue)
	if err != nil {
		return "", false, xerrors.Errorf("headresolve: %w", err)
	}

	raw, _ := cfg.Get("extensions", "", "refstorage")
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		backend := refs.NewLooseBackend(fs, commonDir, format)
		head, err := refs.ReadHEAD(fs, gitDir)
		if err != nil {
			return "", false, err
		}
		return refs.Resolve(backend, format, head)
	case "reftable":
		chain, err := reftable.OpenChain(fs, gitDir)
		if err != nil {
			return "", false, xerrors.Errorf("headresolve: opening reftable chain: %w", err)
		}
		defer chain.Close()
		val, ok, err := chain.Lookup("HEAD")
		if err != nil {
			return "", false, err
		}
		if !ok {
			return "", false, nil
		}
		return refs.Resolve(chain, format, val)
	default:
		return "", false, xerrors.Errorf("headresolve: extensions.refstorage %q: %w", raw, ErrUnknownReferenceStorageFormat)
	}
}
