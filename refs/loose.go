package refs

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/arborist-run/gitmeta/githash"
	"github.com/arborist-run/gitmeta/internal/gitpath"
)

// LooseBackend implements Backend against a git directory's loose
// ref files, falling back to packed-refs (spec §4.3.1). Grounded on
// the teacher's backend/fsbackend.Reference/parsePackedRefs, adapted
// to afero.Fs and to this package's Backend/Resolve split.
type LooseBackend struct {
	fs        afero.Fs
	commonDir string
	format    githash.Format

	once      sync.Once
	packed    map[string]string
	packedErr error
}

// NewLooseBackend returns a Backend reading loose refs (and, on a
// miss, packed-refs) under commonDir.
func NewLooseBackend(fs afero.Fs, commonDir string, format githash.Format) *LooseBackend {
	return &LooseBackend{fs: fs, commonDir: commonDir, format: format}
}

// Lookup implements Backend.
func (b *LooseBackend) Lookup(name string) (string, bool, error) {
	p := filepath.Join(b.commonDir, filepath.FromSlash(name))
	data, err := afero.ReadFile(b.fs, p)
	if err == nil {
		return trimTrailingASCIIWhitespace(string(data)), true, nil
	}
	if os.IsNotExist(err) {
		return b.lookupPacked(name)
	}
	return "", false, xerrors.Errorf("could not read reference %q: %w", name, err)
}

func (b *LooseBackend) lookupPacked(name string) (string, bool, error) {
	b.once.Do(func() {
		f, err := b.fs.Open(filepath.Join(b.commonDir, gitpath.PackedRefsName))
		if err != nil {
			if os.IsNotExist(err) {
				b.packed = map[string]string{}
				return
			}
			b.packedErr = xerrors.Errorf("could not open %s: %w", gitpath.PackedRefsName, err)
			return
		}
		defer f.Close()
		b.packed, b.packedErr = ParsePackedRefs(f, b.format)
	})
	if b.packedErr != nil {
		return "", false, b.packedErr
	}
	oid, ok := b.packed[name]
	return oid, ok, nil
}

// ReadHEAD reads <gitDir>/HEAD, trimmed of trailing ASCII whitespace,
// for use as the initial refString passed to Resolve (spec §4.3's
// HEAD entry point for loose-files repositories).
func ReadHEAD(fs afero.Fs, gitDir string) (string, error) {
	data, err := afero.ReadFile(fs, filepath.Join(gitDir, gitpath.HEADName))
	if err != nil {
		return "", xerrors.Errorf("could not read %s: %w", gitpath.HEADName, err)
	}
	return trimTrailingASCIIWhitespace(string(data)), nil
}
