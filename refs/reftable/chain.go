package reftable

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/arborist-run/gitmeta/internal/gitpath"
)

// Chain implements refs.Backend against a git directory's reftable
// storage: the file set named by tables.list, searched latest-first,
// with files opened lazily and a deletion record in any table
// short-circuiting older tables (spec §4.3.2's "Scheduling note").
type Chain struct {
	fs  afero.Fs
	dir string // <git_dir>/reftable

	// names is tables.list's entries in reverse (latest-first) order.
	names   []string
	readers []*Reader
}

// OpenChain reads <gitDir>/reftable/tables.list and returns a Chain
// ready for Lookup. No table file is opened yet.
func OpenChain(fs afero.Fs, gitDir string) (*Chain, error) {
	listPath := filepath.Join(gitDir, gitpath.TablesListPath())
	data, err := afero.ReadFile(fs, listPath)
	if err != nil {
		return nil, xerrors.Errorf("could not read %s: %w", gitpath.TablesListName, err)
	}

	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}

	return &Chain{
		fs:      fs,
		dir:     filepath.Join(gitDir, gitpath.ReftableDir()),
		names:   names,
		readers: make([]*Reader, len(names)),
	}, nil
}

func (c *Chain) openAt(i int) (*Reader, error) {
	if c.readers[i] != nil {
		return c.readers[i], nil
	}

	f, err := c.fs.Open(filepath.Join(c.dir, c.names[i]))
	if err != nil {
		return nil, xerrors.Errorf("could not open table %s: %w", c.names[i], err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, xerrors.Errorf("could not stat table %s: %w", c.names[i], err)
	}

	rd, err := NewReader(f, info.Size(), f)
	if err != nil {
		f.Close()
		return nil, xerrors.Errorf("could not parse table %s: %w", c.names[i], err)
	}
	c.readers[i] = rd
	return rd, nil
}

// Lookup implements refs.Backend, searching tables latest-first. A
// table is opened the first time a lookup actually needs it.
func (c *Chain) Lookup(name string) (string, bool, error) {
	for i := range c.names {
		rd, err := c.openAt(i)
		if err != nil {
			return "", false, err
		}
		value, found, deleted, err := rd.Lookup(name)
		if err != nil {
			return "", false, err
		}
		if deleted {
			return "", false, nil
		}
		if found {
			return value, true, nil
		}
	}
	return "", false, nil
}

// Close releases every table file handle opened through the lazy
// chain, in table order. It's safe to call even if no lookup ever ran.
func (c *Chain) Close() error {
	var firstErr error
	for _, rd := range c.readers {
		if rd == nil {
			continue
		}
		if err := rd.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
