package reftable

import (
	"encoding/hex"
	"io"

	"github.com/arborist-run/gitmeta/internal/cache"
)

// blockCacheSize bounds the per-Reader decoded-block cache. A ref-index
// descent rarely revisits more distinct block offsets than this within
// one lookup chain's lifetime, and index blocks in particular are
// reread on every lookup that shares a prefix.
const blockCacheSize = 256

// Reader performs lookups against a single reftable file, per spec
// §4.3.2's "Top-level lookup". It owns no file handle directly; Close
// releases the io.Closer it was constructed with, if any.
type Reader struct {
	ra      io.ReaderAt
	closer  io.Closer
	header  Header
	footer  Footer
	fileLen int64
	blocks  *cache.LRU // block offset (int64) -> *Block
}

// NewReader parses ra's header and footer and returns a Reader ready
// for Lookup. closer may be nil if the caller manages the underlying
// handle itself.
func NewReader(ra io.ReaderAt, fileLen int64, closer io.Closer) (*Reader, error) {
	header, err := readHeader(ra)
	if err != nil {
		return nil, err
	}

	footerLen := header.Size + footerTailSize
	footerPos := fileLen - int64(footerLen)
	if footerPos < 0 {
		return nil, ErrInvalidData
	}
	footerBuf := make([]byte, footerLen)
	if _, err := ra.ReadAt(footerBuf, footerPos); err != nil {
		return nil, err
	}
	footer, err := parseFooter(footerBuf, header, fileLen)
	if err != nil {
		return nil, err
	}

	return &Reader{
		ra: ra, closer: closer, header: header, footer: footer, fileLen: fileLen,
		blocks: cache.NewLRU(blockCacheSize),
	}, nil
}

func readHeader(ra io.ReaderAt) (Header, error) {
	base := make([]byte, headerSize1)
	if _, err := ra.ReadAt(base, 0); err != nil {
		return Header{}, err
	}
	if string(base[0:4]) != magic {
		return Header{}, ErrInvalidMagic
	}
	if base[4] == 1 {
		return parseHeader(base)
	}

	full := make([]byte, headerSize2)
	if _, err := ra.ReadAt(full, 0); err != nil {
		return Header{}, err
	}
	return parseHeader(full)
}

// Close releases the underlying handle, if one was supplied.
func (rd *Reader) Close() error {
	if rd.closer == nil {
		return nil
	}
	return rd.closer.Close()
}

func (rd *Reader) readBlockAt(pos int64) (*Block, error) {
	if v, ok := rd.blocks.Get(pos); ok {
		return v.(*Block), nil
	}

	head := make([]byte, 4)
	if _, err := rd.ra.ReadAt(head, pos); err != nil {
		return nil, err
	}
	blockLen := int(head[1])<<16 | int(head[2])<<8 | int(head[3])

	physSize := blockLen
	if rd.header.BlockSize != 0 {
		physSize = int(rd.header.BlockSize)
	}
	buf := make([]byte, physSize)
	n, err := rd.ra.ReadAt(buf, pos)
	if err != nil && err != io.EOF {
		return nil, err
	}
	buf = buf[:n]
	if len(buf) < blockLen {
		return nil, ErrInvalidData
	}

	blk, err := parseBlock(buf, rd.header.BlockSize, rd.header.HashSize)
	if err != nil {
		return nil, err
	}
	rd.blocks.Add(pos, blk)
	return blk, nil
}

// Lookup searches this file for name, per spec §4.3.2. deleted is true
// when the most authoritative record for name in this file is a
// deletion — callers (the table chain) must stop looking at older
// tables in that case rather than treating it as a plain miss.
func (rd *Reader) Lookup(name string) (value string, found bool, deleted bool, err error) {
	if rd.footer.RefIndexPosition > 0 {
		pos := int64(rd.footer.RefIndexPosition)
		for {
			blk, err := rd.readBlockAt(pos)
			if err != nil {
				return "", false, false, err
			}
			switch blk.Type {
			case BlockTypeIndex:
				// Each index record's name is the largest ref name under the
				// block it points at: follow the first one not less than name.
				next, prior := int64(-1), ""
				for off := 4; off < blk.recordsEnd && next < 0; {
					rec, err := decodeRecord(blk.Type, blk.raw, off, prior, blk.hashSize)
					if err != nil {
						return "", false, false, err
					}
					if rec.Name >= name {
						next = int64(rec.IndexBlockPosition)
					}
					prior, off = rec.Name, rec.next
				}
				if next < 0 {
					return "", false, false, nil
				}
				pos = next
			case BlockTypeRef:
				rec, ok, err := blk.lookup(name)
				if err != nil {
					return "", false, false, err
				}
				if !ok {
					return "", false, false, nil
				}
				return recordValue(rec)
			default:
				return "", false, false, ErrInvalidData
			}
		}
	}

	// No ref-index: scan ref blocks sequentially, starting right after
	// the header, stopping at the footer.
	pos := int64(rd.header.Size)
	footerPos := rd.fileLen - int64(rd.header.Size+footerTailSize)
	for pos < footerPos {
		blk, err := rd.readBlockAt(pos)
		if err != nil {
			return "", false, false, err
		}
		if blk.Type != BlockTypeRef {
			break
		}
		rec, ok, err := blk.lookup(name)
		if err != nil {
			return "", false, false, err
		}
		if ok {
			return recordValue(rec)
		}
		if rd.header.BlockSize != 0 {
			pos += int64(rd.header.BlockSize)
		} else {
			pos += int64(blk.Len)
		}
	}
	return "", false, false, nil
}

// recordValue converts a decoded ref record into the normalized
// "reference string" grammar refs.Resolve expects: a lowercase hex
// object name, or "ref: <name>".
func recordValue(rec decodedRecord) (value string, found bool, deleted bool, err error) {
	switch rec.Type {
	case ValueDeletion:
		return "", false, true, nil
	case ValueObjectName, ValueObjectNamePeeled:
		// The peeled half of type 2, if present, is never surfaced
		// (spec §6.2 has no operation that needs it).
		hashLen := len(rec.Value)
		if rec.Type == ValueObjectNamePeeled {
			hashLen /= 2
		}
		return hex.EncodeToString(rec.Value[:hashLen]), true, false, nil
	case ValueSymbolic:
		return "ref: " + string(rec.Value), true, false, nil
	default:
		return "", false, false, ErrInvalidData
	}
}
