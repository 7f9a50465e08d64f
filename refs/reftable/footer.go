package reftable

import (
	"encoding/binary"
	"hash/crc32"
)

// footerTailSize is the five uint64 positions plus the trailing
// CRC-32, not counting the leading copy-of-header (spec §4.3.2).
const footerTailSize = 5*8 + 4

// Footer is a reftable file's trailing footer: a copy of the header
// followed by five block positions and a CRC-32 (spec §4.3.2).
type Footer struct {
	Header Header

	RefIndexPosition uint64
	ObjPosition      uint64
	ObjIndexPosition uint64
	LogPosition      uint64
	LogIndexPosition uint64
}

// parseFooter parses a footer from exactly header.Size+footerTailSize
// bytes, validating its CRC-32 and that ref_index_position (if set)
// doesn't point past the end of the file.
func parseFooter(b []byte, header Header, fileLen int64) (Footer, error) {
	want := header.Size + footerTailSize
	if len(b) != want {
		return Footer{}, ErrInvalidData
	}

	hdrCopy, err := parseHeader(b[:header.Size])
	if err != nil {
		return Footer{}, err
	}
	if hdrCopy != header {
		return Footer{}, ErrInvalidData
	}

	crcOffset := want - 4
	gotCRC := binary.BigEndian.Uint32(b[crcOffset:])
	wantCRC := crc32.ChecksumIEEE(b[:crcOffset])
	if gotCRC != wantCRC {
		return Footer{}, ErrCRCMismatch
	}

	p := b[header.Size:crcOffset]
	f := Footer{
		Header:           header,
		RefIndexPosition: binary.BigEndian.Uint64(p[0:8]),
		ObjPosition:      binary.BigEndian.Uint64(p[8:16]),
		ObjIndexPosition: binary.BigEndian.Uint64(p[16:24]),
		LogPosition:      binary.BigEndian.Uint64(p[24:32]),
		LogIndexPosition: binary.BigEndian.Uint64(p[32:40]),
	}
	if int64(f.RefIndexPosition) > fileLen {
		return Footer{}, ErrInvalidData
	}
	return f, nil
}
