package gitmeta

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixtureRecord describes one ref-block record for buildReftableFixture:
// either an object-name record (hex set) or a symbolic record (symbolic
// set). Exactly one of the two should be non-empty.
type fixtureRecord struct {
	name     string
	hex      string
	symbolic string
}

// oidHex returns a 40-hex-char object name with its last byte set to
// lastByte, for building distinguishable test fixtures.
func oidHex(lastByte byte) string {
	b := make([]byte, 20)
	b[19] = lastByte
	return hex.EncodeToString(b)
}

// encodeVarint mirrors refs/reftable's decode recurrence in reverse,
// independently derived so fixtures don't just round-trip the
// package's own encoder against itself.
func encodeVarint(v int64) []byte {
	var out []byte
	out = append(out, byte(v&0x7f))
	v = v>>7 - 1
	for v >= 0 {
		out = append(out, byte(0x80|(v&0x7f)))
		v = v>>7 - 1
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// buildReftableFixture builds a minimal, unaligned (block_size=0),
// version-1, single-ref-block reftable file: every record gets its
// own restart (prefix_length 0). records must already be name-sorted.
func buildReftableFixture(t *testing.T, records []fixtureRecord) []byte {
	t.Helper()

	header := make([]byte, 24)
	copy(header[0:4], "REFT")
	header[4] = 1 // version

	var recordBytes bytes.Buffer
	var restarts []int
	offset := 4
	for _, r := range records {
		restarts = append(restarts, offset)

		rec := []byte{}
		rec = append(rec, encodeVarint(0)...) // prefix_length

		switch {
		case r.symbolic != "":
			rec = append(rec, encodeVarint(int64(len(r.name)<<3|3))...)
			rec = append(rec, []byte(r.name)...)
			rec = append(rec, encodeVarint(0)...) // update_index_delta
			rec = append(rec, encodeVarint(int64(len(r.symbolic)))...)
			rec = append(rec, []byte(r.symbolic)...)
		default:
			raw, err := hex.DecodeString(r.hex)
			require.NoError(t, err)
			require.Len(t, raw, 20)
			rec = append(rec, encodeVarint(int64(len(r.name)<<3|1))...)
			rec = append(rec, []byte(r.name)...)
			rec = append(rec, encodeVarint(0)...) // update_index_delta
			rec = append(rec, raw...)
		}

		recordBytes.Write(rec)
		offset += len(rec)
	}

	restartCount := len(restarts)
	blockLen := 4 + recordBytes.Len() + 3*restartCount + 2

	block := make([]byte, 0, blockLen)
	block = append(block, 'r')
	block = append(block, byte(blockLen>>16), byte(blockLen>>8), byte(blockLen))
	block = append(block, recordBytes.Bytes()...)
	for _, off := range restarts {
		block = append(block, byte(off>>16), byte(off>>8), byte(off))
	}
	var rc [2]byte
	binary.BigEndian.PutUint16(rc[:], uint16(restartCount))
	block = append(block, rc[:]...)
	require.Len(t, block, blockLen)

	footerBody := make([]byte, 0, 24+40)
	footerBody = append(footerBody, header...)
	var positions [40]byte
	footerBody = append(footerBody, positions[:]...)
	crc := crc32.ChecksumIEEE(footerBody)
	var crcBytes [4]byte
	binary.BigEndian.PutUint32(crcBytes[:], crc)
	footerBody = append(footerBody, crcBytes[:]...)

	out := append([]byte{}, header...)
	out = append(out, block...)
	out = append(out, footerBody...)
	return out
}
