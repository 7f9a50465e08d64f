package reftable

import "encoding/binary"

// Block type tags (spec §4.3.2).
const (
	BlockTypeRef   = 'r'
	BlockTypeObj   = 'o'
	BlockTypeLog   = 'g'
	BlockTypeIndex = 'i'
)

// minBlockLen is the smallest block_len parseBlock accepts: the 4-byte
// block header, 3 more bytes, and the 2-byte restart count. A block of
// that length has no restart offsets, since a restart offset must point
// at a record before the restart-offset array.
const minBlockLen = 1 + 3 + 3 + 2

// Block is one parsed reftable block: its records region and restart
// offset table (spec §4.3.2's "Block"/"Restart offsets").
type Block struct {
	Type byte
	Len  int // block_len, including the 4-byte type+length header

	raw        []byte // the block's bytes, truncated to exactly Len
	restarts   []int  // byte offsets from block start, strictly increasing
	recordsEnd int    // offset where the restart-offset array begins
	hashSize   int    // object-name byte length, for ref-record payloads
}

// parseBlock parses a block from raw, which must hold at least
// block_len bytes (trailing padding, if any, is ignored). headerBlockSize
// is the file header's block_size field (0 means unaligned); hashSize
// is the file header's object-name byte length.
func parseBlock(raw []byte, headerBlockSize uint32, hashSize int) (*Block, error) {
	if len(raw) < minBlockLen {
		return nil, ErrInvalidData
	}
	typ := raw[0]
	blockLen := int(raw[1])<<16 | int(raw[2])<<8 | int(raw[3])
	if blockLen < minBlockLen || blockLen > len(raw) {
		return nil, ErrInvalidData
	}
	if (typ == BlockTypeRef || typ == BlockTypeIndex) && headerBlockSize != 0 && blockLen > int(headerBlockSize) {
		return nil, ErrInvalidData
	}

	body := raw[:blockLen]
	restartCount := int(binary.BigEndian.Uint16(body[blockLen-2 : blockLen]))
	recordsEnd := blockLen - 2 - 3*restartCount
	if recordsEnd < 4 {
		return nil, ErrInvalidData
	}

	restarts := make([]int, restartCount)
	prev := -1
	for i := 0; i < restartCount; i++ {
		off := recordsEnd + i*3
		v := int(body[off])<<16 | int(body[off+1])<<8 | int(body[off+2])
		if v <= prev || v >= recordsEnd {
			return nil, ErrInvalidData
		}
		restarts[i] = v
		prev = v
	}
	if restartCount > 0 && restarts[0] != 4 {
		return nil, ErrInvalidData
	}

	return &Block{Type: typ, Len: blockLen, raw: body, restarts: restarts, recordsEnd: recordsEnd, hashSize: hashSize}, nil
}

// firstNameAt decodes just the name of the record at a restart offset
// (restarts always carry prefix_length 0, so no prior name is needed).
func (b *Block) firstNameAt(restartIdx int) (string, error) {
	rec, err := decodeRecord(b.Type, b.raw, b.restarts[restartIdx], "", b.hashSize)
	if err != nil {
		return "", err
	}
	return rec.Name, nil
}

// lookup finds the record named name in this block, per spec §4.3.2's
// "Lookup within a single ref block". It looks for an exact name, so
// Reader.Lookup uses it for ref blocks only.
func (b *Block) lookup(name string) (decodedRecord, bool, error) {
	if len(b.restarts) == 0 {
		return decodedRecord{}, false, nil
	}

	// hi = index of the first restart whose key is strictly greater
	// than name.
	lo, hi := 0, len(b.restarts)
	for lo < hi {
		mid := (lo + hi) / 2
		key, err := b.firstNameAt(mid)
		if err != nil {
			return decodedRecord{}, false, err
		}
		if key > name {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if hi == 0 {
		return decodedRecord{}, false, nil
	}

	start := b.restarts[hi-1]
	end := b.recordsEnd
	if hi < len(b.restarts) {
		end = b.restarts[hi]
	}

	prior := ""
	for off := start; off < end; {
		rec, err := decodeRecord(b.Type, b.raw, off, prior, b.hashSize)
		if err != nil {
			return decodedRecord{}, false, err
		}
		if rec.Name == name {
			return rec, true, nil
		}
		prior = rec.Name
		off = rec.next
	}
	return decodedRecord{}, false, nil
}
