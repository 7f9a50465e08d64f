package reftable

import "io"

// readVarint decodes one reftable varint, mirroring canonical Git's
// algorithm (spec §4.3.2):
//
//	result = -1
//	loop:
//	  b = next byte
//	  result = ((result + 1) << 7) | (b & 0x7f)
//	  if result > INT32_MAX: fatal
//	  if (b & 0x80) == 0: return result
func readVarint(r io.ByteReader) (int64, error) {
	var result int64 = -1
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result = ((result + 1) << 7) | int64(b&0x7f)
		if result > 0x7fffffff {
			return 0, ErrInvalidData
		}
		if b&0x80 == 0 {
			return result, nil
		}
	}
}
