// Package leb128 encodes and decodes variable-length integers using the
// encoding defined by the DWARF 3 spec, §7.6, also used for every varint
// field in the WebAssembly binary format and, in this module, for every
// length-prefix and opcode in the interface-types wire format (§4.B).
package leb128

import (
	"fmt"
	"io"
)

const (
	maxVarintLen32 = 5
	maxVarintLen64 = 10
)

// EncodeUint32 encodes v as an unsigned LEB128 byte sequence.
func EncodeUint32(v uint32) []byte {
	return EncodeUint64(uint64(v))
}

// EncodeUint64 encodes v as an unsigned LEB128 byte sequence.
func EncodeUint64(v uint64) []byte {
	out := make([]byte, 0, maxVarintLen64)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			return out
		}
	}
}

// EncodeInt32 encodes v as a signed LEB128 byte sequence.
func EncodeInt32(v int32) []byte {
	return EncodeInt64(int64(v))
}

// EncodeInt64 encodes v as a signed LEB128 byte sequence.
func EncodeInt64(v int64) []byte {
	out := make([]byte, 0, maxVarintLen64)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			out = append(out, b)
			return out
		}
		out = append(out, b|0x80)
	}
}

// DecodeUint32 decodes an unsigned LEB128 value from r, returning the value
// and the number of bytes consumed.
func DecodeUint32(r io.ByteReader) (uint32, uint64, error) {
	v, n, err := decodeUnsigned(r, 32)
	return uint32(v), n, err
}

// DecodeUint64 decodes an unsigned LEB128 value from r, returning the value
// and the number of bytes consumed.
func DecodeUint64(r io.ByteReader) (uint64, uint64, error) {
	return decodeUnsigned(r, 64)
}

// DecodeInt32 decodes a signed LEB128 value from r, returning the value and
// the number of bytes consumed.
func DecodeInt32(r io.ByteReader) (int32, uint64, error) {
	v, n, err := decodeSigned(r, 32)
	return int32(v), n, err
}

// DecodeInt64 decodes a signed LEB128 value from r, returning the value and
// the number of bytes consumed.
func DecodeInt64(r io.ByteReader) (int64, uint64, error) {
	return decodeSigned(r, 64)
}

// DecodeInt33AsInt64 decodes a signed LEB128 value of at most 33 significant
// bits, sign-extended into an int64.
func DecodeInt33AsInt64(r io.ByteReader) (int64, uint64, error) {
	return decodeSigned(r, 33)
}

func decodeUnsigned(r io.ByteReader, maxBits int) (uint64, uint64, error) {
	var result uint64
	var shift uint
	var n uint64
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, n, fmt.Errorf("unexpected end of leb128 stream: %w", err)
		}
		n++

		if shift >= uint(maxBits) {
			return 0, n, fmt.Errorf("leb128 value exceeds %d bits", maxBits)
		}

		cont := b&0x80 != 0
		payload := uint64(b & 0x7f)

		if shift+7 > 64 && payload>>(64-shift) != 0 {
			return 0, n, fmt.Errorf("leb128 overflows 64 bits")
		}
		result |= payload << shift

		if !cont {
			remaining := maxBits - int(shift)
			if remaining < 7 && remaining >= 0 {
				mask := uint64(1)<<uint(remaining) - 1
				if payload&^mask != 0 {
					return 0, n, fmt.Errorf("leb128 value exceeds %d bits", maxBits)
				}
			}
			return result, n, nil
		}
		shift += 7
	}
}

func decodeSigned(r io.ByteReader, maxBits int) (int64, uint64, error) {
	var result int64
	var shift uint
	var n uint64
	var b byte
	var err error
	for {
		b, err = r.ReadByte()
		if err != nil {
			return 0, n, fmt.Errorf("unexpected end of leb128 stream: %w", err)
		}
		n++

		if shift >= 64 {
			return 0, n, fmt.Errorf("leb128 overflows 64 bits")
		}

		result |= int64(b&0x7f) << shift
		shift += 7

		if b&0x80 == 0 {
			break
		}
	}

	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}

	if maxBits < 64 {
		// A value that changes when sign-extended from maxBits does not fit
		// the caller's narrower integer type.
		shiftExt := uint(64 - maxBits)
		if (result<<shiftExt)>>shiftExt != result {
			return 0, n, fmt.Errorf("leb128 value exceeds %d bits", maxBits)
		}
	}

	return result, n, nil
}

// LoadUint32 decodes an unsigned LEB128 value from the head of buf, also
// returning the number of bytes consumed.
func LoadUint32(buf []byte) (uint32, uint64, error) {
	v, n, err := loadUnsigned(buf, 32)
	return uint32(v), n, err
}

// LoadUint64 decodes an unsigned LEB128 value from the head of buf, also
// returning the number of bytes consumed.
func LoadUint64(buf []byte) (uint64, uint64, error) {
	return loadUnsigned(buf, 64)
}

// LoadInt32 decodes a signed LEB128 value from the head of buf, also
// returning the number of bytes consumed.
func LoadInt32(buf []byte) (int32, uint64, error) {
	v, n, err := loadSigned(buf, 32)
	return int32(v), n, err
}

// LoadInt64 decodes a signed LEB128 value from the head of buf, also
// returning the number of bytes consumed.
func LoadInt64(buf []byte) (int64, uint64, error) {
	return loadSigned(buf, 64)
}

// loadUnsigned and loadSigned duplicate decodeUnsigned/decodeSigned against a
// plain byte slice instead of an io.ByteReader, so Load* stay allocation-free
// (see TestLeb128NoAlloc): boxing a *byteSliceReader into an interface here
// would otherwise force it onto the heap.
func loadUnsigned(buf []byte, maxBits int) (uint64, uint64, error) {
	var result uint64
	var shift uint
	var n uint64
	for {
		if int(n) >= len(buf) {
			return 0, n, io.ErrUnexpectedEOF
		}
		b := buf[n]
		n++

		if shift >= uint(maxBits) {
			return 0, n, fmt.Errorf("leb128 value exceeds %d bits", maxBits)
		}

		cont := b&0x80 != 0
		payload := uint64(b & 0x7f)

		if shift+7 > 64 && payload>>(64-shift) != 0 {
			return 0, n, fmt.Errorf("leb128 overflows 64 bits")
		}
		result |= payload << shift

		if !cont {
			remaining := maxBits - int(shift)
			if remaining < 7 && remaining >= 0 {
				mask := uint64(1)<<uint(remaining) - 1
				if payload&^mask != 0 {
					return 0, n, fmt.Errorf("leb128 value exceeds %d bits", maxBits)
				}
			}
			return result, n, nil
		}
		shift += 7
	}
}

func loadSigned(buf []byte, maxBits int) (int64, uint64, error) {
	var result int64
	var shift uint
	var n uint64
	var b byte
	for {
		if int(n) >= len(buf) {
			return 0, n, io.ErrUnexpectedEOF
		}
		b = buf[n]
		n++

		if shift >= 64 {
			return 0, n, fmt.Errorf("leb128 overflows 64 bits")
		}

		result |= int64(b&0x7f) << shift
		shift += 7

		if b&0x80 == 0 {
			break
		}
	}

	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}

	if maxBits < 64 {
		shiftExt := uint(64 - maxBits)
		if (result<<shiftExt)>>shiftExt != result {
			return 0, n, fmt.Errorf("leb128 value exceeds %d bits", maxBits)
		}
	}

	return result, n, nil
}
