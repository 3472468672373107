package binary

import (
	"encoding/binary"
	"math"

	"github.com/tetratelabs/wit/api"
	"github.com/tetratelabs/wit/internal/leb128"
)

func decodeF32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func decodeF64(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func encodeF32(v float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
	return b
}

func encodeF64(v float64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	return b
}

// readConstValue decodes the operand of a `const T value` instruction
// (spec.md §4.D). Only the types with a well-defined scalar/textual
// representation are constructible (api.NewSeq's Open Question stands).
func (c *cursor) readConstValue(ty api.InterfaceType) (api.InterfaceValue, error) {
	switch ty {
	case api.TypeInt:
		v, err := c.readI64()
		if err != nil {
			return api.InterfaceValue{}, err
		}
		return api.NewInt(v), nil
	case api.TypeFloat:
		v, err := c.readF64()
		if err != nil {
			return api.InterfaceValue{}, err
		}
		return api.NewFloat(v), nil
	case api.TypeString:
		s, err := c.readString()
		if err != nil {
			return api.InterfaceValue{}, err
		}
		return api.NewString(s), nil
	case api.TypeI32:
		v, n, err := leb128.LoadInt32(c.remaining())
		if err != nil {
			return api.InterfaceValue{}, c.malformed("invalid i32 const: " + err.Error())
		}
		c.pos += n
		return api.NewI32(v), nil
	case api.TypeI64:
		v, err := c.readI64()
		if err != nil {
			return api.InterfaceValue{}, err
		}
		return api.NewI64(v), nil
	case api.TypeF32:
		v, err := c.readF32()
		if err != nil {
			return api.InterfaceValue{}, err
		}
		return api.NewF32(v), nil
	case api.TypeF64:
		v, err := c.readF64()
		if err != nil {
			return api.InterfaceValue{}, err
		}
		return api.NewF64(v), nil
	default:
		return api.InterfaceValue{}, c.malformed("type " + ty.String() + " has no const representation")
	}
}

// encodeConstValue is the encoder-side dual of readConstValue.
func encodeConstValue(ty api.InterfaceType, v api.InterfaceValue) ([]byte, error) {
	switch ty {
	case api.TypeInt:
		return leb128.EncodeInt64(v.Int()), nil
	case api.TypeFloat:
		return encodeF64(v.Float()), nil
	case api.TypeString:
		return encodeString(v.String()), nil
	case api.TypeI32:
		return leb128.EncodeInt32(int32(v.Int())), nil
	case api.TypeI64:
		return leb128.EncodeInt64(v.Int()), nil
	case api.TypeF32:
		return encodeF32(float32(v.Float())), nil
	case api.TypeF64:
		return encodeF64(v.Float()), nil
	default:
		return nil, &constEncodeError{ty}
	}
}

type constEncodeError struct{ ty api.InterfaceType }

func (e *constEncodeError) Error() string {
	return "type " + e.ty.String() + " has no const representation"
}
