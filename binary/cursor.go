package binary

import (
	"unicode/utf8"

	"github.com/tetratelabs/wit/api"
	"github.com/tetratelabs/wit/internal/leb128"
)

// cursor tracks a decode position within buf, so every failure can report
// the byte offset at which it occurred (spec.md §4.B's Malformed{offset,...}).
type cursor struct {
	buf []byte
	pos uint64
}

func (c *cursor) malformed(reason string) error {
	return &api.Malformed{Offset: c.pos, Reason: reason}
}

func (c *cursor) remaining() []byte {
	if c.pos >= uint64(len(c.buf)) {
		return nil
	}
	return c.buf[c.pos:]
}

func (c *cursor) readByte() (byte, error) {
	if c.pos >= uint64(len(c.buf)) {
		return 0, c.malformed("unexpected end of input")
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

func (c *cursor) readBytes(n uint64) ([]byte, error) {
	if c.pos+n > uint64(len(c.buf)) {
		return nil, c.malformed("unexpected end of input")
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) readU32() (uint32, error) {
	v, n, err := leb128.LoadUint32(c.remaining())
	if err != nil {
		return 0, c.malformed("invalid varint: " + err.Error())
	}
	c.pos += n
	return v, nil
}

func (c *cursor) readI64() (int64, error) {
	v, n, err := leb128.LoadInt64(c.remaining())
	if err != nil {
		return 0, c.malformed("invalid signed varint: " + err.Error())
	}
	c.pos += n
	return v, nil
}

func (c *cursor) readF32() (float32, error) {
	b, err := c.readBytes(4)
	if err != nil {
		return 0, err
	}
	return decodeF32(b), nil
}

func (c *cursor) readF64() (float64, error) {
	b, err := c.readBytes(8)
	if err != nil {
		return 0, err
	}
	return decodeF64(b), nil
}

func (c *cursor) readString() (string, error) {
	length, err := c.readU32()
	if err != nil {
		return "", err
	}
	b, err := c.readBytes(uint64(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", c.malformed("invalid utf-8 in string")
	}
	return string(b), nil
}

func (c *cursor) readInterfaceType() (api.InterfaceType, error) {
	b, err := c.readByte()
	if err != nil {
		return 0, err
	}
	if !api.IsValidInterfaceType(b) {
		return 0, c.malformed("unknown interface type tag")
	}
	return api.InterfaceType(b), nil
}

func (c *cursor) readTypeVec() ([]api.InterfaceType, error) {
	n, err := c.readU32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]api.InterfaceType, n)
	for i := range out {
		out[i], err = c.readInterfaceType()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
