package dicomio

import (
	"encoding/binary"
	"math"
)

// Encoder appends fixed width values to a byte slice in one byte order. It is
// the write side of Decoder, used to lay out RLE frame headers and to build
// element streams.
//
// Writing to memory cannot fail, so there is no error state.
type Encoder struct {
	buf       []byte
	byteorder binary.ByteOrder
	// implicit is only carried for callers that lay out element headers.
	implicit IsImplicitVR
}

// NewBytesEncoder创建一个新的encoder，数据写入内部缓冲区, 可以通过Bytes()获取
func NewBytesEncoder(byteorder binary.ByteOrder, implicit IsImplicitVR) *Encoder {
	return &Encoder{byteorder: byteorder, implicit: implicit}
}

// TransferSyntax returns the byte order and VR encoding of e.
func (e *Encoder) TransferSyntax() (binary.ByteOrder, IsImplicitVR) {
	return e.byteorder, e.implicit
}

// Len is the number of bytes written so far.
func (e *Encoder) Len() int { return len(e.buf) }

// Bytes returns the encoded data. It aliases the internal buffer until the
// next write.
func (e *Encoder) Bytes() []byte { return e.buf }

// grow appends n zero bytes and returns them.
func (e *Encoder) grow(n int) []byte {
	e.buf = append(e.buf, make([]byte, n)...)
	return e.buf[len(e.buf)-n:]
}

func (e *Encoder) WriteByte(v byte) error {
	e.buf = append(e.buf, v)
	return nil
}

func (e *Encoder) WriteUInt16(v uint16) { e.byteorder.PutUint16(e.grow(2), v) }

func (e *Encoder) WriteUInt32(v uint32) { e.byteorder.PutUint32(e.grow(4), v) }

func (e *Encoder) WriteInt32(v int32) { e.WriteUInt32(uint32(v)) }

func (e *Encoder) WriteFloat64(v float64) { e.byteorder.PutUint64(e.grow(8), math.Float64bits(v)) }

// PutUInt32At overwrites the 4 bytes at offset, which must already have been
// written. Used to fill in offsets once the data they point to is laid out.
func (e *Encoder) PutUInt32At(offset int, v uint32) {
	e.byteorder.PutUint32(e.buf[offset:offset+4], v)
}

// WriteString writes the string, without any length prefix or padding.
func (e *Encoder) WriteString(v string) { e.buf = append(e.buf, v...) }

// WriteZeros appends n zero bytes.
func (e *Encoder) WriteZeros(n int) { e.grow(n) }

// WriteBytes copies the given data to output.
func (e *Encoder) WriteBytes(v []byte) { e.buf = append(e.buf, v...) }
