// Package dicomio provides utility functions for encoding and decoding
// low-level DICOM data types, such as integers and strings, and the transfer
// syntax and character repertoire tables they depend on.
package dicomio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// NativeByteOrder is the byte order of this machine.
var NativeByteOrder binary.ByteOrder = nativeByteOrder()

func nativeByteOrder() binary.ByteOrder {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// ErrTruncated is reported when a header or value extends past the end of the
// buffer, or past the enclosing scope set by PushLimit.
var ErrTruncated = errors.New("truncated stream")

// IsImplicitVR defines whether a 2-character VR tag is emitted with each
// data element.
type IsImplicitVR int

const (
	// ImplicitVR编码一个没有VR tag的data element
	// VR从dicom字典中读取 (tag -> VR)
	ImplicitVR IsImplicitVR = iota

	// ExplicitVR 保存了2 byte VR value inline w/ a data element
	ExplicitVR

	// UnknownVR is to be used when you never encode or decode DataElement.
	UnknownVR
)

type transferSyntaxStackEntry struct {
	byteorder binary.ByteOrder
	implicit  IsImplicitVR
}

type stackEntry struct {
	limit int64
	err   error
}

// Decoder is a cursor over an immutable byte buffer. The position only moves
// forward; nested scopes are expressed with PushLimit/PopLimit, which return
// the cursor to the exact end of the scope.
//
// Errors are sticky: the first one is kept, annotated with the file offset,
// and every later read returns a zero value.
type Decoder struct {
	data      []byte
	err       error
	byteorder binary.ByteOrder

	// “implicit”不是由decoder内部使用，是让decoder的使用者可以看见当前的transfer syntax
	implicit IsImplicitVR

	// 可以读进的最大位置 (exclusive)
	limit int64

	// Current absolute position in data.
	pos int64

	// 将dicom文件的原始数据解码为utf-8. Cf p3.5 6.1.2.1
	codingSystem CodingSystem

	// 旧transfer syntax栈，由{Push, Pop}TransferSyntax使用
	oldTransferSyntaxes []transferSyntaxStackEntry
	oldCodingSystems    []CodingSystem
	// 旧limit栈，由{Push, Pop}Limit使用, limits are stored in descending order.
	stateStack []stackEntry
}

// NewBytesDecoder creates a decoder over data. data must not be modified
// while the decoder, or any slice returned by ReadBytes, is in use.
func NewBytesDecoder(data []byte, byteorder binary.ByteOrder, implicit IsImplicitVR) *Decoder {
	return &Decoder{
		data:      data,
		byteorder: byteorder,
		implicit:  implicit,
		limit:     int64(len(data)),
	}
}

// NewDecoder reads "in" to the end and returns a decoder over its contents.
// A read failure is reported through Error().
func NewDecoder(in io.Reader, byteorder binary.ByteOrder, implicit IsImplicitVR) *Decoder {
	data, err := io.ReadAll(in)
	d := NewBytesDecoder(data, byteorder, implicit)
	if err != nil {
		d.SetError(err)
	}
	return d
}

// NewBytesDecoderWithTransferSyntax与NewBytesDecoder相似，
// 但需要一个transfer syntax UID 而不是一对<byteorder, IsImplicitVR>
func NewBytesDecoderWithTransferSyntax(data []byte, transferSyntaxUID string) *Decoder {
	endian, implicit, err := ParseTransferSyntaxUID(transferSyntaxUID)
	if err == nil {
		return NewBytesDecoder(data, endian, implicit)
	}
	d := NewBytesDecoder(data, binary.LittleEndian, ExplicitVR)
	d.SetError(err)
	return d
}

// SetError records err to be reported by Error() and Finish(). Only the first
// error is kept. The error is wrapped, so errors.Is and errors.As see through
// the offset annotation.
func (d *Decoder) SetError(err error) {
	if err != nil && d.err == nil {
		if err != io.EOF {
			err = fmt.Errorf("%w (file offset %d)", err, d.pos)
		}
		d.err = err
	}
}

// SetErrorf 与 SetError相似，but takes a printf format string. %w is honored.
func (d *Decoder) SetErrorf(format string, args ...interface{}) {
	d.SetError(fmt.Errorf(format, args...))
}

// TransferSyntax 返回目前的transfer syntax
func (d *Decoder) TransferSyntax() (byteorder binary.ByteOrder, implicit IsImplicitVR) {
	return d.byteorder, d.implicit
}

// PushTransferSyntax 暂时改变编码格式, PopTransferSyntax 恢复旧的编码格式
func (d *Decoder) PushTransferSyntax(byteorder binary.ByteOrder, implicit IsImplicitVR) {
	d.oldTransferSyntaxes = append(d.oldTransferSyntaxes, transferSyntaxStackEntry{d.byteorder, d.implicit})
	d.byteorder = byteorder
	d.implicit = implicit
}

// PopTransferSyntax 恢复最后一次调用PushTransferSyntax前的编码方式
func (d *Decoder) PopTransferSyntax() {
	e := d.oldTransferSyntaxes[len(d.oldTransferSyntaxes)-1]
	d.byteorder = e.byteorder
	d.implicit = e.implicit
	d.oldTransferSyntaxes = d.oldTransferSyntaxes[:len(d.oldTransferSyntaxes)-1]
}

// SetCodingSystem overrides the coding system used to decode text values.
func (d *Decoder) SetCodingSystem(cs CodingSystem) {
	d.codingSystem = cs
}

// CodingSystem returns the coding system currently in effect.
func (d *Decoder) CodingSystem() CodingSystem {
	return d.codingSystem
}

// PushCodingSystem saves the current coding system; PopCodingSystem restores
// it. A SpecificCharacterSet inside a sequence item only applies to that item.
func (d *Decoder) PushCodingSystem() {
	d.oldCodingSystems = append(d.oldCodingSystems, d.codingSystem)
}

// PopCodingSystem undoes the matching PushCodingSystem.
func (d *Decoder) PopCodingSystem() {
	last := len(d.oldCodingSystems) - 1
	d.codingSystem = d.oldCodingSystems[last]
	d.oldCodingSystems = d.oldCodingSystems[:last]
}

// PushLimit 暂时把缓冲尾(end of buffer)设为当前位置+bytes，并清除d.err.
// PopLimit 会恢复旧的limit和error
//
// 注意：新的limit必须比当前的limit小
func (d *Decoder) PushLimit(bytes int64) {
	newLimit := d.pos + bytes
	if bytes < 0 || newLimit > d.limit {
		d.SetErrorf("%w: trying to read %d bytes beyond buffer end", ErrTruncated, newLimit-d.limit)
		newLimit = d.pos
	}
	d.stateStack = append(d.stateStack, stackEntry{limit: d.limit, err: d.err})
	d.limit = newLimit
	d.err = nil
}

// PopLimit 恢复由PushLimit覆盖的limit. The cursor is moved to the end of
// the popped scope, so the caller resumes exactly where the scope ended.
func (d *Decoder) PopLimit() {
	if d.pos < d.limit {
		// d.pos < d.limit iff a parse error happened or the caller didn't fully
		// consume the scope. Skip over the rest.
		d.pos = d.limit
	}
	last := len(d.stateStack) - 1
	d.limit = d.stateStack[last].limit
	if d.stateStack[last].err != nil {
		d.err = d.stateStack[last].err
	}
	d.stateStack = d.stateStack[:last]
}

// Error returns the first error encountered so far.
func (d *Decoder) Error() error { return d.err }

// Finish必须在使用decoder之后用. It returns any error encountered, or an error
// if unread data remains.
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	if !d.EOF() {
		return errors.New("decoder found junk")
	}
	return nil
}

// EOF 检查如果没有可读数据了
func (d *Decoder) EOF() bool {
	return d.err != nil || d.limit-d.pos <= 0
}

// BytesRead returns the current absolute offset.
func (d *Decoder) BytesRead() int64 { return d.pos }

// Len returns the number of bytes left in the current scope.
func (d *Decoder) Len() int64 { return d.limit - d.pos }

// Peek returns the next n bytes without consuming them, or nil if fewer are
// available.
func (d *Decoder) Peek(n int) []byte {
	if d.err != nil || n < 0 || d.Len() < int64(n) {
		return nil
	}
	return d.data[d.pos : d.pos+int64(n)]
}

// Remaining returns everything left in the current scope and consumes it.
func (d *Decoder) Remaining() []byte {
	return d.ReadBytes(int(d.Len()))
}

func (d *Decoder) next(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.Len() < int64(n) {
		d.SetErrorf("%w: requested %d bytes, available %d", ErrTruncated, n, d.Len())
		return nil
	}
	b := d.data[d.pos : d.pos+int64(n)]
	d.pos += int64(n)
	return b
}

// ReadByte reads a single byte from the buffer. On EOF, it returns a junk
// value, and sets an error to be returned by Error() or Finish().
func (d *Decoder) ReadByte() byte {
	b := d.next(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *Decoder) ReadUInt16() uint16 {
	b := d.next(2)
	if b == nil {
		return 0
	}
	return d.byteorder.Uint16(b)
}

func (d *Decoder) ReadUInt32() uint32 {
	b := d.next(4)
	if b == nil {
		return 0
	}
	return d.byteorder.Uint32(b)
}

func (d *Decoder) ReadUInt64() uint64 {
	b := d.next(8)
	if b == nil {
		return 0
	}
	return d.byteorder.Uint64(b)
}

func (d *Decoder) ReadInt16() int16 { return int16(d.ReadUInt16()) }

func (d *Decoder) ReadInt32() int32 { return int32(d.ReadUInt32()) }

func (d *Decoder) ReadInt64() int64 { return int64(d.ReadUInt64()) }

func (d *Decoder) ReadFloat32() float32 { return math.Float32frombits(d.ReadUInt32()) }

func (d *Decoder) ReadFloat64() float64 { return math.Float64frombits(d.ReadUInt64()) }

// ReadString reads length bytes as a string without any charset conversion.
// It is meant for ASCII-only fields such as VR codes and magic words.
func (d *Decoder) ReadString(length int) string {
	return string(d.next(length))
}

// ReadBytes returns the next length bytes. The slice aliases the input buffer.
func (d *Decoder) ReadBytes(length int) []byte {
	return d.next(length)
}

// Skip advances the cursor by length bytes.
func (d *Decoder) Skip(length int) {
	d.next(length)
}
