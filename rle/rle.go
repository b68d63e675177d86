// Package rle implements the RLE Lossless pixel data encoding,
// transfer syntax 1.2.840.10008.1.2.5. PS3.5 Annex G
//
// A frame is a 64 byte header followed by up to 15 segments. Each segment
// holds one byte plane of the frame (e.g. the high bytes of 16 bit samples)
// compressed with a PackBits style byte run scheme.
package rle

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// HeaderSize is the size of the segment table at the start of a frame.
	HeaderSize = 64
	// MaxSegments is the largest segment count a header can describe.
	MaxSegments = 15
)

// ErrCorrupt is returned when a header or segment cannot be decoded.
var ErrCorrupt = errors.New("rle: corrupt data")

// Header is the segment table of one frame.
type Header struct {
	// Segments is the segment count. A count outside [1, MaxSegments] in
	// the stream is read as 1.
	Segments int
	// Offsets[i] is the position of segment i relative to the frame start.
	Offsets [MaxSegments]uint32
}

// ParseHeader reads the segment table: sixteen little endian uint32s, the
// count followed by the offsets.
func ParseHeader(frame []byte) (Header, error) {
	var h Header
	if len(frame) < HeaderSize {
		return h, fmt.Errorf("%w: frame is %d bytes, shorter than the header", ErrCorrupt, len(frame))
	}
	h.Segments = int(binary.LittleEndian.Uint32(frame))
	if h.Segments < 1 || h.Segments > MaxSegments {
		h.Segments = 1
	}
	for i := range h.Offsets {
		h.Offsets[i] = binary.LittleEndian.Uint32(frame[4+4*i:])
	}
	return h, nil
}

// segments slices frame into the segments h describes. The last segment runs
// to the end of the frame.
func (h Header) segments(frame []byte) ([][]byte, error) {
	segs := make([][]byte, h.Segments)
	for i := 0; i < h.Segments; i++ {
		start := int64(h.Offsets[i])
		end := int64(len(frame))
		if i+1 < h.Segments {
			end = int64(h.Offsets[i+1])
		}
		if start < HeaderSize || start > end || end > int64(len(frame)) {
			return nil, fmt.Errorf("%w: segment %d spans [%d, %d) in a %d byte frame", ErrCorrupt, i, start, end, len(frame))
		}
		segs[i] = frame[start:end]
	}
	return segs, nil
}

// DecodeSegment expands one segment. Control bytes are read as int8 n:
// 0..127 copies the next n+1 bytes, -127..-1 repeats the next byte -n+1
// times and -128 does nothing. If max > 0, decoding stops once max bytes
// have been produced, which skips the pad byte of odd length segments.
func DecodeSegment(seg []byte, max int) ([]byte, error) {
	var out bytes.Buffer
	if max > 0 {
		// a replicate run expands 2 bytes into at most 128
		out.Grow(min(max, 64*len(seg)))
	}
	for i := 0; i < len(seg); {
		if max > 0 && out.Len() >= max {
			break
		}
		n := int8(seg[i])
		i++
		switch {
		case n >= 0:
			count := int(n) + 1
			if i+count > len(seg) {
				return nil, fmt.Errorf("%w: literal run of %d at %d overruns the %d byte segment", ErrCorrupt, count, i-1, len(seg))
			}
			out.Write(seg[i : i+count])
			i += count
		case n != -128:
			if i >= len(seg) {
				return nil, fmt.Errorf("%w: replicate run at %d has no value byte", ErrCorrupt, i-1)
			}
			out.Write(bytes.Repeat(seg[i:i+1], int(-n)+1))
			i++
		}
	}
	b := out.Bytes()
	if max > 0 && len(b) > max {
		b = b[:max]
	}
	return b, nil
}

// Decode expands a frame into the concatenation of its segments.
func Decode(frame []byte) ([]byte, error) {
	return DecodeFrame(frame, 0)
}

// DecodeFrame is like Decode, but each segment must expand to exactly
// segmentLength bytes (rows * columns for standard layouts); anything past
// that is ignored. segmentLength <= 0 disables the check.
func DecodeFrame(frame []byte, segmentLength int) ([]byte, error) {
	h, err := ParseHeader(frame)
	if err != nil {
		return nil, err
	}
	segs, err := h.segments(frame)
	if err != nil {
		return nil, err
	}
	var out []byte
	if segmentLength > 0 {
		out = make([]byte, 0, min(segmentLength, 64*len(frame))*len(segs))
	}
	for i, seg := range segs {
		b, err := DecodeSegment(seg, segmentLength)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		if segmentLength > 0 && len(b) != segmentLength {
			return nil, fmt.Errorf("%w: segment %d expands to %d bytes, expect %d", ErrCorrupt, i, len(b), segmentLength)
		}
		out = append(out, b...)
	}
	return out, nil
}
