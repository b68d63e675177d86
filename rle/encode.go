package rle

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/odincare/dcmnav/dicomio"
)

// noop is the -128 control byte, used to pad segments to an even length.
const noop = 0x80

// EncodeSegment compresses data. Runs of two or more equal bytes become
// replicate runs, everything else literal runs of at most 128 bytes. The
// result is padded to an even length.
func EncodeSegment(data []byte) []byte {
	var buf bytes.Buffer
	for i := 0; i < len(data); {
		run := 1
		for i+run < len(data) && run < 128 && data[i+run] == data[i] {
			run++
		}
		if run > 1 {
			buf.WriteByte(byte(int8(1 - run)))
			buf.WriteByte(data[i])
			i += run
			continue
		}

		// Literal: stop in front of the next run of three.
		n := 1
		for i+n < len(data) && n < 128 {
			if i+n+2 < len(data) && data[i+n] == data[i+n+1] && data[i+n] == data[i+n+2] {
				break
			}
			n++
		}
		buf.WriteByte(byte(n - 1))
		buf.Write(data[i : i+n])
		i += n
	}
	if buf.Len()%2 == 1 {
		buf.WriteByte(noop)
	}
	return buf.Bytes()
}

// Encode builds a frame from 1 to MaxSegments uncompressed byte planes.
func Encode(planes [][]byte) ([]byte, error) {
	if len(planes) < 1 || len(planes) > MaxSegments {
		return nil, fmt.Errorf("rle: %d segments, expect 1 to %d", len(planes), MaxSegments)
	}
	e := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	e.WriteUInt32(uint32(len(planes)))
	e.WriteZeros(HeaderSize - 4)
	for i, plane := range planes {
		e.PutUInt32At(4+4*i, uint32(e.Len()))
		e.WriteBytes(EncodeSegment(plane))
	}
	return e.Bytes(), nil
}
