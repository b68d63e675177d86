package dicom

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/odincare/dcmnav/dicomio"
	"github.com/odincare/dcmnav/dicomlog"
	"github.com/odincare/dcmnav/dicomtag"
	"github.com/odincare/dcmnav/rle"

	"github.com/sirupsen/logrus"
)

// PixelDataInfo is the value of a PixelData element as found in the stream.
type PixelDataInfo struct {
	// Encapsulated pixel data is a sequence of fragments (PS3.5 A.4);
	// otherwise Frames holds the whole value as one buffer.
	Encapsulated bool

	// OffsetTable is the raw first item of encapsulated pixel data and
	// Offsets its decoded form, the position of each frame's first fragment.
	OffsetTable []byte
	Offsets     []uint32 // BasicOffsetTable

	// Frames are the fragments, or the single native buffer.
	Frames [][]byte
}

func (p PixelDataInfo) String() string {
	size := 0
	for _, f := range p.Frames {
		size += len(f)
	}
	if p.Encapsulated {
		return fmt.Sprintf("[encapsulated, %d fragments, %d bytes, offsets %v]", len(p.Frames), size, p.Offsets)
	}
	return fmt.Sprintf("[native, %d bytes]", size)
}

// 读取一个Item object的元数据，w/o 读取它们进DataElement.
// 它是用来读取 pixel data的. endOfItems is set at the SequenceDelimitationItem.
func (r *reader) readRawItem() (data []byte, endOfItems bool) {
	d := r.d
	offset := d.BytesRead()
	// Item总是implicit的, PS3.6 7.5
	tag := readTag(d)
	vl := d.ReadUInt32()
	if d.Error() != nil {
		return nil, true
	}
	if tag == dicomtag.SequenceDelimitationItem {
		if vl != 0 {
			r.warnf(tag, offset, "SequenceDelimitationItem's VL != 0: %v", vl)
		}
		return nil, true
	}
	if tag != dicomtag.Item {
		d.SetErrorf("%w: expect Item in pixel data but found tag %v", ErrCorruptStream, dicomtag.DebugString(tag))
		return nil, true
	}
	if vl == UndefinedLength {
		d.SetErrorf("%w: expect defined-length item in pixel data", ErrCorruptStream)
		return nil, true
	}
	return d.ReadBytes(int(vl)), false
}

// readPixelData reads the value of a PixelData element.
//
// Encapsulated pixel data, vl == UndefinedLength, is laid out as
//
//	Item(BasicOffsetTable) Item(fragment)* SequenceDelimitationItem
//
// The basic offset table holds one uint32 per frame, the offset of the
// frame's first fragment item relative to the first fragment item. It may
// be empty.
func (r *reader) readPixelData(vl uint32) PixelDataInfo {
	d := r.d
	if vl != UndefinedLength {
		return PixelDataInfo{Frames: [][]byte{d.ReadBytes(int(vl))}}
	}

	image := PixelDataInfo{Encapsulated: true}
	table, endOfItems := r.readRawItem()
	if endOfItems {
		if d.Error() == nil {
			d.SetErrorf("%w: basic offset table not found", ErrCorruptStream)
		}
		return image
	}
	image.OffsetTable = table
	// Encapsulated syntaxes are all little endian.
	for i := 0; i+4 <= len(table); i += 4 {
		image.Offsets = append(image.Offsets, binary.LittleEndian.Uint32(table[i:]))
	}

	for {
		chunk, endOfItems := r.readRawItem()
		if d.Error() != nil || endOfItems {
			break
		}
		image.Frames = append(image.Frames, chunk)
	}
	return image
}

// SplitFrames splits concatenated pixel data into frames equal sized buffers.
//
// buffers holds either the concatenated data alone or, when leading is set,
// a leading buffer (an offset table) followed by the concatenated data. The
// leading buffer is kept as is at index 0. Any other layout, or frames <= 1,
// returns buffers unchanged, as does a frame count larger than the data. When
// the data size is not a multiple of frames the trailing bytes are dropped.
//
// The frames alias the input.
func SplitFrames(buffers [][]byte, frames int, leading bool) [][]byte {
	want := 1
	if leading {
		want = 2
	}
	if frames <= 1 || len(buffers) != want {
		return buffers
	}
	data := buffers[want-1]
	size := len(data) / frames
	if size == 0 {
		return buffers
	}
	out := make([][]byte, 0, frames+want-1)
	if leading {
		out = append(out, buffers[0])
	}
	for i := 0; i < frames; i++ {
		out = append(out, data[i*size:(i+1)*size:(i+1)*size])
	}
	return out
}

// PixelData is a view of the PixelData element of a data set together with
// the image attributes needed to interpret it.
type PixelData struct {
	Rows                      int
	Columns                   int
	SamplesPerPixel           int
	BitsAllocated             int
	BitsStored                int
	HighBit                   int
	PixelRepresentation       int
	PhotometricInterpretation string
	// NumberOfFrames is taken from (0028,0008), 1 when absent.
	NumberOfFrames int

	TransferSyntax dicomio.TransferSyntax

	// OffsetTable is the basic offset table item of encapsulated data.
	OffsetTable []byte

	// Frames holds one buffer per frame. Native data is in stream byte
	// order. RLE data is decompressed into its byte planes, one after the
	// other, as the segments are stored.
	Frames [][]byte

	// Compressed is set when Frames still hold encoded data: JPEG family
	// syntaxes, or RLE that failed to decompress.
	Compressed bool

	// DecompressionErr is a *DecompressionError when RLE decoding failed; the
	// frames are then the original buffers.
	DecompressionErr error
}

// PixelData builds the pixel data view of ds. Frames are split according to
// NumberOfFrames and RLE data is decompressed.
func (ds *DataSet) PixelData() (*PixelData, error) {
	elem, err := ds.FindElementByTag(dicomtag.PixelData)
	if err != nil {
		return nil, err
	}
	if len(elem.Value) != 1 {
		return nil, fmt.Errorf("found %d value(s) in pixel data (expect 1)", len(elem.Value))
	}
	info, ok := elem.Value[0].(PixelDataInfo)
	if !ok {
		return nil, fmt.Errorf("pixel data value is %T, expect PixelDataInfo", elem.Value[0])
	}

	pd := &PixelData{
		Rows:                      ds.intValue(dicomtag.Rows, 0),
		Columns:                   ds.intValue(dicomtag.Columns, 0),
		SamplesPerPixel:           ds.intValue(dicomtag.SamplesPerPixel, 1),
		BitsAllocated:             ds.intValue(dicomtag.BitsAllocated, 0),
		BitsStored:                ds.intValue(dicomtag.BitsStored, 0),
		HighBit:                   ds.intValue(dicomtag.HighBit, 0),
		PixelRepresentation:       ds.intValue(dicomtag.PixelRepresentation, 0),
		PhotometricInterpretation: ds.stringValue(dicomtag.PhotometricInterpretation),
		NumberOfFrames:            ds.intValue(dicomtag.NumberOfFrames, 1),
		TransferSyntax:            ds.TransferSyntax,
	}
	if pd.NumberOfFrames < 1 {
		pd.NumberOfFrames = 1
	}

	if !info.Encapsulated {
		pd.Frames = SplitFrames(info.Frames, pd.NumberOfFrames, false)
		n := pd.NumberOfFrames
		switch {
		case n <= 1 || len(info.Frames) != 1:
		case len(info.Frames[0]) < n:
			dicomlog.Warnf(logrus.Fields{"frames": n}, "pixel data of %d bytes cannot hold %d frames, keeping one buffer",
				len(info.Frames[0]), n)
		case len(info.Frames[0])%n != 0:
			dicomlog.Warnf(logrus.Fields{"frames": n}, "pixel data of %d bytes is not a multiple of the frame count, dropping %d bytes",
				len(info.Frames[0]), len(info.Frames[0])%n)
		}
		return pd, nil
	}

	pd.OffsetTable = info.OffsetTable
	pd.Frames = pd.assembleFrames(info)
	pd.Compressed = true
	if ds.TransferSyntax.IsRLE() {
		pd.decompressRLE()
	}
	return pd, nil
}

// assembleFrames groups the fragments of encapsulated data into frames.
func (pd *PixelData) assembleFrames(info PixelDataInfo) [][]byte {
	n := pd.NumberOfFrames
	fragments := info.Frames
	switch {
	case len(fragments) == n:
		return fragments
	case len(fragments) == 1:
		// One fragment holding every frame.
		split := SplitFrames([][]byte{info.OffsetTable, fragments[0]}, n, true)
		return split[1:]
	case len(info.Offsets) == n && n > 1:
		return groupFragments(fragments, info.Offsets)
	case n == 1:
		var frame []byte
		for _, f := range fragments {
			frame = append(frame, f...)
		}
		return [][]byte{frame}
	}
	dicomlog.Warnf(logrus.Fields{"fragments": len(fragments), "frames": n},
		"cannot map fragments to frames, keeping one buffer per fragment")
	return fragments
}

// groupFragments concatenates fragments into frames using the basic offset
// table. Offsets count the 8 byte item header of every fragment.
func groupFragments(fragments [][]byte, offsets []uint32) [][]byte {
	frames := make([][]byte, len(offsets))
	var pos uint32
	frame := 0
	for _, f := range fragments {
		for frame+1 < len(offsets) && pos >= offsets[frame+1] {
			frame++
		}
		frames[frame] = append(frames[frame], f...)
		pos += 8 + uint32(len(f))
	}
	return frames
}

// decompressRLE replaces the frames with their decompressed form. On failure
// all frames are left as they are and DecompressionErr is set.
func (pd *PixelData) decompressRLE() {
	segmentLength := pd.Rows * pd.Columns
	frames, err := rle.DecodeFrames(context.Background(), pd.Frames, segmentLength)
	if err != nil {
		pd.DecompressionErr = &DecompressionError{TransferSyntax: pd.TransferSyntax.UID, Err: err}
		dicomlog.Warnf(logrus.Fields{"transferSyntax": pd.TransferSyntax.Name},
			"keeping compressed pixel data: %v", err)
		return
	}
	pd.Frames = frames
	pd.Compressed = false
	dicomlog.Debugf(logrus.Fields{"frames": len(frames)}, "decompressed RLE pixel data")
}
