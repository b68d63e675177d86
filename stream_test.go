package dicom_test

import (
	"bytes"
	"compress/flate"
	"encoding/binary"

	"github.com/odincare/dcmnav"
	"github.com/odincare/dcmnav/dicomio"
	"github.com/odincare/dcmnav/dicomtag"
	"github.com/odincare/dcmnav/dicomuid"
	"github.com/odincare/dcmnav/dicomvr"
)

// stream builds encoded elements for tests.
type stream struct {
	e *dicomio.Encoder
}

func newStream(byteorder binary.ByteOrder, implicit dicomio.IsImplicitVR) *stream {
	return &stream{e: dicomio.NewBytesEncoder(byteorder, implicit)}
}

func explicitLE() *stream { return newStream(binary.LittleEndian, dicomio.ExplicitVR) }

func implicitLE() *stream { return newStream(binary.LittleEndian, dicomio.ImplicitVR) }

// sub returns an empty stream with the same encoding, for defined length
// items and sequences.
func (s *stream) sub() *stream {
	return newStream(s.e.TransferSyntax())
}

// header encodes a tag and length; group FFFE is always implicit. PS3.5 7.1
func (s *stream) header(tag dicomtag.Tag, vr string, vl uint32) *stream {
	s.e.WriteUInt16(tag.Group)
	s.e.WriteUInt16(tag.Element)
	_, implicit := s.e.TransferSyntax()
	if implicit == dicomio.ImplicitVR || tag.Group == dicomtag.ItemSeqGroup {
		s.e.WriteUInt32(vl)
		return s
	}
	s.e.WriteString(vr)
	if dicomvr.IsLongLength(vr) {
		s.e.WriteZeros(2) // 2 bytes for "future use" (0000H)
		s.e.WriteUInt32(vl)
	} else {
		s.e.WriteUInt16(uint16(vl))
	}
	return s
}

func (s *stream) raw(tag dicomtag.Tag, vr string, data []byte) *stream {
	s.header(tag, vr, uint32(len(data)))
	s.e.WriteBytes(data)
	return s
}

// text pads value to an even length, with NUL for UI and space otherwise.
func (s *stream) text(tag dicomtag.Tag, vr string, value string) *stream {
	if len(value)%2 == 1 {
		if vr == "UI" {
			value += "\x00"
		} else {
			value += " "
		}
	}
	return s.raw(tag, vr, []byte(value))
}

func (s *stream) u16(tag dicomtag.Tag, values ...uint16) *stream {
	sub := s.sub()
	for _, v := range values {
		sub.e.WriteUInt16(v)
	}
	return s.raw(tag, "US", sub.bytes())
}

func (s *stream) u32(tag dicomtag.Tag, values ...uint32) *stream {
	sub := s.sub()
	for _, v := range values {
		sub.e.WriteUInt32(v)
	}
	return s.raw(tag, "UL", sub.bytes())
}

// sequence writes a defined length sequence of defined length items.
func (s *stream) sequence(tag dicomtag.Tag, items ...[]byte) *stream {
	sub := s.sub()
	for _, item := range items {
		sub.raw(dicomtag.Item, "", item)
	}
	return s.raw(tag, "SQ", sub.bytes())
}

// undefinedSequence writes a sequence and items delimited by the
// delimitation items.
func (s *stream) undefinedSequence(tag dicomtag.Tag, vr string, items ...[]byte) *stream {
	s.header(tag, vr, dicom.UndefinedLength)
	for _, item := range items {
		s.header(dicomtag.Item, "", dicom.UndefinedLength)
		s.e.WriteBytes(item)
		s.header(dicomtag.ItemDelimitationItem, "", 0)
	}
	return s.header(dicomtag.SequenceDelimitationItem, "", 0)
}

// encapsulated writes pixel data as an offset table and fragments.
func (s *stream) encapsulated(offsets []uint32, fragments ...[]byte) *stream {
	s.header(dicomtag.PixelData, "OB", dicom.UndefinedLength)
	table := s.sub()
	for _, o := range offsets {
		table.e.WriteUInt32(o)
	}
	s.raw(dicomtag.Item, "", table.bytes())
	for _, f := range fragments {
		s.raw(dicomtag.Item, "", f)
	}
	return s.header(dicomtag.SequenceDelimitationItem, "", 0)
}

func (s *stream) bytes() []byte {
	return s.e.Bytes()
}

// metaGroup encodes the file meta elements, without the group length.
func metaGroup(transferSyntaxUID string) []byte {
	return explicitLE().
		raw(dicomtag.FileMetaInformationVersion, "OB", []byte{0, 1}).
		text(dicomtag.MediaStorageSOPClassUID, "UI", dicomuid.SecondaryCaptureImageStorage).
		text(dicomtag.MediaStorageSOPInstanceUID, "UI", "1.2.826.0.1.3680043.2.1125.1").
		text(dicomtag.TransferSyntaxUID, "UI", transferSyntaxUID).
		bytes()
}

// dicomFile wraps a data set body, already encoded in the given syntax, into
// a part 10 file.
func dicomFile(transferSyntaxUID string, body []byte) []byte {
	meta := metaGroup(transferSyntaxUID)
	out := explicitLE()
	out.e.WriteZeros(128)
	out.e.WriteString("DICM")
	out.u32(dicomtag.FileMetaInformationGroupLength, uint32(len(meta)))
	out.e.WriteBytes(meta)
	out.e.WriteBytes(body)
	return out.bytes()
}

func deflate(data []byte) []byte {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		panic(err)
	}
	if _, err := w.Write(data); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
