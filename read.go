package dicom

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/odincare/dcmnav/dicomio"
	"github.com/odincare/dcmnav/dicomlog"
	"github.com/odincare/dcmnav/dicomtag"
	"github.com/odincare/dcmnav/dicomuid"
	"github.com/odincare/dcmnav/dicomvr"

	"github.com/sirupsen/logrus"
)

// reader carries the per-file decode state around the cursor.
type reader struct {
	d    *dicomio.Decoder
	opts ReadOptions
	mode dicomvr.Mode
	dict dicomtag.Dictionary

	// ts is the transfer syntax of the current scope, with the character
	// repertoire in effect.
	ts       dicomio.TransferSyntax
	warnings []Warning
}

func newReader(d *dicomio.Decoder, options ReadOptions) *reader {
	return &reader{
		d:    d,
		opts: options,
		mode: options.mode(),
		dict: options.dictionary(),
	}
}

func (r *reader) warnf(tag dicomtag.Tag, offset int64, format string, args ...interface{}) {
	w := Warning{Tag: tag, Offset: offset, Message: fmt.Sprintf(format, args...)}
	r.warnings = append(r.warnings, w)
	dicomlog.Warnf(logrus.Fields{"tag": dicomtag.DebugString(tag), "offset": offset}, "%s", w.Message)
}

// endOfDataElement 是一个伪元素来导致caller停止读取input
var endOfDataElement = &Element{Tag: dicomtag.Tag{Group: 0x7fff, Element: 0x7fff}}

// ReadElement 读取一个DICOM data element，返回三种值.
//
// - 读取错误时，返回nil, 错误由d.Error()返回
//
// - 返回endOfDataElement 如果options.DropPixelData为true且
// element 是 pixel data， 或者遇到一个不小于options.StopAtTag的tag
//
// - 读取成功时，返回一个non-nil 和 non-endOfDataElement 值. Items and
// delimiters (group FFFE) are returned as header-only elements with VR "NA".
func ReadElement(d *dicomio.Decoder, options ReadOptions) *Element {
	return newReader(d, options).readElement(true)
}

func readTag(d *dicomio.Decoder) dicomtag.Tag {
	group := d.ReadUInt16()
	element := d.ReadUInt16()
	return dicomtag.Tag{Group: group, Element: element}
}

// readElement reads one element. Filters in r.opts only apply when top is
// set: nested elements are always read, or the rest of the file would be
// lost.
func (r *reader) readElement(top bool) *Element {
	d := r.d
	offset := d.BytesRead()
	tag := readTag(d)
	if d.Error() != nil {
		return nil
	}
	if top {
		if tag == dicomtag.PixelData && r.opts.DropPixelData {
			return endOfDataElement
		}
		if r.opts.StopAtTag != nil && tag.Compare(*r.opts.StopAtTag) >= 0 {
			return endOfDataElement
		}
	}

	// 组为0xFFFE 的 elements组应被编码为Implicit VR
	// DICOM 标准09. PS3.6 - Section 7.5: "Nesting of Data Sets"
	if tag.Group == dicomtag.ItemSeqGroup {
		vl := d.ReadUInt32()
		if d.Error() != nil {
			return nil
		}
		return &Element{Tag: tag, VR: "NA", Length: vl, Offset: offset, UndefinedLength: vl == UndefinedLength}
	}

	var vr string
	var vl uint32
	if _, implicit := d.TransferSyntax(); implicit == dicomio.ImplicitVR {
		vr = r.lookupVR(tag, offset)
		vl = d.ReadUInt32()
	} else {
		vr, vl = r.readExplicit(tag, offset)
	}
	if d.Error() != nil {
		return nil
	}

	elem := &Element{
		Tag:             tag,
		VR:              vr,
		Length:          vl,
		Offset:          offset,
		UndefinedLength: vl == UndefinedLength,
	}

	switch {
	case vl == UndefinedLength && vr == "UN" && tag != dicomtag.PixelData:
		// PS3.5 6.2.2: UN of undefined length holds a sequence whose items
		// are encoded in Implicit VR Little Endian.
		elem.VR = "SQ"
		d.PushTransferSyntax(binary.LittleEndian, dicomio.ImplicitVR)
		elem.Value = r.readSequence(vl)
		d.PopTransferSyntax()
	case tag == dicomtag.PixelData:
		elem.Value = []interface{}{r.readPixelData(vl)}
	case vr == "SQ":
		elem.Value = r.readSequence(vl)
	case vl == UndefinedLength:
		d.SetErrorf("%w: undefined length not allowed for VR=%s, tag %s", ErrCorruptStream, vr, dicomtag.DebugString(tag))
	default:
		if vl%2 != 0 {
			r.warnf(tag, offset, "odd value length %d for VR %s", vl, vr)
		}
		elem.Value = r.readValue(tag, vr, vl)
	}
	if d.Error() != nil {
		return nil
	}
	return elem
}

// lookupVR resolves the VR of tag from the dictionary, the fallback VR, or
// fails with ErrUnresolvedVR.
func (r *reader) lookupVR(tag dicomtag.Tag, offset int64) string {
	if info, err := dicomtag.FindIn(r.dict, tag); err == nil && info.VR != "" {
		// Entries such as "OB or OW" resolve to the first VR.
		return strings.Fields(info.VR)[0]
	}
	if r.opts.FallbackVR != "" {
		r.warnf(tag, offset, "tag not in dictionary, reading as %s", r.opts.FallbackVR)
		return r.opts.FallbackVR
	}
	r.d.SetErrorf("%w: %s is not in the dictionary", ErrUnresolvedVR, dicomtag.DebugString(tag))
	return ""
}

// VR由下两个连续的bytes代表
// VL根据VR的值
// PS3.5 7.1.2
func (r *reader) readExplicit(tag dicomtag.Tag, offset int64) (string, uint32) {
	d := r.d
	code := d.ReadString(2)
	vr, err := dicomvr.Lookup(code)
	if err != nil || vr == dicomvr.NA {
		resolved := r.lookupVR(tag, offset)
		if d.Error() == nil {
			r.warnf(tag, offset, "unknown VR %q, using %s", code, resolved)
		}
		return resolved, uint32(d.ReadUInt16())
	}

	var vl uint32
	if vr.LongLength {
		d.Skip(2) // 忽略两个bytes，给未来用(0000H)
		vl = d.ReadUInt32()
	} else {
		vl = uint32(d.ReadUInt16())
	}
	if info, err := dicomtag.FindIn(r.dict, tag); err == nil && tag != dicomtag.PixelData && !strings.Contains(info.VR, code) {
		r.warnf(tag, offset, "VR %s differs from dictionary VR %s", code, info.VR)
	}
	return code, vl
}

// readValue reads vl bytes and hands them to the VR decoder.
func (r *reader) readValue(tag dicomtag.Tag, code string, vl uint32) []interface{} {
	d := r.d
	raw := d.ReadBytes(int(vl))
	if d.Error() != nil {
		return nil
	}
	vr, err := dicomvr.Lookup(code)
	if err != nil {
		// A dictionary or FallbackVR naming a VR we don't know.
		vr = dicomvr.UN
	}
	byteorder, _ := d.TransferSyntax()
	ctx := dicomvr.Context{
		Tag:        tag,
		Dictionary: r.dict,
		ByteOrder:  byteorder,
		Coding:     d.CodingSystem(),
	}
	values, err := r.mode.Decode(vr, ctx, raw)
	if err != nil {
		d.SetError(err)
		return nil
	}
	return values
}

// readSequence reads the items of a sequence.
//
// Format:
//
//	Sequence := Item* SequenceDelimitationItem  (undefined length)
//	Sequence := Item*                           (vl bytes)
//	Item     := Item Any* ItemDelimitationItem  (undefined length)
//	Item     := Item Any*                       (vl bytes)
func (r *reader) readSequence(vl uint32) []interface{} {
	d := r.d
	if vl != UndefinedLength {
		d.PushLimit(int64(vl))
		defer d.PopLimit()
	}
	var items []interface{}
	for !d.EOF() {
		offset := d.BytesRead()
		// Item headers are always implicit.
		tag := readTag(d)
		itemLength := d.ReadUInt32()
		if d.Error() != nil {
			return nil
		}
		switch tag {
		case dicomtag.SequenceDelimitationItem:
			if vl != UndefinedLength {
				r.warnf(tag, offset, "delimitation item inside a sequence of defined length")
			}
			return items
		case dicomtag.Item:
			item := r.readItem(itemLength)
			if d.Error() != nil {
				return nil
			}
			items = append(items, item)
		default:
			d.SetErrorf("%w: found %s in a sequence, expect Item", ErrCorruptStream, dicomtag.DebugString(tag))
			return nil
		}
	}
	if vl == UndefinedLength && d.Error() == nil {
		d.SetErrorf("%w: sequence ends without a delimitation item", ErrTruncatedStream)
	}
	return items
}

// readItem decodes one item into a child data set. A SpecificCharacterSet
// inside the item only applies to the item.
func (r *reader) readItem(vl uint32) *DataSet {
	d := r.d
	saved := r.ts
	defer func() { r.ts = saved }()
	d.PushCodingSystem()
	defer d.PopCodingSystem()

	item := &DataSet{TransferSyntax: r.scopeSyntax()}
	if vl != UndefinedLength {
		d.PushLimit(int64(vl))
		defer d.PopLimit()
	}
	for !d.EOF() {
		elem := r.readElement(false)
		if d.Error() != nil {
			return item
		}
		if elem.Tag.Group == dicomtag.ItemSeqGroup {
			if elem.Tag == dicomtag.ItemDelimitationItem {
				if vl != UndefinedLength {
					r.warnf(elem.Tag, elem.Offset, "delimitation item inside an item of defined length")
				}
				return item
			}
			d.SetErrorf("%w: found %s inside an item", ErrCorruptStream, dicomtag.DebugString(elem.Tag))
			return item
		}
		r.applyCharacterSet(elem, item)
		item.Elements = append(item.Elements, elem)
	}
	if vl == UndefinedLength && d.Error() == nil {
		d.SetErrorf("%w: item ends without a delimitation item", ErrTruncatedStream)
	}
	return item
}

// scopeSyntax is r.ts with the VR mode and byte order currently in effect,
// which differ from the file's inside UN sequences.
func (r *reader) scopeSyntax() dicomio.TransferSyntax {
	ts := r.ts
	ts.ByteOrder, ts.Implicit = r.d.TransferSyntax()
	return ts
}

// applyCharacterSet switches the coding system for the rest of the scope
// when elem is a SpecificCharacterSet.
func (r *reader) applyCharacterSet(elem *Element, ds *DataSet) {
	if elem.Tag != dicomtag.SpecificCharacterSet {
		return
	}
	names, err := elem.GetStrings()
	if err == nil {
		var cs dicomio.CodingSystem
		if cs, err = dicomio.ParseSpecificCharacterSet(names); err == nil {
			r.d.SetCodingSystem(cs)
			r.ts.CharacterRepertoire = cs.Repertoire
			ds.TransferSyntax.CharacterRepertoire = cs.Repertoire
			return
		}
	}
	if r.opts.Strict {
		r.d.SetError(&EncodingError{
			Tag:    elem.Tag,
			Field:  "SpecificCharacterSet/codeString",
			Value:  strings.Join(names, `\`),
			Reason: err.Error(),
		})
		return
	}
	r.warnf(elem.Tag, elem.Offset, "ignoring SpecificCharacterSet: %v", err)
}

// nextGroupIs peeks at the group of the next tag, little endian.
func nextGroupIs(d *dicomio.Decoder, group uint16) bool {
	b := d.Peek(2)
	return b != nil && binary.LittleEndian.Uint16(b) == group
}

// ParseFileHeader从Dicom文件读取DICOM头和元数据(element的tag group == 2的)
// The decoder must be at the preamble, or at the first meta element for
// files written without one. 报错会通过d.Error()传入
func ParseFileHeader(d *dicomio.Decoder) []*Element {
	return newReader(d, ReadOptions{}).parseFileHeader()
}

func (r *reader) parseFileHeader() []*Element {
	d := r.d
	d.PushTransferSyntax(binary.LittleEndian, dicomio.ExplicitVR)
	defer d.PopTransferSyntax()

	switch {
	case IsDicom(d.Peek(132)):
		// 跳过前言和magic word
		d.Skip(132)
	case nextGroupIs(d, dicomtag.MetadataGroup):
		r.warnf(dicomtag.FileMetaInformationGroupLength, 0, "no preamble, file starts with the meta group")
	default:
		d.SetErrorf("%w: keyword 'DICM' not found in the header", ErrCorruptStream)
		return nil
	}

	first := r.readElement(false)
	if d.Error() != nil {
		return nil
	}
	if first.Tag.Group != dicomtag.MetadataGroup {
		d.SetErrorf("%w: file meta group not found, found %s", ErrCorruptStream, dicomtag.DebugString(first.Tag))
		return nil
	}
	metaElems := []*Element{first}

	if first.Tag != dicomtag.FileMetaInformationGroupLength {
		// Some writers omit the group length. Read while the group is 2.
		r.warnf(first.Tag, first.Offset, "FileMetaInformationGroupLength not found")
		for nextGroupIs(d, dicomtag.MetadataGroup) {
			elem := r.readElement(false)
			if d.Error() != nil {
				return nil
			}
			metaElems = append(metaElems, elem)
		}
		return metaElems
	}

	metaLength, err := first.GetUInt32()
	if err != nil {
		d.SetErrorf("%w: reading FileMetaInformationGroupLength: %v", ErrCorruptStream, err)
		return nil
	}
	d.PushLimit(int64(metaLength))
	defer d.PopLimit()
	for !d.EOF() {
		elem := r.readElement(false)
		if d.Error() != nil {
			return nil
		}
		metaElems = append(metaElems, elem)
		dicomlog.Vprintf(2, "dicom.ParseFileHeader: Meta element: %v, pos %v", elem, d.BytesRead())
	}
	return metaElems
}

func (r *reader) readDataSet() (*DataSet, error) {
	d := r.d
	ds := &DataSet{}

	var syntaxUID string
	headerless := false
	if IsDicom(d.Peek(132)) || nextGroupIs(d, dicomtag.MetadataGroup) {
		ds.Elements = r.parseFileHeader()
		if err := d.Error(); err != nil {
			return nil, err
		}
		elem, err := ds.FindElementByTag(dicomtag.TransferSyntaxUID)
		if err != nil {
			return nil, fmt.Errorf("%w: TransferSyntaxUID not found in the file meta group", ErrUnsupportedTransferSyntax)
		}
		if syntaxUID, err = elem.GetString(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedTransferSyntax, err)
		}
	} else {
		headerless = true
		syntaxUID = r.opts.defaultTransferSyntax()
		dicomlog.Vprintf(1, "dicom: no file meta group, reading as %s", dicomuid.NameOf(syntaxUID))
	}

	ts, err := dicomio.ResolveTransferSyntax(syntaxUID)
	if err != nil {
		return nil, err
	}
	r.ts = ts
	ds.TransferSyntax = ts
	// IsACRNema只认识implicit VR little endian
	if headerless && ts.IsImplicitVR() && ts.IsLittleEndian() && !IsACRNema(d.Peek(int(d.Len()))) {
		r.warnf(dicomtag.Tag{}, d.BytesRead(), "no file meta group, and the stream does not start like an ACR-NEMA one")
	}

	// 改变剩余文件的 transfer syntax
	if ts.IsDeflated() {
		inflated, err := inflate(d.Remaining())
		if err != nil {
			return nil, fmt.Errorf("%w: inflating deflated data set: %v", ErrCorruptStream, err)
		}
		d = dicomio.NewBytesDecoder(inflated, ts.ByteOrder, ts.Implicit)
		r.d = d
	} else {
		d.PushTransferSyntax(ts.ByteOrder, ts.Implicit)
		defer d.PopTransferSyntax()
	}

	// 读取elements数组
	for !d.EOF() {
		startLen := d.BytesRead()
		elem := r.readElement(true)
		if d.Error() != nil {
			break
		}
		if d.BytesRead() <= startLen { // 避免无限循环
			d.SetErrorf("%w: no progress reading element", ErrCorruptStream)
			break
		}
		if elem == endOfDataElement {
			// pixel data dropped by options, or StopAtTag reached
			break
		}
		if elem.Tag.Group == dicomtag.ItemSeqGroup {
			if elem.Tag == dicomtag.Item {
				d.SetErrorf("%w: item outside of a sequence", ErrCorruptStream)
				break
			}
			r.warnf(elem.Tag, elem.Offset, "stray delimitation item")
			continue
		}
		// SpecificCharacterSet 也许会出现在一个SQ中，在这种情况下,
		// 这个charset只作用于那个item, see readItem
		r.applyCharacterSet(elem, ds)
		if r.opts.keep(elem.Tag) {
			ds.Elements = append(ds.Elements, elem)
		}
	}
	if err := d.Error(); err != nil {
		return nil, err
	}
	ds.Warnings = r.warnings
	dicomlog.Debugf(logrus.Fields{"elements": len(ds.Elements), "warnings": len(ds.Warnings)},
		"decoded data set, %s", ts.Name)
	return ds, nil
}

func inflate(data []byte) ([]byte, error) {
	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()
	return io.ReadAll(fr)
}

// IsDicom reports whether data starts with the 128 byte preamble and "DICM".
func IsDicom(data []byte) bool {
	return len(data) >= 132 && string(data[128:132]) == "DICM"
}

// IsACRNema reports whether data looks like a headerless ACR-NEMA stream:
// an implicit VR little endian element of the command group or group 0008
// with a length that fits the data.
func IsACRNema(data []byte) bool {
	if len(data) < 8 || IsDicom(data) {
		return false
	}
	group := binary.LittleEndian.Uint16(data)
	if group != 0x0000 && group != 0x0008 {
		return false
	}
	length := binary.LittleEndian.Uint32(data[4:])
	return int64(length) <= int64(len(data)-8)
}

// ReadDataSetInBytes decodes a whole file held in memory. DICOM files are
// recognised by their preamble or a leading meta group, anything else is read
// with options.DefaultTransferSyntax.
//
// On error no data set is returned: the error is the first one encountered,
// wrapped with the file offset.
func ReadDataSetInBytes(data []byte, options ReadOptions) (*DataSet, error) {
	d := dicomio.NewBytesDecoder(data, binary.LittleEndian, dicomio.ExplicitVR)
	return newReader(d, options).readDataSet()
}

// ReadDataSet用io读取dicom file, see ReadDataSetInBytes.
func ReadDataSet(in io.Reader, options ReadOptions) (*DataSet, error) {
	d := dicomio.NewDecoder(in, binary.LittleEndian, dicomio.ExplicitVR)
	if err := d.Error(); err != nil {
		return nil, err
	}
	return newReader(d, options).readDataSet()
}

// ReadDataSetFromFile 读取文件内容到 DataSet. 是一层ReadDataSetInBytes的包装
func ReadDataSetFromFile(path string, options ReadOptions) (*DataSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ReadDataSetInBytes(data, options)
}
