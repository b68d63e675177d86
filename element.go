package dicom

import (
	"fmt"
	"strings"

	"github.com/odincare/dcmnav/dicomtag"
	"github.com/odincare/dcmnav/dicomvr"
)

// Element represents a single DICOM element. Elements returned by the Read
// functions are never modified by this package afterwards. Use NewElement()
// to create one denovo, e.g. as a Query filter.
type Element struct {
	// Tag is a pair of <group, element>. See tag_definitions.go for
	// possible values.
	Tag dicomtag.Tag

	// VR defines the encoding of Value[] in two-letter alphabets, e.g.,
	// "AE", "UL". See P3.5 6.2.
	//
	// For explicit VR streams this is the VR found in the file, even when it
	// disagrees with the dictionary (a Warning is recorded). For implicit VR
	// streams it comes from the dictionary, or ReadOptions.FallbackVR. UN
	// with undefined length is decoded, and reported, as SQ.
	VR string

	// List of values in the element. Their types depends on VR:
	//
	// If Tag==PixelData, len(Value)==1, and Value[0] is PixelDataInfo.
	// Else if VR=="SQ", Value[i] is a *DataSet, one per item.
	// Else if VR=="ST", "LT", "UT" or "UR", len(Value)==1 and Value[0] is a
	//   string; '\' is part of the text.
	// Else if VR=="DA", Value[] is a list of strings. Use dicomvr.ParseDate().
	// Else if VR=="US", Value[] is a list of uint16s
	// Else if VR=="UL", Value[] is a list of uint32s
	// Else if VR=="UV", Value[] is a list of uint64s
	// Else if VR=="SS", Value[] is a list of int16s
	// Else if VR=="SL", Value[] is a list of int32s
	// Else if VR=="SV", Value[] is a list of int64s
	// Else if VR=="FL" or "OF", Value[] is a list of float32s
	// Else if VR=="FD" or "OD", Value[] is a list of float64s
	// Else if VR=="AT", Value[] is a list of dicomtag.Tag
	// Else if VR=="OW", len(Value)==1, and Value[0] is []byte in the byte
	//   order of this machine.
	// Else if VR=="OB", "OL", "OV" or "UN", len(Value)==1, and Value[0] is
	//   []byte as found in the stream.
	// Else, Value[] is a list of strings.
	//
	// Note: Use dicomvr.KindOf() to map a VR string to its go representation.
	Value []interface{}

	// Length is the value length field as read, UndefinedLength included.
	Length uint32

	// Offset is the stream offset of the first byte of the tag. For
	// deflated files it is an offset into the inflated data set.
	Offset int64

	// UndefinedLength is true if, in the DICOM file, the element is encoded
	// as having undefined length, and is delimited by end-sequence or
	// end-item element.  This flag is meaningful only if VR=="SQ" or
	// Tag==PixelData.
	UndefinedLength bool
}

// UndefinedLength is the value length that marks delimited content.
const UndefinedLength uint32 = 0xffffffff

// NewElement用传入的tag和values来创建一个新的Element
// 每个传入的值必须符合 tag 的 VR, see Element.Value.
func NewElement(tag dicomtag.Tag, values ...interface{}) (*Element, error) {
	ti, err := dicomtag.Find(tag)
	if err != nil {
		return nil, err
	}

	e := Element{
		Tag:   tag,
		VR:    ti.VR,
		Value: make([]interface{}, len(values)),
	}

	kind := dicomvr.KindOf(tag, ti.VR)
	for i, v := range values {
		var ok bool
		switch kind {
		case dicomvr.KindStringList, dicomvr.KindString, dicomvr.KindDate:
			_, ok = v.(string)
		case dicomvr.KindBytes:
			_, ok = v.([]byte)
		case dicomvr.KindUInt16List:
			_, ok = v.(uint16)
		case dicomvr.KindUInt32List:
			_, ok = v.(uint32)
		case dicomvr.KindUInt64List:
			_, ok = v.(uint64)
		case dicomvr.KindInt16List:
			_, ok = v.(int16)
		case dicomvr.KindInt32List:
			_, ok = v.(int32)
		case dicomvr.KindInt64List:
			_, ok = v.(int64)
		case dicomvr.KindFloat32List:
			_, ok = v.(float32)
		case dicomvr.KindFloat64List:
			_, ok = v.(float64)
		case dicomvr.KindPixelData:
			_, ok = v.(PixelDataInfo)
		case dicomvr.KindTagList:
			_, ok = v.(dicomtag.Tag)
		case dicomvr.KindSequence:
			_, ok = v.(*DataSet)
		}
		if !ok {
			return nil, fmt.Errorf("%v: wrong payload type for NewElement: expect %v, but found %v",
				dicomtag.DebugString(tag), kind, v)
		}
		e.Value[i] = v
	}
	return &e, nil
}

// MustNewElement is similar to NewElement, but it crashes the process on any error
func MustNewElement(tag dicomtag.Tag, values ...interface{}) *Element {
	elem, err := NewElement(tag, values...)
	if err != nil {
		panic(fmt.Sprintf("Failed to create element with tag %v: %v", tag, err))
	}
	return elem
}

// single returns the only value of e, which must be of type T.
func single[T any](e *Element) (T, error) {
	var zero T
	if len(e.Value) != 1 {
		return zero, fmt.Errorf("found %d value(s), expect 1: %v", len(e.Value), e)
	}
	v, ok := e.Value[0].(T)
	if !ok {
		return zero, fmt.Errorf("%T value not found in %v", zero, e)
	}
	return v, nil
}

// all returns every value of e, each of which must be of type T.
func all[T any](e *Element) ([]T, error) {
	values := make([]T, 0, len(e.Value))
	for _, v := range e.Value {
		t, ok := v.(T)
		if !ok {
			var zero T
			return nil, fmt.Errorf("%T value not found in %v", zero, e)
		}
		values = append(values, t)
	}
	return values, nil
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// GetUInt32 gets a uint32 value from an element.  It returns an error if the
// element contains zero or >1 values, or the value is not a uint32.
func (e *Element) GetUInt32() (uint32, error) { return single[uint32](e) }

// MustGetUInt32 is similar to GetUInt32, but panics on error.
func (e *Element) MustGetUInt32() uint32 { return must(e.GetUInt32()) }

// GetUInt16 is GetUInt32 for US values.
func (e *Element) GetUInt16() (uint16, error) { return single[uint16](e) }

func (e *Element) MustGetUInt16() uint16 { return must(e.GetUInt16()) }

// GetString gets the string value of a single valued element, e.g. ST or a
// CS with VM 1.
func (e *Element) GetString() (string, error) { return single[string](e) }

func (e *Element) MustGetString() string { return must(e.GetString()) }

// GetStrings 返回 存在element中的string数组，
// 如果 e.Tag的VR不是string将返回错误
func (e *Element) GetStrings() ([]string, error) { return all[string](e) }

func (e *Element) GetUint32s() ([]uint32, error) { return all[uint32](e) }

func (e *Element) MustGetUint32s() []uint32 { return must(e.GetUint32s()) }

func (e *Element) GetUint16s() ([]uint16, error) { return all[uint16](e) }

func (e *Element) MustGetUint16s() []uint16 { return must(e.GetUint16s()) }

// GetItems returns the items of a sequence element.
func (e *Element) GetItems() ([]*DataSet, error) { return all[*DataSet](e) }

// maxIndent caps the indentation of deeply nested sequences. Nesting depth
// itself is not limited.
const maxIndent = 32

func elementString(e *Element, nestLevel int) string {
	indent := strings.Repeat("  ", min(nestLevel, maxIndent))
	sVl := ""
	if e.UndefinedLength {
		sVl = "u"
	}
	s := fmt.Sprintf("%s%s %s %s", indent, dicomtag.DebugString(e.Tag), e.VR, sVl)
	if e.VR == "SQ" {
		s += fmt.Sprintf(" (#%d)[\n", len(e.Value))
		for i, v := range e.Value {
			item, ok := v.(*DataSet)
			if !ok {
				continue
			}
			s += fmt.Sprintf("%s  item %d\n", indent, i)
			for _, sub := range item.Elements {
				s += elementString(sub, nestLevel+2) + "\n"
			}
		}
		return s + indent + "]"
	}

	var sv string
	switch {
	case len(e.Value) == 1:
		switch v := e.Value[0].(type) {
		case []byte:
			sv = fmt.Sprintf("[%d bytes]", len(v))
		case PixelDataInfo:
			sv = v.String()
		default:
			sv = fmt.Sprintf("%v", e.Value)
		}
	default:
		sv = fmt.Sprintf("(%d)%v", len(e.Value), e.Value)
	}
	if len(sv) > 1024 {
		sv = sv[:1024] + "(...)"
	}
	return s + " " + sv
}

// Stringer
func (e *Element) String() string {
	return elementString(e, 0)
}
