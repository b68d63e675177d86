// Package dicomvr holds the closed set of DICOM value representations and
// the two ways of turning a raw value field into typed values: DecodeProper,
// which checks the value against the dictionary entry of its tag, and
// DecodeImproper, which converts whatever is there.
//
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
package dicomvr

import (
	"fmt"

	"github.com/odincare/dcmnav/dicomtag"
)

// Kind 定义了 VR 解码后在go中的表示
type Kind int

const (
	// KindStringList means the element stores a list of strings, split on '\'
	KindStringList Kind = iota
	// KindBytes means the element stores a single []byte
	KindBytes
	// KindString means the element stores one string; '\' is not a delimiter
	KindString
	// KindUInt16List means the element stores a list of uint16s
	KindUInt16List
	// KindUInt32List means the element stores a list of uint32s
	KindUInt32List
	// KindUInt64List means the element stores a list of uint64s
	KindUInt64List
	// KindInt16List means the element stores a list of int16s
	KindInt16List
	// KindInt32List element stores a list of int32s
	KindInt32List
	// KindInt64List element stores a list of int64s
	KindInt64List
	// KindFloat32List element stores a list of float32s
	KindFloat32List
	// KindFloat64List element stores a list of float64s
	KindFloat64List
	// KindSequence means the element stores a list of nested data sets
	KindSequence
	// KindItem is the pseudo VR of Item and the delimitation items
	KindItem
	// KindTagList element stores a list of dicomtag.Tag
	KindTagList
	// KindDate means the element stores date strings. Use ParseDate() to
	// convert one into a time.Time.
	KindDate
	// KindPixelData means the element stores one PixelDataInfo
	KindPixelData
)

var kindNames = map[Kind]string{
	KindStringList:  "string list",
	KindBytes:       "bytes",
	KindString:      "string",
	KindUInt16List:  "uint16 list",
	KindUInt32List:  "uint32 list",
	KindUInt64List:  "uint64 list",
	KindInt16List:   "int16 list",
	KindInt32List:   "int32 list",
	KindInt64List:   "int64 list",
	KindFloat32List: "float32 list",
	KindFloat64List: "float64 list",
	KindSequence:    "sequence",
	KindItem:        "item",
	KindTagList:     "tag list",
	KindDate:        "date",
	KindPixelData:   "pixel data",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// VR describes one value representation.
type VR struct {
	// Code is the two letter code found in explicit VR streams, e.g. "ST".
	Code string
	// Name is the long name, e.g. "Short Text".
	Name string
	Kind Kind
	// MaxLength is the maximum number of characters of one value, or 0
	// when unbounded. For PN it applies to each component group.
	MaxLength int
	// Width is the byte size of one value of a binary numeric VR.
	Width int
	// LongLength VRs use a 2 byte reserved field and a 4 byte length in
	// explicit VR streams. PS3.5 7.1.2
	LongLength bool
	// Bulk VRs carry opaque data; proper decode does not check their VM.
	Bulk bool
	// Charset VRs are decoded through the SpecificCharacterSet in effect.
	Charset bool

	// field names the value in EncodingError field paths, e.g. "shortText".
	field string
}

func (vr *VR) String() string { return vr.Code }

var vrByCode = map[string]*VR{}

func newVR(code, name, field string, kind Kind) *VR {
	vr := &VR{Code: code, Name: name, Kind: kind, field: field}
	vrByCode[code] = vr
	return vr
}

func (vr *VR) maxLength(n int) *VR  { vr.MaxLength = n; return vr }
func (vr *VR) width(n int) *VR      { vr.Width = n; return vr }
func (vr *VR) longLength() *VR      { vr.LongLength = true; return vr }
func (vr *VR) bulk() *VR            { vr.Bulk = true; return vr }
func (vr *VR) specificCharset() *VR { vr.Charset = true; return vr }

// VR list obtained from PS3.5 table 6.2-1.
var (
	// text, multi valued
	AE = newVR("AE", "Application Entity", "applicationEntity", KindStringList).maxLength(16)
	AS = newVR("AS", "Age String", "ageString", KindStringList).maxLength(4)
	CS = newVR("CS", "Code String", "codeString", KindStringList).maxLength(16)
	DS = newVR("DS", "Decimal String", "decimalString", KindStringList).maxLength(16)
	IS = newVR("IS", "Integer String", "integerString", KindStringList).maxLength(12)
	LO = newVR("LO", "Long String", "longString", KindStringList).maxLength(64).specificCharset()
	PN = newVR("PN", "Person Name", "personName", KindStringList).maxLength(64).specificCharset()
	SH = newVR("SH", "Short String", "shortString", KindStringList).maxLength(16).specificCharset()
	UC = newVR("UC", "Unlimited Characters", "unlimitedCharacters", KindStringList).longLength().specificCharset()
	UI = newVR("UI", "Unique Identifier", "uniqueIdentifier", KindStringList).maxLength(64)

	// dates/time
	DA = newVR("DA", "Date", "date", KindDate).maxLength(8)
	DT = newVR("DT", "Date Time", "dateTime", KindStringList).maxLength(26)
	TM = newVR("TM", "Time", "time", KindStringList).maxLength(16)

	// text, single valued
	ST = newVR("ST", "Short Text", "shortText", KindString).maxLength(1024).specificCharset()
	LT = newVR("LT", "Long Text", "longText", KindString).maxLength(10240).specificCharset()
	UT = newVR("UT", "Unlimited Text", "unlimitedText", KindString).longLength().specificCharset()
	UR = newVR("UR", "Universal Resource Identifier", "universalResource", KindString).longLength()

	// binary numbers
	AT = newVR("AT", "Attribute Tag", "attributeTag", KindTagList).width(4)
	FL = newVR("FL", "Floating Point Single", "floatingPointSingle", KindFloat32List).width(4)
	FD = newVR("FD", "Floating Point Double", "floatingPointDouble", KindFloat64List).width(8)
	SS = newVR("SS", "Signed Short", "signedShort", KindInt16List).width(2)
	US = newVR("US", "Unsigned Short", "unsignedShort", KindUInt16List).width(2)
	SL = newVR("SL", "Signed Long", "signedLong", KindInt32List).width(4)
	UL = newVR("UL", "Unsigned Long", "unsignedLong", KindUInt32List).width(4)
	SV = newVR("SV", "Signed 64-bit Very Long", "signedVeryLong", KindInt64List).width(8).longLength()
	UV = newVR("UV", "Unsigned 64-bit Very Long", "unsignedVeryLong", KindUInt64List).width(8).longLength()

	// large binary sequences
	OB = newVR("OB", "Other Byte", "otherByte", KindBytes).longLength().bulk()
	OD = newVR("OD", "Other Double", "otherDouble", KindFloat64List).width(8).longLength().bulk()
	OF = newVR("OF", "Other Float", "otherFloat", KindFloat32List).width(4).longLength().bulk()
	OL = newVR("OL", "Other Long", "otherLong", KindBytes).longLength().bulk()
	OV = newVR("OV", "Other 64-bit Very Long", "otherVeryLong", KindBytes).longLength().bulk()
	OW = newVR("OW", "Other Word", "otherWord", KindBytes).longLength().bulk()
	UN = newVR("UN", "Unknown", "unknown", KindBytes).longLength().bulk()

	SQ = newVR("SQ", "Sequence of Items", "sequence", KindSequence).longLength()

	// NA is the pseudo VR of (FFFE,xxxx) items. It never appears in a stream.
	NA = newVR("NA", "Item", "item", KindItem)
)

// Lookup returns the VR with the given two letter code.
func Lookup(code string) (*VR, error) {
	vr, ok := vrByCode[code]
	if !ok {
		return nil, fmt.Errorf("unknown VR %q", code)
	}
	return vr, nil
}

// IsLongLength reports whether code uses the 4 byte length form in explicit
// VR streams. Unknown codes report false.
func IsLongLength(code string) bool {
	vr, ok := vrByCode[code]
	return ok && vr.LongLength
}

// KindOf returns the go representation of an element with <tag, code>.
// Unknown codes are treated as bytes.
func KindOf(tag dicomtag.Tag, code string) Kind {
	switch {
	case tag == dicomtag.Item:
		return KindItem
	case tag == dicomtag.PixelData:
		return KindPixelData
	}
	vr, ok := vrByCode[code]
	if !ok {
		return KindBytes
	}
	return vr.Kind
}
