package dicom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/odincare/dcmnav/dicomio"
	"github.com/odincare/dcmnav/dicomtag"
)

// DataSet is an ordered list of elements: a whole file, or one item of a
// sequence. Elements are in stream order and duplicates are kept.
type DataSet struct {
	// 与pydicom不同， Elements仍包含元数据（Tag.Group==2的)
	Elements []*Element

	// TransferSyntax in effect while the data set was decoded. Its
	// CharacterRepertoire reflects the SpecificCharacterSet of this scope.
	TransferSyntax dicomio.TransferSyntax

	// Warnings collected while decoding, in stream order. Only the root data
	// set of a file carries them.
	Warnings []Warning
}

// FindElementByName 寻找指定name的element
// 如“PatientName”
func (f *DataSet) FindElementByName(name string) (*Element, error) {
	return FindElementByName(f.Elements, name)
}

// FindElementByTag finds an element from the dataset given its tag, such as
// Tag{0x0010, 0x0010}.
func (f *DataSet) FindElementByTag(tag dicomtag.Tag) (*Element, error) {
	return FindElementByTag(f.Elements, tag)
}

// FindElements returns every element with the given tag, in stream order.
func (f *DataSet) FindElements(tag dicomtag.Tag) []*Element {
	var elems []*Element
	for _, elem := range f.Elements {
		if elem.Tag == tag {
			elems = append(elems, elem)
		}
	}
	return elems
}

// String prints one element per line, items indented under their sequence.
func (f *DataSet) String() string {
	var b strings.Builder
	for _, elem := range f.Elements {
		b.WriteString(elem.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// intValue reads the first value of tag as an int: binary integers and IS
// strings are accepted. def is returned when the element is missing or
// unusable.
func (f *DataSet) intValue(tag dicomtag.Tag, def int) int {
	elem, err := f.FindElementByTag(tag)
	if err != nil || len(elem.Value) == 0 {
		return def
	}
	switch v := elem.Value[0].(type) {
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return def
		}
		return n
	}
	return def
}

func (f *DataSet) stringValue(tag dicomtag.Tag) string {
	elem, err := f.FindElementByTag(tag)
	if err != nil || len(elem.Value) == 0 {
		return ""
	}
	s, _ := elem.Value[0].(string)
	return s
}

// FindElementByName finds an element with the given Element.Name in
// "elements" If not found, return an error
func FindElementByName(elems []*Element, name string) (*Element, error) {
	t, err := dicomtag.FindByName(name)
	if err != nil {
		return nil, err
	}
	for _, elem := range elems {
		if elem.Tag == t.Tag {
			return elem, nil
		}
	}
	return nil, fmt.Errorf("could not find element named '%s' in dicom file", name)
}

// FindElementByTag finds an element with the given Element.Tag in
// "elements" If not found, returns an error.
func FindElementByTag(elems []*Element, tag dicomtag.Tag) (*Element, error) {
	for _, elem := range elems {
		if elem.Tag == tag {
			return elem, nil
		}
	}
	return nil, fmt.Errorf("%s: element not found", dicomtag.DebugString(tag))
}
