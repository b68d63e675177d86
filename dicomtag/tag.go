package dicomtag

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag 是一个定义了dicom文件中element 的类型的 <group, element> 元组
// 列表中的标准tags定义在tag_definitions.go, 也可以参考：
// ftp://medical.nema.org/medical/dicom/2011/11_06pu.pdf
type Tag struct {
	// Group 和 Element 是读取16进制对的结果 如 (0010,0010)
	Group   uint16
	Element uint16
}

// Compare 返回 -1/0/1 如果t<other | t==other | t>other，
// tag先由group排序，再由element排序
func (t Tag) Compare(other Tag) int {
	if t.Group < other.Group {
		return -1
	}
	if t.Group > other.Group {
		return 1
	}
	if t.Element < other.Element {
		return -1
	}
	if t.Element > other.Element {
		return 1
	}
	return 0
}

// IsPrivate reports whether the group number is odd, i.e. vendor defined.
func IsPrivate(group uint16) bool {
	return group%2 == 1
}

// IsPrivateCreator reports whether t reserves a block of private elements,
// i.e. (gggg,0010-00FF) with an odd gggg.
func (t Tag) IsPrivateCreator() bool {
	return IsPrivate(t.Group) && t.Element >= 0x0010 && t.Element <= 0x00ff
}

// IsGroupLength reports whether t is a (gggg,0000) group length element.
func (t Tag) IsGroupLength() bool {
	return t.Element == 0x0000
}

// String 返回一个如"(0008,1234)"格式的string
func (t Tag) String() string {
	return fmt.Sprintf("(%04x,%04x)", t.Group, t.Element)
}

// TagInfo 保存了Tag在DICOM标准中的detail information
type TagInfo struct {
	Tag Tag
	// Data 编码 如 "UL" "CS"
	VR string
	// 人类可读的Tag名称 如 "PatientName"
	Name string
	// 基数(Cardinality)
	VM VM
}

// MetadataGroup 是 Tag.Group 中 metadata tags的值.
const MetadataGroup = 2

// ItemSeqGroup is the group of Item and the delimitation items. Elements in
// this group are always encoded in implicit VR.
const ItemSeqGroup = 0xfffe

// Find looks up tag in the standard dictionary.
// 如果tag不是dicom standard的一部分或已经不再在dicom standard中 会返回错误
func Find(tag Tag) (TagInfo, error) {
	return FindIn(Standard(), tag)
}

// FindIn is like Find, but consults dict. Group length and private creator
// elements are resolved even when dict has no entry for them.
func FindIn(dict Dictionary, tag Tag) (TagInfo, error) {
	if entry, ok := dict.Lookup(tag); ok {
		return entry, nil
	}
	switch {
	case tag.IsGroupLength():
		// (0000-u-ffff,0000)	UL	GenericGroupLength	1	GENERIC
		return TagInfo{Tag: tag, VR: "UL", Name: "GenericGroupLength", VM: MustParseVM("1")}, nil
	case tag.IsPrivateCreator():
		return TagInfo{Tag: tag, VR: "LO", Name: "PrivateCreator", VM: MustParseVM("1")}, nil
	}
	return TagInfo{}, fmt.Errorf("could not find tag (0x%x, 0x%x) in dictionary", tag.Group, tag.Element)
}

// MustFind与Find相似, 但报错会panic停止程序
func MustFind(tag Tag) TagInfo {
	e, err := Find(tag)
	if err != nil {
		panic(fmt.Sprintf("tag %v not found: %s", tag, err))
	}
	return e
}

// FindByName将传入的name寻找到information。
// 例: FindByName("TransferSyntaxUID")
func FindByName(name string) (TagInfo, error) {
	for _, ent := range standardDict() {
		if ent.Name == name {
			return ent, nil
		}
	}
	return TagInfo{}, fmt.Errorf("could not find tag with name %s", name)
}

// DebugString 返回一个人类可读的tag的诊断字符串，格式如 "(group,element)[name]"
func DebugString(tag Tag) string {
	e, err := Find(tag)
	if err != nil {
		if IsPrivate(tag.Group) {
			return fmt.Sprintf("(%04x,%04x)[private]", tag.Group, tag.Element)
		}
		return fmt.Sprintf("(%04x,%04x)[??]", tag.Group, tag.Element)
	}
	return fmt.Sprintf("(%04x,%04x)[%s]", tag.Group, tag.Element, e.Name)
}

// ParseTag parses "(gggg,eeee)" or "gggg,eeee" into a Tag. Both halves are hex.
// TODO: support group ranges (6000-60FF,0803)
func ParseTag(tag string) (Tag, error) {
	parts := strings.Split(strings.Trim(strings.TrimSpace(tag), "()"), ",")
	if len(parts) != 2 {
		return Tag{}, fmt.Errorf("malformed tag %q", tag)
	}
	group, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 16, 16)
	if err != nil {
		return Tag{}, err
	}
	elem, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 16, 16)
	if err != nil {
		return Tag{}, err
	}
	return Tag{Group: uint16(group), Element: uint16(elem)}, nil
}
