package dicom

import (
	"fmt"

	"github.com/odincare/dcmnav/dicomtag"
	"github.com/odincare/dcmnav/dicomvr"

	"github.com/gobwas/glob"
)

// Query 检查dataset是否符合QR condition "filter"。
// 如果是，就返回<true, 匹配的element, nil>
// 如果 "filter" 要求一个通用匹配(universal match) i.e. 空查询 empty query value 且 element的filter.Tag不存在，函数返回<true, nil, nil>
// 如果”filter“有误(malformed)，函数返回<false, nil, err reason>
//
// Query works on decoded data sets, so it can be used to select files or
// sequence items after ReadDataSet.
func Query(ds *DataSet, f *Element) (match bool, matchedElement *Element, err error) {
	if len(f.Value) > 1 && f.VR != "UI" && f.VR != "SQ" {
		// 过滤器不能包含多个值 P3.4 C2.2.2.1, 除了 UID list matching
		return false, nil, fmt.Errorf("multiple values found in filter '%v'", f)
	}
	if f.Tag == dicomtag.QueryRetrieveLevel || f.Tag == dicomtag.SpecificCharacterSet {
		return true, nil, nil
	}

	// 重复的tag任一匹配即可
	elems := ds.FindElements(f.Tag)
	if len(elems) == 0 {
		match, err = queryElement(nil, f)
		return match, nil, err
	}
	for _, elem := range elems {
		match, err = queryElement(elem, f)
		if err != nil {
			return false, nil, err
		}
		if match {
			return true, elem, nil
		}
	}
	return false, nil, nil
}

func queryElement(elem *Element, f *Element) (match bool, err error) {
	if isEmptyQuery(f) {
		// 通用匹配 一个空格代表通配符
		return true, nil
	}
	if elem == nil {
		return false, nil
	}
	if f.VR == "SQ" {
		return querySequence(elem, f)
	}
	if f.VR != elem.VR {
		return false, fmt.Errorf("VR mismatch: filter %v, value %v", f, elem)
	}

	if f.VR == "UI" {
		// 判断element的filter是否至少包含一个uid
		for _, expected := range f.Value {
			for _, value := range elem.Value {
				if value == expected {
					return true, nil
				}
			}
		}
		return false, nil
	}

	switch v := f.Value[0].(type) {
	case string:
		for _, value := range elem.Value {
			s, ok := value.(string)
			if !ok {
				continue
			}
			ok, err := matchString(v, s)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case int16, int32, int64, uint16, uint32, uint64, float32, float64, dicomtag.Tag:
		for _, value := range elem.Value {
			if value == v {
				return true, nil
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("unsupported filter value %v", f)
}

// querySequence matches when some item of elem matches every element of one
// of the filter items. Sequence matching PS3.4 C.2.2.2.6.
func querySequence(elem *Element, f *Element) (match bool, err error) {
	if elem.VR != "SQ" {
		return false, fmt.Errorf("VR mismatch: filter %v, value %v", f, elem)
	}
	filters, err := f.GetItems()
	if err != nil {
		return false, err
	}
	items, err := elem.GetItems()
	if err != nil {
		return false, err
	}
	for _, filter := range filters {
		for _, item := range items {
			ok, err := matchItem(item, filter)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

func matchItem(item *DataSet, filter *DataSet) (bool, error) {
	for _, sub := range filter.Elements {
		ok, _, err := Query(item, sub)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchString(pattern string, value string) (bool, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return false, err
	}
	return g.Match(value), nil
}

func isEmptyQuery(f *Element) bool {
	// 检查匹配格式是否是一串 “*”
	// "*" 与 空查询一样是通用匹配符 P3.4 C2.2.2.4
	isUniversalGlob := func(s string) bool {
		for i := 0; i < len(s); i++ {
			if s[i] != '*' {
				return false
			}
		}
		return true
	}

	if len(f.Value) == 0 {
		return true
	}
	switch dicomvr.KindOf(f.Tag, f.VR) {
	case dicomvr.KindBytes:
		if b, ok := f.Value[0].([]byte); ok && len(b) == 0 {
			return true
		}
	case dicomvr.KindString, dicomvr.KindDate, dicomvr.KindStringList:
		if pattern, ok := f.Value[0].(string); ok && isUniversalGlob(pattern) {
			// 空串也是
			return true
		}
	case dicomvr.KindSequence:
		for _, v := range f.Value {
			if item, ok := v.(*DataSet); ok && len(item.Elements) > 0 {
				return false
			}
		}
		return true
	}
	return false
}
