package dicomtag

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Dictionary maps a Tag to its canonical VR, name and multiplicity.
// Implementations must be safe for concurrent Lookup calls.
type Dictionary interface {
	Lookup(tag Tag) (TagInfo, bool)
}

// MapDictionary is a Dictionary backed by a map. It must not be modified
// once it is shared between decoders.
type MapDictionary map[Tag]TagInfo

// Lookup implements Dictionary.
func (m MapDictionary) Lookup(tag Tag) (TagInfo, bool) {
	e, ok := m[tag]
	return e, ok
}

// Chain consults each dictionary in order and returns the first hit. Use it
// to layer private or site-specific entries over Standard().
type Chain []Dictionary

// Lookup implements Dictionary.
func (c Chain) Lookup(tag Tag) (TagInfo, bool) {
	for _, d := range c {
		if d == nil {
			continue
		}
		if e, ok := d.Lookup(tag); ok {
			return e, true
		}
	}
	return TagInfo{}, false
}

var (
	tagDictOnce sync.Once
	tagDict     MapDictionary
)

func standardDict() MapDictionary {
	tagDictOnce.Do(func() {
		d, err := ReadDictionary(strings.NewReader(tagDictData))
		if err != nil {
			panic(fmt.Sprintf("dicomtag: built-in dictionary: %v", err))
		}
		tagDict = d
	})
	return tagDict
}

// Standard returns the built-in dictionary. It is built once, on first use.
func Standard() Dictionary {
	return standardDict()
}

// ReadDictionary parses a tab separated table with the columns
//
//	(gggg,eeee)	VR	Name	VM
//
// Lines starting with '#' are comments. Rows whose tag cannot be parsed (e.g.
// group ranges such as (60xx,3000)) are skipped.
func ReadDictionary(in io.Reader) (MapDictionary, error) {
	reader := csv.NewReader(in)
	reader.Comma = '\t'
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	dict := make(MapDictionary)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 4 {
			return nil, fmt.Errorf("dictionary row %v: expected 4 columns, found %d", row, len(row))
		}
		tag, err := ParseTag(row[0])
		if err != nil {
			continue
		}
		vm, err := ParseVM(row[3])
		if err != nil {
			return nil, fmt.Errorf("dictionary row %v: %w", row, err)
		}
		dict[tag] = TagInfo{
			Tag:  tag,
			VR:   strings.ToUpper(strings.TrimSpace(row[1])),
			Name: strings.TrimSpace(row[2]),
			VM:   vm,
		}
	}
	return dict, nil
}
