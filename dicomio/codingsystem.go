package dicomio

import (
	"fmt"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

// CodingSystemType selects one of the three component groups of a person
// name, each of which may use its own character set (PS3.5 6.2.1).
type CodingSystemType int

const (
	AlphabeticCodingSystem CodingSystemType = iota
	IdeographicCodingSystem
	PhoneticCodingSystem
)

// CodingSystem defines how a []byte is translated into a utf8 string. A nil
// decoder means the bytes are taken as is (7-bit ASCII is a subset of UTF-8).
type CodingSystem struct {
	// Repertoire is the SpecificCharacterSet value this was built from.
	Repertoire string

	Alphabetic  *encoding.Decoder
	Ideographic *encoding.Decoder
	Phonetic    *encoding.Decoder
}

// Decode converts raw into UTF-8 using the decoder for csType.
func (cs CodingSystem) Decode(raw []byte, csType CodingSystemType) (string, error) {
	var sd *encoding.Decoder
	switch csType {
	case AlphabeticCodingSystem:
		sd = cs.Alphabetic
	case IdeographicCodingSystem:
		sd = cs.Ideographic
	case PhoneticCodingSystem:
		sd = cs.Phonetic
	default:
		return "", fmt.Errorf("unknown coding system type %d", csType)
	}
	if sd == nil || len(raw) == 0 {
		return string(raw), nil
	}
	out, err := sd.Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// encodingsByTerm maps SpecificCharacterSet defined terms (PS3.3 C.12.1.1.2)
// to encodings.
var encodingsByTerm = map[string]encoding.Encoding{
	"ISO_IR 13":       japanese.ShiftJIS,
	"ISO_IR 100":      charmap.ISO8859_1,
	"ISO_IR 101":      charmap.ISO8859_2,
	"ISO_IR 109":      charmap.ISO8859_3,
	"ISO_IR 110":      charmap.ISO8859_4,
	"ISO_IR 126":      charmap.ISO8859_7,
	"ISO_IR 127":      charmap.ISO8859_6,
	"ISO_IR 138":      charmap.ISO8859_8,
	"ISO_IR 144":      charmap.ISO8859_5,
	"ISO_IR 148":      charmap.ISO8859_9,
	"ISO_IR 203":      charmap.ISO8859_15,
	"ISO_IR 192":      unicode.UTF8,
	"GB18030":         simplifiedchinese.GB18030,
	"GBK":             simplifiedchinese.GBK,
	"ISO 2022 IR 13":  japanese.ShiftJIS,
	"ISO 2022 IR 87":  japanese.ISO2022JP,
	"ISO 2022 IR 100": charmap.ISO8859_1,
	"ISO 2022 IR 101": charmap.ISO8859_2,
	"ISO 2022 IR 109": charmap.ISO8859_3,
	"ISO 2022 IR 110": charmap.ISO8859_4,
	"ISO 2022 IR 126": charmap.ISO8859_7,
	"ISO 2022 IR 127": charmap.ISO8859_6,
	"ISO 2022 IR 138": charmap.ISO8859_8,
	"ISO 2022 IR 144": charmap.ISO8859_5,
	"ISO 2022 IR 148": charmap.ISO8859_9,
	"ISO 2022 IR 149": korean.EUCKR,
	"ISO 2022 IR 159": japanese.ISO2022JP,
}

// labelsByTerm covers terms without a direct x/text encoding above; they are
// resolved through the WHATWG label table.
var labelsByTerm = map[string]string{
	"ISO_IR 166":      "tis-620",
	"ISO 2022 IR 166": "tis-620",
	"ISO_IR 58":       "gb2312",
	"ISO 2022 IR 58":  "gb2312",
}

func isDefaultTerm(term string) bool {
	return term == "" || term == "ISO_IR 6" || term == "ISO 2022 IR 6"
}

func lookupDecoder(term string) (*encoding.Decoder, error) {
	if isDefaultTerm(term) {
		return nil, nil
	}
	if e, ok := encodingsByTerm[term]; ok {
		return e.NewDecoder(), nil
	}
	label, ok := labelsByTerm[term]
	if !ok {
		label = term
	}
	e, _ := charset.Lookup(label)
	if e == nil {
		return nil, fmt.Errorf("unknown character set %q", term)
	}
	return e.NewDecoder(), nil
}

// ParseSpecificCharacterSet converts a list of character set names, as found
// in a SpecificCharacterSet element, into a CodingSystem.
//
// With one name, all three component groups use it. With more, they are
// assigned in order to the alphabetic, ideographic and phonetic groups, a
// missing one inheriting the previous group's decoder.
func ParseSpecificCharacterSet(encodingNames []string) (CodingSystem, error) {
	cs := CodingSystem{Repertoire: strings.Join(encodingNames, `\`)}
	if cs.Repertoire == "" {
		cs.Repertoire = DefaultCharacterRepertoire
	}
	var decoders []*encoding.Decoder
	for _, name := range encodingNames {
		d, err := lookupDecoder(strings.TrimSpace(name))
		if err != nil {
			return CodingSystem{}, err
		}
		decoders = append(decoders, d)
	}
	switch len(decoders) {
	case 0:
		return cs, nil
	case 1:
		cs.Alphabetic, cs.Ideographic, cs.Phonetic = decoders[0], decoders[0], decoders[0]
	case 2:
		cs.Alphabetic, cs.Ideographic, cs.Phonetic = decoders[0], decoders[1], decoders[1]
	default:
		cs.Alphabetic, cs.Ideographic, cs.Phonetic = decoders[0], decoders[1], decoders[2]
	}
	return cs, nil
}
