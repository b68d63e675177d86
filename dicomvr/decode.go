package dicomvr

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/odincare/dcmnav/dicomio"
	"github.com/odincare/dcmnav/dicomlog"
	"github.com/odincare/dcmnav/dicomtag"

	"github.com/sirupsen/logrus"
)

// Context is what a decode function knows about the value besides its bytes.
type Context struct {
	// Tag owns the value. Proper decode looks it up in Dictionary.
	Tag dicomtag.Tag
	// Dictionary defaults to dicomtag.Standard().
	Dictionary dicomtag.Dictionary
	// ByteOrder of binary numeric values. Defaults to little endian.
	ByteOrder binary.ByteOrder
	// Coding converts text of charset VRs to UTF-8. The zero value passes
	// bytes through.
	Coding dicomio.CodingSystem
}

func (ctx Context) dictionary() dicomtag.Dictionary {
	if ctx.Dictionary == nil {
		return dicomtag.Standard()
	}
	return ctx.Dictionary
}

func (ctx Context) byteOrder() binary.ByteOrder {
	if ctx.ByteOrder == nil {
		return binary.LittleEndian
	}
	return ctx.ByteOrder
}

// Mode selects the decode strategy.
type Mode int

const (
	// Lenient decodes values best effort, without any conformance check.
	Lenient Mode = iota
	// Strict checks every value against its VR and the VM of its tag.
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "lenient"
}

// Decode runs DecodeProper in Strict mode and DecodeImproper otherwise.
func (m Mode) Decode(vr *VR, ctx Context, raw []byte) ([]interface{}, error) {
	if m == Strict {
		return DecodeProper(vr, ctx, raw)
	}
	return DecodeImproper(vr, ctx, raw), nil
}

// DecodeImproper converts raw without checking it. Partial trailing bytes of
// binary numeric values are dropped, overlong text is kept and text that
// cannot be converted from its character set is passed through as is.
//
// SQ and item values are not handled here; they are decoded by the stream
// reader, and DecodeImproper returns raw as a single []byte for them.
func DecodeImproper(vr *VR, ctx Context, raw []byte) []interface{} {
	switch vr.Kind {
	case KindStringList, KindDate:
		s := decodeText(vr, ctx, raw)
		values := splitValues(vr, s)
		out := make([]interface{}, len(values))
		for i, v := range values {
			out[i] = v
		}
		return out
	case KindString:
		return []interface{}{trimText(decodeText(vr, ctx, raw))}
	case KindBytes:
		return []interface{}{decodeBytes(vr, ctx, raw)}
	default:
		if vr.Width > 0 {
			n := len(raw) / vr.Width
			return decodeNumbers(vr, ctx, raw[:n*vr.Width])
		}
		return []interface{}{raw}
	}
}

// DecodeProper converts raw and checks it against vr and the dictionary
// entry of ctx.Tag. Tags without an entry are decoded with DecodeImproper.
// Violations are reported as *EncodingError.
func DecodeProper(vr *VR, ctx Context, raw []byte) ([]interface{}, error) {
	info, err := dicomtag.FindIn(ctx.dictionary(), ctx.Tag)
	if err != nil {
		return DecodeImproper(vr, ctx, raw), nil
	}

	switch vr.Kind {
	case KindStringList, KindDate:
		s, err := decodeTextStrict(vr, ctx, raw)
		if err != nil {
			return nil, newEncodingError(ctx, info, vr, raw, "cannot decode %s text: %v", ctx.Coding.Repertoire, err)
		}
		values := splitValues(vr, s)
		if !info.VM.Satisfies(len(values)) {
			return nil, newEncodingError(ctx, info, vr, s, "%d values found, VM is %s", len(values), info.VM)
		}
		out := make([]interface{}, len(values))
		for i, v := range values {
			out[i] = v
			if v == "" {
				// PS3.5 6.4: a value of a multi valued field may be empty
				continue
			}
			if err := checkLength(vr, v); err != "" {
				return nil, newEncodingError(ctx, info, vr, v, "%s", err)
			}
			if check, ok := validators[vr.Code]; ok {
				if err := check(v); err != nil {
					return nil, newEncodingError(ctx, info, vr, v, "%v", err)
				}
			}
		}
		return out, nil

	case KindString:
		if !info.VM.Equals(1) && !info.VM.IsUndefined() {
			return nil, newEncodingError(ctx, info, vr, string(raw), "multiple values are not allowed")
		}
		s, err := decodeTextStrict(vr, ctx, raw)
		if err != nil {
			return nil, newEncodingError(ctx, info, vr, raw, "cannot decode %s text: %v", ctx.Coding.Repertoire, err)
		}
		s = trimText(s)
		if err := checkLength(vr, s); err != "" {
			return nil, newEncodingError(ctx, info, vr, s, "%s", err)
		}
		return []interface{}{s}, nil

	case KindBytes:
		return []interface{}{decodeBytes(vr, ctx, raw)}, nil

	case KindSequence, KindItem, KindPixelData:
		return []interface{}{raw}, nil
	}

	if len(raw)%vr.Width != 0 {
		return nil, newEncodingError(ctx, info, vr, raw, "length %d is not a multiple of %d", len(raw), vr.Width)
	}
	values := decodeNumbers(vr, ctx, raw)
	if !vr.Bulk && !info.VM.Satisfies(len(values)) {
		return nil, newEncodingError(ctx, info, vr, raw, "%d values found, VM is %s", len(values), info.VM)
	}
	return values, nil
}

// splitValues splits a multi valued text on '\' after removing the padding.
// An empty value field has no values at all.
func splitValues(vr *VR, s string) []string {
	s = strings.TrimRight(s, " \x00")
	if s == "" {
		return nil
	}
	values := strings.Split(s, `\`)
	for i, v := range values {
		if vr == PN {
			// Leading spaces are significant in person names.
			values[i] = strings.TrimRight(v, " \x00")
		} else {
			values[i] = strings.Trim(v, " \x00")
		}
	}
	return values
}

// trimText removes the trailing padding of a single valued text. Leading
// spaces are part of the value.
func trimText(s string) string {
	return strings.TrimRight(s, " \t\r\n\x00")
}

// checkLength returns a reason when v is longer than vr allows.
func checkLength(vr *VR, v string) string {
	if vr.MaxLength == 0 {
		return ""
	}
	parts := []string{v}
	if vr == PN {
		parts = strings.Split(v, "=")
	}
	for _, p := range parts {
		if n := utf8.RuneCountInString(p); n > vr.MaxLength {
			return fmt.Sprintf("value exceeds %d characters (%d)", vr.MaxLength, n)
		}
	}
	return ""
}

func decodeText(vr *VR, ctx Context, raw []byte) string {
	s, err := decodeTextStrict(vr, ctx, raw)
	if err != nil {
		dicomlog.Warnf(logrus.Fields{"tag": ctx.Tag.String(), "vr": vr.Code},
			"cannot decode %s text, keeping raw bytes: %v", ctx.Coding.Repertoire, err)
		return string(raw)
	}
	return s
}

// decodeTextStrict converts raw to UTF-8. Person names are converted one
// component group at a time, each with its own coding system.
func decodeTextStrict(vr *VR, ctx Context, raw []byte) (string, error) {
	if !vr.Charset {
		return string(raw), nil
	}
	if vr != PN {
		return ctx.Coding.Decode(raw, dicomio.AlphabeticCodingSystem)
	}
	groups := bytes.Split(raw, []byte("="))
	out := make([]string, len(groups))
	for i, g := range groups {
		csType := dicomio.AlphabeticCodingSystem
		switch i {
		case 1:
			csType = dicomio.IdeographicCodingSystem
		case 2:
			csType = dicomio.PhoneticCodingSystem
		}
		s, err := ctx.Coding.Decode(g, csType)
		if err != nil {
			return "", err
		}
		out[i] = s
	}
	return strings.Join(out, "="), nil
}

// decodeBytes returns raw for byte VRs. OW is returned in the byte order of
// this machine, swapping when the stream order differs.
func decodeBytes(vr *VR, ctx Context, raw []byte) []byte {
	if vr != OW || ctx.byteOrder() == dicomio.NativeByteOrder {
		return raw
	}
	out := make([]byte, len(raw))
	for i := 0; i+1 < len(raw); i += 2 {
		out[i], out[i+1] = raw[i+1], raw[i]
	}
	if len(raw)%2 == 1 {
		out[len(raw)-1] = raw[len(raw)-1]
	}
	return out
}

// decodeNumbers converts raw, whose length is a multiple of vr.Width.
func decodeNumbers(vr *VR, ctx Context, raw []byte) []interface{} {
	order := ctx.byteOrder()
	n := len(raw) / vr.Width
	values := make([]interface{}, 0, n)
	for i := 0; i < n; i++ {
		b := raw[i*vr.Width : (i+1)*vr.Width]
		switch vr.Kind {
		case KindUInt16List:
			values = append(values, order.Uint16(b))
		case KindInt16List:
			values = append(values, int16(order.Uint16(b)))
		case KindUInt32List:
			values = append(values, order.Uint32(b))
		case KindInt32List:
			values = append(values, int32(order.Uint32(b)))
		case KindUInt64List:
			values = append(values, order.Uint64(b))
		case KindInt64List:
			values = append(values, int64(order.Uint64(b)))
		case KindFloat32List:
			values = append(values, math.Float32frombits(order.Uint32(b)))
		case KindFloat64List:
			values = append(values, math.Float64frombits(order.Uint64(b)))
		case KindTagList:
			// (2byte group, 2byte elem)
			values = append(values, dicomtag.Tag{Group: order.Uint16(b[:2]), Element: order.Uint16(b[2:])})
		}
	}
	return values
}
