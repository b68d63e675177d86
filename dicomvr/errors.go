package dicomvr

import (
	"fmt"

	"github.com/odincare/dcmnav/dicomtag"
)

// EncodingError is returned by DecodeProper when a value does not conform to
// its VR or to the multiplicity of its tag.
type EncodingError struct {
	Tag dicomtag.Tag
	// Field is "<element name>/<value field>", e.g. "PatientName/shortText".
	Field string
	// Value is the offending value: a string, or the raw []byte when the
	// value could not be converted at all.
	Value  interface{}
	Reason string
}

func (e *EncodingError) Error() string {
	v := e.Value
	if s, ok := v.(string); ok {
		if len(s) > 64 {
			s = s[:64] + "..."
		}
		v = fmt.Sprintf("%q", s)
	} else if b, ok := v.([]byte); ok {
		v = fmt.Sprintf("%d bytes", len(b))
	}
	return fmt.Sprintf("%s %s: %s (value %v)", e.Tag, e.Field, e.Reason, v)
}

func newEncodingError(ctx Context, info dicomtag.TagInfo, vr *VR, value interface{}, format string, args ...interface{}) *EncodingError {
	name := info.Name
	if name == "" {
		name = ctx.Tag.String()
	}
	return &EncodingError{
		Tag:    ctx.Tag,
		Field:  name + "/" + vr.field,
		Value:  value,
		Reason: fmt.Sprintf(format, args...),
	}
}
