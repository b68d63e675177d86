package dicom

import (
	"github.com/odincare/dcmnav/dicomtag"
	"github.com/odincare/dcmnav/dicomuid"
	"github.com/odincare/dcmnav/dicomvr"
)

// ReadOptions定义DataSets和Element的读取格式
type ReadOptions struct {
	// Strict checks every value against its VR and the multiplicity of its
	// tag; the first violation fails the read with an *EncodingError.
	// Otherwise values are decoded best effort.
	Strict bool

	// DefaultTransferSyntax is used for streams without a file meta group
	// (ACR-NEMA). Empty means Implicit VR Little Endian.
	DefaultTransferSyntax string

	// FallbackVR is used for implicit VR elements missing from the
	// dictionary, typically "UN". Empty makes them fail with ErrUnresolvedVR.
	FallbackVR string

	// Dictionary resolves implicit VRs and multiplicities. Defaults to
	// dicomtag.Standard().
	Dictionary dicomtag.Dictionary

	// DropPixelData会让ReadDataSet跳过PixelData(bulk image)
	DropPixelData bool

	// ReturnTags 是一个tag白名单, only top-level elements listed are kept.
	ReturnTags []dicomtag.Tag

	// StopAtTag 使读取在遇到一个不小于它的top-level tag时停止
	StopAtTag *dicomtag.Tag
}

func (o ReadOptions) mode() dicomvr.Mode {
	if o.Strict {
		return dicomvr.Strict
	}
	return dicomvr.Lenient
}

func (o ReadOptions) dictionary() dicomtag.Dictionary {
	if o.Dictionary == nil {
		return dicomtag.Standard()
	}
	return o.Dictionary
}

func (o ReadOptions) defaultTransferSyntax() string {
	if o.DefaultTransferSyntax == "" {
		return dicomuid.ImplicitVRLittleEndian
	}
	return o.DefaultTransferSyntax
}

// keep reports whether a top-level element passes ReturnTags.
func (o ReadOptions) keep(tag dicomtag.Tag) bool {
	return o.ReturnTags == nil || tagInList(tag, o.ReturnTags)
}

func tagInList(tag dicomtag.Tag, tags []dicomtag.Tag) bool {
	for _, t := range tags {
		if tag == t {
			return true
		}
	}
	return false
}
