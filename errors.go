package dicom

import (
	"errors"
	"fmt"

	"github.com/odincare/dcmnav/dicomio"
	"github.com/odincare/dcmnav/dicomtag"
	"github.com/odincare/dcmnav/dicomvr"
)

// Errors returned by the Read functions. They are wrapped with the file
// offset where decoding stopped; test with errors.Is.
var (
	// ErrUnsupportedTransferSyntax: the TransferSyntaxUID is not one this
	// package knows how to decode.
	ErrUnsupportedTransferSyntax = dicomio.ErrUnsupportedTransferSyntax

	// ErrTruncatedStream: a header or value runs past the end of the data
	// or past the end of its enclosing sequence or item.
	ErrTruncatedStream = dicomio.ErrTruncated

	// ErrUnresolvedVR: an implicit VR element whose tag is not in the
	// dictionary, with no ReadOptions.FallbackVR.
	ErrUnresolvedVR = errors.New("unresolved VR")

	// ErrCorruptStream: the stream is structurally invalid, e.g. a non-item
	// inside a sequence or an undefined length on a VR that cannot have one.
	ErrCorruptStream = errors.New("corrupt stream")

	// ErrDecompression is matched by every *DecompressionError.
	ErrDecompression = errors.New("pixel data decompression failed")
)

// EncodingError is returned in strict mode when a value does not conform to
// its VR or to the multiplicity of its tag. Use errors.As to inspect it.
type EncodingError = dicomvr.EncodingError

// DecompressionError reports pixel data that could not be decompressed. It
// is never returned by the Read functions; it is recorded on the PixelData
// view, whose frames then hold the original compressed bytes.
type DecompressionError struct {
	TransferSyntax string
	Err            error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("%v (%s): %v", ErrDecompression, e.TransferSyntax, e.Err)
}

func (e *DecompressionError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDecompression) hold.
func (e *DecompressionError) Is(target error) bool { return target == ErrDecompression }

// Warning is a recoverable problem found while decoding in lenient mode, or
// one that strict mode tolerates (odd lengths, VR mismatches).
type Warning struct {
	Tag     dicomtag.Tag
	Offset  int64
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s at offset %d: %s", dicomtag.DebugString(w.Tag), w.Offset, w.Message)
}
