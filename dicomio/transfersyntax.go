package dicomio

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/odincare/dcmnav/dicomuid"
)

// ErrUnsupportedTransferSyntax is returned for UIDs that are not transfer
// syntaxes this package can decode the data set of.
var ErrUnsupportedTransferSyntax = errors.New("unsupported transfer syntax")

// DefaultCharacterRepertoire is the repertoire in effect until a
// SpecificCharacterSet element says otherwise (PS3.5 6.1.2.1).
const DefaultCharacterRepertoire = "ISO_IR 6"

// Compression identifies how pixel data is encoded under a transfer syntax.
type Compression int

const (
	NoCompression Compression = iota
	// Deflate compresses the whole data set after the file meta group.
	Deflate
	RLE
	JPEG
	JPEGLS
	JPEG2000
)

func (c Compression) String() string {
	switch c {
	case NoCompression:
		return "none"
	case Deflate:
		return "deflate"
	case RLE:
		return "RLE"
	case JPEG:
		return "JPEG"
	case JPEGLS:
		return "JPEG-LS"
	case JPEG2000:
		return "JPEG 2000"
	}
	return fmt.Sprintf("Compression(%d)", int(c))
}

// TransferSyntax describes how a data set is encoded: VR mode, stream byte
// order and pixel compression.
type TransferSyntax struct {
	UID       string
	Name      string
	ByteOrder binary.ByteOrder
	Implicit  IsImplicitVR
	// Encapsulated pixel data is stored as a sequence of fragments.
	Encapsulated bool
	Compression  Compression
	// CharacterRepertoire names the SpecificCharacterSet in effect for text VRs.
	CharacterRepertoire string
}

// IsImplicitVR reports whether elements omit the VR field.
func (ts TransferSyntax) IsImplicitVR() bool { return ts.Implicit == ImplicitVR }

// IsLittleEndian reports the byte order of the stream.
func (ts TransferSyntax) IsLittleEndian() bool { return ts.ByteOrder == binary.LittleEndian }

// IsMachineLittleEndian reports the byte order of the host. It is only
// useful for diagnostics; decoding never depends on it.
func (ts TransferSyntax) IsMachineLittleEndian() bool { return NativeByteOrder == binary.LittleEndian }

// IsDeflated reports whether the data set is DEFLATE compressed.
func (ts TransferSyntax) IsDeflated() bool { return ts.Compression == Deflate }

// IsRLE reports whether pixel data is RLE Lossless encoded.
func (ts TransferSyntax) IsRLE() bool { return ts.Compression == RLE }

func (ts TransferSyntax) String() string {
	vr := "ExplicitVR"
	if ts.IsImplicitVR() {
		vr = "ImplicitVR"
	}
	order := "LittleEndian"
	if !ts.IsLittleEndian() {
		order = "BigEndian"
	}
	return fmt.Sprintf("%s (%s + %s)", ts.Name, vr, order)
}

type syntaxEntry struct {
	byteorder   binary.ByteOrder
	implicit    IsImplicitVR
	compression Compression
}

// transferSyntaxes is the static UID -> encoding table. Everything except the
// three native syntaxes is explicit VR little endian (PS3.5 A.4).
var transferSyntaxes = map[string]syntaxEntry{
	dicomuid.ImplicitVRLittleEndian:         {binary.LittleEndian, ImplicitVR, NoCompression},
	dicomuid.ExplicitVRLittleEndian:         {binary.LittleEndian, ExplicitVR, NoCompression},
	dicomuid.DeflatedExplicitVRLittleEndian: {binary.LittleEndian, ExplicitVR, Deflate},
	dicomuid.ExplicitVRBigEndian:            {binary.BigEndian, ExplicitVR, NoCompression},
	dicomuid.RLELossless:                    {binary.LittleEndian, ExplicitVR, RLE},
	dicomuid.JPEGBaseline8Bit:               {binary.LittleEndian, ExplicitVR, JPEG},
	dicomuid.JPEGExtended12Bit:              {binary.LittleEndian, ExplicitVR, JPEG},
	dicomuid.JPEGLossless:                   {binary.LittleEndian, ExplicitVR, JPEG},
	dicomuid.JPEGLosslessSV1:                {binary.LittleEndian, ExplicitVR, JPEG},
	dicomuid.JPEGLSLossless:                 {binary.LittleEndian, ExplicitVR, JPEGLS},
	dicomuid.JPEGLSNearLossless:             {binary.LittleEndian, ExplicitVR, JPEGLS},
	dicomuid.JPEG2000Lossless:               {binary.LittleEndian, ExplicitVR, JPEG2000},
	dicomuid.JPEG2000:                       {binary.LittleEndian, ExplicitVR, JPEG2000},
}

// ResolveTransferSyntax maps a transfer syntax UID to its encoding. Unknown
// UIDs fail with ErrUnsupportedTransferSyntax.
func ResolveTransferSyntax(uid string) (TransferSyntax, error) {
	uid = dicomuid.Normalize(uid)
	e, ok := transferSyntaxes[uid]
	if !ok {
		return TransferSyntax{}, fmt.Errorf("%w: %q", ErrUnsupportedTransferSyntax, uid)
	}
	return TransferSyntax{
		UID:                 uid,
		Name:                dicomuid.NameOf(uid),
		ByteOrder:           e.byteorder,
		Implicit:            e.implicit,
		Encapsulated:        e.compression != NoCompression && e.compression != Deflate,
		Compression:         e.compression,
		CharacterRepertoire: DefaultCharacterRepertoire,
	}, nil
}

// MustResolveTransferSyntax is like ResolveTransferSyntax but panics.
func MustResolveTransferSyntax(uid string) TransferSyntax {
	ts, err := ResolveTransferSyntax(uid)
	if err != nil {
		panic(err)
	}
	return ts
}

// ParseTransferSyntaxUID parses a transfer syntax uid and returns its byteorder
// and implicitVR/explicitVR type. e.g.
// 1.2.840.10008.1.2 returns (LittleEndian, ImplicitVR) and
// 1.2.840.10008.1.2.4.70 returns (LittleEndian, ExplicitVR).
func ParseTransferSyntaxUID(uid string) (byteorder binary.ByteOrder, implicit IsImplicitVR, err error) {
	ts, err := ResolveTransferSyntax(uid)
	if err != nil {
		return nil, UnknownVR, err
	}
	return ts.ByteOrder, ts.Implicit, nil
}
