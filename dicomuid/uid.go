// Package dicomuid is a static registry of the UIDs the decoder cares about:
// transfer syntaxes and a handful of storage SOP classes.
package dicomuid

import (
	"fmt"
	"strings"
)

// Type classifies a registered UID, e.g. "Transfer Syntax".
type Type string

const (
	TypeTransferSyntax Type = "Transfer Syntax"
	TypeSOPClass       Type = "SOP Class"
)

// Transfer syntax UIDs, PS3.6 Annex A.
const (
	ImplicitVRLittleEndian         = "1.2.840.10008.1.2"
	ExplicitVRLittleEndian         = "1.2.840.10008.1.2.1"
	DeflatedExplicitVRLittleEndian = "1.2.840.10008.1.2.1.99"
	ExplicitVRBigEndian            = "1.2.840.10008.1.2.2"
	JPEGBaseline8Bit               = "1.2.840.10008.1.2.4.50"
	JPEGExtended12Bit              = "1.2.840.10008.1.2.4.51"
	JPEGLossless                   = "1.2.840.10008.1.2.4.57"
	JPEGLosslessSV1                = "1.2.840.10008.1.2.4.70"
	JPEGLSLossless                 = "1.2.840.10008.1.2.4.80"
	JPEGLSNearLossless             = "1.2.840.10008.1.2.4.81"
	JPEG2000Lossless               = "1.2.840.10008.1.2.4.90"
	JPEG2000                       = "1.2.840.10008.1.2.4.91"
	RLELossless                    = "1.2.840.10008.1.2.5"
)

// Storage SOP classes commonly found in MediaStorageSOPClassUID.
const (
	VerificationSOPClass          = "1.2.840.10008.1.1"
	ComputedRadiographyImage      = "1.2.840.10008.5.1.4.1.1.1"
	CTImageStorage                = "1.2.840.10008.5.1.4.1.1.2"
	MRImageStorage                = "1.2.840.10008.5.1.4.1.1.4"
	UltrasoundMultiFrameImage     = "1.2.840.10008.5.1.4.1.1.3.1"
	SecondaryCaptureImageStorage  = "1.2.840.10008.5.1.4.1.1.7"
	XRayAngiographicImageStorage  = "1.2.840.10008.5.1.4.1.1.12.1"
	NuclearMedicineImageStorage   = "1.2.840.10008.5.1.4.1.1.20"
	BasicTextSRStorage            = "1.2.840.10008.5.1.4.1.1.88.11"
	EncapsulatedPDFStorage        = "1.2.840.10008.5.1.4.1.1.104.1"
	PositronEmissionTomographyImg = "1.2.840.10008.5.1.4.1.1.128"
)

// Entry describes one registered UID.
type Entry struct {
	UID  string
	Name string
	Type Type
}

var registry = map[string]Entry{}

func add(uid, name string, t Type) {
	registry[uid] = Entry{UID: uid, Name: name, Type: t}
}

func init() {
	add(ImplicitVRLittleEndian, "Implicit VR Little Endian", TypeTransferSyntax)
	add(ExplicitVRLittleEndian, "Explicit VR Little Endian", TypeTransferSyntax)
	add(DeflatedExplicitVRLittleEndian, "Deflated Explicit VR Little Endian", TypeTransferSyntax)
	add(ExplicitVRBigEndian, "Explicit VR Big Endian (Retired)", TypeTransferSyntax)
	add(JPEGBaseline8Bit, "JPEG Baseline (Process 1)", TypeTransferSyntax)
	add(JPEGExtended12Bit, "JPEG Extended (Process 2 & 4)", TypeTransferSyntax)
	add(JPEGLossless, "JPEG Lossless, Non-Hierarchical (Process 14)", TypeTransferSyntax)
	add(JPEGLosslessSV1, "JPEG Lossless, Non-Hierarchical, First-Order Prediction", TypeTransferSyntax)
	add(JPEGLSLossless, "JPEG-LS Lossless Image Compression", TypeTransferSyntax)
	add(JPEGLSNearLossless, "JPEG-LS Lossy (Near-Lossless) Image Compression", TypeTransferSyntax)
	add(JPEG2000Lossless, "JPEG 2000 Image Compression (Lossless Only)", TypeTransferSyntax)
	add(JPEG2000, "JPEG 2000 Image Compression", TypeTransferSyntax)
	add(RLELossless, "RLE Lossless", TypeTransferSyntax)

	add(VerificationSOPClass, "Verification SOP Class", TypeSOPClass)
	add(ComputedRadiographyImage, "Computed Radiography Image Storage", TypeSOPClass)
	add(CTImageStorage, "CT Image Storage", TypeSOPClass)
	add(MRImageStorage, "MR Image Storage", TypeSOPClass)
	add(UltrasoundMultiFrameImage, "Ultrasound Multi-frame Image Storage", TypeSOPClass)
	add(SecondaryCaptureImageStorage, "Secondary Capture Image Storage", TypeSOPClass)
	add(XRayAngiographicImageStorage, "X-Ray Angiographic Image Storage", TypeSOPClass)
	add(NuclearMedicineImageStorage, "Nuclear Medicine Image Storage", TypeSOPClass)
	add(BasicTextSRStorage, "Basic Text SR Storage", TypeSOPClass)
	add(EncapsulatedPDFStorage, "Encapsulated PDF Storage", TypeSOPClass)
	add(PositronEmissionTomographyImg, "Positron Emission Tomography Image Storage", TypeSOPClass)
}

// Normalize strips the NUL/space padding UI values carry on the wire.
func Normalize(uid string) string {
	return strings.TrimRight(strings.TrimSpace(uid), "\x00 ")
}

// Lookup finds the registry entry for uid.
func Lookup(uid string) (Entry, error) {
	e, ok := registry[Normalize(uid)]
	if !ok {
		return Entry{}, fmt.Errorf("dicomuid: unknown UID %q", uid)
	}
	return e, nil
}

// NameOf returns the registered name of uid, or uid itself.
func NameOf(uid string) string {
	if e, err := Lookup(uid); err == nil {
		return e.Name
	}
	return uid
}
