package dicom_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/odincare/dcmnav"
	"github.com/odincare/dcmnav/dicomio"
	"github.com/odincare/dcmnav/dicomtag"
	"github.com/odincare/dcmnav/dicomuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRead(t *testing.T, data []byte, options dicom.ReadOptions) *dicom.DataSet {
	t.Helper()
	ds, err := dicom.ReadDataSetInBytes(data, options)
	require.NoError(t, err)
	require.NotNil(t, ds)
	return ds
}

func mustFind(t *testing.T, ds *dicom.DataSet, tag dicomtag.Tag) *dicom.Element {
	t.Helper()
	elem, err := ds.FindElementByTag(tag)
	require.NoError(t, err)
	return elem
}

func Example_read() {
	body := explicitLE().
		text(dicomtag.Modality, "CS", "CT").
		text(dicomtag.PatientName, "PN", "Zhang^San").
		text(dicomtag.PatientID, "LO", "7DkT2Tp").
		bytes()
	ds, err := dicom.ReadDataSetInBytes(dicomFile(dicomuid.ExplicitVRLittleEndian, body), dicom.ReadOptions{Strict: true})
	if err != nil {
		panic(err)
	}
	for _, name := range []string{"Modality", "PatientName", "PatientID"} {
		elem, err := ds.FindElementByName(name)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%s %s %s\n", name, elem.VR, elem.MustGetString())
	}
	fmt.Println(ds.TransferSyntax.Name)
	// Output:
	// Modality CS CT
	// PatientName PN Zhang^San
	// PatientID LO 7DkT2Tp
	// Explicit VR Little Endian
}

func TestShortTextIsTrimmed(t *testing.T) {
	body := explicitLE().text(dicomtag.PatientName, "ST", "John Doe   ").bytes()
	ds := mustRead(t, dicomFile(dicomuid.ExplicitVRLittleEndian, body), dicom.ReadOptions{Strict: true})

	elem := mustFind(t, ds, dicomtag.PatientName)
	assert.Equal(t, "ST", elem.VR)
	assert.Equal(t, "John Doe", elem.MustGetString())
	assert.Equal(t, uint32(12), elem.Length)

	// the VR differs from the dictionary's PN
	require.NotEmpty(t, ds.Warnings)
	assert.Equal(t, dicomtag.PatientName, ds.Warnings[0].Tag)

	uid := mustFind(t, ds, dicomtag.TransferSyntaxUID)
	assert.Equal(t, dicomuid.ExplicitVRLittleEndian, uid.MustGetString())
	assert.Equal(t, dicomuid.ExplicitVRLittleEndian, ds.TransferSyntax.UID)
	assert.True(t, ds.TransferSyntax.IsLittleEndian())
	assert.False(t, ds.TransferSyntax.IsImplicitVR())
}

func TestReadImplicitVR(t *testing.T) {
	body := implicitLE().
		text(dicomtag.ImageType, "CS", `ORIGINAL\PRIMARY`).
		text(dicomtag.PatientID, "LO", "ID-1").
		u16(dicomtag.Rows, 512).
		bytes()
	ds := mustRead(t, dicomFile(dicomuid.ImplicitVRLittleEndian, body), dicom.ReadOptions{Strict: true})

	imageType := mustFind(t, ds, dicomtag.ImageType)
	assert.Equal(t, "CS", imageType.VR)
	values, err := imageType.GetStrings()
	require.NoError(t, err)
	assert.Equal(t, []string{"ORIGINAL", "PRIMARY"}, values)

	rows := mustFind(t, ds, dicomtag.Rows)
	assert.Equal(t, "US", rows.VR)
	assert.Equal(t, uint16(512), rows.MustGetUInt16())
	assert.True(t, ds.TransferSyntax.IsImplicitVR())
}

func TestReadBigEndian(t *testing.T) {
	regionMinX := dicomtag.Tag{Group: 0x0018, Element: 0x6018}
	body := newStream(binary.BigEndian, dicomio.ExplicitVR).
		u16(dicomtag.Rows, 0x0102).
		u32(regionMinX, 0x01020304).
		text(dicomtag.PatientID, "LO", "BE").
		bytes()
	ds := mustRead(t, dicomFile(dicomuid.ExplicitVRBigEndian, body), dicom.ReadOptions{})

	assert.Equal(t, uint16(0x0102), mustFind(t, ds, dicomtag.Rows).MustGetUInt16())
	assert.Equal(t, uint32(0x01020304), mustFind(t, ds, regionMinX).MustGetUInt32())
	assert.Equal(t, "BE", mustFind(t, ds, dicomtag.PatientID).MustGetString())
	assert.False(t, ds.TransferSyntax.IsLittleEndian())
}

func referencedImage(uid string) []byte {
	return explicitLE().
		text(dicomtag.ReferencedSOPClassUID, "UI", dicomuid.CTImageStorage).
		text(dicomtag.ReferencedSOPInstanceUID, "UI", uid).
		bytes()
}

func TestSequenceOfDefinedLength(t *testing.T) {
	body := explicitLE().
		text(dicomtag.Modality, "CS", "CT").
		sequence(dicomtag.ReferencedImageSequence, referencedImage("1.2.3.4"), referencedImage("1.2.3.5")).
		text(dicomtag.PatientID, "LO", "P1").
		bytes()
	ds := mustRead(t, dicomFile(dicomuid.ExplicitVRLittleEndian, body), dicom.ReadOptions{Strict: true})

	seq := mustFind(t, ds, dicomtag.ReferencedImageSequence)
	assert.Equal(t, "SQ", seq.VR)
	assert.False(t, seq.UndefinedLength)
	items, err := seq.GetItems()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1.2.3.4", mustFind(t, items[0], dicomtag.ReferencedSOPInstanceUID).MustGetString())
	assert.Equal(t, "1.2.3.5", mustFind(t, items[1], dicomtag.ReferencedSOPInstanceUID).MustGetString())

	// the cursor resumes right after the sequence
	assert.Equal(t, "P1", mustFind(t, ds, dicomtag.PatientID).MustGetString())
}

func TestSequenceOfUndefinedLength(t *testing.T) {
	content := explicitLE().text(dicomtag.TextValue, "UT", "hello").bytes()
	nested := explicitLE().
		text(dicomtag.ReferencedSOPInstanceUID, "UI", "1.2.3.6").
		undefinedSequence(dicomtag.ContentSequence, "SQ", content).
		bytes()
	body := explicitLE().
		undefinedSequence(dicomtag.ReferencedImageSequence, "SQ", referencedImage("1.2.3.4"), nested).
		text(dicomtag.PatientID, "LO", "P2").
		bytes()
	ds := mustRead(t, dicomFile(dicomuid.ExplicitVRLittleEndian, body), dicom.ReadOptions{Strict: true})

	seq := mustFind(t, ds, dicomtag.ReferencedImageSequence)
	assert.True(t, seq.UndefinedLength)
	items, err := seq.GetItems()
	require.NoError(t, err)
	require.Len(t, items, 2)

	inner, err := mustFind(t, items[1], dicomtag.ContentSequence).GetItems()
	require.NoError(t, err)
	require.Len(t, inner, 1)
	assert.Equal(t, "hello", mustFind(t, inner[0], dicomtag.TextValue).MustGetString())
	assert.Equal(t, "P2", mustFind(t, ds, dicomtag.PatientID).MustGetString())
	assert.Contains(t, ds.String(), "item 1")
}

func TestDeeplyNestedSequencesPrint(t *testing.T) {
	data := explicitLE().text(dicomtag.TextValue, "UT", "deepest").bytes()
	for i := 0; i < 40; i++ {
		data = explicitLE().undefinedSequence(dicomtag.ContentSequence, "SQ", data).bytes()
	}
	ds := mustRead(t, dicomFile(dicomuid.ExplicitVRLittleEndian, data), dicom.ReadOptions{})

	var out string
	require.NotPanics(t, func() { out = ds.String() })
	assert.Contains(t, out, "deepest")
	assert.Equal(t, 40, strings.Count(out, "ContentSequence"))
}

func TestUnknownOfUndefinedLengthIsSequence(t *testing.T) {
	private := dicomtag.Tag{Group: 0x0009, Element: 0x1010}
	item := implicitLE().text(dicomtag.ReferencedSOPInstanceUID, "UI", "1.2.3").bytes()
	body := explicitLE().
		undefinedSequence(private, "UN", item).
		text(dicomtag.PatientID, "LO", "P3").
		bytes()
	ds := mustRead(t, dicomFile(dicomuid.ExplicitVRLittleEndian, body), dicom.ReadOptions{})

	elem := mustFind(t, ds, private)
	assert.Equal(t, "SQ", elem.VR)
	items, err := elem.GetItems()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "1.2.3", mustFind(t, items[0], dicomtag.ReferencedSOPInstanceUID).MustGetString())
	assert.True(t, items[0].TransferSyntax.IsImplicitVR())

	// explicit VR again after the sequence
	assert.Equal(t, "P3", mustFind(t, ds, dicomtag.PatientID).MustGetString())
}

func TestUnresolvedVR(t *testing.T) {
	private := dicomtag.Tag{Group: 0x0009, Element: 0x1010}
	data := implicitLE().
		text(dicomtag.Modality, "CS", "CT").
		raw(private, "", []byte{1, 2, 3, 4}).
		bytes()

	ds, err := dicom.ReadDataSetInBytes(data, dicom.ReadOptions{})
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.True(t, errors.Is(err, dicom.ErrUnresolvedVR), err)

	ds = mustRead(t, data, dicom.ReadOptions{FallbackVR: "UN"})
	elem := mustFind(t, ds, private)
	assert.Equal(t, "UN", elem.VR)
	assert.Equal(t, []interface{}{[]byte{1, 2, 3, 4}}, elem.Value)
	require.Len(t, ds.Warnings, 1)
	assert.Equal(t, private, ds.Warnings[0].Tag)
	assert.Equal(t, int64(10), ds.Warnings[0].Offset)
}

func TestTruncatedStream(t *testing.T) {
	value := explicitLE().header(dicomtag.PatientID, "LO", 100)
	value.e.WriteString("abcd")

	delimiterMissing := explicitLE().
		header(dicomtag.ReferencedImageSequence, "SQ", dicom.UndefinedLength).
		raw(dicomtag.Item, "", referencedImage("1.2.3"))

	itemTooLong := explicitLE().
		header(dicomtag.ReferencedImageSequence, "SQ", dicom.UndefinedLength).
		header(dicomtag.Item, "", 400)
	itemTooLong.e.WriteBytes(referencedImage("1.2.3"))

	for name, body := range map[string][]byte{
		"value":            value.bytes(),
		"delimiterMissing": delimiterMissing.bytes(),
		"itemTooLong":      itemTooLong.bytes(),
	} {
		t.Run(name, func(t *testing.T) {
			ds, err := dicom.ReadDataSetInBytes(dicomFile(dicomuid.ExplicitVRLittleEndian, body), dicom.ReadOptions{})
			require.Error(t, err)
			assert.Nil(t, ds)
			assert.True(t, errors.Is(err, dicom.ErrTruncatedStream), err)
		})
	}
}

func TestUnsupportedTransferSyntax(t *testing.T) {
	ds, err := dicom.ReadDataSetInBytes(dicomFile("1.2.3.4.5.6", nil), dicom.ReadOptions{})
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.True(t, errors.Is(err, dicom.ErrUnsupportedTransferSyntax), err)

	_, err = dicom.ReadDataSetInBytes(nil, dicom.ReadOptions{DefaultTransferSyntax: "1.2.3"})
	assert.True(t, errors.Is(err, dicom.ErrUnsupportedTransferSyntax), err)
}

func TestStrictAndLenientDate(t *testing.T) {
	body := explicitLE().text(dicomtag.PatientBirthDate, "DA", "2023AB01").bytes()
	data := dicomFile(dicomuid.ExplicitVRLittleEndian, body)

	ds, err := dicom.ReadDataSetInBytes(data, dicom.ReadOptions{Strict: true})
	require.Error(t, err)
	assert.Nil(t, ds)
	var encErr *dicom.EncodingError
	require.True(t, errors.As(err, &encErr), err)
	assert.Equal(t, dicomtag.PatientBirthDate, encErr.Tag)
	assert.Equal(t, "PatientBirthDate/date", encErr.Field)
	assert.Equal(t, "2023AB01", encErr.Value)

	ds = mustRead(t, data, dicom.ReadOptions{})
	assert.Equal(t, "2023AB01", mustFind(t, ds, dicomtag.PatientBirthDate).MustGetString())
}

func TestStrictAndLenientMultipleValues(t *testing.T) {
	// A site dictionary declaring a multi-valued ST.
	dict := dicomtag.Chain{
		dicomtag.MapDictionary{
			dicomtag.InstitutionAddress: {
				Tag:  dicomtag.InstitutionAddress,
				VR:   "ST",
				Name: "InstitutionAddress",
				VM:   dicomtag.MustParseVM("1-3"),
			},
		},
		dicomtag.Standard(),
	}
	body := explicitLE().text(dicomtag.InstitutionAddress, "ST", `Main St\Springfield`).bytes()
	data := dicomFile(dicomuid.ExplicitVRLittleEndian, body)

	_, err := dicom.ReadDataSetInBytes(data, dicom.ReadOptions{Strict: true, Dictionary: dict})
	var encErr *dicom.EncodingError
	require.True(t, errors.As(err, &encErr), err)
	assert.Equal(t, "InstitutionAddress/shortText", encErr.Field)

	ds := mustRead(t, data, dicom.ReadOptions{Dictionary: dict})
	assert.Equal(t, `Main St\Springfield`, mustFind(t, ds, dicomtag.InstitutionAddress).MustGetString())
}

// Test ReadOptions
func TestReadOptions(t *testing.T) {
	body := explicitLE().
		text(dicomtag.PatientName, "PN", "Doe^John").
		text(dicomtag.StudyInstanceUID, "UI", "1.2.3").
		text(dicomtag.SeriesInstanceUID, "UI", "1.2.3.4").
		u16(dicomtag.Rows, 1).
		u16(dicomtag.Columns, 2).
		raw(dicomtag.PixelData, "OW", []byte{7, 7, 7, 7}).
		bytes()
	data := dicomFile(dicomuid.ExplicitVRLittleEndian, body)

	// Test Drop Pixel Data
	ds := mustRead(t, data, dicom.ReadOptions{DropPixelData: true})
	mustFind(t, ds, dicomtag.PatientName)
	mustFind(t, ds, dicomtag.Columns)
	_, err := ds.FindElementByTag(dicomtag.PixelData)
	require.Error(t, err)

	// Test Return Tags
	ds = mustRead(t, data, dicom.ReadOptions{DropPixelData: true, ReturnTags: []dicomtag.Tag{dicomtag.StudyInstanceUID}})
	mustFind(t, ds, dicomtag.StudyInstanceUID)
	mustFind(t, ds, dicomtag.TransferSyntaxUID)
	_, err = ds.FindElementByTag(dicomtag.PatientName)
	assert.Error(t, err, "PatientName should not be present")

	// Test Stop at Tag
	ds = mustRead(t, data, dicom.ReadOptions{
		// Study Instance UID Element tag is Tag{0x0020, 0x000D}
		StopAtTag: &dicomtag.StudyInstanceUID,
	})
	mustFind(t, ds, dicomtag.PatientName)
	_, err = ds.FindElementByTag(dicomtag.StudyInstanceUID)
	assert.Error(t, err)
	_, err = ds.FindElementByTag(dicomtag.SeriesInstanceUID)
	assert.Error(t, err, "SeriesInstanceUID should not be present")
}

func TestDeflatedTransferSyntax(t *testing.T) {
	body := explicitLE().
		text(dicomtag.PatientID, "LO", "DEFLATED").
		sequence(dicomtag.ReferencedImageSequence, referencedImage("1.2.3")).
		bytes()
	data := dicomFile(dicomuid.DeflatedExplicitVRLittleEndian, deflate(body))
	ds := mustRead(t, data, dicom.ReadOptions{Strict: true})

	assert.True(t, ds.TransferSyntax.IsDeflated())
	assert.Equal(t, "DEFLATED", mustFind(t, ds, dicomtag.PatientID).MustGetString())
	items, err := mustFind(t, ds, dicomtag.ReferencedImageSequence).GetItems()
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestACRNemaStream(t *testing.T) {
	data := implicitLE().
		text(dicomtag.Modality, "CS", "MR").
		u16(dicomtag.Rows, 256).
		bytes()
	assert.True(t, dicom.IsACRNema(data))
	assert.False(t, dicom.IsDicom(data))

	ds := mustRead(t, data, dicom.ReadOptions{})
	assert.Equal(t, dicomuid.ImplicitVRLittleEndian, ds.TransferSyntax.UID)
	assert.Equal(t, uint16(256), mustFind(t, ds, dicomtag.Rows).MustGetUInt16())
	assert.Empty(t, ds.Warnings)

	// readable, but not group 0008 or the command group first
	patient := implicitLE().text(dicomtag.PatientID, "LO", "P1").bytes()
	assert.False(t, dicom.IsACRNema(patient))
	ds, err := dicom.ReadDataSet(bytes.NewReader(patient), dicom.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "P1", mustFind(t, ds, dicomtag.PatientID).MustGetString())
	require.Len(t, ds.Warnings, 1)
	assert.Contains(t, ds.Warnings[0].Message, "ACR-NEMA")

	explicit := explicitLE().text(dicomtag.Modality, "CS", "MR").bytes()
	ds = mustRead(t, explicit, dicom.ReadOptions{DefaultTransferSyntax: dicomuid.ExplicitVRLittleEndian})
	elem := mustFind(t, ds, dicomtag.Modality)
	assert.Equal(t, "CS", elem.VR)
	assert.Equal(t, "MR", elem.MustGetString())

	assert.False(t, dicom.IsACRNema([]byte{0x10, 0x00, 0x10, 0x00}))
}

func TestMetaGroupWithoutPreamble(t *testing.T) {
	meta := metaGroup(dicomuid.ExplicitVRLittleEndian)
	s := explicitLE().u32(dicomtag.FileMetaInformationGroupLength, uint32(len(meta)))
	s.e.WriteBytes(meta)
	s.text(dicomtag.PatientID, "LO", "NOPREAMBLE")

	ds := mustRead(t, s.bytes(), dicom.ReadOptions{})
	assert.Equal(t, "NOPREAMBLE", mustFind(t, ds, dicomtag.PatientID).MustGetString())
	require.NotEmpty(t, ds.Warnings)
	assert.Contains(t, ds.Warnings[0].Message, "preamble")
}

func TestMissingGroupLength(t *testing.T) {
	s := explicitLE()
	s.e.WriteZeros(128)
	s.e.WriteString("DICM")
	s.e.WriteBytes(metaGroup(dicomuid.ImplicitVRLittleEndian))
	body := implicitLE().text(dicomtag.PatientID, "LO", "NOLENGTH").bytes()
	s.e.WriteBytes(body)

	ds := mustRead(t, s.bytes(), dicom.ReadOptions{})
	assert.Equal(t, "NOLENGTH", mustFind(t, ds, dicomtag.PatientID).MustGetString())
	assert.True(t, ds.TransferSyntax.IsImplicitVR())
}

func TestNotDicom(t *testing.T) {
	_, err := dicom.ReadDataSetInBytes([]byte("hello, world"), dicom.ReadOptions{})
	require.Error(t, err)
}

func TestSpecificCharacterSet(t *testing.T) {
	item := explicitLE().
		text(dicomtag.SpecificCharacterSet, "CS", "ISO_IR 192").
		text(dicomtag.PatientName, "PN", "José").
		bytes()
	body := explicitLE().
		text(dicomtag.SpecificCharacterSet, "CS", "ISO_IR 100").
		sequence(dicomtag.ReferencedImageSequence, item).
		raw(dicomtag.PatientName, "PN", []byte("Mu\xf1oz^Jos\xe9")).
		bytes()
	ds := mustRead(t, dicomFile(dicomuid.ExplicitVRLittleEndian, body), dicom.ReadOptions{Strict: true})

	assert.Equal(t, "ISO_IR 100", ds.TransferSyntax.CharacterRepertoire)
	assert.Equal(t, "Muñoz^José", mustFind(t, ds, dicomtag.PatientName).MustGetString())

	items, err := mustFind(t, ds, dicomtag.ReferencedImageSequence).GetItems()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ISO_IR 192", items[0].TransferSyntax.CharacterRepertoire)
	assert.Equal(t, "José", mustFind(t, items[0], dicomtag.PatientName).MustGetString())
}

func TestUnknownCharacterSet(t *testing.T) {
	body := explicitLE().
		text(dicomtag.SpecificCharacterSet, "CS", "ISO_IR 999").
		text(dicomtag.PatientID, "LO", "X1").
		bytes()
	data := dicomFile(dicomuid.ExplicitVRLittleEndian, body)

	ds := mustRead(t, data, dicom.ReadOptions{})
	assert.Equal(t, "X1", mustFind(t, ds, dicomtag.PatientID).MustGetString())
	assert.Equal(t, "ISO_IR 6", ds.TransferSyntax.CharacterRepertoire)
	require.Len(t, ds.Warnings, 1)
	assert.Equal(t, dicomtag.SpecificCharacterSet, ds.Warnings[0].Tag)

	_, err := dicom.ReadDataSetInBytes(data, dicom.ReadOptions{Strict: true})
	var encErr *dicom.EncodingError
	require.True(t, errors.As(err, &encErr), err)
	assert.Equal(t, dicomtag.SpecificCharacterSet, encErr.Tag)
}

func TestStrayItemIsCorrupt(t *testing.T) {
	body := explicitLE().raw(dicomtag.Item, "", []byte{0, 0}).bytes()
	_, err := dicom.ReadDataSetInBytes(dicomFile(dicomuid.ExplicitVRLittleEndian, body), dicom.ReadOptions{})
	assert.True(t, errors.Is(err, dicom.ErrCorruptStream), err)
}

func TestReadElement(t *testing.T) {
	data := explicitLE().u16(dicomtag.Rows, 3).header(dicomtag.ItemDelimitationItem, "", 0).bytes()
	d := dicomio.NewBytesDecoder(data, binary.LittleEndian, dicomio.ExplicitVR)

	elem := dicom.ReadElement(d, dicom.ReadOptions{})
	require.NoError(t, d.Error())
	assert.Equal(t, uint16(3), elem.MustGetUInt16())
	assert.Equal(t, int64(0), elem.Offset)

	elem = dicom.ReadElement(d, dicom.ReadOptions{})
	require.NoError(t, d.Error())
	assert.Equal(t, dicomtag.ItemDelimitationItem, elem.Tag)
	assert.Equal(t, "NA", elem.VR)
	assert.Equal(t, int64(10), elem.Offset)
	require.NoError(t, d.Finish())
}
