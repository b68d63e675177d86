package dicom_test

import (
	"testing"

	"github.com/odincare/dcmnav"
	"github.com/odincare/dcmnav/dicomtag"
	"github.com/odincare/dcmnav/dicomuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryDataSet() *dicom.DataSet {
	item := &dicom.DataSet{Elements: []*dicom.Element{
		dicom.MustNewElement(dicomtag.ReferencedSOPClassUID, dicomuid.CTImageStorage),
		dicom.MustNewElement(dicomtag.ReferencedSOPInstanceUID, "1.2.3.4"),
	}}
	return &dicom.DataSet{Elements: []*dicom.Element{
		dicom.MustNewElement(dicomtag.SOPInstanceUID, "1.2.3"),
		dicom.MustNewElement(dicomtag.Modality, "CT"),
		dicom.MustNewElement(dicomtag.ReferencedImageSequence, item),
		dicom.MustNewElement(dicomtag.PatientName, "Zhang^San"),
		dicom.MustNewElement(dicomtag.Rows, uint16(512)),
	}}
}

func TestQuery(t *testing.T) {
	ds := queryDataSet()

	tests := []struct {
		name   string
		filter *dicom.Element
		match  bool
		found  bool
	}{
		{"glob", dicom.MustNewElement(dicomtag.PatientName, "Zhang*"), true, true},
		{"globMiss", dicom.MustNewElement(dicomtag.PatientName, "Li*"), false, false},
		{"exact", dicom.MustNewElement(dicomtag.Modality, "CT"), true, true},
		{"universal", dicom.MustNewElement(dicomtag.Modality, "*"), true, true},
		{"emptyMissing", dicom.MustNewElement(dicomtag.PatientID), true, false},
		{"valueMissing", dicom.MustNewElement(dicomtag.PatientID, "P1"), false, false},
		{"uidList", dicom.MustNewElement(dicomtag.SOPInstanceUID, "9.9", "1.2.3"), true, true},
		{"uidListMiss", dicom.MustNewElement(dicomtag.SOPInstanceUID, "9.9", "9.8"), false, false},
		{"number", dicom.MustNewElement(dicomtag.Rows, uint16(512)), true, true},
		{"numberMiss", dicom.MustNewElement(dicomtag.Rows, uint16(256)), false, false},
		{"level", dicom.MustNewElement(dicomtag.QueryRetrieveLevel, "STUDY"), true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			match, elem, err := dicom.Query(ds, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.match, match)
			if tc.found {
				require.NotNil(t, elem)
				assert.Equal(t, tc.filter.Tag, elem.Tag)
			} else {
				assert.Nil(t, elem)
			}
		})
	}
}

func TestQuerySequence(t *testing.T) {
	ds := queryDataSet()

	filter := func(uid string) *dicom.Element {
		return dicom.MustNewElement(dicomtag.ReferencedImageSequence, &dicom.DataSet{Elements: []*dicom.Element{
			dicom.MustNewElement(dicomtag.ReferencedSOPInstanceUID, uid),
			dicom.MustNewElement(dicomtag.ReferencedSOPClassUID),
		}})
	}

	match, elem, err := dicom.Query(ds, filter("1.2.3.4"))
	require.NoError(t, err)
	assert.True(t, match)
	assert.Equal(t, dicomtag.ReferencedImageSequence, elem.Tag)

	match, _, err = dicom.Query(ds, filter("1.2.3.5"))
	require.NoError(t, err)
	assert.False(t, match)

	// an empty item is a universal match
	match, _, err = dicom.Query(ds, dicom.MustNewElement(dicomtag.ReferencedImageSequence, &dicom.DataSet{}))
	require.NoError(t, err)
	assert.True(t, match)
}

func TestQueryErrors(t *testing.T) {
	ds := queryDataSet()

	_, _, err := dicom.Query(ds, dicom.MustNewElement(dicomtag.Modality, "CT", "MR"))
	assert.Error(t, err)

	_, _, err = dicom.Query(ds, dicom.MustNewElement(dicomtag.PatientName, "[Zh"))
	assert.Error(t, err)

	_, err = dicom.NewElement(dicomtag.Rows, "512")
	assert.Error(t, err)
}

func TestQueryReadDataSet(t *testing.T) {
	body := explicitLE().
		text(dicomtag.Modality, "CS", "MR").
		text(dicomtag.PatientName, "PN", "Doe^Jane").
		bytes()
	ds := mustRead(t, dicomFile(dicomuid.ExplicitVRLittleEndian, body), dicom.ReadOptions{})

	match, _, err := dicom.Query(ds, dicom.MustNewElement(dicomtag.PatientName, "Doe^J?ne"))
	require.NoError(t, err)
	assert.True(t, match)
}

func TestQueryDuplicateElements(t *testing.T) {
	first := dicom.MustNewElement(dicomtag.PatientName, "Li^Si")
	second := dicom.MustNewElement(dicomtag.PatientName, "Zhang^San")
	ds := &dicom.DataSet{Elements: []*dicom.Element{first, second}}
	assert.Len(t, ds.FindElements(dicomtag.PatientName), 2)

	match, elem, err := dicom.Query(ds, dicom.MustNewElement(dicomtag.PatientName, "Zh*"))
	require.NoError(t, err)
	assert.True(t, match)
	assert.Same(t, second, elem)
}
