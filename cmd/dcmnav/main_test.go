package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/odincare/dcmnav"
	"github.com/odincare/dcmnav/dicomtag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilters(t *testing.T) {
	filters, err := parseFilters("PatientName=Zh*,Modality=")
	require.NoError(t, err)
	require.Len(t, filters, 2)
	assert.Equal(t, dicomtag.PatientName, filters[0].Tag)
	assert.Equal(t, []interface{}{"Zh*"}, filters[0].Value)
	assert.Empty(t, filters[1].Value)

	filters, err = parseFilters("")
	require.NoError(t, err)
	assert.Nil(t, filters)

	for _, bad := range []string{"PatientName", "NoSuchName=x", "Rows=512"} {
		_, err := parseFilters(bad)
		assert.Error(t, err, bad)
	}
}

func TestMatchesAndPrint(t *testing.T) {
	ds := &dicom.DataSet{Elements: []*dicom.Element{
		dicom.MustNewElement(dicomtag.Modality, "CT"),
		dicom.MustNewElement(dicomtag.PatientName, "Zhang^San"),
	}}

	filters, err := parseFilters("PatientName=Zh*,Modality=C?")
	require.NoError(t, err)
	ok, err := matches(ds, filters)
	require.NoError(t, err)
	assert.True(t, ok)

	filters, err = parseFilters("PatientName=Li*")
	require.NoError(t, err)
	ok, err = matches(ds, filters)
	require.NoError(t, err)
	assert.False(t, ok)

	var out bytes.Buffer
	printDataSet(&out, "a.dcm", ds)
	assert.Contains(t, out.String(), "# a.dcm")
	assert.Contains(t, out.String(), "[Zhang^San]")
}

func TestDecodeAllKeepsOrderAndReportsFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.acr")
	// (0008,0060) CS "CT", implicit VR little endian
	require.NoError(t, os.WriteFile(good, []byte{0x08, 0x00, 0x60, 0x00, 0x02, 0x00, 0x00, 0x00, 'C', 'T'}, 0o644))
	missing := filepath.Join(dir, "missing.dcm")

	results, failed := decodeAll([]string{missing, good, good}, dicom.ReadOptions{})
	assert.True(t, failed)
	require.Len(t, results, 3)
	assert.Error(t, results[0].err)
	for _, r := range results[1:] {
		require.NoError(t, r.err)
		elem, err := r.ds.FindElementByTag(dicomtag.Modality)
		require.NoError(t, err)
		assert.Equal(t, "CT", elem.MustGetString())
	}

	_, failed = decodeAll([]string{good}, dicom.ReadOptions{})
	assert.False(t, failed)
}
