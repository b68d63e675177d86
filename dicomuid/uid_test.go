package dicomuid_test

import (
	"testing"

	"github.com/odincare/dcmnav/dicomuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	e, err := dicomuid.Lookup("1.2.840.10008.1.2.5\x00")
	require.NoError(t, err)
	assert.Equal(t, dicomuid.RLELossless, e.UID)
	assert.Equal(t, dicomuid.TypeTransferSyntax, e.Type)

	e, err = dicomuid.Lookup(dicomuid.CTImageStorage)
	require.NoError(t, err)
	assert.Equal(t, dicomuid.TypeSOPClass, e.Type)

	_, err = dicomuid.Lookup("1.2.3")
	assert.Error(t, err)
}

func TestNameOf(t *testing.T) {
	assert.Equal(t, "Implicit VR Little Endian", dicomuid.NameOf(dicomuid.ImplicitVRLittleEndian))
	assert.Equal(t, "1.2.3", dicomuid.NameOf("1.2.3"))
}
