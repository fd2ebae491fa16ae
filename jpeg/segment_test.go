package jpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalJPEG builds a byte-exact synthetic JPEG stream: SOI, an APP0
// JFIF segment, an SOS segment whose entropy data contains a stuffed
// 0xFF00 byte and an RSTn marker (both of which must stay inside the SOS
// segment rather than terminate it), and EOI.
func minimalJPEG() []byte {
	var b []byte
	b = append(b, 0xFF, 0xD8) // SOI

	app0 := []byte{0xFF, 0xE0, 0x00, 0x10,
		'J', 'F', 'I', 'F', 0x00,
		0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
	}
	b = append(b, app0...)

	sos := []byte{0xFF, 0xDA, 0x00, 0x0C,
		0x03, 0x01, 0x00, 0x02, 0x11, 0x03, 0x11, 0x00, 0x3F, 0x00,
	}
	b = append(b, sos...)

	entropy := []byte{0x12, 0x34, 0xFF, 0x00, 0x56, 0xFF, 0xD1, 0x78, 0x9A}
	b = append(b, entropy...)

	b = append(b, 0xFF, 0xD9) // EOI
	return b
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	orig := minimalJPEG()

	j, err := Decode(orig)
	require.NoError(t, err)

	got := Encode(j)
	assert.Equal(t, orig, got)
}

func TestDecodeSegmentTypes(t *testing.T) {
	j, err := Decode(minimalJPEG())
	require.NoError(t, err)

	require.Len(t, j.Segments, 4)
	assert.Equal(t, byte(markerSOI), j.Segments[0].Type)
	assert.Equal(t, byte(0xE0), j.Segments[1].Type)
	assert.Equal(t, byte(markerSOS), j.Segments[2].Type)
	assert.Equal(t, byte(markerEOI), j.Segments[3].Type)
}

func TestSOSAbsorbsStuffedAndRSTBytes(t *testing.T) {
	j, err := Decode(minimalJPEG())
	require.NoError(t, err)

	sos := j.Segments[2]
	// The entropy bytes (including 0xFF00 and 0xFFD1) must be inside SOS's
	// Data, not split into their own segments.
	assert.Contains(t, string(sos.Data), string([]byte{0xFF, 0x00, 0x56, 0xFF, 0xD1}))
}

func TestDecodeRejectsMissingMarkerByte(t *testing.T) {
	_, err := Decode([]byte{0x00, 0xD8})
	require.Error(t, err)
}

func TestFindFirst(t *testing.T) {
	j, err := Decode(minimalJPEG())
	require.NoError(t, err)

	i, ok := j.FindFirst(0xE0)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = j.FindFirst(MarkerAPP1)
	assert.False(t, ok)
}
