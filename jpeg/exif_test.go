package jpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hx2a/imgmeta/exif"
)

func strPtr(s string) *string { return &s }

func jpegWithEmptyAPP1() *Jpg {
	return &Jpg{Segments: []Segment{
		{Type: markerSOI},
		{Type: MarkerAPP1, Data: []byte{0x00, 0x08, 'E', 'x', 'i', 'f', 0x00, 0x00}},
		{Type: markerEOI},
	}}
}

func jpegWithoutAPP1() *Jpg {
	return &Jpg{Segments: []Segment{
		{Type: markerSOI},
		{Type: markerEOI},
	}}
}

func TestDecodeExifNoAPP1ReturnsEmptyRecord(t *testing.T) {
	j := jpegWithoutAPP1()
	rec, err := DecodeExif(j)
	require.NoError(t, err)
	assert.Nil(t, rec.ExifVersion)
	assert.Nil(t, rec.UserComment)
}

func TestUpdateExifNoAPP1IsNoOp(t *testing.T) {
	j := jpegWithoutAPP1()
	before := Encode(j)

	err := UpdateExif(j, &exif.Record{UserComment: strPtr("ignored")})
	require.NoError(t, err)

	assert.Equal(t, before, Encode(j))

	rec, err := DecodeExif(j)
	require.NoError(t, err)
	assert.Nil(t, rec.UserComment)
}

func TestUpdateThenDecodeExifIsIdempotent(t *testing.T) {
	j := jpegWithEmptyAPP1()

	rec := &exif.Record{UserComment: strPtr("Test 123!")}
	require.NoError(t, UpdateExif(j, rec))

	got, err := DecodeExif(j)
	require.NoError(t, err)
	require.NotNil(t, got.UserComment)
	assert.Equal(t, "Test 123!", *got.UserComment)

	rec2 := &exif.Record{UserComment: strPtr("Test 1234!")}
	require.NoError(t, UpdateExif(j, rec2))

	got2, err := DecodeExif(j)
	require.NoError(t, err)
	require.NotNil(t, got2.UserComment)
	assert.Equal(t, "Test 1234!", *got2.UserComment)

	// Round-trip through the JPEG byte stream itself.
	b := Encode(j)
	j2, err := Decode(b)
	require.NoError(t, err)
	got3, err := DecodeExif(j2)
	require.NoError(t, err)
	require.NotNil(t, got3.UserComment)
	assert.Equal(t, "Test 1234!", *got3.UserComment)
}
