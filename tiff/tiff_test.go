package tiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleTiff() *Tiff {
	return &Tiff{
		LittleEndian: true,
		IFDs: []*Ifd{
			{
				Entries: []Entry{
					{Tag: 0x0100, Value: Long{640}},
					{Tag: 0x0101, Value: Long{480}},
					{Tag: 0x010E, Value: Ascii("a description long enough to spill")},
					{Tag: 0x013E, Value: RationalValue{{Num: 1, Denom: 2}, {Num: 3, Denom: 4}}},
					{Tag: 0x9201, Value: SRationalValue{{Num: -5, Denom: 2}}},
				},
			},
		},
	}
}

func assertTiffEqual(t *testing.T, want, got *Tiff) {
	t.Helper()
	require.Equal(t, want.LittleEndian, got.LittleEndian)
	require.Equal(t, len(want.IFDs), len(got.IFDs))
	for i := range want.IFDs {
		assertIfdEqual(t, want.IFDs[i], got.IFDs[i])
	}
}

func assertIfdEqual(t *testing.T, want, got *Ifd) {
	t.Helper()
	require.Equal(t, len(want.Entries), len(got.Entries))
	for i := range want.Entries {
		we, ge := want.Entries[i], got.Entries[i]
		assert.Equal(t, we.Tag, ge.Tag)
		if wsub, ok := we.Value.(SubIFD); ok {
			gsub, ok := ge.Value.(SubIFD)
			require.True(t, ok, "tag %#x: expected SubIFD", we.Tag)
			assertIfdEqual(t, wsub.Dir, gsub.Dir)
			continue
		}
		assert.Equal(t, we.Value, ge.Value, "tag %#x", we.Tag)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := simpleTiff()
	b, err := want.Encode()
	require.NoError(t, err)

	got, err := Decode(b)
	require.NoError(t, err)
	assertTiffEqual(t, want, got)
}

func TestEncodeDecodeBigEndian(t *testing.T) {
	want := simpleTiff()
	want.LittleEndian = false
	b, err := want.Encode()
	require.NoError(t, err)
	require.Equal(t, []byte{'M', 'M', 0x00, 0x2A}, b[:4])

	got, err := Decode(b)
	require.NoError(t, err)
	assertTiffEqual(t, want, got)
}

func TestEncodeDecodeMultipleIFDs(t *testing.T) {
	want := &Tiff{
		LittleEndian: true,
		IFDs: []*Ifd{
			{Entries: []Entry{{Tag: 0x0100, Value: Long{1}}}},
			{Entries: []Entry{{Tag: 0x0201, Value: Long{123}}, {Tag: 0x0202, Value: Long{45}}}},
		},
	}
	b, err := want.Encode()
	require.NoError(t, err)

	got, err := Decode(b)
	require.NoError(t, err)
	assertTiffEqual(t, want, got)
}

func TestEncodeDecodeNestedSubIFD(t *testing.T) {
	want := &Tiff{
		LittleEndian: true,
		IFDs: []*Ifd{
			{
				Entries: []Entry{
					{Tag: 0x0100, Value: Long{1}},
					{Tag: 0x8769, Value: SubIFD{Dir: &Ifd{
						Entries: []Entry{
							{Tag: 0x9000, Value: Undefined("0220")},
							{Tag: 0x9286, Value: Undefined("ASCII\x00\x00\x00hello world")},
						},
					}}},
				},
			},
		},
	}
	b, err := want.Encode()
	require.NoError(t, err)

	got, err := Decode(b)
	require.NoError(t, err)
	assertTiffEqual(t, want, got)
}

func TestDecodeRejectsBadByteOrderMark(t *testing.T) {
	_, err := Decode([]byte{0, 0, 0, 0, 0, 0, 0, 0})
	require.Error(t, err)
	var merr *MalformedDataError
	require.ErrorAs(t, err, &merr)
}

func TestDecodeRejectsTruncatedBuffer(t *testing.T) {
	_, err := Decode([]byte{'I', 'I', 0x2A, 0x00, 8, 0, 0, 0})
	require.Error(t, err)
}

func TestDecodeDoubleUsesEightByteWidth(t *testing.T) {
	want := &Tiff{
		LittleEndian: true,
		IFDs: []*Ifd{
			{Entries: []Entry{{Tag: 0x9999, Value: Double{3.5, -2.25}}}},
		},
	}
	b, err := want.Encode()
	require.NoError(t, err)

	got, err := Decode(b)
	require.NoError(t, err)
	assertTiffEqual(t, want, got)
}

func TestDecodeSignedRationalPreservesSign(t *testing.T) {
	want := &Tiff{
		LittleEndian: true,
		IFDs: []*Ifd{
			{Entries: []Entry{{Tag: 0x9999, Value: SRationalValue{{Num: -7, Denom: 3}}}}},
		},
	}
	b, err := want.Encode()
	require.NoError(t, err)

	got, err := Decode(b)
	require.NoError(t, err)
	e, ok := got.IFDs[0].Find(0x9999)
	require.True(t, ok)
	sr, ok := e.Value.(SRationalValue)
	require.True(t, ok)
	assert.EqualValues(t, -7, sr[0].Num)
}

func TestDecodeIfdSingleDirectory(t *testing.T) {
	want := &Tiff{
		LittleEndian: true,
		IFDs: []*Ifd{
			{Entries: []Entry{{Tag: 0x0100, Value: Ascii("standalone")}}},
		},
	}
	b, err := want.Encode()
	require.NoError(t, err)

	ifd, err := DecodeIfd(b, 8, true)
	require.NoError(t, err)
	assertIfdEqual(t, want.IFDs[0], ifd)
}

func TestTypeWidth(t *testing.T) {
	w, ok := TypeDouble.Width()
	require.True(t, ok)
	assert.EqualValues(t, 8, w)

	_, ok = Type(99).Width()
	assert.False(t, ok)
}
