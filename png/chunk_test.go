package png

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendChunk(b []byte, ctype string, data []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	b = append(b, lenBuf[:]...)
	b = append(b, ctype...)
	b = append(b, data...)
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], chunkCRC(ctype, data))
	return append(b, crcBuf[:]...)
}

func minimalPNG() []byte {
	b := append([]byte{}, signature[:]...)
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], 1)
	binary.BigEndian.PutUint32(ihdr[4:8], 1)
	ihdr[8] = 8
	ihdr[9] = 6
	b = appendChunk(b, "IHDR", ihdr)
	b = appendChunk(b, "IDAT", []byte{0x01, 0x02, 0x03})
	b = appendChunk(b, "IEND", nil)
	return b
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	orig := minimalPNG()

	p, err := Decode(orig)
	require.NoError(t, err)

	got := Encode(p)
	assert.Equal(t, orig, got)
}

func TestDecodeRejectsBadSignature(t *testing.T) {
	_, err := Decode([]byte("not a png"))
	require.Error(t, err)
}

func TestDecodeRejectsCRCMismatch(t *testing.T) {
	b := minimalPNG()
	// Corrupt a byte inside the IDAT chunk's data.
	idx := bytes.Index(b, []byte("IDAT")) + 4
	b[idx] ^= 0xFF
	_, err := Decode(b)
	require.Error(t, err)
}

func TestSetTextInsertAndReplace(t *testing.T) {
	p, err := Decode(minimalPNG())
	require.NoError(t, err)

	_, ok := GetText(p, "Test Key")
	assert.False(t, ok)

	SetText(p, "Test Key", "ABC123")
	v, ok := GetText(p, "Test Key")
	require.True(t, ok)
	assert.Equal(t, "ABC123", v)

	SetText(p, "Test Key", "123 ABC")
	v, ok = GetText(p, "Test Key")
	require.True(t, ok)
	assert.Equal(t, "123 ABC", v)

	SetText(p, "Test Key 2", "?")

	count := 0
	for _, c := range p.Chunks {
		if c.Type == "tEXt" {
			count++
		}
	}
	assert.Equal(t, 2, count)

	v1, ok := GetText(p, "Test Key")
	require.True(t, ok)
	assert.Equal(t, "123 ABC", v1)
	v2, ok := GetText(p, "Test Key 2")
	require.True(t, ok)
	assert.Equal(t, "?", v2)

	// tEXt must land before IEND, and the result must re-decode cleanly.
	last := p.Chunks[len(p.Chunks)-1]
	assert.Equal(t, "IEND", last.Type)

	b := Encode(p)
	p2, err := Decode(b)
	require.NoError(t, err)
	v, ok = GetText(p2, "Test Key")
	require.True(t, ok)
	assert.Equal(t, "123 ABC", v)
}

func TestGetTextOtherKeysUnaffected(t *testing.T) {
	p, err := Decode(minimalPNG())
	require.NoError(t, err)

	SetText(p, "Author", "Project Nayuki")
	SetText(p, "Software", "Hex editor")
	SetText(p, "Author", "Someone Else")

	v, ok := GetText(p, "Software")
	require.True(t, ok)
	assert.Equal(t, "Hex editor", v)
	v, ok = GetText(p, "Author")
	require.True(t, ok)
	assert.Equal(t, "Someone Else", v)
}
