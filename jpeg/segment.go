// Package jpeg implements a lossless JPEG segment codec: decoding splits a
// JPEG byte stream into its marker-delimited segments, and encoding
// reassembles them byte-for-byte. The package does not decode pixel data;
// the SOS segment's entropy-coded bytes are carried opaquely.
package jpeg

import (
	"encoding/binary"
	"fmt"
)

// Marker type bytes (the byte following 0xFF).
const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerRST0 = 0xD0
	markerRST7 = 0xD7

	// AppN marker carrying Exif metadata.
	MarkerAPP1 = 0xE1
)

// Segment is one marker-delimited unit of a JPEG byte stream. Data is
// empty for marker-only segments (SOI, EOI, RSTn); for every other marker
// it starts with the two-byte big-endian length field exactly as it
// appears on the wire, making Data self-describing and Segment
// reassembly a matter of writing 0xFF, Type, Data back to back.
type Segment struct {
	Type byte
	Data []byte
}

// Jpg is a decoded JPEG byte stream: its segments, in file order.
type Jpg struct {
	Segments []Segment
}

// MalformedDataError reports a structural problem found while splitting a
// JPEG byte stream into segments.
type MalformedDataError struct {
	Msg    string
	Offset int
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("jpeg: %s at offset %d", e.Msg, e.Offset)
}

func malformed(offset int, format string, args ...interface{}) error {
	return &MalformedDataError{Msg: fmt.Sprintf(format, args...), Offset: offset}
}

func isRST(b byte) bool {
	return b >= markerRST0 && b <= markerRST7
}

// Decode splits data into its marker-delimited segments.
func Decode(data []byte) (*Jpg, error) {
	var segments []Segment
	pos := 0

	for pos < len(data) {
		if pos+2 > len(data) {
			return nil, malformed(pos, "truncated marker")
		}
		if data[pos] != 0xFF {
			return nil, malformed(pos, "expected marker byte 0xFF")
		}
		markerType := data[pos+1]
		pos += 2

		switch {
		case markerType == markerSOI || markerType == markerEOI || isRST(markerType):
			segments = append(segments, Segment{Type: markerType})
			if markerType == markerEOI {
				return &Jpg{Segments: segments}, nil
			}

		case markerType == markerSOS:
			if pos+2 > len(data) {
				return nil, malformed(pos, "truncated SOS length")
			}
			segLen := int(binary.BigEndian.Uint16(data[pos : pos+2]))
			if segLen < 2 || pos+segLen > len(data) {
				return nil, malformed(pos, "SOS length out of range")
			}

			entropyStart := pos + segLen
			entropyEnd, err := scanToNextMarker(data, entropyStart)
			if err != nil {
				return nil, err
			}

			segments = append(segments, Segment{Type: markerSOS, Data: data[pos:entropyEnd]})
			pos = entropyEnd

		default:
			if pos+2 > len(data) {
				return nil, malformed(pos, "truncated segment length")
			}
			segLen := int(binary.BigEndian.Uint16(data[pos : pos+2]))
			if segLen < 2 || pos+segLen > len(data) {
				return nil, malformed(pos, "segment length out of range")
			}
			segments = append(segments, Segment{Type: markerType, Data: data[pos : pos+segLen]})
			pos += segLen
		}
	}

	return &Jpg{Segments: segments}, nil
}

// scanToNextMarker returns the index of the next non-stuffed marker
// (0xFF followed by a byte that is neither 0x00 nor an RSTn code) at or
// after pos, so the caller can absorb entropy-coded data up to that point.
func scanToNextMarker(data []byte, pos int) (int, error) {
	for {
		idx := -1
		for i := pos; i+1 < len(data); i++ {
			if data[i] == 0xFF {
				idx = i
				break
			}
		}
		if idx == -1 {
			return 0, malformed(pos, "truncated entropy-coded segment")
		}
		next := data[idx+1]
		if next == 0x00 || isRST(next) {
			pos = idx + 2
			continue
		}
		return idx, nil
	}
}

// Encode reassembles j's segments into a byte stream. Because each
// Segment's Data already carries its own on-wire length prefix (or is
// empty for marker-only segments), reassembly is a straight concatenation.
func Encode(j *Jpg) []byte {
	size := 0
	for _, s := range j.Segments {
		size += 2 + len(s.Data)
	}
	out := make([]byte, 0, size)
	for _, s := range j.Segments {
		out = append(out, 0xFF, s.Type)
		out = append(out, s.Data...)
	}
	return out
}

// FindFirst returns the index in j.Segments of the first segment of the
// given marker type, and whether one was found.
func (j *Jpg) FindFirst(markerType byte) (int, bool) {
	for i, s := range j.Segments {
		if s.Type == markerType {
			return i, true
		}
	}
	return 0, false
}
