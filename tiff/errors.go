package tiff

import "fmt"

// MalformedDataError reports a structural problem found while decoding a
// TIFF buffer: bad magic, an unknown type code, a truncated buffer, or an
// offset that reaches outside the buffer. It carries a byte position so
// callers (and tests) can pinpoint where decoding gave up.
type MalformedDataError struct {
	Msg    string
	Offset int
	Data   []byte // the full buffer being decoded, for context formatting
}

func (e *MalformedDataError) Error() string {
	return e.Msg + " " + formatTrace(e.Data, e.Offset)
}

// formatTrace renders "at <offset> (<hex>), prev: <=5 bytes, next: <=5 bytes",
// clamped to the bounds of data.
func formatTrace(data []byte, offset int) string {
	if offset < 0 {
		offset = 0
	}
	if offset > len(data) {
		offset = len(data)
	}
	prevStart := offset - 5
	if prevStart < 0 {
		prevStart = 0
	}
	prev := data[prevStart:offset]

	nextEnd := offset + 5
	if nextEnd > len(data) {
		nextEnd = len(data)
	}
	next := data[offset:nextEnd]

	return fmt.Sprintf("at %d (%#x), prev: % x, next: % x", offset, offset, prev, next)
}

func malformed(data []byte, offset int, format string, args ...interface{}) error {
	return &MalformedDataError{
		Msg:    fmt.Sprintf(format, args...),
		Offset: offset,
		Data:   data,
	}
}
