package exif

import "fmt"

// FrameError reports a malformed Exif APP1 frame: the eight-byte "size +
// Exif\0\0" header did not match, or the size field disagreed with the
// buffer it was found in. It carries the same offset/byte-window trace as
// tiff.MalformedDataError so callers can pinpoint where framing broke down.
type FrameError struct {
	Msg    string
	Offset int
	Data   []byte // the full Exif payload being unwrapped, for context formatting
}

func (e *FrameError) Error() string {
	return "exif: " + e.Msg + " " + formatTrace(e.Data, e.Offset)
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

func frameErrorf(data []byte, offset int, format string, args ...interface{}) error {
	return &FrameError{
		Msg:    fmt.Sprintf(format, args...),
		Offset: offset,
		Data:   data,
	}
}

// InvalidInputError reports a record field that cannot be serialized, such
// as an ExifVersion whose encoded length isn't exactly four bytes.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string { return "exif: " + e.Msg }

func invalidInputf(format string, args ...interface{}) error {
	return &InvalidInputError{Msg: fmt.Sprintf(format, args...)}
}
