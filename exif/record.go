// Package exif implements the Exif metadata layer on top of the tiff
// package: framing an Exif payload inside a JPEG APP1 segment, and
// projecting the handful of tags this library understands onto a friendly
// Record.
package exif

import (
	"encoding/binary"
	"time"

	"github.com/pkg/errors"

	"github.com/hx2a/imgmeta/exif/exiftag"
	"github.com/hx2a/imgmeta/tiff"
)

// framePrefix is the fixed six-byte Exif marker that follows the two-byte
// size field in an APP1 payload.
var framePrefix = [6]byte{'E', 'x', 'i', 'f', 0, 0}

// asciiEncodingTag is the eight-byte encoding identifier UserComment is
// always written with; this library only ever emits the ASCII profile.
var asciiEncodingTag = [8]byte{'A', 'S', 'C', 'I', 'I', 0, 0, 0}

// Record is the user-facing projection of an Exif directory tree. Fields
// left nil were absent on decode (or are simply unset on a fresh Record);
// encoding only emits the fields that are non-nil.
type Record struct {
	// ExifVersion and UserComment are the two required projections;
	// everything else is an additive projection layered on top.
	ExifVersion *string
	UserComment *string

	DateTimeOriginal *time.Time
	Make             *string
	Model            *string
	Orientation      *uint16

	GPSLatitude  *float64
	GPSLongitude *float64

	// Thumbnail carries IFD1's JPEG thumbnail bytes opaquely, if present.
	Thumbnail []byte
}

// DecodeBytes parses a framed Exif APP1 payload (size field, "Exif\0\0",
// TIFF bytes) into a Record. A payload whose TIFF has no IFD0 decodes to an
// empty Record rather than an error. If IFD0 has no Exif sub-IFD pointer, or
// one that is not a single LONG, the Exif sub-IFD fields are left nil; the
// IFD0, GPS and thumbnail fields are still projected.
func DecodeBytes(data []byte) (*Record, error) {
	tiffBytes, err := unwrapFrame(data)
	if err != nil {
		return nil, err
	}

	t, err := tiff.Decode(tiffBytes)
	if err != nil {
		return nil, errors.Wrap(err, "exif: decoding TIFF")
	}

	rec := &Record{}
	if len(t.IFDs) == 0 {
		return rec, nil
	}
	ifd0 := t.IFDs[0]

	projectIFD0(ifd0, rec)

	if e, ok := ifd0.Find(exiftag.ExifIFDPointer); ok {
		if sub, ok := e.Value.(tiff.SubIFD); ok && sub.Dir != nil {
			projectExifSub(sub.Dir, rec)
		}
	}

	if e, ok := ifd0.Find(exiftag.GPSIFDPointer); ok {
		if sub, ok := e.Value.(tiff.SubIFD); ok && sub.Dir != nil {
			projectGPSSub(sub.Dir, rec)
		}
	}

	if len(t.IFDs) > 1 {
		projectThumbnail(tiffBytes, t.IFDs[1], rec)
	}

	return rec, nil
}

// EncodeBytes serializes rec into a complete Exif APP1 payload.
func EncodeBytes(rec *Record) ([]byte, error) {
	ifd0 := &tiff.Ifd{}

	if rec.Make != nil {
		ifd0.Entries = append(ifd0.Entries, tiff.Entry{Tag: exiftag.Make, Value: asciiValue(*rec.Make)})
	}
	if rec.Model != nil {
		ifd0.Entries = append(ifd0.Entries, tiff.Entry{Tag: exiftag.Model, Value: asciiValue(*rec.Model)})
	}
	if rec.Orientation != nil {
		ifd0.Entries = append(ifd0.Entries, tiff.Entry{Tag: exiftag.Orientation, Value: tiff.Short{*rec.Orientation}})
	}

	if rec.ExifVersion != nil || rec.UserComment != nil || rec.DateTimeOriginal != nil {
		sub := &tiff.Ifd{}

		if rec.ExifVersion != nil {
			b := []byte(*rec.ExifVersion)
			if len(b) != 4 {
				return nil, invalidInputf("ExifVersion must encode to exactly 4 bytes, got %d", len(b))
			}
			sub.Entries = append(sub.Entries, tiff.Entry{Tag: exiftag.ExifVersion, Value: tiff.Undefined(b)})
		}
		if rec.DateTimeOriginal != nil {
			sub.Entries = append(sub.Entries, tiff.Entry{
				Tag:   exiftag.DateTimeOriginal,
				Value: asciiValue(rec.DateTimeOriginal.Format(exifTimeLayout)),
			})
		}
		if rec.UserComment != nil {
			payload := make([]byte, 8+len(*rec.UserComment))
			copy(payload, asciiEncodingTag[:])
			copy(payload[8:], *rec.UserComment)
			sub.Entries = append(sub.Entries, tiff.Entry{Tag: exiftag.UserComment, Value: tiff.Undefined(payload)})
		}

		ifd0.Entries = append(ifd0.Entries, tiff.Entry{Tag: exiftag.ExifIFDPointer, Value: tiff.SubIFD{Dir: sub}})
	}

	if rec.GPSLatitude != nil && rec.GPSLongitude != nil {
		gps := &tiff.Ifd{Entries: encodeGPS(*rec.GPSLatitude, *rec.GPSLongitude)}
		ifd0.Entries = append(ifd0.Entries, tiff.Entry{Tag: exiftag.GPSIFDPointer, Value: tiff.SubIFD{Dir: gps}})
	}

	ifds := []*tiff.Ifd{ifd0}
	var ifd1 *tiff.Ifd
	if len(rec.Thumbnail) > 0 {
		ifd1 = &tiff.Ifd{Entries: []tiff.Entry{
			{Tag: exiftag.ThumbnailOffset, Value: tiff.Long{0}},
			{Tag: exiftag.ThumbnailLength, Value: tiff.Long{uint32(len(rec.Thumbnail))}},
		}}
		ifds = append(ifds, ifd1)
	}

	t := &tiff.Tiff{LittleEndian: true, IFDs: ifds}
	tiffBytes, err := t.Encode()
	if err != nil {
		return nil, errors.Wrap(err, "exif: encoding TIFF")
	}

	if ifd1 != nil {
		// A Long entry's value never affects encoded size, so re-encoding
		// after patching the offset reproduces the same layout with the
		// thumbnail's real position filled in.
		ifd1.Entries[0].Value = tiff.Long{uint32(len(tiffBytes))}
		tiffBytes, err = t.Encode()
		if err != nil {
			return nil, errors.Wrap(err, "exif: encoding TIFF")
		}
		tiffBytes = append(tiffBytes, rec.Thumbnail...)
	}

	return wrapFrame(tiffBytes), nil
}

func asciiValue(s string) tiff.Ascii { return tiff.Ascii(s) }

func unwrapFrame(data []byte) ([]byte, error) {
	if len(data) < 8 {
		return nil, frameErrorf(data, 0, "payload too short for Exif frame")
	}
	size := binary.BigEndian.Uint16(data[0:2])
	if int(size) != len(data) {
		return nil, frameErrorf(data, 0, "size field %d disagrees with payload length %d", size, len(data))
	}
	var got [6]byte
	copy(got[:], data[2:8])
	if got != framePrefix {
		return nil, frameErrorf(data, 2, "missing Exif\\0\\0 marker")
	}
	return data[8:], nil
}

func wrapFrame(tiffBytes []byte) []byte {
	out := make([]byte, 8+len(tiffBytes))
	binary.BigEndian.PutUint16(out[0:2], uint16(8+len(tiffBytes)))
	copy(out[2:8], framePrefix[:])
	copy(out[8:], tiffBytes)
	return out
}

func projectIFD0(ifd0 *tiff.Ifd, rec *Record) {
	if e, ok := ifd0.Find(exiftag.Make); ok {
		if a, ok := e.Value.(tiff.Ascii); ok {
			s := string(a)
			rec.Make = &s
		}
	}
	if e, ok := ifd0.Find(exiftag.Model); ok {
		if a, ok := e.Value.(tiff.Ascii); ok {
			s := string(a)
			rec.Model = &s
		}
	}
	if e, ok := ifd0.Find(exiftag.Orientation); ok {
		if v, ok := e.Value.(tiff.Short); ok && len(v) == 1 {
			o := v[0]
			rec.Orientation = &o
		}
	}
}

func projectExifSub(sub *tiff.Ifd, rec *Record) {
	if e, ok := sub.Find(exiftag.ExifVersion); ok {
		if v, ok := e.Value.(tiff.Undefined); ok && len(v) == 4 {
			s := string(v)
			rec.ExifVersion = &s
		}
	}
	if e, ok := sub.Find(exiftag.UserComment); ok {
		if v, ok := e.Value.(tiff.Undefined); ok && len(v) >= 8 {
			s := string(v[8:])
			rec.UserComment = &s
		}
	}
	if e, ok := sub.Find(exiftag.DateTimeOriginal); ok {
		if a, ok := e.Value.(tiff.Ascii); ok {
			if t, err := time.Parse(exifTimeLayout, string(a)); err == nil {
				rec.DateTimeOriginal = &t
			}
		}
	}
}

func projectThumbnail(tiffBytes []byte, ifd1 *tiff.Ifd, rec *Record) {
	offEntry, hasOffset := ifd1.Find(exiftag.ThumbnailOffset)
	lenEntry, hasLen := ifd1.Find(exiftag.ThumbnailLength)
	if !hasOffset || !hasLen {
		return
	}
	offVal, ok1 := offEntry.Value.(tiff.Long)
	lenVal, ok2 := lenEntry.Value.(tiff.Long)
	if !ok1 || !ok2 || len(offVal) != 1 || len(lenVal) != 1 {
		return
	}
	off, n := int(offVal[0]), int(lenVal[0])
	if off < 0 || n < 0 || off+n > len(tiffBytes) {
		return
	}
	rec.Thumbnail = append([]byte(nil), tiffBytes[off:off+n]...)
}

const exifTimeLayout = "2006:01:02 15:04:05"
