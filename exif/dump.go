package exif

import (
	"fmt"
	"io"
	"strings"
)

// Fdump writes a human-readable listing of rec's present fields to w, in
// the same spirit as a debug dump of a decoded directory: one field per
// line, absent fields omitted entirely.
func Fdump(w io.Writer, rec *Record) {
	if rec.ExifVersion != nil {
		fmt.Fprintf(w, "ExifVersion: %s\n", *rec.ExifVersion)
	}
	if rec.UserComment != nil {
		fmt.Fprintf(w, "UserComment: %q\n", *rec.UserComment)
	}
	if rec.DateTimeOriginal != nil {
		fmt.Fprintf(w, "DateTimeOriginal: %s\n", rec.DateTimeOriginal.Format(exifTimeLayout))
	}
	if rec.Make != nil {
		fmt.Fprintf(w, "Make: %s\n", *rec.Make)
	}
	if rec.Model != nil {
		fmt.Fprintf(w, "Model: %s\n", *rec.Model)
	}
	if rec.Orientation != nil {
		fmt.Fprintf(w, "Orientation: %d\n", *rec.Orientation)
	}
	if rec.GPSLatitude != nil && rec.GPSLongitude != nil {
		fmt.Fprintf(w, "GPS: %f, %f\n", *rec.GPSLatitude, *rec.GPSLongitude)
	}
	if len(rec.Thumbnail) > 0 {
		fmt.Fprintf(w, "Thumbnail: %d bytes\n", len(rec.Thumbnail))
	}
}

// Sdump is Fdump rendered to a string.
func Sdump(rec *Record) string {
	var sb strings.Builder
	Fdump(&sb, rec)
	return sb.String()
}
