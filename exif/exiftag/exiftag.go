// Package exiftag names the TIFF/Exif tag numbers this library knows about.
// The numbering follows the Exif 2.3 / TIFF 6.0 registries, the same
// registry garyhouston/tiff66's Tag table and rwcarlsen/goexif's field name
// table draw from.
package exiftag

// IFD0 tags, plus the IFD1 thumbnail tags.
const (
	Make        = 0x010F
	Model       = 0x0110
	Orientation = 0x0112
	XResolution = 0x011A
	YResolution = 0x011B
	DateTime    = 0x0132

	ExifIFDPointer = 0x8769
	GPSIFDPointer  = 0x8825

	ThumbnailOffset = 0x0201
	ThumbnailLength = 0x0202
)

// Exif sub-IFD tags.
const (
	ExifVersion             = 0x9000
	DateTimeOriginal        = 0x9003
	DateTimeDigitized       = 0x9004
	ComponentsConfiguration = 0x9101
	UserComment             = 0x9286

	InteropIFDPointer = 0xA005
)

// GPS sub-IFD tags.
const (
	GPSLatitudeRef  = 0x0001
	GPSLatitude     = 0x0002
	GPSLongitudeRef = 0x0003
	GPSLongitude    = 0x0004
	GPSDateStamp    = 0x001D
	GPSTimeStamp    = 0x0007
)

// Id formats a tag for diagnostics as "dir:tag", e.g. for dump output.
func Id(dir string, tag uint16) string {
	return dir + ":" + tagName(tag)
}

var names = map[uint16]string{
	Make:                    "Make",
	Model:                   "Model",
	Orientation:             "Orientation",
	XResolution:             "XResolution",
	YResolution:             "YResolution",
	DateTime:                "DateTime",
	ExifIFDPointer:          "ExifIFD",
	GPSIFDPointer:           "GPSIFD",
	ThumbnailOffset:         "ThumbnailOffset",
	ThumbnailLength:         "ThumbnailLength",
	ExifVersion:             "ExifVersion",
	DateTimeOriginal:        "DateTimeOriginal",
	DateTimeDigitized:       "DateTimeDigitized",
	ComponentsConfiguration: "ComponentsConfiguration",
	UserComment:             "UserComment",
	InteropIFDPointer:       "InteropIFD",
	GPSLatitudeRef:          "GPSLatitudeRef",
	GPSLatitude:             "GPSLatitude",
	GPSLongitudeRef:         "GPSLongitudeRef",
	GPSLongitude:            "GPSLongitude",
	GPSDateStamp:            "GPSDateStamp",
	GPSTimeStamp:            "GPSTimeStamp",
}

func tagName(tag uint16) string {
	if n, ok := names[tag]; ok {
		return n
	}
	return "0x" + itohex(tag)
}

func itohex(v uint16) string {
	const hex = "0123456789abcdef"
	b := [4]byte{hex[(v>>12)&0xf], hex[(v>>8)&0xf], hex[(v>>4)&0xf], hex[v&0xf]}
	return string(b[:])
}
