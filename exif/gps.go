package exif

import (
	"math"
	"strings"

	"github.com/hx2a/imgmeta/exif/exiftag"
	"github.com/hx2a/imgmeta/tiff"
)

// degreeFractions is the denominator used for the seconds component of a
// GPS coordinate, giving roughly 30cm of precision at the equator.
const degreeFractions = 100

// toDegHourMin splits an absolute-value decimal degree into the
// degrees/minutes/seconds rational triple GPS tags use on the wire.
func toDegHourMin(v float64) tiff.RationalValue {
	deg := math.Floor(v)
	rem := (v - deg) * 60
	min := math.Floor(rem)
	sec := (rem - min) * 60

	return tiff.RationalValue{
		{Num: uint32(deg), Denom: 1},
		{Num: uint32(min), Denom: 1},
		{Num: uint32(sec*degreeFractions + 0.5), Denom: degreeFractions},
	}
}

// degHourMin is the inverse of toDegHourMin.
func degHourMin(v tiff.RationalValue) float64 {
	if len(v) != 3 {
		return 0
	}
	return ratToFloat(v[0]) + ratToFloat(v[1])/60 + ratToFloat(v[2])/3600
}

func ratToFloat(r tiff.Rational) float64 {
	if r.Denom == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Denom)
}

func encodeGPS(lat, lon float64) []tiff.Entry {
	latRef, latAbs := "N", lat
	if lat < 0 {
		latRef, latAbs = "S", -lat
	}
	lonRef, lonAbs := "E", lon
	if lon < 0 {
		lonRef, lonAbs = "W", -lon
	}

	return []tiff.Entry{
		{Tag: exiftag.GPSLatitudeRef, Value: tiff.Ascii(latRef)},
		{Tag: exiftag.GPSLatitude, Value: toDegHourMin(latAbs)},
		{Tag: exiftag.GPSLongitudeRef, Value: tiff.Ascii(lonRef)},
		{Tag: exiftag.GPSLongitude, Value: toDegHourMin(lonAbs)},
	}
}

func projectGPSSub(sub *tiff.Ifd, rec *Record) {
	latEntry, ok := sub.Find(exiftag.GPSLatitude)
	if !ok {
		return
	}
	latRefEntry, ok := sub.Find(exiftag.GPSLatitudeRef)
	if !ok {
		return
	}
	lonEntry, ok := sub.Find(exiftag.GPSLongitude)
	if !ok {
		return
	}
	lonRefEntry, ok := sub.Find(exiftag.GPSLongitudeRef)
	if !ok {
		return
	}

	latVal, ok := latEntry.Value.(tiff.RationalValue)
	if !ok {
		return
	}
	lonVal, ok := lonEntry.Value.(tiff.RationalValue)
	if !ok {
		return
	}
	latRef, ok := latRefEntry.Value.(tiff.Ascii)
	if !ok {
		return
	}
	lonRef, ok := lonRefEntry.Value.(tiff.Ascii)
	if !ok {
		return
	}

	lat := degHourMin(latVal)
	if strings.EqualFold(string(latRef), "S") {
		lat = -lat
	}
	lon := degHourMin(lonVal)
	if strings.EqualFold(string(lonRef), "W") {
		lon = -lon
	}

	rec.GPSLatitude = &lat
	rec.GPSLongitude = &lon
}
