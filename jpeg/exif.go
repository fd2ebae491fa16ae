package jpeg

import (
	"github.com/pkg/errors"

	"github.com/hx2a/imgmeta/exif"
)

// DecodeExif returns the Exif record carried in j's first APP1 segment, or
// an empty record if no APP1 segment is present.
func DecodeExif(j *Jpg) (*exif.Record, error) {
	i, ok := j.FindFirst(MarkerAPP1)
	if !ok {
		return &exif.Record{}, nil
	}
	rec, err := exif.DecodeBytes(j.Segments[i].Data)
	if err != nil {
		return nil, errors.Wrap(err, "jpeg: decoding APP1 as Exif")
	}
	return rec, nil
}

// UpdateExif replaces the Data of j's first APP1 segment with a freshly
// encoded frame for rec. If j has no APP1 segment, this is a no-op: a
// known limitation rather than an attempt to insert one.
func UpdateExif(j *Jpg, rec *exif.Record) error {
	i, ok := j.FindFirst(MarkerAPP1)
	if !ok {
		return nil
	}
	b, err := exif.EncodeBytes(rec)
	if err != nil {
		return errors.Wrap(err, "jpeg: encoding Exif for APP1")
	}
	j.Segments[i].Data = b
	return nil
}
