package exif

import (
	"time"

	"github.com/pkg/errors"

	"github.com/hx2a/imgmeta/driver"
)

func init() {
	driver.RegisterMetadataFormat("exif", newMetadata)
}

// Metadata adapts a Record to driver.Metadata so callers of
// driver.NewMetadata("exif") can read and write Exif through its attr-based
// interface.
type Metadata struct {
	rec *Record
}

func newMetadata(opt ...driver.Option) driver.Metadata {
	return &Metadata{rec: &Record{}}
}

func (m *Metadata) MetadataName() string { return "exif" }

func (m *Metadata) UnmarshalMetadata(b []byte) error {
	rec, err := DecodeBytes(b)
	if err != nil {
		return errors.Wrap(err, "exif: unmarshal")
	}
	m.rec = rec
	return nil
}

func (m *Metadata) MarshalMetadata() ([]byte, error) {
	b, err := EncodeBytes(m.rec)
	if err != nil {
		return nil, errors.Wrap(err, "exif: marshal")
	}
	return b, nil
}

// attrConv pairs a getter, setter and deleter for one named attribute, for
// the table-driven attr dispatch below.
type attrConv struct {
	get func(*Record) interface{}
	set func(*Record, interface{}) error
	del func(*Record)
}

var attrTable = map[string]attrConv{
	"ExifVersion": {
		get: func(r *Record) interface{} {
			if r.ExifVersion == nil {
				return nil
			}
			return *r.ExifVersion
		},
		set: func(r *Record, v interface{}) error {
			s, ok := v.(string)
			if !ok {
				return errors.Errorf("ExifVersion must be a string, got %T", v)
			}
			r.ExifVersion = &s
			return nil
		},
		del: func(r *Record) { r.ExifVersion = nil },
	},
	"UserComment": {
		get: func(r *Record) interface{} {
			if r.UserComment == nil {
				return nil
			}
			return *r.UserComment
		},
		set: func(r *Record, v interface{}) error {
			s, ok := v.(string)
			if !ok {
				return errors.Errorf("UserComment must be a string, got %T", v)
			}
			r.UserComment = &s
			return nil
		},
		del: func(r *Record) { r.UserComment = nil },
	},
	"DateTimeOriginal": {
		get: func(r *Record) interface{} {
			if r.DateTimeOriginal == nil {
				return nil
			}
			return *r.DateTimeOriginal
		},
		set: func(r *Record, v interface{}) error {
			t, ok := v.(time.Time)
			if !ok {
				return errors.Errorf("DateTimeOriginal must be a time.Time, got %T", v)
			}
			r.DateTimeOriginal = &t
			return nil
		},
		del: func(r *Record) { r.DateTimeOriginal = nil },
	},
	"Make": {
		get: func(r *Record) interface{} {
			if r.Make == nil {
				return nil
			}
			return *r.Make
		},
		set: func(r *Record, v interface{}) error {
			s, ok := v.(string)
			if !ok {
				return errors.Errorf("Make must be a string, got %T", v)
			}
			r.Make = &s
			return nil
		},
		del: func(r *Record) { r.Make = nil },
	},
	"Model": {
		get: func(r *Record) interface{} {
			if r.Model == nil {
				return nil
			}
			return *r.Model
		},
		set: func(r *Record, v interface{}) error {
			s, ok := v.(string)
			if !ok {
				return errors.Errorf("Model must be a string, got %T", v)
			}
			r.Model = &s
			return nil
		},
		del: func(r *Record) { r.Model = nil },
	},
	"GPSLatitude": {
		get: func(r *Record) interface{} {
			if r.GPSLatitude == nil {
				return nil
			}
			return *r.GPSLatitude
		},
		set: func(r *Record, v interface{}) error {
			f, ok := v.(float64)
			if !ok {
				return errors.Errorf("GPSLatitude must be a float64, got %T", v)
			}
			r.GPSLatitude = &f
			return nil
		},
		del: func(r *Record) { r.GPSLatitude = nil },
	},
	"GPSLongitude": {
		get: func(r *Record) interface{} {
			if r.GPSLongitude == nil {
				return nil
			}
			return *r.GPSLongitude
		},
		set: func(r *Record, v interface{}) error {
			f, ok := v.(float64)
			if !ok {
				return errors.Errorf("GPSLongitude must be a float64, got %T", v)
			}
			r.GPSLongitude = &f
			return nil
		},
		del: func(r *Record) { r.GPSLongitude = nil },
	},
}

func (m *Metadata) GetMetadataAttr(attr string) interface{} {
	conv, ok := attrTable[attr]
	if !ok {
		return nil
	}
	return conv.get(m.rec)
}

func (m *Metadata) SetMetadataAttr(attr string, value interface{}) error {
	conv, ok := attrTable[attr]
	if !ok {
		return errors.Errorf("exif: unknown attribute %q", attr)
	}
	return conv.set(m.rec, value)
}

func (m *Metadata) DeleteMetadataAttr(attr string) error {
	conv, ok := attrTable[attr]
	if !ok {
		return errors.Errorf("exif: unknown attribute %q", attr)
	}
	conv.del(m.rec)
	return nil
}
