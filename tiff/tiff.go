package tiff

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Tiff is a decoded TIFF structure: an endianness flag and the ordered chain
// of top-level IFDs (conventionally IFD0 and, for files carrying a
// thumbnail, IFD1).
type Tiff struct {
	LittleEndian bool
	IFDs         []*Ifd
}

// Ifd is an Image File Directory: an ordered sequence of entries. Order is
// preserved exactly as read from the wire; this package does not sort or
// deduplicate entries.
type Ifd struct {
	Entries []Entry
}

// Entry is a single IFD entry. Tag identifies its meaning; Value carries its
// payload and implicitly its wire type (see Value.Type).
type Entry struct {
	Tag   uint16
	Value Value
}

// Find returns the first entry in d with the given tag, and whether one was
// found. Order is on-wire order; duplicate tags are not deduplicated, so
// Find reports only the first.
func (d *Ifd) Find(tag uint16) (Entry, bool) {
	for _, e := range d.Entries {
		if e.Tag == tag {
			return e, true
		}
	}
	return Entry{}, false
}

// ifdPointerTags lists the tags whose TypeLong/count-1 value is an absolute
// offset to a nested IFD rather than a plain integer: the Exif, GPS and
// Interoperability sub-IFD pointers, which all share this convention.
var ifdPointerTags = map[uint16]bool{
	0x8769: true, // Exif IFD
	0x8825: true, // GPS IFD
	0xA005: true, // Interoperability IFD
}

// IsIFDPointerTag reports whether tag is one of the known IFD-pointer tags.
func IsIFDPointerTag(tag uint16) bool {
	return ifdPointerTags[tag]
}

func order(littleEndian bool) binary.ByteOrder {
	if littleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Decode parses a complete TIFF structure from data, whose byte 0 must be
// the start of the TIFF byte-order mark.
func Decode(data []byte) (*Tiff, error) {
	if len(data) < 8 {
		return nil, malformed(data, 0, "buffer too short for TIFF header")
	}

	var little bool
	switch {
	case data[0] == 'I' && data[1] == 'I' && data[2] == 0x2A && data[3] == 0x00:
		little = true
	case data[0] == 'M' && data[1] == 'M' && data[2] == 0x00 && data[3] == 0x2A:
		little = false
	default:
		return nil, malformed(data, 0, "bad byte order mark")
	}

	bo := order(little)
	offset := int(bo.Uint32(data[4:8]))

	var ifds []*Ifd
	for offset != 0 {
		ifd, next, err := decodeIfdAt(data, offset, bo)
		if err != nil {
			return nil, err
		}
		ifds = append(ifds, ifd)
		offset = next
	}

	return &Tiff{LittleEndian: little, IFDs: ifds}, nil
}

// DecodeIfd decodes a single IFD at offset within data, using the given
// endianness, and resolves any nested sub-IFDs it contains. It does not
// follow that IFD's own next-IFD pointer: callers that want a full sibling
// chain use Decode.
func DecodeIfd(data []byte, offset int, littleEndian bool) (*Ifd, error) {
	ifd, _, err := decodeIfdAt(data, offset, order(littleEndian))
	return ifd, err
}

func decodeIfdAt(data []byte, offset int, bo binary.ByteOrder) (*Ifd, int, error) {
	if offset < 0 || offset+2 > len(data) {
		return nil, 0, malformed(data, offset, "IFD offset outside buffer")
	}

	n := int(bo.Uint16(data[offset:]))
	pos := offset + 2

	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		if pos+12 > len(data) {
			return nil, 0, malformed(data, pos, "truncated IFD entry record")
		}
		e, err := decodeEntry(data, bo, data[pos:pos+12], pos)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
		pos += 12
	}

	if pos+4 > len(data) {
		return nil, 0, malformed(data, pos, "truncated next-IFD offset")
	}
	next := int(bo.Uint32(data[pos:]))

	return &Ifd{Entries: entries}, next, nil
}

func decodeEntry(data []byte, bo binary.ByteOrder, rec []byte, recPos int) (Entry, error) {
	tag := bo.Uint16(rec[0:2])
	typ := Type(bo.Uint16(rec[2:4]))
	count := bo.Uint32(rec[4:8])

	width, ok := typ.Width()
	if !ok {
		return Entry{}, malformed(data, recPos+2, "unknown TIFF type code %d", uint16(typ))
	}

	byteLen := uint64(width) * uint64(count)

	var payload []byte
	if byteLen <= 4 {
		payload = rec[8 : 8+byteLen]
	} else {
		off := int(bo.Uint32(rec[8:12]))
		end := uint64(off) + byteLen
		if off < 0 || end > uint64(len(data)) {
			return Entry{}, malformed(data, recPos+8, "entry payload offset outside buffer")
		}
		payload = data[off:end]
	}

	if IsIFDPointerTag(tag) && typ == TypeLong && count == 1 {
		childOffset := int(bo.Uint32(payload))
		child, _, err := decodeIfdAt(data, childOffset, bo)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Tag: tag, Value: SubIFD{Dir: child}}, nil
	}

	val, err := decodeValue(data, recPos, typ, count, payload, bo)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Tag: tag, Value: val}, nil
}

func decodeValue(data []byte, pos int, typ Type, count uint32, p []byte, bo binary.ByteOrder) (Value, error) {
	switch typ {
	case TypeByte:
		v := make(Byte, count)
		copy(v, p)
		return v, nil
	case TypeSByte:
		v := make(SByte, count)
		for i := range v {
			v[i] = int8(p[i])
		}
		return v, nil
	case TypeUndefined:
		v := make(Undefined, count)
		copy(v, p)
		return v, nil
	case TypeAscii:
		if count == 0 {
			return Ascii(""), nil
		}
		if len(p) == 0 || p[len(p)-1] != 0 {
			return nil, malformed(data, pos, "ASCII value missing trailing null")
		}
		return Ascii(string(p[:len(p)-1])), nil
	case TypeShort:
		v := make(Short, count)
		for i := range v {
			v[i] = bo.Uint16(p[2*i:])
		}
		return v, nil
	case TypeSShort:
		v := make(SShort, count)
		for i := range v {
			v[i] = int16(bo.Uint16(p[2*i:]))
		}
		return v, nil
	case TypeLong:
		v := make(Long, count)
		for i := range v {
			v[i] = bo.Uint32(p[4*i:])
		}
		return v, nil
	case TypeSLong:
		v := make(SLong, count)
		for i := range v {
			v[i] = int32(bo.Uint32(p[4*i:]))
		}
		return v, nil
	case TypeFloat:
		v := make(Float, count)
		for i := range v {
			v[i] = math.Float32frombits(bo.Uint32(p[4*i:]))
		}
		return v, nil
	case TypeDouble:
		// The DOUBLE width is 8 bytes; a correct decoder reads each element
		// with the 64-bit accessor (a well-known transcription bug in some
		// reference implementations reads DOUBLE with the 32-bit one).
		v := make(Double, count)
		for i := range v {
			v[i] = math.Float64frombits(bo.Uint64(p[8*i:]))
		}
		return v, nil
	case TypeRational:
		v := make(RationalValue, count)
		for i := range v {
			v[i] = Rational{
				Num:   bo.Uint32(p[8*i:]),
				Denom: bo.Uint32(p[8*i+4:]),
			}
		}
		return v, nil
	case TypeSRational:
		// Numerator/denominator are signed; a correct decoder must not read
		// them with an unsigned accessor (negative values would never
		// survive the round trip otherwise).
		v := make(SRationalValue, count)
		for i := range v {
			v[i] = SRational{
				Num:   int32(bo.Uint32(p[8*i:])),
				Denom: int32(bo.Uint32(p[8*i+4:])),
			}
		}
		return v, nil
	default:
		return nil, malformed(data, pos, "unknown TIFF type code %d", uint16(typ))
	}
}

// Encode serializes t. IFD0 always lands at absolute offset 8, entries are
// written in two passes (size planning, then a single front/back layout
// write) and the endianness used is whatever t.LittleEndian says.
func (t *Tiff) Encode() ([]byte, error) {
	bo := order(t.LittleEndian)

	fronts := make([]int, len(t.IFDs))
	var frontSum, backSum int
	for i, ifd := range t.IFDs {
		f, b, err := ifdSize(ifd)
		if err != nil {
			return nil, err
		}
		fronts[i] = f
		frontSum += f
		backSum += b
	}

	buf := make([]byte, 8+frontSum+backSum)
	if t.LittleEndian {
		copy(buf[0:4], []byte{'I', 'I', 0x2A, 0x00})
	} else {
		copy(buf[0:4], []byte{'M', 'M', 0x00, 0x2A})
	}
	bo.PutUint32(buf[4:8], 8)

	frontPtr := 8
	backPtr := 8 + frontSum
	for i, ifd := range t.IFDs {
		hasNext := i+1 < len(t.IFDs)
		var err error
		frontPtr, backPtr, err = encodeIfd(buf, ifd, frontPtr, backPtr, bo, hasNext)
		if err != nil {
			return nil, err
		}
	}

	return buf, nil
}

// ifdSize computes the (front, back) byte counts an IFD will occupy on
// encode: front holds the fixed-size entry records, back holds whatever
// doesn't fit inline (including any nested IFDs in full).
func ifdSize(ifd *Ifd) (front, back int, err error) {
	front = 6 + 12*len(ifd.Entries)
	for _, e := range ifd.Entries {
		if sub, ok := e.Value.(SubIFD); ok {
			cf, cb, err := ifdSize(sub.Dir)
			if err != nil {
				return 0, 0, err
			}
			back += cf + cb
			continue
		}

		w, ok := e.Value.Type().Width()
		if !ok {
			return 0, 0, fmt.Errorf("tiff: tag %#x: unsupported value type %T", e.Tag, e.Value)
		}
		n := int(w) * int(e.Value.Count())
		if n > 4 {
			back += n
		}
	}
	return front, back, nil
}

func encodeIfd(buf []byte, ifd *Ifd, frontPtr, backPtr int, bo binary.ByteOrder, hasNext bool) (int, int, error) {
	n := len(ifd.Entries)
	bo.PutUint16(buf[frontPtr:], uint16(n))
	entryPos := frontPtr + 2

	for _, e := range ifd.Entries {
		typ := e.Value.Type()
		count := e.Value.Count()

		bo.PutUint16(buf[entryPos:], e.Tag)
		bo.PutUint16(buf[entryPos+2:], uint16(typ))
		bo.PutUint32(buf[entryPos+4:], count)
		valueField := buf[entryPos+8 : entryPos+12]

		if sub, ok := e.Value.(SubIFD); ok {
			bo.PutUint32(valueField, uint32(backPtr))
			childFront, _, err := ifdSize(sub.Dir)
			if err != nil {
				return 0, 0, err
			}
			var err2 error
			_, backPtr, err2 = encodeIfd(buf, sub.Dir, backPtr, backPtr+childFront, bo, false)
			if err2 != nil {
				return 0, 0, err2
			}
		} else {
			payload, err := encodeValue(e.Value, bo)
			if err != nil {
				return 0, 0, err
			}
			if len(payload) <= 4 {
				copy(valueField, payload)
			} else {
				bo.PutUint32(valueField, uint32(backPtr))
				copy(buf[backPtr:backPtr+len(payload)], payload)
				backPtr += len(payload)
			}
		}

		entryPos += 12
	}

	nextOffsetPos := entryPos
	newFrontPtr := entryPos + 4
	if hasNext {
		// Valid only because IFDs are laid out contiguously in the front
		// region with no back payload interleaved between them.
		bo.PutUint32(buf[nextOffsetPos:], uint32(newFrontPtr))
	}

	return newFrontPtr, backPtr, nil
}

func encodeValue(v Value, bo binary.ByteOrder) ([]byte, error) {
	switch t := v.(type) {
	case Byte:
		return []byte(t), nil
	case SByte:
		b := make([]byte, len(t))
		for i, x := range t {
			b[i] = byte(x)
		}
		return b, nil
	case Undefined:
		return []byte(t), nil
	case Ascii:
		b := make([]byte, len(t)+1)
		copy(b, t)
		return b, nil
	case Short:
		b := make([]byte, 2*len(t))
		for i, x := range t {
			bo.PutUint16(b[2*i:], x)
		}
		return b, nil
	case SShort:
		b := make([]byte, 2*len(t))
		for i, x := range t {
			bo.PutUint16(b[2*i:], uint16(x))
		}
		return b, nil
	case Long:
		b := make([]byte, 4*len(t))
		for i, x := range t {
			bo.PutUint32(b[4*i:], x)
		}
		return b, nil
	case SLong:
		b := make([]byte, 4*len(t))
		for i, x := range t {
			bo.PutUint32(b[4*i:], uint32(x))
		}
		return b, nil
	case Float:
		b := make([]byte, 4*len(t))
		for i, x := range t {
			bo.PutUint32(b[4*i:], math.Float32bits(x))
		}
		return b, nil
	case Double:
		b := make([]byte, 8*len(t))
		for i, x := range t {
			bo.PutUint64(b[8*i:], math.Float64bits(x))
		}
		return b, nil
	case RationalValue:
		b := make([]byte, 8*len(t))
		for i, r := range t {
			bo.PutUint32(b[8*i:], r.Num)
			bo.PutUint32(b[8*i+4:], r.Denom)
		}
		return b, nil
	case SRationalValue:
		b := make([]byte, 8*len(t))
		for i, r := range t {
			bo.PutUint32(b[8*i:], uint32(r.Num))
			bo.PutUint32(b[8*i+4:], uint32(r.Denom))
		}
		return b, nil
	default:
		return nil, fmt.Errorf("tiff: unsupported value type %T", v)
	}
}
