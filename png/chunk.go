// Package png implements a lossless PNG chunk codec: decoding splits a PNG
// byte stream into its ordered chunk list (verifying each chunk's CRC-32),
// and encoding reassembles them byte-for-byte. Pixel data inside IDAT
// chunks is carried opaquely; this package never inflates it.
package png

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

var signature = [8]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// Chunk is one length-prefixed PNG chunk: a 4-character type code and its
// payload. The CRC-32 trailer is verified on decode and recomputed on
// encode; it is never stored on the Chunk itself.
type Chunk struct {
	Type string
	Data []byte
}

// Png is a decoded PNG byte stream: its chunks, in file order.
type Png struct {
	Chunks []Chunk
}

// MalformedDataError reports a structural problem found while splitting a
// PNG byte stream into chunks: a bad signature, a truncated chunk, or a
// CRC-32 mismatch.
type MalformedDataError struct {
	Msg    string
	Offset int
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("png: %s at offset %d", e.Msg, e.Offset)
}

func malformed(offset int, format string, args ...interface{}) error {
	return &MalformedDataError{Msg: fmt.Sprintf(format, args...), Offset: offset}
}

// Decode splits data into its chunk list, verifying each CRC-32 trailer.
func Decode(data []byte) (*Png, error) {
	if len(data) < 8 || !bytes.Equal(data[:8], signature[:]) {
		return nil, malformed(0, "bad PNG signature")
	}

	var chunks []Chunk
	pos := 8
	for pos < len(data) {
		if pos+8 > len(data) {
			return nil, malformed(pos, "truncated chunk header")
		}
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		ctype := string(data[pos+4 : pos+8])
		pos += 8

		if length < 0 || pos+length+4 > len(data) {
			return nil, malformed(pos, "chunk length out of range")
		}
		cdata := data[pos : pos+length]
		pos += length

		crc := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4

		if got := chunkCRC(ctype, cdata); got != crc {
			return nil, malformed(pos-4, "CRC-32 mismatch in %q chunk", ctype)
		}

		chunks = append(chunks, Chunk{Type: ctype, Data: cdata})
		if ctype == "IEND" {
			break
		}
	}

	return &Png{Chunks: chunks}, nil
}

// Encode reassembles p's chunks into a byte stream, recomputing each
// chunk's CRC-32 trailer over its type and data.
func Encode(p *Png) []byte {
	size := len(signature)
	for _, c := range p.Chunks {
		size += 12 + len(c.Data)
	}
	out := make([]byte, 0, size)
	out = append(out, signature[:]...)

	var lenBuf, crcBuf [4]byte
	for _, c := range p.Chunks {
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(c.Data)))
		out = append(out, lenBuf[:]...)
		out = append(out, c.Type...)
		out = append(out, c.Data...)
		binary.BigEndian.PutUint32(crcBuf[:], chunkCRC(c.Type, c.Data))
		out = append(out, crcBuf[:]...)
	}
	return out
}

func chunkCRC(ctype string, data []byte) uint32 {
	h := crc32.New(crc32.IEEETable)
	h.Write([]byte(ctype))
	h.Write(data)
	return h.Sum32()
}
