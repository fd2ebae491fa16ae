package png

import "bytes"

// GetText returns the value of the first tEXt chunk keyed key, and whether
// one was found.
func GetText(p *Png, key string) (string, bool) {
	for _, c := range p.Chunks {
		if c.Type != "tEXt" {
			continue
		}
		k, v, ok := splitText(c.Data)
		if ok && k == key {
			return v, true
		}
	}
	return "", false
}

// SetText inserts a tEXt chunk keyed key with value value, replacing any
// existing tEXt chunk with that key in place. New chunks are inserted
// immediately before IEND (or appended, if there is no IEND yet).
func SetText(p *Png, key, value string) {
	data := make([]byte, 0, len(key)+1+len(value))
	data = append(data, key...)
	data = append(data, 0)
	data = append(data, value...)

	for i, c := range p.Chunks {
		if c.Type != "tEXt" {
			continue
		}
		k, _, ok := splitText(c.Data)
		if ok && k == key {
			p.Chunks[i].Data = data
			return
		}
	}

	insertAt := len(p.Chunks)
	for i, c := range p.Chunks {
		if c.Type == "IEND" {
			insertAt = i
			break
		}
	}

	p.Chunks = append(p.Chunks[:insertAt:insertAt],
		append([]Chunk{{Type: "tEXt", Data: data}}, p.Chunks[insertAt:]...)...)
}

func splitText(data []byte) (key, value string, ok bool) {
	idx := bytes.IndexByte(data, 0)
	if idx < 0 {
		return "", "", false
	}
	return string(data[:idx]), string(data[idx+1:]), true
}
