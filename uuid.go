package jsonrw

import "encoding/hex"

// UUID is a 128-bit value formatted per RFC 4122's canonical
// "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" layout.
type UUID [16]byte

// ReadUUID parses a quoted canonical UUID literal.
func (r *Reader) ReadUUID() (UUID, error) {
	if err := r.expectQuote(); err != nil {
		return UUID{}, err
	}
	r.setMark()
	for {
		b, err := r.nextByte()
		if err != nil {
			r.resetMark()
			return UUID{}, err
		}
		if b == '"' {
			break
		}
	}
	span := r.markedSlice()
	text := span[:len(span)-1]
	var id UUID
	err := parseUUID(id[:], text)
	r.resetMark()
	if err != nil {
		return UUID{}, r.errAtf(KindIllegalUUID, r.pos(), "illegal UUID literal: %v", err)
	}
	return id, nil
}

// parseUUID decodes the canonical 36-character hyphenated form into dst,
// following the same fixed-layout hex decode/encode approach as
// uniyakcom-beat's hand-rolled UUID generator.
func parseUUID(dst []byte, text []byte) error {
	if len(text) != 36 || text[8] != '-' || text[13] != '-' || text[18] != '-' || text[23] != '-' {
		return errMalformedUUID
	}
	groups := [][2]int{{0, 8}, {9, 13}, {14, 18}, {19, 23}, {24, 36}}
	offsets := []int{0, 4, 6, 8, 10}
	for i, g := range groups {
		if _, err := hex.Decode(dst[offsets[i]:], text[g[0]:g[1]]); err != nil {
			return errMalformedUUID
		}
	}
	return nil
}

var errMalformedUUID = ErrIllegalUUID

// String renders id in canonical hyphenated lowercase hex form.
func (id UUID) String() string {
	var buf [36]byte
	hex.Encode(buf[0:8], id[0:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], id[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], id[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], id[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:36], id[10:16])
	return string(buf[:])
}

// WriteUUID writes id as a quoted canonical UUID string.
func (w *Writer) WriteUUID(id UUID) error {
	return w.WriteString(id.String())
}
