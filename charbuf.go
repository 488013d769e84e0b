package jsonrw

import "unicode/utf8"

// charBuf is the scratch arena described in spec.md §4.2/§9: a growable
// byte array used to assemble decoded strings and keys. Operations
// identify their slice by (offset, length) rather than owning a reference,
// so the same backing array survives many decode calls.
type charBuf struct {
	buf           []byte
	preferredSize int
	maxSize       int
}

func newCharBuf(maxSize, preferredSize int) *charBuf {
	return &charBuf{preferredSize: preferredSize, maxSize: maxSize}
}

func (c *charBuf) reset() []byte {
	if cap(c.buf) > c.preferredSize {
		c.buf = make([]byte, 0, c.preferredSize)
	}
	return c.buf[:0]
}

// appendCharByte appends a single raw byte, growing buf (up to maxSize) as
// needed, and returns the (possibly reallocated) slice.
func appendCharByte(c *charBuf, buf []byte, b byte) ([]byte, error) {
	if len(buf) >= c.maxSize {
		return buf, readerErr(KindTooLongString, 0, "string exceeds maximum character buffer size")
	}
	return append(buf, b), nil
}

func appendCharBytes(c *charBuf, buf []byte, b []byte) ([]byte, error) {
	if len(buf)+len(b) > c.maxSize {
		return buf, readerErr(KindTooLongString, 0, "string exceeds maximum character buffer size")
	}
	return append(buf, b...), nil
}

func appendCharRune(c *charBuf, buf []byte, r rune) ([]byte, error) {
	var tmp [utf8.UTFMax]byte
	n := utf8.EncodeRune(tmp[:], r)
	return appendCharBytes(c, buf, tmp[:n])
}
