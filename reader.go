package jsonrw

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Reader is the pull-style tokenizing decoder core described in spec.md
// §4.2. It is NOT safe for concurrent use; a single instance is meant to
// be reused sequentially across many decode calls via the pooled codec
// entry points in codec.go.
type Reader struct {
	ring  *byteRing
	chars *charBuf
	cfg   *ReaderConfig

	lastByte byte
	hasLast  bool
}

// NewReader creates a standalone Reader. Most callers should instead go
// through the pooled entry points (ReadFromArray, ReadFromStream, ...);
// this constructor exists for callers embedding a Reader in their own
// long-lived decoding loop, and is what the pool uses to create instances.
func NewReader(cfg *ReaderConfig) *Reader {
	cfg = resolveReaderConfig(cfg)
	return &Reader{
		ring:  newByteRing(cfg.MaxBufSize, cfg.PreferredBufSize),
		chars: newCharBuf(cfg.MaxCharBufSize, cfg.PreferredCharBufSize),
		cfg:   cfg,
	}
}

func (r *Reader) resetForSlice(data []byte) {
	r.ring.seed(data)
	r.hasLast = false
}

func (r *Reader) resetForStream(src io.Reader) {
	r.ring.reset(src)
	r.hasLast = false
}

// --- low-level byte access ---

func (r *Reader) ensure(n int, requireMore bool) error {
	for r.ring.remaining() < n {
		before := r.ring.remaining()
		if err := r.ring.loadMoreOrError(requireMore); err != nil {
			return err
		}
		if r.ring.remaining() == before {
			// no refill source and not required: caller must treat this
			// as "not enough data available, no error".
			return nil
		}
	}
	return nil
}

func (r *Reader) atEnd() bool {
	if r.ring.remaining() > 0 {
		return false
	}
	if err := r.ensure(1, false); err != nil {
		return false
	}
	return r.ring.remaining() == 0
}

// nextByte returns the byte at head and advances, per spec.md §4.2.
func (r *Reader) nextByte() (byte, error) {
	if err := r.ensure(1, true); err != nil {
		return 0, err
	}
	b := r.ring.buf[r.ring.head]
	r.ring.head++
	r.lastByte, r.hasLast = b, true
	return b, nil
}

// peekByte returns the byte at head without advancing. ok is false only
// when the input is legitimately exhausted (no refill source, or refill
// returned no more data) and requireMore is false.
func (r *Reader) peekByte(requireMore bool) (b byte, ok bool, err error) {
	if err := r.ensure(1, requireMore); err != nil {
		return 0, false, err
	}
	if r.ring.remaining() == 0 {
		return 0, false, nil
	}
	return r.ring.buf[r.ring.head], true, nil
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// skipWhitespace advances past any run of whitespace tokens.
func (r *Reader) skipWhitespace() error {
	for {
		b, ok, err := r.peekByte(false)
		if err != nil {
			return err
		}
		if !ok || !isWhitespace(b) {
			return nil
		}
		r.ring.head++
	}
}

// nextToken skips whitespace, then returns the next non-whitespace byte,
// advancing past it.
func (r *Reader) nextToken() (byte, error) {
	if err := r.skipWhitespace(); err != nil {
		return 0, err
	}
	return r.nextByte()
}

// isNextToken reports whether the next non-whitespace token equals t. The
// head always advances past the inspected byte, per spec.md §4.2.
func (r *Reader) isNextToken(t byte) (bool, error) {
	b, err := r.nextToken()
	if err != nil {
		return false, err
	}
	return b == t, nil
}

// isCurrentToken examines the byte at head-1 without moving head.
func (r *Reader) isCurrentToken(t byte) bool {
	if r.ring.head == 0 {
		panic(ErrIllegalState)
	}
	return r.ring.buf[r.ring.head-1] == t
}

// rollbackToken decrements head by 1.
func (r *Reader) rollbackToken() {
	if r.ring.head == 0 {
		panic(ErrIllegalState)
	}
	r.ring.head--
}

func (r *Reader) setMark()          { r.ring.setMark() }
func (r *Reader) resetMark()        { r.ring.resetMark() }
func (r *Reader) rollbackToMark()   { r.ring.rollbackToMark() }
func (r *Reader) markedSlice() []byte {
	return r.ring.buf[r.ring.mark:r.ring.head]
}

// pos returns the reader's current absolute byte offset, for error
// reporting.
func (r *Reader) pos() int64 { return r.ring.absOffset(r.ring.head) }

// --- errors ---

func (r *Reader) errAt(k Kind, pos int64, msg string) *ReaderError {
	e := readerErr(k, pos, msg)
	if r.cfg.AppendHexDumpToParseException {
		e.HexDump = r.hexDump(pos)
	}
	return e
}

func (r *Reader) errAtf(k Kind, pos int64, format string, args ...any) *ReaderError {
	return r.errAt(k, pos, fmt.Sprintf(format, args...))
}

// hexDump renders spec.md §4.2's bordered 16-bytes-per-line table around
// the local buffer position corresponding to the absolute offset pos,
// covering cfg.HexDumpSize lines on each side, aligned to 16-byte
// boundaries.
func (r *Reader) hexDump(pos int64) string {
	local := int(pos - (r.ring.totalRead - int64(r.ring.tail)))
	if local < 0 || local > len(r.ring.buf) {
		return ""
	}
	lineStart := (local / 16) * 16
	startLine := lineStart - r.cfg.HexDumpSize*16
	if startLine < 0 {
		startLine = 0
	}
	endLine := lineStart + (r.cfg.HexDumpSize+1)*16
	if endLine > len(r.ring.buf) {
		endLine = len(r.ring.buf)
	}

	var b strings.Builder
	b.WriteString("+--------+-------------------------------------------------+------------------+\n")
	for off := startLine; off < endLine; off += 16 {
		end := off + 16
		if end > len(r.ring.buf) {
			end = len(r.ring.buf)
		}
		line := r.ring.buf[off:end]
		fmt.Fprintf(&b, "| %06X | ", off)
		for i := 0; i < 16; i++ {
			if i < len(line) {
				fmt.Fprintf(&b, "%02X ", line[i])
			} else {
				b.WriteString("   ")
			}
			if i == 7 {
				b.WriteByte(' ')
			}
		}
		b.WriteString("| ")
		for _, c := range line {
			if c >= 0x20 && c < 0x7F {
				b.WriteByte(c)
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("+--------+-------------------------------------------------+------------------+")
	return b.String()
}

// --- value skipping ---

// skip skips exactly one JSON value, respecting nested structure and
// string escapes, per spec.md §4.2.
func (r *Reader) skip() error {
	b, err := r.nextToken()
	if err != nil {
		return err
	}
	switch {
	case b == '"':
		return r.skipString()
	case b == '{':
		return r.skipContainer('{', '}')
	case b == '[':
		return r.skipContainer('[', ']')
	case b == 't':
		return r.skipLiteral("rue")
	case b == 'f':
		return r.skipLiteral("alse")
	case b == 'n':
		return r.skipLiteral("ull")
	case b == '-' || (b >= '0' && b <= '9'):
		return r.skipNumber()
	default:
		return r.errAtf(KindUnexpectedToken, r.pos()-1, "unexpected token %q while skipping value", b)
	}
}

func (r *Reader) skipLiteral(rest string) error {
	for i := 0; i < len(rest); i++ {
		b, err := r.nextByte()
		if err != nil {
			return err
		}
		if b != rest[i] {
			return r.errAtf(KindUnexpectedToken, r.pos()-1, "invalid literal")
		}
	}
	return nil
}

func (r *Reader) skipString() error {
	for {
		b, err := r.nextByte()
		if err != nil {
			return err
		}
		switch b {
		case '"':
			return nil
		case '\\':
			if _, err := r.nextByte(); err != nil {
				return err
			}
		}
	}
}

func (r *Reader) skipContainer(openB, closeB byte) error {
	depth := 1
	for depth > 0 {
		b, err := r.nextToken()
		if err != nil {
			return err
		}
		switch b {
		case '"':
			if err := r.skipString(); err != nil {
				return err
			}
		case openB:
			depth++
		case closeB:
			depth--
		}
	}
	return nil
}

func (r *Reader) skipNumber() error {
	for {
		b, ok, err := r.peekByte(false)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		switch {
		case b >= '0' && b <= '9', b == '.', b == 'e', b == 'E', b == '+', b == '-':
			r.ring.head++
		default:
			return nil
		}
	}
}

// readRawValAsBytes returns a copy of the raw byte span of the next value,
// excluding any leading whitespace consumed by nextToken (spec.md §9's
// resolved open question), implemented via mark + skip.
func (r *Reader) readRawValAsBytes() ([]byte, error) {
	if err := r.skipWhitespace(); err != nil {
		return nil, err
	}
	r.setMark()
	if err := r.skip(); err != nil {
		r.resetMark()
		return nil, err
	}
	out := make([]byte, len(r.markedSlice()))
	copy(out, r.markedSlice())
	r.resetMark()
	return out, nil
}

// skipToKey scans the current object for a key matching name, positioning
// the reader past ':' and returning true on a match; skips non-matching
// keys' values. Returns false at the object's closing '}'.
func (r *Reader) skipToKey(name string) (bool, error) {
	for {
		b, err := r.nextToken()
		if err != nil {
			return false, err
		}
		if b == '}' {
			return false, nil
		}
		if b == ',' {
			b, err = r.nextToken()
			if err != nil {
				return false, err
			}
		}
		if b != '"' {
			return false, r.errAtf(KindUnexpectedToken, r.pos()-1, "expected string key in object")
		}
		key, err := r.readStringBytes()
		if err != nil {
			return false, err
		}
		if ok, err := r.isNextToken(':'); err != nil {
			return false, err
		} else if !ok {
			return false, r.errAtf(KindUnexpectedToken, r.pos()-1, "expected ':' after object key")
		}
		if string(key) == name {
			return true, nil
		}
		if err := r.skip(); err != nil {
			return false, err
		}
	}
}

// --- object/array driving helpers shared by generated codecs ---

// ReadObjectStart expects '{'. It does not look past it; a following '}'
// is reported by ReadObjectField.
func (r *Reader) ReadObjectStart() error {
	b, err := r.nextToken()
	if err != nil {
		return err
	}
	if b != '{' {
		return r.errAtf(KindUnexpectedToken, r.pos()-1, "expected '{'")
	}
	return nil
}

// ReadObjectField advances past a comma (if not the first field) and the
// next key, returning the key text, and leaves the reader positioned
// after the following ':'. atEnd is true and key is empty when '}' was
// found instead.
func (r *Reader) ReadObjectField(first bool) (key string, atEnd bool, err error) {
	b, err := r.nextToken()
	if err != nil {
		return "", false, err
	}
	if b == '}' {
		return "", true, nil
	}
	if !first {
		if b != ',' {
			return "", false, r.errAtf(KindUnexpectedToken, r.pos()-1, "expected ',' or '}'")
		}
		b, err = r.nextToken()
		if err != nil {
			return "", false, err
		}
	}
	if b != '"' {
		return "", false, r.errAtf(KindUnexpectedToken, r.pos()-1, "expected string key in object")
	}
	keyBytes, err := r.readStringBytes()
	if err != nil {
		return "", false, err
	}
	if ok, err := r.isNextToken(':'); err != nil {
		return "", false, err
	} else if !ok {
		return "", false, r.errAtf(KindUnexpectedToken, r.pos()-1, "expected ':' after object key")
	}
	return string(keyBytes), false, nil
}

// ReadArrayStart expects '['.
func (r *Reader) ReadArrayStart() error {
	b, err := r.nextToken()
	if err != nil {
		return err
	}
	if b != '[' {
		return r.errAtf(KindUnexpectedToken, r.pos()-1, "expected '['")
	}
	return nil
}

// ReadArrayElement advances past a comma (if not the first element) and
// reports whether ']' terminated the array instead.
func (r *Reader) ReadArrayElement(first bool) (atEnd bool, err error) {
	b, _, err := r.peekByte(true)
	if err != nil {
		return false, err
	}
	if b == ']' {
		r.ring.head++
		return true, nil
	}
	if !first {
		if b != ',' {
			return false, r.errAtf(KindUnexpectedToken, r.pos(), "expected ',' or ']'")
		}
		r.ring.head++
	}
	return false, nil
}

// ReadNull consumes the literal "null", assuming the leading 'n' has NOT
// yet been consumed.
func (r *Reader) ReadNull() error {
	b, err := r.nextToken()
	if err != nil {
		return err
	}
	if b != 'n' {
		return r.errAtf(KindUnexpectedToken, r.pos()-1, "expected 'null'")
	}
	return r.skipLiteral("ull")
}

// TryReadNull peeks for a leading 'n' and, if present, consumes "null" and
// reports true; otherwise leaves the reader untouched.
func (r *Reader) TryReadNull() (bool, error) {
	b, ok, err := r.peekByte(false)
	if err != nil {
		return false, err
	}
	if !ok || b != 'n' {
		return false, nil
	}
	r.ring.head++
	if err := r.skipLiteral("ull"); err != nil {
		return false, err
	}
	return true, nil
}

// ReadBool parses "true" or "false".
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.nextToken()
	if err != nil {
		return false, err
	}
	switch b {
	case 't':
		if err := r.skipLiteral("rue"); err != nil {
			return false, r.errAtf(KindIllegalBoolean, r.pos(), "illegal boolean literal")
		}
		return true, nil
	case 'f':
		if err := r.skipLiteral("alse"); err != nil {
			return false, r.errAtf(KindIllegalBoolean, r.pos(), "illegal boolean literal")
		}
		return false, nil
	default:
		return false, r.errAtf(KindIllegalBoolean, r.pos()-1, "illegal boolean literal")
	}
}

// EndOfInput enforces ReaderConfig.CheckForEndOfInput: after the top-level
// value, any remaining bytes must be whitespace only.
func (r *Reader) EndOfInput() error {
	if !r.cfg.CheckForEndOfInput {
		return nil
	}
	if err := r.skipWhitespace(); err != nil {
		return err
	}
	if !r.atEnd() {
		return r.errAtf(KindUnexpectedToken, r.pos(), "expected end of input")
	}
	return nil
}

// bytesEqual is a case-sensitive raw compare against the char buffer
// without allocating (kept trivial: Go's bytes.Equal already does this
// without folding, which is what JSON keys require).
func bytesEqual(a, b []byte) bool { return bytes.Equal(a, b) }
