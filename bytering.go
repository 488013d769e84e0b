package jsonrw

import "io"

// refiller pulls more bytes into a byteRing when it runs dry. A nil refiller
// means the ring was seeded once, in full, from a slice or transcoded
// string: running out of bytes there is simply end-of-input.
type refiller interface {
	Read(p []byte) (int, error)
}

// byteRing is the mutable byte window backing Reader, per spec.md §3/§4.1.
// Invariant: 0 <= head <= tail <= len(buf). When mark >= 0, bytes in
// [mark, head) are preserved across refills.
type byteRing struct {
	buf    []byte
	head   int
	tail   int
	mark   int // -1 means unset
	refill refiller

	totalRead int64 // bytes pulled from refill so far, for absolute offsets

	preferredSize int
	maxSize       int
}

func newByteRing(maxSize, preferredSize int) *byteRing {
	return &byteRing{mark: -1, maxSize: maxSize, preferredSize: preferredSize}
}

// reset rewires the ring for a new top-level call, reclaiming an
// oversized buffer back toward preferredSize first (spec.md §5).
func (b *byteRing) reset(refill refiller) {
	if cap(b.buf) > b.preferredSize {
		b.buf = make([]byte, b.preferredSize)
	}
	b.head, b.tail, b.mark, b.totalRead = 0, 0, -1, 0
	b.refill = refill
}

// seed installs data as the entire (unrefillable) contents of the ring,
// used by the slice/string carriers.
func (b *byteRing) seed(data []byte) {
	b.buf = data
	b.head, b.tail, b.mark, b.refill = 0, len(data), -1, nil
	b.totalRead = int64(len(data))
}

// absOffset converts a local buffer position into an absolute byte offset
// for error reporting, accounting for bytes already discarded by refills.
func (b *byteRing) absOffset(pos int) int64 {
	return b.totalRead - int64(b.tail) + int64(pos)
}

func (b *byteRing) setMark() {
	b.mark = b.head
}

func (b *byteRing) resetMark() {
	b.mark = -1
}

func (b *byteRing) rollbackToMark() {
	if b.mark < 0 {
		panic(ErrIllegalState)
	}
	b.head = b.mark
	b.mark = -1
}

// loadMoreOrError implements spec.md §4.1's loadMore contract, operating
// directly on b.head: it either compacts [offset, tail) down to index 0
// (offset = mark if set, else head) or, if that frees no space, doubles
// the buffer up to maxSize, then pulls more bytes from refill.
func (b *byteRing) loadMoreOrError(requireMore bool) error {
	if b.refill == nil {
		if requireMore {
			return readerErr(KindUnexpectedEndOfInput, b.absOffset(b.head), "unexpected end of input")
		}
		return nil
	}

	offset := b.mark
	if offset < 0 {
		offset = b.head
	}

	if offset > 0 {
		copy(b.buf, b.buf[offset:b.tail])
		b.tail -= offset
		b.head -= offset
		if b.mark >= 0 {
			b.mark -= offset
		}
	} else if b.tail == len(b.buf) {
		newSize := len(b.buf) * 2
		if newSize == 0 {
			newSize = 4096
		}
		if newSize > b.maxSize {
			newSize = b.maxSize
		}
		if newSize <= len(b.buf) {
			return readerErr(KindTooLongInput, b.absOffset(b.head), "input exceeds maximum buffer size")
		}
		grown := make([]byte, newSize)
		copy(grown, b.buf[:b.tail])
		b.buf = grown
	}

	n, err := b.refill.Read(b.buf[b.tail:])
	b.tail += n
	b.totalRead += int64(n)

	if n == 0 {
		if err != nil && err != io.EOF {
			return err
		}
		if requireMore {
			return readerErr(KindUnexpectedEndOfInput, b.absOffset(b.head), "unexpected end of input")
		}
		return nil
	}

	return nil
}

func (b *byteRing) remaining() int { return b.tail - b.head }
