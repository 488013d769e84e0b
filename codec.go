package jsonrw

import (
	"bytes"
	"io"
	"sync"
)

// Codec pairs a decode and encode operation for a single Go type, per
// spec.md §4's "one codec per type" model. NullValue supplies the result
// TryReadNull should produce in place of the zero value, for types (e.g.
// a pointer, or a sentinel struct) where the zero value is ambiguous with
// "absent".
type Codec[T any] interface {
	Decode(r *Reader, def T) (T, error)
	Encode(v T, w *Writer) error
	NullValue() T
}

var readerPool = sync.Pool{New: func() any { return NewReader(DefaultReaderConfig()) }}
var writerPool = sync.Pool{New: func() any { return NewWriter(nil, DefaultWriterConfig()) }}

// getReader/putReader implement the instance-reuse-between-calls scheme
// from spec.md §5, matching the sync.Pool idiom behind bufpool.go.
func getReader(cfg *ReaderConfig) *Reader {
	r := readerPool.Get().(*Reader)
	r.cfg = resolveReaderConfig(cfg)
	if r.ring.maxSize != r.cfg.MaxBufSize || r.ring.preferredSize != r.cfg.PreferredBufSize {
		r.ring = newByteRing(r.cfg.MaxBufSize, r.cfg.PreferredBufSize)
	}
	if r.chars.maxSize != r.cfg.MaxCharBufSize || r.chars.preferredSize != r.cfg.PreferredCharBufSize {
		r.chars = newCharBuf(r.cfg.MaxCharBufSize, r.cfg.PreferredCharBufSize)
	}
	return r
}

func putReader(r *Reader) {
	r.ring.buf = nil
	r.ring.refill = nil
	readerPool.Put(r)
}

func getWriter(sink io.Writer, cfg *WriterConfig) *Writer {
	w := writerPool.Get().(*Writer)
	w.cfg = resolveWriterConfig(cfg)
	w.resetForSink(sink)
	return w
}

func putWriter(w *Writer) {
	w.sink = nil
	writerPool.Put(w)
}

// --- decode entry points (spec.md §6) ---

func ReadFromArray[T any](data []byte, c Codec[T], cfg *ReaderConfig) (T, error) {
	return ReadFromSubArray(data, 0, len(data), c, cfg)
}

func ReadFromSubArray[T any](data []byte, offset, length int, c Codec[T], cfg *ReaderConfig) (T, error) {
	r := getReader(cfg)
	defer putReader(r)
	r.resetForSlice(data[offset : offset+length])
	return decodeTopLevel(r, c)
}

func ReadFromString[T any](s string, c Codec[T], cfg *ReaderConfig) (T, error) {
	r := getReader(cfg)
	defer putReader(r)
	r.resetForSlice([]byte(s))
	return decodeTopLevel(r, c)
}

func ReadFromByteBuffer[T any](buf *bytes.Buffer, c Codec[T], cfg *ReaderConfig) (T, error) {
	return ReadFromStream[T](buf, c, cfg)
}

func ReadFromStream[T any](src io.Reader, c Codec[T], cfg *ReaderConfig) (T, error) {
	r := getReader(cfg)
	defer putReader(r)
	r.resetForStream(src)
	return decodeTopLevel(r, c)
}

func decodeTopLevel[T any](r *Reader, c Codec[T]) (T, error) {
	var zero T
	if ok, err := r.TryReadNull(); err != nil {
		return zero, err
	} else if ok {
		if err := r.EndOfInput(); err != nil {
			return zero, err
		}
		return c.NullValue(), nil
	}
	v, err := c.Decode(r, zero)
	if err != nil {
		return zero, err
	}
	if err := r.EndOfInput(); err != nil {
		return zero, err
	}
	return v, nil
}

// ScanValueStream decodes successive top-level values from src without
// requiring end-of-input between them (spec.md §6's streaming scan mode),
// invoking fn for each until fn returns false, io.EOF, or an error.
func ScanValueStream[T any](src io.Reader, c Codec[T], cfg *ReaderConfig, fn func(T) (bool, error)) error {
	r := getReader(cfg)
	defer putReader(r)
	r.cfg.CheckForEndOfInput = false
	r.resetForStream(src)
	for {
		if err := r.skipWhitespace(); err != nil {
			return err
		}
		if r.atEnd() {
			return nil
		}
		var zero T
		var v T
		if ok, err := r.TryReadNull(); err != nil {
			return err
		} else if ok {
			v = c.NullValue()
		} else {
			v, err = c.Decode(r, zero)
			if err != nil {
				return err
			}
		}
		cont, err := fn(v)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}

// ScanJSONArrayFromStream decodes a single top-level JSON array from src,
// element by element, without buffering the whole array in memory, per
// spec.md §6.
func ScanJSONArrayFromStream[T any](src io.Reader, c Codec[T], cfg *ReaderConfig, fn func(T) (bool, error)) error {
	r := getReader(cfg)
	defer putReader(r)
	r.resetForStream(src)
	if err := r.ReadArrayStart(); err != nil {
		return err
	}
	first := true
	for {
		atEnd, err := r.ReadArrayElement(first)
		if err != nil {
			return err
		}
		if atEnd {
			return r.EndOfInput()
		}
		first = false
		var zero T
		v, err := c.Decode(r, zero)
		if err != nil {
			return err
		}
		cont, err := fn(v)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}

// --- encode entry points ---

func WriteToArray[T any](v T, c Codec[T], cfg *WriterConfig) ([]byte, error) {
	w := getWriter(nil, cfg)
	defer putWriter(w)
	if err := encodeTopLevel(v, c, w); err != nil {
		return nil, err
	}
	out := make([]byte, len(w.Bytes()))
	copy(out, w.Bytes())
	return out, nil
}

// WriteToSubArray encodes v into dst without allocating, failing with
// ErrSubArrayTooSmall if dst is not large enough.
func WriteToSubArray[T any](v T, dst []byte, c Codec[T], cfg *WriterConfig) (int, error) {
	sink := &subArraySink{dst: dst}
	w := getWriter(sink, cfg)
	defer putWriter(w)
	if err := encodeTopLevel(v, c, w); err != nil {
		return sink.n, err
	}
	if err := w.Flush(); err != nil {
		return sink.n, err
	}
	return sink.n, nil
}

func WriteToByteBuffer[T any](v T, buf *bytes.Buffer, c Codec[T], cfg *WriterConfig) error {
	return WriteToStream(v, buf, c, cfg)
}

func WriteToStream[T any](v T, dst io.Writer, c Codec[T], cfg *WriterConfig) error {
	w := getWriter(dst, cfg)
	defer putWriter(w)
	if err := encodeTopLevel(v, c, w); err != nil {
		return err
	}
	return w.Flush()
}

func encodeTopLevel[T any](v T, c Codec[T], w *Writer) error {
	return c.Encode(v, w)
}
