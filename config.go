package jsonrw

// ReaderConfig mirrors spec.md §3's recognized reader options. A nil
// *ReaderConfig passed to any entry point is treated as DefaultReaderConfig.
type ReaderConfig struct {
	// CheckForEndOfInput requires that, after the top-level value, any
	// remaining bytes are whitespace only.
	CheckForEndOfInput bool

	// PreferredBufSize/PreferredCharBufSize are the sizes the reader's
	// internal buffers are reclaimed toward between calls, once they have
	// grown past this size to serve a larger value.
	PreferredBufSize     int
	PreferredCharBufSize int

	// MaxBufSize/MaxCharBufSize are hard ceilings; exceeding them fails
	// with KindTooLongInput / KindTooLongString.
	MaxBufSize     int
	MaxCharBufSize int

	// AppendHexDumpToParseException attaches a 16-bytes-per-line hex dump
	// around the error offset to ReaderErrors raised by the Reader's
	// parsers. Errors raised by the byte ring and char buffer themselves
	// (end of input, input or string too long) carry no dump.
	AppendHexDumpToParseException bool

	// HexDumpSize is the number of 16-byte lines of context on each side
	// of the error offset.
	HexDumpSize int
}

// DefaultReaderConfig returns the zero-value-safe defaults used when no
// config is supplied.
func DefaultReaderConfig() *ReaderConfig {
	return &ReaderConfig{
		CheckForEndOfInput:   true,
		PreferredBufSize:     32 * 1024,
		PreferredCharBufSize: 4 * 1024,
		MaxBufSize:           64 * 1024 * 1024,
		MaxCharBufSize:       64 * 1024 * 1024,
		HexDumpSize:          2,
	}
}

func resolveReaderConfig(cfg *ReaderConfig) *ReaderConfig {
	if cfg == nil {
		return DefaultReaderConfig()
	}
	return cfg
}

// WriterConfig mirrors spec.md §3's recognized writer options.
type WriterConfig struct {
	// IndentionStep: 0 emits compact JSON; >=1 pretty-prints with that
	// many spaces per nesting level.
	IndentionStep int

	// EscapeUnicode forces every code point >=128 to be emitted as \uXXXX.
	EscapeUnicode bool

	// PreferredBufSize is the size the writer's internal buffer is
	// reclaimed toward between calls.
	PreferredBufSize int
}

func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		PreferredBufSize: 32 * 1024,
	}
}

func resolveWriterConfig(cfg *WriterConfig) *WriterConfig {
	if cfg == nil {
		return DefaultWriterConfig()
	}
	return cfg
}
