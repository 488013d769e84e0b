//go:build test

package jsonrw

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/suite"
)

type WriterTestSuite struct {
	suite.Suite
}

func (s *WriterTestSuite) newWriter(cfg *WriterConfig) *Writer {
	return NewWriter(nil, cfg)
}

func (s *WriterTestSuite) TestScalarLiterals() {
	w := s.newWriter(nil)
	s.Require().NoError(w.WriteNull())
	s.Assert().Equal("null", string(w.Bytes()))

	w = s.newWriter(nil)
	s.Require().NoError(w.WriteBool(true))
	s.Assert().Equal("true", string(w.Bytes()))

	w = s.newWriter(nil)
	s.Require().NoError(w.WriteInt64(-42))
	s.Assert().Equal("-42", string(w.Bytes()))

	w = s.newWriter(nil)
	s.Require().NoError(w.WriteUint64(42))
	s.Assert().Equal("42", string(w.Bytes()))
}

func (s *WriterTestSuite) TestStringEscaping() {
	w := s.newWriter(nil)
	s.Require().NoError(w.WriteString("a\"b\\c\nd"))
	s.Assert().Equal(`"a\"b\\c\nd"`, string(w.Bytes()))
}

func (s *WriterTestSuite) TestObjectAndArrayCommaHandling() {
	w := s.newWriter(nil)
	s.Require().NoError(w.WriteObjectStart())
	s.Require().NoError(w.WriteKey("a"))
	s.Require().NoError(w.WriteInt64(1))
	s.Require().NoError(w.WriteKey("b"))
	s.Require().NoError(w.WriteArrayStart())
	s.Require().NoError(w.WriteInt64(1))
	s.Require().NoError(w.WriteInt64(2))
	s.Require().NoError(w.WriteArrayEnd())
	s.Require().NoError(w.WriteObjectEnd())
	s.Assert().Equal(`{"a":1,"b":[1,2]}`, string(w.Bytes()))
}

func (s *WriterTestSuite) TestEmptyContainers() {
	w := s.newWriter(nil)
	s.Require().NoError(w.WriteObjectStart())
	s.Require().NoError(w.WriteObjectEnd())
	s.Assert().Equal(`{}`, string(w.Bytes()))

	w = s.newWriter(nil)
	s.Require().NoError(w.WriteArrayStart())
	s.Require().NoError(w.WriteArrayEnd())
	s.Assert().Equal(`[]`, string(w.Bytes()))
}

func (s *WriterTestSuite) TestIndentedOutput() {
	cfg := DefaultWriterConfig()
	cfg.IndentionStep = 2
	w := s.newWriter(cfg)
	s.Require().NoError(w.WriteObjectStart())
	s.Require().NoError(w.WriteKey("a"))
	s.Require().NoError(w.WriteInt64(1))
	s.Require().NoError(w.WriteObjectEnd())
	s.Assert().Equal("{\n  \"a\": 1\n}", string(w.Bytes()))
}

func (s *WriterTestSuite) TestFloatFormatting() {
	w := s.newWriter(nil)
	s.Require().NoError(w.WriteFloat64(1))
	s.Assert().Equal("1.0", string(w.Bytes()))

	w = s.newWriter(nil)
	s.Require().NoError(w.WriteFloat64(1.5))
	s.Assert().Equal("1.5", string(w.Bytes()))
}

func (s *WriterTestSuite) TestFlushToSink() {
	var buf bytes.Buffer
	w := NewWriter(&buf, nil)
	s.Require().NoError(w.WriteInt64(7))
	s.Require().NoError(w.Flush())
	s.Assert().Equal("7", buf.String())
}

func (s *WriterTestSuite) TestBase16() {
	w := s.newWriter(nil)
	s.Require().NoError(w.WriteBase16([]byte{0xDE, 0xAD, 0xBE, 0xEF}, true))
	s.Assert().Equal(`"deadbeef"`, string(w.Bytes()))

	w = s.newWriter(nil)
	s.Require().NoError(w.WriteBase16([]byte{0xDE, 0xAD, 0xBE, 0xEF}, false))
	s.Assert().Equal(`"DEADBEEF"`, string(w.Bytes()))
}

func (s *WriterTestSuite) TestBase64() {
	w := s.newWriter(nil)
	s.Require().NoError(w.WriteBase64([]byte("foob"), true))
	s.Assert().Equal(`"Zm9vYg=="`, string(w.Bytes()))

	w = s.newWriter(nil)
	s.Require().NoError(w.WriteBase64([]byte("foob"), false))
	s.Assert().Equal(`"Zm9vYg"`, string(w.Bytes()))

	w = s.newWriter(nil)
	s.Require().NoError(w.WriteBase64URL([]byte{0xFB, 0xFF}, false))
	s.Assert().Equal(`"-_8"`, string(w.Bytes()))
}

func (s *WriterTestSuite) TestFloatScientificNotation() {
	w := s.newWriter(nil)
	s.Require().NoError(w.WriteFloat64(7.1e10))
	s.Assert().Equal("7.1E10", string(w.Bytes()))

	w = s.newWriter(nil)
	s.Require().NoError(w.WriteFloat64(123.0))
	s.Assert().Equal("123.0", string(w.Bytes()))
}

func (s *WriterTestSuite) TestNonEscapedAscii() {
	w := s.newWriter(nil)
	s.Require().NoError(w.WriteObjectStart())
	s.Require().NoError(w.WriteNonEscapedAsciiKey([]byte("a")))
	s.Require().NoError(w.WriteNonEscapedAsciiVal([]byte("WWW")))
	s.Require().NoError(w.WriteObjectEnd())
	s.Assert().Equal(`{"a":"WWW"}`, string(w.Bytes()))

	w = s.newWriter(nil)
	s.Assert().ErrorIs(w.WriteNonEscapedAsciiVal(nil), ErrNilPointer)
}

func (s *WriterTestSuite) TestValAsString() {
	w := s.newWriter(nil)
	s.Require().NoError(w.WriteInt64AsString(2))
	s.Assert().Equal(`"2"`, string(w.Bytes()))

	w = s.newWriter(nil)
	s.Require().NoError(w.WriteBoolAsString(true))
	s.Assert().Equal(`"true"`, string(w.Bytes()))
}

func (s *WriterTestSuite) TestPrettyArrayScenario() {
	cfg := DefaultWriterConfig()
	cfg.IndentionStep = 2
	w := s.newWriter(cfg)
	s.Require().NoError(w.WriteArrayStart())
	s.Require().NoError(w.WriteInt64(1))
	s.Require().NoError(w.WriteString("VVV"))
	s.Require().NoError(w.WriteNonEscapedAsciiVal([]byte("WWW")))
	s.Require().NoError(w.WriteInt64AsString(2))
	s.Require().NoError(w.WriteBoolAsString(true))
	s.Require().NoError(w.WriteRawValue([]byte("3")))
	s.Require().NoError(w.WriteArrayEnd())
	want := "[\n  1,\n  \"VVV\",\n  \"WWW\",\n  \"2\",\n  \"true\",\n  3\n]"
	s.Assert().Equal(want, string(w.Bytes()))
}

func (s *WriterTestSuite) TestWriteTimestampVal() {
	w := s.newWriter(nil)
	s.Require().NoError(w.WriteTimestampVal(-1, 0))
	s.Assert().Equal("-1", string(w.Bytes()))

	w = s.newWriter(nil)
	s.Require().NoError(w.WriteTimestampVal(1, 500000000))
	s.Assert().Equal("1.5", string(w.Bytes()))

	w = s.newWriter(nil)
	s.Assert().Error(w.WriteTimestampVal(0, 1_000_000_000))
}

func TestWriterSuite(t *testing.T) {
	suite.Run(t, new(WriterTestSuite))
}
