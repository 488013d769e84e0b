package jsonrw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadStringPlainASCII(t *testing.T) {
	r := readerFor(`"hello world"`)
	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hello world", s)
}

func TestReadStringShortEscapes(t *testing.T) {
	r := readerFor(`"a\tb\nc\"d\\e"`)
	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "a\tb\nc\"d\\e", s)
}

func TestReadStringUnicodeEscape(t *testing.T) {
	r := readerFor("\"\\u00e9\"")
	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "é", s)
}

func TestReadStringSurrogatePair(t *testing.T) {
	r := readerFor("\"\\ud83d\\ude00\"")
	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "😀", s)
}

func TestReadStringUnpairedHighSurrogate(t *testing.T) {
	r := readerFor(`"\ud83dzz"`)
	_, err := r.ReadString()
	require.Error(t, err)
	var rerr *ReaderError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindIllegalSurrogatePair, rerr.Kind)
}

func TestReadStringUnescapedControl(t *testing.T) {
	r := readerFor("\"a\tb\"")
	_, err := r.ReadString()
	require.Error(t, err)
	var rerr *ReaderError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindUnescapedControl, rerr.Kind)
}

func TestReadStringMultiByteUTF8(t *testing.T) {
	r := readerFor(`"日本語"`)
	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "日本語", s)
}

func TestReadBase16Decode(t *testing.T) {
	r := readerFor(`"deadbeef"`)
	got, err := r.ReadBase16()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, got)
}

func TestReadBase64Decode(t *testing.T) {
	r := readerFor(`"aGVsbG8="`)
	got, err := r.ReadBase64()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestReadBase64URLDecode(t *testing.T) {
	r := readerFor(`"aGVsbG8="`)
	got, err := r.ReadBase64URL()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}
