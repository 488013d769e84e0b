// Package jsonrw implements a pull-style JSON reader and a push-style
// JSON writer sharing a common numeric, text and temporal engine, plus a
// small generic Codec[T] layer for wiring typed decode/encode pairs to a
// choice of input/output carriers (byte slice, string, *bytes.Buffer,
// io.Reader/io.Writer stream).
package jsonrw
