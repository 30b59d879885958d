package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Buffer is the append-only response buffer shared by a connection and the
// framer reading from it. Consumed bytes are never handed out twice, unread
// bytes survive between calls.
type Buffer struct {
	b bytes.Buffer
}

// Write appends p to the unread portion. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	return b.b.Write(p)
}

// Len reports the number of unread bytes.
func (b *Buffer) Len() int {
	return b.b.Len()
}

// Index returns the offset of the end of the first occurrence of delim in
// the unread bytes, or -1 when delim has not been buffered yet.
func (b *Buffer) Index(delim []byte) int {
	i := bytes.Index(b.b.Bytes(), delim)
	if i < 0 {
		return -1
	}
	return i + len(delim)
}

// Next consumes and returns the next n unread bytes. The returned slice is
// a copy and stays valid after further writes.
func (b *Buffer) Next(n int) []byte {
	return append([]byte(nil), b.b.Next(n)...)
}

// ReadAll consumes every unread byte.
func (b *Buffer) ReadAll() []byte {
	return b.Next(b.b.Len())
}

// ReadToString consumes the buffer and returns its lines joined by "\n".
// A trailing line break does not produce an empty last line, so
// "line1\nline2\n" becomes "line1\nline2".
func (b *Buffer) ReadToString() string {
	return strings.TrimSuffix(string(b.ReadAll()), "\n")
}

// Decode consumes the buffer and decodes exactly one JSON value from it.
// Anything but whitespace after that value is a decode failure.
func (b *Buffer) Decode(v interface{}) error {
	body := b.ReadAll()
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(v); err != nil {
		return NewError(DecodeFailure, "decode", err)
	}
	if rest := bytes.TrimSpace(body[dec.InputOffset():]); len(rest) > 0 {
		return NewError(DecodeFailure, "decode", fmt.Errorf("trailing data after JSON value at offset %d", dec.InputOffset()))
	}
	return nil
}
