// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Tests for the reader stage.
// Verifies encoding detection, line break folding, source offsets and
// decoding errors.

package libyaml

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"go.yaml.in/yaml/stream/internal/testutil/assert"
)

func newTestReader(in string) *reader {
	r := newReader()
	r.setInputString([]byte(in))
	return &r
}

// readAll consumes every character of r and returns them.
func readAll(t *testing.T, r *reader) string {
	t.Helper()
	var out []byte
	for {
		assert.NoError(t, r.cache(1))
		if r.atEnd() {
			return string(out)
		}
		if isBreak(r.peek(0)) {
			out = r.readLine(out)
		} else {
			out = r.read(out)
		}
	}
}

func TestReaderDetermineEncoding(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		encoding Encoding
		offset   int
	}{
		{"no BOM", "test", UTF8_ENCODING, 0},
		{"UTF-8 BOM", "\xEF\xBB\xBFtest", UTF8_ENCODING, 3},
		{"UTF-16LE BOM", "\xFF\xFEt\x00", UTF16LE_ENCODING, 2},
		{"UTF-16BE BOM", "\xFE\xFF\x00t", UTF16BE_ENCODING, 2},
		{"empty", "", UTF8_ENCODING, 0},
		{"partial BOM", "\xEF\xBB", UTF8_ENCODING, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReader(tt.input)
			assert.NoError(t, r.determineEncoding())
			assert.Equal(t, tt.encoding, r.encoding)
			assert.Equal(t, tt.offset, r.raw_pos)
			assert.Equal(t, tt.offset, r.mark.Index)
		})
	}
}

func TestReaderDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ascii", "abc", "abc"},
		{"multibyte UTF-8", "é€😀", "é€😀"},
		{"UTF-8 BOM", "\xEF\xBB\xBFa", "a"},
		{"UTF-16LE", "\xFF\xFEa\x00\xe9\x00", "aé"},
		{"UTF-16BE", "\xFE\xFF\x00a\x00\xe9", "aé"},
		{"UTF-16LE surrogate pair", "\xFF\xFE\x3D\xD8\x00\xDE", "😀"},
		{"CRLF", "a\r\nb", "a\nb"},
		{"CR", "a\rb", "a\nb"},
		{"CR CR", "a\r\rb", "a\n\nb"},
		{"UTF-16LE CRLF", "\xFF\xFEa\x00\r\x00\n\x00b\x00", "a\nb"},
		{"NEL is not a break", "a\u0085b", "a\u0085b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readAll(t, newTestReader(tt.input)))
		})
	}
}

func TestReaderMarks(t *testing.T) {
	r := newTestReader("a\r\nb")
	assert.NoError(t, r.cache(1))
	r.skip()
	assert.NoError(t, r.cache(1))
	assert.Equal(t, Mark{Index: 1, Line: 1, Column: 1}, r.mark)
	r.skipLine()
	assert.Equal(t, Mark{Index: 3, Line: 2, Column: 0}, r.mark)
	assert.NoError(t, r.cache(1))
	assert.Equal(t, 'b', r.peek(0))
}

func TestReaderSourceWidths(t *testing.T) {
	r := newTestReader("\xFF\xFE\x3D\xD8\x00\xDEa\x00")
	assert.NoError(t, r.cache(2))
	assert.Equal(t, rune(0x1F600), r.peek(0))
	assert.Equal(t, 4, r.width[r.head])
	r.skip()
	assert.Equal(t, Mark{Index: 6, Line: 1, Column: 1}, r.mark)
	assert.Equal(t, 'a', r.peek(0))
}

func TestReaderPadsEnd(t *testing.T) {
	r := newTestReader("ab")
	assert.NoError(t, r.cache(4))
	assert.Equal(t, 4, r.unread())
	assert.Equal(t, 'a', r.peek(0))
	assert.Equal(t, 'b', r.peek(1))
	assert.True(t, isZ(r.peek(2)))
	assert.True(t, isZ(r.peek(3)))
	assert.False(t, r.atEnd())
	r.skip()
	r.skip()
	assert.True(t, r.atEnd())
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		err    error
		offset int
		value  int
	}{
		{"invalid UTF-8", "a\xffb", errInvalidUTF8, 1, 0xff},
		{"incomplete UTF-8", "a\xe2\x82", errIncompleteUTF8, 1, 0xe2},
		{"control character", "a\x01", errControlCharacter, 1, 0x01},
		{"NUL character", "ab\x00", errControlCharacter, 2, 0},
		{"unexpected low surrogate", "\xFF\xFE\x00\xDC", errUnexpectedLow, 2, 0xDC00},
		{"incomplete surrogate pair", "\xFF\xFE\x3D\xD8", errIncompletePair, 2, 0xD83D},
		{"expected low surrogate", "\xFF\xFE\x3D\xD8\x41\x00", errExpectedLow, 2, 0x41},
		{"incomplete UTF-16", "\xFF\xFEa", errIncompleteUTF16, 2, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReader(tt.input)
			err := r.cache(4)

			var readerErr ReaderError
			assert.ErrorAs(t, err, &readerErr)
			assert.ErrorIs(t, err, EncodingError)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.offset, readerErr.Offset)
			assert.Equal(t, tt.value, readerErr.Value)
			assert.Equal(t, tt.offset, readerErr.Mark.Index)
		})
	}
}

func TestReaderErrorMark(t *testing.T) {
	r := newTestReader("ab\ncd\xff")
	err := r.cache(8)

	var readerErr ReaderError
	assert.ErrorAs(t, err, &readerErr)
	assert.Equal(t, Mark{Index: 5, Line: 2, Column: 2}, readerErr.Mark)
	assert.Equal(t, Position{Offset: 5, Line: 2, Column: 3}, readerErr.Position())
	assert.Equal(t, "yaml: offset 5: invalid UTF-8 octet sequence", err.Error())
}

func TestReaderErrorRepeats(t *testing.T) {
	r := newTestReader("\xff")
	first := r.cache(1)
	assert.ErrorIs(t, first, EncodingError)
	assert.Equal(t, first, r.cache(1))
}

func TestReaderOneByteInput(t *testing.T) {
	in := "\xEF\xBB\xBFkey: [é, \"€\"]\r\n- 😀\n"
	want := readAll(t, newTestReader(in))

	r := newReader()
	r.setInputReader(iotest.OneByteReader(strings.NewReader(in)))
	assert.Equal(t, want, readAll(t, &r))
	assert.Equal(t, UTF8_ENCODING, r.encoding)
}

func TestReaderLargeInput(t *testing.T) {
	in := strings.Repeat("abcdefghij\n", 200)
	r := newReader()
	r.setInputReader(strings.NewReader(in))
	assert.Equal(t, in, readAll(t, &r))
	assert.Equal(t, len(in), r.mark.Index)
	assert.Equal(t, 201, r.mark.Line)
}

func TestReaderInputError(t *testing.T) {
	boom := errors.New("boom")
	r := newReader()
	r.setInputReader(iotest.ErrReader(boom))
	err := r.cache(1)

	var readerErr ReaderError
	assert.ErrorAs(t, err, &readerErr)
	assert.ErrorIs(t, err, InputError)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, -1, readerErr.Value)
	assert.Equal(t, "yaml: offset 0: boom", err.Error())
}

func TestReaderSetInputTwice(t *testing.T) {
	assert.PanicMatches(t, "must set the input source only once", func() {
		r := newReader()
		r.setInputString([]byte("a"))
		r.setInputString([]byte("b"))
	})
	assert.PanicMatches(t, "must set the input source only once", func() {
		r := newReader()
		r.setInputString([]byte("a"))
		r.setInputReader(strings.NewReader("b"))
	})
	assert.PanicMatches(t, "must set the input source only once", func() {
		r := newReader()
		r.setInputReader(strings.NewReader("a"))
		r.setInputString([]byte("b"))
	})
}
