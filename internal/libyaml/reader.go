// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Reader stage: Decodes the input stream into characters.
// Detects the encoding from the byte order mark, folds CR, LF and CRLF into
// a single line break, and keeps a small window of lookahead characters
// together with the number of source bytes each one occupied.

package libyaml

import (
	"errors"
	"io"
	"unicode/utf16"
	"unicode/utf8"
)

const (
	// The size of the raw buffer used for io.Reader input.
	input_raw_buffer_size = 512

	// The size of the decoded character window.
	input_buffer_size = 16

	// The maximum number of raw bytes needed to decode one character,
	// including the LF of a CRLF pair in UTF-16.
	max_char_bytes = 8
)

var (
	errIncompleteUTF8   = errors.New("incomplete UTF-8 octet sequence")
	errInvalidUTF8      = errors.New("invalid UTF-8 octet sequence")
	errIncompleteUTF16  = errors.New("incomplete UTF-16 character")
	errUnexpectedLow    = errors.New("unexpected low surrogate area")
	errIncompletePair   = errors.New("incomplete UTF-16 surrogate pair")
	errExpectedLow      = errors.New("expected low surrogate area")
	errControlCharacter = errors.New("control characters are not allowed")
)

// reader is the input cursor shared by the scanner. Characters are decoded
// lazily into buf; buf[head:] holds the characters that were looked at but
// not consumed yet.
type reader struct {
	input_reader io.Reader // File input data; nil for in-memory input.

	raw     []byte // The raw (undecoded) input.
	raw_pos int    // The current position in raw.
	eof     bool   // raw holds everything that is left of the input.

	encoding Encoding // The input encoding.

	buf   []rune // The decoded characters.
	width []int  // The number of source bytes of each decoded character.
	head  int    // The first unconsumed character in buf.

	offset int   // The source offset of the next character to decode.
	mark   Mark  // The mark of buf[head].
	err    error // The first decoding error, repeated on later calls.
}

func newReader() reader {
	return reader{
		buf:   make([]rune, 0, input_buffer_size),
		width: make([]int, 0, input_buffer_size),
		mark:  Mark{Line: 1},
	}
}

// SetInputString sets a string input.
func (r *reader) setInputString(input []byte) {
	if r.raw != nil || r.input_reader != nil {
		panic("must set the input source only once")
	}
	if input == nil {
		input = []byte{}
	}
	r.raw = input
	r.eof = true
}

// SetInputReader sets a file input.
func (r *reader) setInputReader(in io.Reader) {
	if r.raw != nil || r.input_reader != nil {
		panic("must set the input source only once")
	}
	r.input_reader = in
	r.raw = make([]byte, 0, input_raw_buffer_size)
}

// unread returns the number of decoded characters not consumed yet.
func (r *reader) unread() int {
	return len(r.buf) - r.head
}

// cache ensures that at least n characters are available to peek. Past the
// end of the input the window is padded with NUL characters.
func (r *reader) cache(n int) error {
	if r.unread() >= n {
		return nil
	}
	return r.updateBuffer(n)
}

// peek returns the i-th unconsumed character. The character must have been
// made available with cache.
func (r *reader) peek(i int) rune {
	return r.buf[r.head+i]
}

// atEnd reports whether the whole input has been consumed.
func (r *reader) atEnd() bool {
	return isZ(r.buf[r.head])
}

// Advance the buffer pointer.
func (r *reader) skip() {
	r.mark.Index += r.width[r.head]
	r.mark.Column++
	r.head++
}

// Advance the buffer pointer past a line break.
func (r *reader) skipLine() {
	if isBreak(r.buf[r.head]) {
		r.mark.Index += r.width[r.head]
		r.mark.Column = 0
		r.mark.Line++
		r.head++
	}
}

// Copy a character to a string buffer and advance pointers.
func (r *reader) read(s []byte) []byte {
	if len(s) == 0 {
		s = make([]byte, 0, 32)
	}
	s = utf8.AppendRune(s, r.buf[r.head])
	r.skip()
	return s
}

// Copy a line break character to a string buffer and advance pointers.
func (r *reader) readLine(s []byte) []byte {
	if isBreak(r.buf[r.head]) {
		s = append(s, '\n')
		r.skipLine()
	}
	return s
}

func (r *reader) updateBuffer(length int) error {
	if r.err != nil {
		return r.err
	}
	if r.encoding == ANY_ENCODING {
		if err := r.determineEncoding(); err != nil {
			r.err = err
			return err
		}
	}

	// Move the unread characters to the beginning of the buffer.
	if r.head > 0 {
		n := copy(r.buf, r.buf[r.head:])
		copy(r.width, r.width[r.head:])
		r.buf = r.buf[:n]
		r.width = r.width[:n]
		r.head = 0
	}

	for len(r.buf) < length {
		if err := r.fillRaw(max_char_bytes); err != nil {
			r.err = err
			return err
		}
		if r.raw_pos == len(r.raw) {
			r.buf = append(r.buf, 0)
			r.width = append(r.width, 0)
			continue
		}
		value, width, err := r.decode(r.raw_pos)
		if err != nil {
			r.err = r.decodeError(err, value)
			return r.err
		}
		if value == '\r' {
			// CR LF -> LF, CR -> LF
			if next, w, err := r.decode(r.raw_pos + width); err == nil && next == '\n' {
				width += w
			}
			value = '\n'
		}
		r.raw_pos += width
		r.offset += width
		r.buf = append(r.buf, value)
		r.width = append(r.width, width)
	}
	return nil
}

// Determine the input stream encoding by checking the BOM symbol. If no BOM
// is found, the UTF-8 encoding is assumed. The BOM is skipped.
func (r *reader) determineEncoding() error {
	if err := r.fillRaw(3); err != nil {
		return err
	}

	buf := r.raw[r.raw_pos:]
	switch {
	case len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE:
		r.encoding = UTF16LE_ENCODING
		r.skipRaw(2)
	case len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF:
		r.encoding = UTF16BE_ENCODING
		r.skipRaw(2)
	case len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF:
		r.encoding = UTF8_ENCODING
		r.skipRaw(3)
	default:
		r.encoding = UTF8_ENCODING
	}
	return nil
}

func (r *reader) skipRaw(n int) {
	r.raw_pos += n
	r.offset += n
	r.mark.Index += n
}

// fillRaw reads from the input reader until n raw bytes are available or
// the input is exhausted.
func (r *reader) fillRaw(n int) error {
	for !r.eof && len(r.raw)-r.raw_pos < n {
		if r.raw_pos > 0 {
			r.raw = append(r.raw[:0], r.raw[r.raw_pos:]...)
			r.raw_pos = 0
		}
		if cap(r.raw)-len(r.raw) < n {
			grown := make([]byte, len(r.raw), 2*cap(r.raw)+n)
			copy(grown, r.raw)
			r.raw = grown
		}
		size, err := r.input_reader.Read(r.raw[len(r.raw):cap(r.raw)])
		r.raw = r.raw[:len(r.raw)+size]
		if err == io.EOF {
			r.eof = true
		} else if err != nil {
			return ReaderError{
				Kind:   InputError,
				Offset: r.offset,
				Value:  -1,
				Mark:   r.lookaheadMark(),
				Err:    err,
			}
		}
	}
	return nil
}

// decode decodes the character starting at raw[pos].
func (r *reader) decode(pos int) (rune, int, error) {
	buf := r.raw[pos:]
	var value rune
	var width int
	switch r.encoding {
	case UTF16LE_ENCODING, UTF16BE_ENCODING:
		if len(buf) < 2 {
			return -1, 0, errIncompleteUTF16
		}
		unit := r.utf16Unit(buf)
		switch {
		case unit >= 0xDC00 && unit <= 0xDFFF:
			return unit, 0, errUnexpectedLow
		case utf16.IsSurrogate(unit):
			if len(buf) < 4 {
				return unit, 0, errIncompletePair
			}
			low := r.utf16Unit(buf[2:])
			if low < 0xDC00 || low > 0xDFFF {
				return low, 0, errExpectedLow
			}
			value, width = utf16.DecodeRune(unit, low), 4
		default:
			value, width = unit, 2
		}
	default:
		if len(buf) == 0 {
			return -1, 0, errIncompleteUTF8
		}
		value, width = utf8.DecodeRune(buf)
		if value == utf8.RuneError && width <= 1 {
			if !utf8.FullRune(buf) {
				return int32(buf[0]), 0, errIncompleteUTF8
			}
			return int32(buf[0]), 0, errInvalidUTF8
		}
	}
	if !isPrintable(value) {
		return value, 0, errControlCharacter
	}
	return value, width, nil
}

func (r *reader) utf16Unit(buf []byte) rune {
	if r.encoding == UTF16LE_ENCODING {
		return rune(buf[0]) | rune(buf[1])<<8
	}
	return rune(buf[0])<<8 | rune(buf[1])
}

func (r *reader) decodeError(err error, value rune) error {
	return ReaderError{
		Kind:   EncodingError,
		Offset: r.offset,
		Value:  int(value),
		Mark:   r.lookaheadMark(),
		Err:    err,
	}
}

// lookaheadMark returns the mark of the next character to decode, past the
// characters already in the window.
func (r *reader) lookaheadMark() Mark {
	mark := r.mark
	for i := r.head; i < len(r.buf); i++ {
		mark.Index += r.width[i]
		if isBreak(r.buf[i]) {
			mark.Line++
			mark.Column = 0
		} else {
			mark.Column++
		}
	}
	return mark
}
