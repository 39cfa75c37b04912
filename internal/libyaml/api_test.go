// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libyaml

import (
	"strings"
	"testing"

	"go.yaml.in/yaml/stream/internal/testutil/assert"
)

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()
	assert.Equal(t, DefaultMaxDepth, scanner.max_depth)
	assert.Equal(t, -1, scanner.adjacent_value_at)
	assert.Equal(t, Mark{Line: 1}, scanner.mark)
	assert.IsNil(t, scanner.logger)
	assert.False(t, scanner.stream_start_produced)
}

func TestNewParser(t *testing.T) {
	parser := NewParser()
	assert.Equal(t, DefaultMaxDepth, parser.max_depth)
	assert.Equal(t, DefaultMaxDepth, parser.scanner.max_depth)
	assert.Equal(t, PARSE_STREAM_START_STATE, parser.state)
	assert.Equal(t, 0, parser.Depth())
}

func TestParserSetMaxDepth(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		want  int
	}{
		{"positive", 5, 5},
		{"zero", 0, DefaultMaxDepth},
		{"negative", -1, DefaultMaxDepth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser()
			parser.SetMaxDepth(tt.depth)
			assert.Equal(t, tt.want, parser.max_depth)
			assert.Equal(t, tt.want, parser.scanner.max_depth)
		})
	}
}

func TestParserSetInputString(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("test"))
	assert.Equal(t, "test", string(parser.scanner.raw))
	assert.True(t, parser.scanner.eof)
}

func TestParserSetInputNil(t *testing.T) {
	parser := NewParser()
	parser.SetInputString(nil)
	out, _, err := parseEvents(&parser)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(out))
	assert.Equal(t, STREAM_START_EVENT, out[0].Type)
	assert.Equal(t, STREAM_END_EVENT, out[1].Type)
}

func TestParserSetInputStringPanic(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("a"))
	assert.PanicMatches(t, "must set the input source only once", func() {
		parser.SetInputString([]byte("b"))
	})
}

func TestParserSetInputReader(t *testing.T) {
	parser := NewParser()
	r := strings.NewReader("test")
	parser.SetInputReader(r)
	assert.Equal(t, r, parser.scanner.input_reader)
	assert.False(t, parser.scanner.eof)
}

func TestParserSetInputReaderPanic(t *testing.T) {
	parser := NewParser()
	parser.SetInputReader(strings.NewReader("a"))
	assert.PanicMatches(t, "must set the input source only once", func() {
		parser.SetInputReader(strings.NewReader("b"))
	})
}

func TestParserSetLoggerNil(t *testing.T) {
	parser := NewParser()
	parser.SetLogger(nil)
	parser.SetInputString([]byte("a: b"))
	_, _, err := parseEvents(&parser)
	assert.NoError(t, err)
}

func TestScannerInsertToken(t *testing.T) {
	scanner := NewScanner()
	token := Token{Type: SCALAR_TOKEN, Value: []byte("test")}

	scanner.insertToken(-1, &token)

	assert.Equalf(t, 1, len(scanner.tokens), "tokens length")
	assert.Equal(t, SCALAR_TOKEN, scanner.tokens[0].Type)
}

func TestScannerInsertTokenAtPosition(t *testing.T) {
	scanner := NewScanner()
	token1 := Token{Type: KEY_TOKEN}
	token2 := Token{Type: VALUE_TOKEN}
	token3 := Token{Type: SCALAR_TOKEN}

	scanner.insertToken(-1, &token1)
	scanner.insertToken(-1, &token3)
	scanner.insertToken(1, &token2)

	assert.Equalf(t, 3, len(scanner.tokens), "tokens length")
	assert.Equal(t, KEY_TOKEN, scanner.tokens[0].Type)
	assert.Equal(t, VALUE_TOKEN, scanner.tokens[1].Type)
	assert.Equal(t, SCALAR_TOKEN, scanner.tokens[2].Type)
}

func TestScannerInsertTokenAfterHead(t *testing.T) {
	scanner := NewScanner()
	scanner.tokens = make([]Token, 0, 2)
	scanner.insertToken(-1, &Token{Type: KEY_TOKEN})
	scanner.insertToken(-1, &Token{Type: VALUE_TOKEN})
	scanner.tokens_head = 1

	// The consumed head is reclaimed when the queue is full.
	scanner.insertToken(0, &Token{Type: SCALAR_TOKEN})

	assert.Equal(t, 0, scanner.tokens_head)
	assert.Equal(t, 2, len(scanner.tokens))
	assert.Equal(t, SCALAR_TOKEN, scanner.tokens[0].Type)
	assert.Equal(t, VALUE_TOKEN, scanner.tokens[1].Type)
}
