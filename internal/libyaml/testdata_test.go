// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Shared helpers for the data-driven tests.
// Test cases live in testdata/*.yaml and are loaded through datatest.

package libyaml

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/stream/internal/testutil/assert"
	"go.yaml.in/yaml/stream/internal/testutil/datatest"
)

// TestHandler runs a single test case.
type TestHandler = datatest.TestHandler

// RunTestCases runs the cases of testdata/filename with the handler
// registered for each case type.
func RunTestCases(t *testing.T, filename string, handlers map[string]TestHandler) {
	t.Helper()
	datatest.RunTestCases(t, filepath.Join("testdata", filename), handlers)
}

// constants resolves the symbolic names used in test data.
var constants = func() *datatest.ConstantRegistry {
	r := datatest.NewConstantRegistry()
	for name, kind := range map[string]ErrorKind{
		"BadIndentation":         BadIndentation,
		"TabIndentation":         TabIndentation,
		"UnbalancedFlow":         UnbalancedFlow,
		"InvalidEscape":          InvalidEscape,
		"InvalidName":            InvalidName,
		"EncodingError":          EncodingError,
		"UnterminatedScalar":     UnterminatedScalar,
		"InvalidToken":           InvalidToken,
		"InputError":             InputError,
		"UnexpectedToken":        UnexpectedToken,
		"UndefinedAlias":         UndefinedAlias,
		"DuplicateAnchor":        DuplicateAnchor,
		"RecursionLimitExceeded": RecursionLimitExceeded,
		"MalformedDirective":     MalformedDirective,
	} {
		r.Register(name, int(kind))
	}
	for tt := STREAM_START_TOKEN; tt <= SCALAR_TOKEN; tt++ {
		r.Register(tt.String(), int(tt))
	}
	for name, value := range map[string]int{
		"PLAIN_SCALAR_STYLE":         int(PLAIN_SCALAR_STYLE),
		"SINGLE_QUOTED_SCALAR_STYLE": int(SINGLE_QUOTED_SCALAR_STYLE),
		"DOUBLE_QUOTED_SCALAR_STYLE": int(DOUBLE_QUOTED_SCALAR_STYLE),
		"LITERAL_SCALAR_STYLE":       int(LITERAL_SCALAR_STYLE),
		"FOLDED_SCALAR_STYLE":        int(FOLDED_SCALAR_STYLE),
		"BLOCK_SEQUENCE_STYLE":       int(BLOCK_SEQUENCE_STYLE),
		"FLOW_SEQUENCE_STYLE":        int(FLOW_SEQUENCE_STYLE),
		"BLOCK_MAPPING_STYLE":        int(BLOCK_MAPPING_STYLE),
		"FLOW_MAPPING_STYLE":         int(FLOW_MAPPING_STYLE),
		"STREAM_START_EVENT":         int(STREAM_START_EVENT),
		"STREAM_END_EVENT":           int(STREAM_END_EVENT),
		"DOCUMENT_START_EVENT":       int(DOCUMENT_START_EVENT),
		"DOCUMENT_END_EVENT":         int(DOCUMENT_END_EVENT),
		"ALIAS_EVENT":                int(ALIAS_EVENT),
		"SCALAR_EVENT":               int(SCALAR_EVENT),
		"SEQUENCE_START_EVENT":       int(SEQUENCE_START_EVENT),
		"SEQUENCE_END_EVENT":         int(SEQUENCE_END_EVENT),
		"MAPPING_START_EVENT":        int(MAPPING_START_EVENT),
		"MAPPING_END_EVENT":          int(MAPPING_END_EVENT),
		"PARSE_STREAM_START_STATE":   int(PARSE_STREAM_START_STATE),
		"PARSE_END_STATE":            int(PARSE_END_STATE),
		"UTF8_ENCODING":              int(UTF8_ENCODING),
		"UTF16LE_ENCODING":           int(UTF16LE_ENCODING),
		"UTF16BE_ENCODING":           int(UTF16BE_ENCODING),
	} {
		r.Register(name, value)
	}
	return r
}()

// ParseErrorKind resolves an error kind name such as "BadIndentation".
func ParseErrorKind(t *testing.T, name string) ErrorKind {
	t.Helper()
	v, ok := constants.Resolve(name)
	if !ok {
		t.Fatalf("unknown error kind: %s", name)
	}
	return ErrorKind(v)
}

// ParseTokenType resolves a token type name such as "SCALAR_TOKEN".
func ParseTokenType(t *testing.T, name string) TokenType {
	t.Helper()
	v, ok := constants.Resolve(name)
	if !ok || !strings.HasSuffix(name, "_TOKEN") {
		t.Fatalf("unknown token type: %s", name)
	}
	return TokenType(v)
}

// caseInput returns the input of a test case, given either as "yaml" text
// or as "input_hex" bytes.
func caseInput(t *testing.T, tc map[string]any) []byte {
	t.Helper()
	if v, ok := tc["input_hex"]; ok {
		hex, ok := v.(string)
		if !ok {
			t.Fatalf("input_hex must be a quoted string, got %T", v)
		}
		return datatest.HexToBytes(t, hex)
	}
	if data, ok := tc["data"]; ok {
		in, err := datatest.GenerateData(data)
		assert.NoErrorf(t, err, "generating input")
		return in
	}
	in, ok := datatest.GetString(tc, "yaml")
	if !ok {
		t.Fatalf("test case has neither yaml, input_hex nor data")
	}
	return []byte(in)
}

// wantLines returns the expected lines of a "want" block.
func wantLines(t *testing.T, tc map[string]any) []string {
	t.Helper()
	if lines, ok := datatest.GetStrings(tc, "want"); ok {
		return lines
	}
	want := datatest.RequireString(t, tc, "want")
	return strings.Split(datatest.TrimTrailingNewline(want), "\n")
}

// newTestParser returns a parser over in, honoring the optional max_depth
// field of the test case.
func newTestParser(tc map[string]any, in []byte) *Parser {
	parser := NewParser()
	if depth, ok := datatest.GetInt(tc, "max_depth"); ok {
		parser.SetMaxDepth(depth)
	}
	parser.SetInputString(in)
	return &parser
}

// parseEvents formats the events of in, one per element. On failure the
// events produced before the error are returned with it.
func parseEvents(parser *Parser) ([]Event, []string, error) {
	var events []Event
	var lines []string
	for {
		var event Event
		err := parser.Parse(&event)
		if errors.Is(err, io.EOF) {
			return events, lines, nil
		}
		if err != nil {
			return events, lines, err
		}
		events = append(events, event)
		lines = append(lines, FormatEvent(&event))
	}
}

// scanTokens formats the tokens of in, one per element.
func scanTokens(scanner *Scanner) ([]Token, []string, error) {
	var tokens []Token
	var lines []string
	for {
		var token Token
		err := scanner.Scan(&token)
		if errors.Is(err, io.EOF) {
			return tokens, lines, nil
		}
		if err != nil {
			return tokens, lines, err
		}
		tokens = append(tokens, token)
		lines = append(lines, FormatToken(&token))
	}
}

// checkError checks err against the "kind" and "like" fields of a test case.
func checkError(t *testing.T, tc map[string]any, err error) {
	t.Helper()
	assert.NotNilf(t, err, "expected an error")
	if kind, ok := datatest.GetString(tc, "kind"); ok {
		want := ParseErrorKind(t, kind)
		assert.ErrorIs(t, err, want)
		assert.Equalf(t, want, KindOf(err), "KindOf(%v)", err)
	}
	if like, ok := datatest.GetString(tc, "like"); ok {
		assert.ErrorMatchesf(t, like, err, "")
	}
	if line, ok := datatest.GetInt(tc, "line"); ok {
		var pos interface{ Position() Position }
		assert.Truef(t, errors.As(err, &pos), "error %T has no position", err)
		assert.Equalf(t, line, pos.Position().Line, "error line")
		if column, ok := datatest.GetInt(tc, "column"); ok {
			assert.Equalf(t, column, pos.Position().Column, "error column")
		}
	}
}
