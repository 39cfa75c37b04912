// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Tests for the parser stage.
// Verifies token stream to event stream transformation, document and
// collection structure, anchors and tag resolution.

package libyaml

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/go-kit/log"

	"go.yaml.in/yaml/stream/internal/testutil/assert"
	"go.yaml.in/yaml/stream/internal/testutil/datatest"
)

func TestParser(t *testing.T) {
	RunTestCases(t, "parser.yaml", map[string]TestHandler{
		"parse-events": runParseEventsTest,
		"parse-error":  runParseErrorTest,
	})
}

// runParseEventsTest compares the formatted events of the input and checks
// the structural properties every event stream has.
//
//nolint:thelper // because this function is the real test
func runParseEventsTest(t *testing.T, tc map[string]any) {
	parser := newTestParser(tc, caseInput(t, tc))
	events, got, err := parseEvents(parser)
	assert.NoErrorf(t, err, "parsing")
	assert.Equalf(t, strings.Join(wantLines(t, tc), "\n"), strings.Join(got, "\n"), "events")

	checkNesting(t, events)
	checkOrdering(t, events)
	assert.Equalf(t, 0, parser.Depth(), "depth after the stream end")
}

// runParseErrorTest checks that parsing fails with the expected error.
//
//nolint:thelper // because this function is the real test
func runParseErrorTest(t *testing.T, tc map[string]any) {
	_, got, err := parseEvents(newTestParser(tc, caseInput(t, tc)))
	checkError(t, tc, err)
	if _, ok := tc["want"]; ok {
		assert.Equalf(t, strings.Join(wantLines(t, tc), "\n"), strings.Join(got, "\n"), "events before the error")
	}
}

// checkNesting verifies that every start event is closed by the matching
// end event, in last-in first-out order.
func checkNesting(t *testing.T, events []Event) {
	t.Helper()
	closing := map[EventType]EventType{
		STREAM_START_EVENT:   STREAM_END_EVENT,
		DOCUMENT_START_EVENT: DOCUMENT_END_EVENT,
		SEQUENCE_START_EVENT: SEQUENCE_END_EVENT,
		MAPPING_START_EVENT:  MAPPING_END_EVENT,
	}
	var open []EventType
	for i := range events {
		event := &events[i]
		switch {
		case event.IsStart():
			open = append(open, closing[event.Type])
		case event.IsEnd():
			assert.Truef(t, len(open) > 0, "event %d (%v) closes nothing", i, event.Type)
			assert.Equalf(t, open[len(open)-1], event.Type, "event %d", i)
			open = open[:len(open)-1]
		default:
			assert.Truef(t, len(open) > 0, "event %d (%v) outside the stream", i, event.Type)
		}
	}
	assert.Equalf(t, 0, len(open), "unclosed events")
}

// checkOrdering verifies that spans never overlap and never run backwards.
func checkOrdering(t *testing.T, events []Event) {
	t.Helper()
	for i := range events {
		span := events[i].Span()
		assert.Truef(t, span.Start.Offset <= span.End.Offset, "event %d span %v runs backwards", i, span)
		if i > 0 {
			prev := events[i-1].Span()
			assert.Truef(t, prev.End.Offset <= span.Start.Offset,
				"event %d (%v) starts at %v before the end of event %d at %v",
				i, events[i].Type, span.Start, i-1, prev.End)
		}
	}
}

func TestParserEOF(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("a"))
	_, _, err := parseEvents(&parser)
	assert.NoError(t, err)

	var event Event
	for i := 0; i < 3; i++ {
		err := parser.Parse(&event)
		assert.Truef(t, errors.Is(err, io.EOF), "Parse() after STREAM-END = %v, want io.EOF", err)
		assert.Equal(t, NO_EVENT, event.Type)
	}
}

func TestParserErrorLatches(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("*x"))
	_, _, first := parseEvents(&parser)
	assert.ErrorIs(t, first, UndefinedAlias)

	var event Event
	for i := 0; i < 2; i++ {
		err := parser.Parse(&event)
		assert.ErrorIs(t, err, UndefinedAlias)
		assert.Equal(t, first.Error(), err.Error())
	}
}

func TestParserUnexpectedToken(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("- a\nb: c\n"))
	_, _, err := parseEvents(&parser)

	var parseErr ParserError
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, UnexpectedToken, parseErr.Kind)
	assert.Equal(t, KEY_TOKEN, parseErr.Found)
	assert.DeepEqual(t, []TokenType{BLOCK_ENTRY_TOKEN, BLOCK_END_TOKEN}, parseErr.Expected)
	assert.Equal(t, "while parsing a block collection", parseErr.ContextMessage)
	assert.Equal(t, Position{Offset: 4, Line: 2, Column: 1}, parseErr.Position())
}

func TestParserStrayContentAfterDocument(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("--- |\n  a\n[b]\n"))
	_, _, err := parseEvents(&parser)

	var parseErr ParserError
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, UnexpectedToken, parseErr.Kind)
	assert.Equal(t, FLOW_SEQUENCE_START_TOKEN, parseErr.Found)
	assert.DeepEqual(t, []TokenType{DOCUMENT_END_TOKEN, DOCUMENT_START_TOKEN, STREAM_END_TOKEN}, parseErr.Expected)
}

func TestParserDocumentDirectives(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("%YAML 1.2\n%TAG !e! tag:e.com:\n--- a\n--- b\n"))
	events, _, err := parseEvents(&parser)
	assert.NoError(t, err)

	first := events[1]
	assert.Equal(t, DOCUMENT_START_EVENT, first.Type)
	assert.NotNil(t, first.GetVersionDirective())
	assert.Equal(t, 1, first.GetVersionDirective().Major())
	assert.Equal(t, 2, first.GetVersionDirective().Minor())
	assert.Equal(t, 1, len(first.GetTagDirectives()))
	assert.Equal(t, "!e!", first.GetTagDirectives()[0].GetHandle())
	assert.Equal(t, "tag:e.com:", first.GetTagDirectives()[0].GetPrefix())

	// Directives do not carry over to the next document.
	second := events[4]
	assert.Equal(t, DOCUMENT_START_EVENT, second.Type)
	assert.IsNil(t, second.GetVersionDirective())
	assert.Equal(t, 0, len(second.GetTagDirectives()))
}

func TestParserTagHandleScopedToDocument(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("%TAG !e! tag:e.com:\n--- !e!a x\n--- !e!b y\n"))
	_, got, err := parseEvents(&parser)
	assert.ErrorIs(t, err, MalformedDirective)
	assert.ErrorMatches(t, "found undefined tag handle !e!", err)
	assert.Equal(t, "=VAL <tag:e.com:a> :x", got[2])
}

func TestParserScalarImplicitFlags(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("[a, 'b', ! c, !!str d]"))
	events, _, err := parseEvents(&parser)
	assert.NoError(t, err)

	tests := []struct {
		value          string
		implicit       bool
		quotedImplicit bool
	}{
		{"a", true, false},
		{"b", false, true},
		{"c", true, false},
		{"d", false, false},
	}
	var scalars []Event
	for _, event := range events {
		if event.Type == SCALAR_EVENT {
			scalars = append(scalars, event)
		}
	}
	assert.Equal(t, len(tests), len(scalars))
	for i, tt := range tests {
		assert.Equal(t, tt.value, string(scalars[i].Value))
		assert.Equalf(t, tt.implicit, scalars[i].Implicit, "implicit of %q", tt.value)
		assert.Equalf(t, tt.quotedImplicit, scalars[i].QuotedImplicit(), "quoted implicit of %q", tt.value)
	}
}

func TestParserEventStyles(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("a: [b, {c: d}]\n"))
	events, _, err := parseEvents(&parser)
	assert.NoError(t, err)

	assert.Equal(t, BLOCK_MAPPING_STYLE, events[2].MappingStyle())
	assert.Equal(t, PLAIN_SCALAR_STYLE, events[3].ScalarStyle())
	assert.Equal(t, FLOW_SEQUENCE_STYLE, events[4].SequenceStyle())
	assert.Equal(t, FLOW_MAPPING_STYLE, events[6].MappingStyle())
	assert.Equal(t, UTF8_ENCODING, events[0].GetEncoding())
}

func TestParserDepth(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("a:\n  - [1, {b: 2}]\n"))

	var depths []int
	var event Event
	for {
		err := parser.Parse(&event)
		if errors.Is(err, io.EOF) {
			break
		}
		assert.NoError(t, err)
		depths = append(depths, parser.Depth())
	}
	// +STR +DOC +MAP =a +SEQ +SEQ =1 +MAP =b =2 -MAP -SEQ -SEQ -MAP -DOC -STR
	assert.DeepEqual(t, []int{0, 0, 1, 1, 2, 3, 3, 4, 4, 4, 3, 2, 1, 0, 0, 0}, depths)
}

func TestParserDepthLimit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		fail  bool
	}{
		{"block at limit", "a:\n  b:\n    c: 1\n", 3, false},
		{"block over limit", "a:\n  b:\n    c: 1\n", 2, true},
		{"flow at limit", "[[[]]]", 3, false},
		{"flow over limit", "[[[]]]", 2, true},
		{"mixed at limit", "- {a: [1]}", 3, false},
		{"mixed over limit", "- {a: [1]}", 2, true},
		{"single pair mappings count", "[a: [b: c]]", 3, true},
		{"single pair mappings at limit", "[a: [b: c]]", 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser()
			parser.SetMaxDepth(tt.max)
			parser.SetInputString([]byte(tt.input))
			_, _, err := parseEvents(&parser)
			if tt.fail {
				assert.ErrorIs(t, err, RecursionLimitExceeded)
				assert.ErrorMatches(t, "exceeded max depth of", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParserDefaultDepthLimit(t *testing.T) {
	in := strings.Repeat("[", DefaultMaxDepth+1) + strings.Repeat("]", DefaultMaxDepth+1)
	parser := NewParser()
	parser.SetInputString([]byte(in))
	_, _, err := parseEvents(&parser)
	assert.ErrorIs(t, err, RecursionLimitExceeded)
	assert.ErrorMatches(t, "exceeded max depth of 10000", err)

	in = strings.Repeat("[", 1000) + strings.Repeat("]", 1000)
	parser = NewParser()
	parser.SetInputString([]byte(in))
	_, _, err = parseEvents(&parser)
	assert.NoError(t, err)
}

func TestParserReaderInput(t *testing.T) {
	var in strings.Builder
	for i := 0; i < 100; i++ {
		in.WriteString("- key: 'value'\n  list: [1, 2]\n")
	}

	parser := NewParser()
	parser.SetInputString([]byte(in.String()))
	_, want, err := parseEvents(&parser)
	assert.NoError(t, err)

	parser = NewParser()
	parser.SetInputReader(strings.NewReader(in.String()))
	_, got, err := parseEvents(&parser)
	assert.NoError(t, err)

	assert.Equal(t, strings.Join(want, "\n"), strings.Join(got, "\n"))
}

func TestParserLogger(t *testing.T) {
	var buf bytes.Buffer
	parser := NewParser()
	parser.SetLogger(log.NewLogfmtLogger(&buf))
	parser.SetInputString([]byte("%YAML 1.3\n--- a\n"))
	_, _, err := parseEvents(&parser)
	assert.NoError(t, err)

	out := buf.String()
	assert.Truef(t, strings.Contains(out, "msg=parse state=PARSE_STREAM_START_STATE depth=0"), "log output %q", out)
	assert.Truef(t, strings.Contains(out, "msg=token type=VERSION_DIRECTIVE_TOKEN"), "log output %q", out)
	assert.Truef(t, strings.Contains(out, `msg="unsupported YAML minor version" version=1.3`), "log output %q", out)
}

func TestParserGetEvents(t *testing.T) {
	out, err := ParserGetEvents([]byte("a: [b]"))
	assert.NoError(t, err)
	assert.Equal(t, "+STR\n+DOC\n+MAP\n=VAL :a\n+SEQ []\n=VAL :b\n-SEQ\n-MAP\n-DOC\n-STR", out)

	_, err = ParserGetEvents([]byte("*a"))
	assert.ErrorIs(t, err, UndefinedAlias)
}

func TestFormatEventEscapes(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"plain", `=VAL :plain`},
		{"a\\b", `=VAL :a\\b`},
		{"a\nb", `=VAL :a\nb`},
		{"a\tb\rc", `=VAL :a\tb\rc`},
		{"\x00\b", `=VAL :\0\b`},
	}
	for _, tt := range tests {
		event := Event{Type: SCALAR_EVENT, Value: []byte(tt.value), Style: Style(PLAIN_SCALAR_STYLE)}
		assert.Equal(t, tt.want, FormatEvent(&event))
	}
}

func TestParseDataTestHelpers(t *testing.T) {
	// Inputs built by the data generator parse like hand-written ones.
	in, err := datatest.GenerateData(map[string]any{"loop": []any{"- x\n", 3}})
	assert.NoError(t, err)

	parser := NewParser()
	parser.SetInputString(in)
	_, got, err := parseEvents(&parser)
	assert.NoError(t, err)
	assert.Equal(t, "+STR\n+DOC\n+SEQ\n=VAL :x\n=VAL :x\n=VAL :x\n-SEQ\n-DOC\n-STR", strings.Join(got, "\n"))
}
