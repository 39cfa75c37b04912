// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package stream implements a streaming YAML 1.2 scanner and parser.
//
// The parser turns a YAML character stream into a flat sequence of events
// (stream, document, collection and scalar boundaries) that a consumer can
// pull one at a time. Nothing is built in memory beyond the nesting stack
// and a bounded token lookahead.
//
//	p := stream.NewParser([]byte("a: [1, 2]"))
//	var ev stream.Event
//	for {
//		err := p.Parse(&ev)
//		if err == io.EOF {
//			break
//		}
//		if err != nil {
//			return err
//		}
//		fmt.Println(stream.FormatEvent(&ev))
//	}
//
// This file contains:
// - Options API (WithMaxDepth, WithLogger)
// - Type and constant re-exports from internal/libyaml
// - Constructors (NewParser, NewReaderParser, NewScanner, NewReaderScanner)
// - Collecting helpers (Events, Tokens, FormatEvents, FormatTokens)

package stream

import (
	"errors"
	"io"
	"strings"

	"go.yaml.in/yaml/stream/internal/libyaml"
	"go.yaml.in/yaml/stream/option"
)

//-----------------------------------------------------------------------------
// Options
//-----------------------------------------------------------------------------

// Option configures a Parser or a Scanner.
type Option = option.Option

var (
	// WithMaxDepth bounds the number of nested collections. Deeper input
	// fails with RecursionLimitExceeded. The default is 10000.
	WithMaxDepth = option.WithMaxDepth

	// WithLogger sets a go-kit logger that receives debug records for
	// every scanned token and parser state.
	WithLogger = option.WithLogger
)

//-----------------------------------------------------------------------------
// Re-exports
//-----------------------------------------------------------------------------

type (
	Parser  = libyaml.Parser
	Scanner = libyaml.Scanner

	Event     = libyaml.Event
	EventType = libyaml.EventType
	Token     = libyaml.Token
	TokenType = libyaml.TokenType

	Mark     = libyaml.Mark
	Position = libyaml.Position
	Span     = libyaml.Span
	Encoding = libyaml.Encoding

	ScalarStyle   = libyaml.ScalarStyle
	SequenceStyle = libyaml.SequenceStyle
	MappingStyle  = libyaml.MappingStyle

	VersionDirective = libyaml.VersionDirective
	TagDirective     = libyaml.TagDirective

	ErrorKind    = libyaml.ErrorKind
	ScannerError = libyaml.ScannerError
	ParserError  = libyaml.ParserError
	ReaderError  = libyaml.ReaderError
)

const (
	STREAM_START_EVENT   = libyaml.STREAM_START_EVENT
	STREAM_END_EVENT     = libyaml.STREAM_END_EVENT
	DOCUMENT_START_EVENT = libyaml.DOCUMENT_START_EVENT
	DOCUMENT_END_EVENT   = libyaml.DOCUMENT_END_EVENT
	ALIAS_EVENT          = libyaml.ALIAS_EVENT
	SCALAR_EVENT         = libyaml.SCALAR_EVENT
	SEQUENCE_START_EVENT = libyaml.SEQUENCE_START_EVENT
	SEQUENCE_END_EVENT   = libyaml.SEQUENCE_END_EVENT
	MAPPING_START_EVENT  = libyaml.MAPPING_START_EVENT
	MAPPING_END_EVENT    = libyaml.MAPPING_END_EVENT
)

const (
	PLAIN_SCALAR_STYLE         = libyaml.PLAIN_SCALAR_STYLE
	SINGLE_QUOTED_SCALAR_STYLE = libyaml.SINGLE_QUOTED_SCALAR_STYLE
	DOUBLE_QUOTED_SCALAR_STYLE = libyaml.DOUBLE_QUOTED_SCALAR_STYLE
	LITERAL_SCALAR_STYLE       = libyaml.LITERAL_SCALAR_STYLE
	FOLDED_SCALAR_STYLE        = libyaml.FOLDED_SCALAR_STYLE

	BLOCK_SEQUENCE_STYLE = libyaml.BLOCK_SEQUENCE_STYLE
	FLOW_SEQUENCE_STYLE  = libyaml.FLOW_SEQUENCE_STYLE
	BLOCK_MAPPING_STYLE  = libyaml.BLOCK_MAPPING_STYLE
	FLOW_MAPPING_STYLE   = libyaml.FLOW_MAPPING_STYLE
)

const (
	UTF8_ENCODING    = libyaml.UTF8_ENCODING
	UTF16LE_ENCODING = libyaml.UTF16LE_ENCODING
	UTF16BE_ENCODING = libyaml.UTF16BE_ENCODING
)

// Error kinds, usable as errors.Is targets.
const (
	BadIndentation     = libyaml.BadIndentation
	TabIndentation     = libyaml.TabIndentation
	UnbalancedFlow     = libyaml.UnbalancedFlow
	InvalidEscape      = libyaml.InvalidEscape
	InvalidName        = libyaml.InvalidName
	EncodingError      = libyaml.EncodingError
	UnterminatedScalar = libyaml.UnterminatedScalar
	InvalidToken       = libyaml.InvalidToken
	InputError         = libyaml.InputError

	UnexpectedToken        = libyaml.UnexpectedToken
	UndefinedAlias         = libyaml.UndefinedAlias
	DuplicateAnchor        = libyaml.DuplicateAnchor
	RecursionLimitExceeded = libyaml.RecursionLimitExceeded
	MalformedDirective     = libyaml.MalformedDirective
)

// KindOf returns the ErrorKind of an error returned by this package.
func KindOf(err error) ErrorKind {
	return libyaml.KindOf(err)
}

//-----------------------------------------------------------------------------
// Constructors
//-----------------------------------------------------------------------------

// NewParser returns a parser reading the YAML stream in.
func NewParser(in []byte, opts ...Option) *Parser {
	p := newParser(opts)
	p.SetInputString(in)
	return p
}

// NewReaderParser returns a parser reading the YAML stream from r. The
// reader is consumed incrementally.
func NewReaderParser(r io.Reader, opts ...Option) *Parser {
	p := newParser(opts)
	p.SetInputReader(r)
	return p
}

func newParser(opts []Option) *Parser {
	cfg := option.NewConfig(opts...)
	p := libyaml.NewParser()
	p.SetMaxDepth(cfg.GetMaxDepth())
	p.SetLogger(cfg.GetLogger())
	return &p
}

// NewScanner returns a scanner producing the tokens of in.
func NewScanner(in []byte, opts ...Option) *Scanner {
	s := newScanner(opts)
	s.SetInputString(in)
	return s
}

// NewReaderScanner returns a scanner producing the tokens read from r.
func NewReaderScanner(r io.Reader, opts ...Option) *Scanner {
	s := newScanner(opts)
	s.SetInputReader(r)
	return s
}

func newScanner(opts []Option) *Scanner {
	cfg := option.NewConfig(opts...)
	s := libyaml.NewScanner()
	s.SetMaxDepth(cfg.GetMaxDepth())
	s.SetLogger(cfg.GetLogger())
	return &s
}

//-----------------------------------------------------------------------------
// Collecting helpers
//-----------------------------------------------------------------------------

// Events parses in and returns every event up to and including
// STREAM_END_EVENT. On failure it returns the events produced before the
// error together with the error.
func Events(in []byte, opts ...Option) ([]Event, error) {
	return collectEvents(NewParser(in, opts...))
}

// ReaderEvents is like Events but reads the stream from r.
func ReaderEvents(r io.Reader, opts ...Option) ([]Event, error) {
	return collectEvents(NewReaderParser(r, opts...))
}

func collectEvents(p *Parser) ([]Event, error) {
	var events []Event
	for {
		var event Event
		err := p.Parse(&event)
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
}

// Tokens scans in and returns every token up to and including
// STREAM_END_TOKEN. On failure it returns the tokens produced before the
// error together with the error.
func Tokens(in []byte, opts ...Option) ([]Token, error) {
	s := NewScanner(in, opts...)
	var tokens []Token
	for {
		var token Token
		err := s.Scan(&token)
		if errors.Is(err, io.EOF) {
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, token)
	}
}

// FormatEvent formats an event in yaml-test-suite notation, for example
// "+MAP {} &a <tag:yaml.org,2002:map>" or "=VAL 'it's".
func FormatEvent(e *Event) string {
	return libyaml.FormatEvent(e)
}

// FormatEvents formats events one per line in yaml-test-suite notation.
func FormatEvents(events []Event) string {
	lines := make([]string, len(events))
	for i := range events {
		lines[i] = libyaml.FormatEvent(&events[i])
	}
	return strings.Join(lines, "\n")
}

// FormatToken formats a token as its type followed by its payload.
func FormatToken(t *Token) string {
	return libyaml.FormatToken(t)
}

// FormatTokens formats tokens one per line.
func FormatTokens(tokens []Token) string {
	lines := make([]string, len(tokens))
	for i := range tokens {
		lines[i] = libyaml.FormatToken(&tokens[i])
	}
	return strings.Join(lines, "\n")
}

// ParserGetEvents parses in and returns its events in yaml-test-suite
// notation, one per line.
func ParserGetEvents(in []byte) (string, error) {
	return libyaml.ParserGetEvents(in)
}
