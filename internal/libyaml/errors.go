// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Error types for YAML scanning and parsing.
// Provides structured error reporting with line/column information and a
// classification usable with errors.Is.

package libyaml

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a scanning or parsing failure.
//
// ErrorKind implements error, so a kind can be used as the target of
// errors.Is:
//
//	if errors.Is(err, libyaml.UndefinedAlias) { ... }
type ErrorKind int

// Lexical kinds are reported by the reader and the scanner, grammatical
// kinds by the parser.
const (
	NO_ERROR_KIND ErrorKind = iota

	// Lexical.
	BadIndentation
	TabIndentation
	UnbalancedFlow
	InvalidEscape
	InvalidName
	EncodingError
	UnterminatedScalar
	InvalidToken
	InputError

	// Grammatical.
	UnexpectedToken
	UndefinedAlias
	DuplicateAnchor
	RecursionLimitExceeded
	MalformedDirective
)

var errorKindStrings = []string{
	NO_ERROR_KIND:          "no error",
	BadIndentation:         "bad indentation",
	TabIndentation:         "tab indentation",
	UnbalancedFlow:         "unbalanced flow collection",
	InvalidEscape:          "invalid escape",
	InvalidName:            "invalid name",
	EncodingError:          "invalid encoding",
	UnterminatedScalar:     "unterminated scalar",
	InvalidToken:           "invalid token",
	InputError:             "input error",
	UnexpectedToken:        "unexpected token",
	UndefinedAlias:         "undefined alias",
	DuplicateAnchor:        "duplicate anchor",
	RecursionLimitExceeded: "recursion limit exceeded",
	MalformedDirective:     "malformed directive",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(errorKindStrings) {
		return fmt.Sprintf("unknown error kind %d", int(k))
	}
	return errorKindStrings[k]
}

func (k ErrorKind) Error() string {
	return "yaml: " + k.String()
}

// Lexical reports whether the kind belongs to the scanner family.
func (k ErrorKind) Lexical() bool {
	return k > NO_ERROR_KIND && k < UnexpectedToken
}

type MarkedYAMLError struct {
	Kind ErrorKind

	// optional context
	ContextMark    Mark
	ContextMessage string

	Mark    Mark
	Message string
}

func (e MarkedYAMLError) Error() string {
	var builder strings.Builder
	builder.WriteString("yaml: ")
	if len(e.ContextMessage) > 0 {
		fmt.Fprintf(&builder, "%s at %s: ", e.ContextMessage, e.ContextMark)
	}
	if len(e.ContextMessage) == 0 || e.ContextMark != e.Mark {
		fmt.Fprintf(&builder, "%s: ", e.Mark)
	}
	builder.WriteString(e.Message)
	return builder.String()
}

// Span returns the position of the problem. When a context is present the
// span starts at the construct being parsed.
func (e MarkedYAMLError) Span() Span {
	start := e.Mark
	if len(e.ContextMessage) > 0 && e.ContextMark.Line > 0 && e.ContextMark.Index <= e.Mark.Index {
		start = e.ContextMark
	}
	return markSpan(start, e.Mark)
}

// Position returns the position of the problem.
func (e MarkedYAMLError) Position() Position {
	return e.Mark.Position()
}

// Is reports whether target is the error's kind.
func (e MarkedYAMLError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

type ScannerError MarkedYAMLError

func (e ScannerError) Error() string {
	return MarkedYAMLError(e).Error()
}

func (e ScannerError) Span() Span         { return MarkedYAMLError(e).Span() }
func (e ScannerError) Position() Position { return MarkedYAMLError(e).Position() }
func (e ScannerError) Is(target error) bool {
	return MarkedYAMLError(e).Is(target)
}

// ParserError is a grammatical failure. For UnexpectedToken it carries the
// token types the parser would have accepted and the one it found.
type ParserError struct {
	MarkedYAMLError

	Expected []TokenType
	Found    TokenType
}

func (e ParserError) Error() string {
	return e.MarkedYAMLError.Error()
}

type ReaderError struct {
	Kind   ErrorKind
	Offset int
	Value  int
	Mark   Mark
	Err    error
}

func (e ReaderError) Error() string {
	return fmt.Sprintf("yaml: offset %d: %s", e.Offset, e.Err)
}

func (e ReaderError) Unwrap() error {
	return e.Err
}

func (e ReaderError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

func (e ReaderError) Span() Span         { return markSpan(e.Mark, e.Mark) }
func (e ReaderError) Position() Position { return e.Mark.Position() }

// KindOf returns the kind of err, or NO_ERROR_KIND when err was not
// produced by this package.
func KindOf(err error) ErrorKind {
	for k := BadIndentation; k <= MalformedDirective; k++ {
		if errors.Is(err, k) {
			return k
		}
	}
	return NO_ERROR_KIND
}
