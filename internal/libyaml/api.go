// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// High-level API helpers for scanner and parser initialization and
// configuration.
// Provides convenience functions for token insertion and stream management.

package libyaml

import (
	"io"

	"github.com/go-kit/log"
)

func (scanner *Scanner) insertToken(pos int, token *Token) {
	// Check if we can move the queue at the beginning of the buffer.
	if scanner.tokens_head > 0 && len(scanner.tokens) == cap(scanner.tokens) {
		if scanner.tokens_head != len(scanner.tokens) {
			copy(scanner.tokens, scanner.tokens[scanner.tokens_head:])
		}
		scanner.tokens = scanner.tokens[:len(scanner.tokens)-scanner.tokens_head]
		scanner.tokens_head = 0
	}
	scanner.tokens = append(scanner.tokens, *token)
	if pos < 0 {
		return
	}
	copy(scanner.tokens[scanner.tokens_head+pos+1:], scanner.tokens[scanner.tokens_head+pos:])
	scanner.tokens[scanner.tokens_head+pos] = *token
}

// NewScanner creates a new scanner object.
func NewScanner() Scanner {
	return Scanner{
		reader:            newReader(),
		max_depth:         DefaultMaxDepth,
		adjacent_value_at: -1,
	}
}

// SetInputString sets a string input.
func (scanner *Scanner) SetInputString(input []byte) {
	scanner.setInputString(input)
}

// SetInputReader sets a file input.
func (scanner *Scanner) SetInputReader(r io.Reader) {
	scanner.setInputReader(r)
}

// SetMaxDepth sets the maximum number of nested flow collections and of
// nested block indentation levels.
func (scanner *Scanner) SetMaxDepth(depth int) {
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	scanner.max_depth = depth
}

// SetLogger sets the logger receiving a debug record per token. A nil
// logger disables logging.
func (scanner *Scanner) SetLogger(logger log.Logger) {
	scanner.logger = logger
}

// NewParser creates a new parser object.
func NewParser() Parser {
	return Parser{
		scanner:   NewScanner(),
		max_depth: DefaultMaxDepth,
	}
}

// SetInputString sets a string input.
func (parser *Parser) SetInputString(input []byte) {
	parser.scanner.SetInputString(input)
}

// SetInputReader sets a file input.
func (parser *Parser) SetInputReader(r io.Reader) {
	parser.scanner.SetInputReader(r)
}

// SetMaxDepth sets the maximum nesting depth of collections.
func (parser *Parser) SetMaxDepth(depth int) {
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	parser.max_depth = depth
	parser.scanner.SetMaxDepth(depth)
}

// SetLogger sets the logger receiving debug records for parser states and
// scanned tokens. A nil logger disables logging.
func (parser *Parser) SetLogger(logger log.Logger) {
	parser.logger = logger
	parser.scanner.SetLogger(logger)
}

// Depth returns the number of collections opened and not yet closed.
func (parser *Parser) Depth() int {
	return parser.depth
}
