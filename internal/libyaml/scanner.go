// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Scanner stage: Transforms the character stream into a token stream.
//
// The scanner produces the following tokens:
//
//	STREAM-START(encoding)          # The stream start.
//	STREAM-END                      # The stream end.
//	VERSION-DIRECTIVE(major,minor)  # The '%YAML' directive.
//	TAG-DIRECTIVE(handle,prefix)    # The '%TAG' directive.
//	DOCUMENT-START                  # '---'
//	DOCUMENT-END                    # '...'
//	BLOCK-SEQUENCE-START            # Indentation increase denoting a block
//	BLOCK-MAPPING-START             # sequence or a block mapping.
//	BLOCK-END                       # Indentation decrease.
//	FLOW-SEQUENCE-START             # '['
//	FLOW-SEQUENCE-END               # ']'
//	FLOW-MAPPING-START              # '{'
//	FLOW-MAPPING-END                # '}'
//	BLOCK-ENTRY                     # '-'
//	FLOW-ENTRY                      # ','
//	KEY                             # '?' or nothing (simple keys).
//	VALUE                           # ':'
//	ALIAS(anchor)                   # '*anchor'
//	ANCHOR(anchor)                  # '&anchor'
//	TAG(handle,suffix)              # '!handle!suffix'
//	SCALAR(value,style)             # A scalar.
//
// Two parts of scanning need more than one character of lookahead.
//
// Block collections have no start indicator. The scanner keeps a stack of
// indentation columns; a line indented deeper than the top of the stack
// opens a collection (BLOCK-SEQUENCE-START or BLOCK-MAPPING-START) and a
// line indented less closes one (BLOCK-END) per popped level.
//
// Simple keys have no '?' indicator. Every token that may start a simple key
// is remembered as a candidate, and when a ':' follows on the same line
// within 1024 characters a KEY token (and possibly a BLOCK-MAPPING-START) is
// inserted in front of it in the token queue. This is why the queue is not
// handed to the parser until the candidate at its head is resolved.

package libyaml

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// simpleKey holds information about a potential simple key.
type simpleKey struct {
	possible     bool // Is a simple key possible?
	required     bool // Is a simple key required?
	token_number int  // The number of the token.
	mark         Mark // The position mark.
}

// flowCollection is an open '[' or '{'.
type flowCollection struct {
	typ  TokenType // FLOW_SEQUENCE_START_TOKEN or FLOW_MAPPING_START_TOKEN.
	mark Mark      // The position of the opening indicator.
}

// Scanner turns the input stream into tokens. A Scanner must be created with
// NewScanner and given its input with SetInputString or SetInputReader.
type Scanner struct {
	reader

	lastError error
	logger    log.Logger
	max_depth int

	stream_start_produced bool // Have we started to scan the input stream?
	stream_end_produced   bool // Have we reached the end of the input stream?

	flow_level int              // The number of unclosed '[' and '{' indicators.
	flows      []flowCollection // The unclosed '[' and '{' indicators.

	tokens          []Token // The tokens queue.
	tokens_head     int     // The head of the tokens queue.
	tokens_parsed   int     // The number of tokens fetched from the queue.
	token_available bool    // Does the tokens queue contain a token ready for dequeueing.

	indent       int         // The current indentation level.
	indent_kind  TokenType   // The collection that opened the current level.
	indents      []int       // The indentation levels stack.
	indent_kinds []TokenType // The collections that opened each stacked level.

	simple_key_allowed bool        // May a simple key occur at the current position?
	simple_keys        []simpleKey // The stack of simple keys.
	simple_keys_by_tok map[int]int // possible simple_key indexes indexed by token_number

	// The source offset at which a ':' directly following a quoted scalar
	// or a flow collection is a value indicator (JSON-like keys).
	adjacent_value_at int
}

// Scan gets the next token. It returns io.EOF once the STREAM-END token has
// been returned.
func (s *Scanner) Scan(token *Token) error {
	// Erase the token object.
	*token = Token{}

	if s.lastError != nil {
		return s.lastError
	}

	// No tokens after STREAM-END.
	if s.stream_end_produced {
		return io.EOF
	}

	head, err := s.peekToken()
	if err != nil {
		return err
	}
	*token = *head
	s.skipToken()
	return nil
}

// peekToken returns the token at the head of the queue without consuming
// it, fetching more tokens when needed.
func (s *Scanner) peekToken() (*Token, error) {
	if s.lastError != nil {
		return nil, s.lastError
	}
	if !s.token_available {
		if err := s.fetchMoreTokens(); err != nil {
			s.lastError = err
			return nil, err
		}
	}
	return &s.tokens[s.tokens_head], nil
}

// skipToken removes the head token from the queue.
func (s *Scanner) skipToken() {
	token := &s.tokens[s.tokens_head]
	if s.logger != nil {
		level.Debug(s.logger).Log("msg", "token", "type", token.Type, "start", token.StartMark, "end", token.EndMark)
	}
	s.token_available = false
	s.tokens_parsed++
	s.stream_end_produced = token.Type == STREAM_END_TOKEN
	s.tokens_head++
}

// Set the scanner error and return the error.
func (s *Scanner) scannerError(kind ErrorKind, context string, context_mark Mark, problem string) error {
	return s.scannerErrorAt(kind, context, context_mark, s.mark, problem)
}

// scannerErrorAt reports a problem at a mark other than the cursor.
func (s *Scanner) scannerErrorAt(kind ErrorKind, context string, context_mark, problem_mark Mark, problem string) error {
	return ScannerError{
		Kind:           kind,
		ContextMark:    context_mark,
		ContextMessage: context,
		Mark:           problem_mark,
		Message:        problem,
	}
}

// Ensure that the tokens queue contains at least one token which can be
// returned to the parser.
func (s *Scanner) fetchMoreTokens() error {
	// While we need more tokens to fetch, do it.
	for {
		if s.tokens_head != len(s.tokens) {
			// If a potential simple key is at the head position, we need to fetch
			// the next token to disambiguate it.
			head_tok_idx, ok := s.simple_keys_by_tok[s.tokens_parsed]
			if !ok {
				break
			}
			valid, err := s.simpleKeyIsValid(&s.simple_keys[head_tok_idx])
			if err != nil {
				return err
			}
			if !valid {
				break
			}
		}
		// Fetch the next token.
		if err := s.fetchNextToken(); err != nil {
			return err
		}
	}

	s.token_available = true
	return nil
}

// The dispatcher for token fetchers.
func (s *Scanner) fetchNextToken() error {
	// Ensure that the buffer is initialized.
	if err := s.cache(1); err != nil {
		return err
	}

	// Check if we just started scanning.  Fetch STREAM-START then.
	if !s.stream_start_produced {
		s.fetchStreamStart()
		return nil
	}

	// Eat whitespaces and comments until we reach the next token.
	if err := s.scanToNextToken(); err != nil {
		return err
	}

	// Check the indentation level against the current column.
	if err := s.unrollIndent(s.mark.Column); err != nil {
		return err
	}

	// Ensure that the buffer contains at least 4 characters.  4 is the length
	// of the longest indicators ('--- ' and '... ').
	if err := s.cache(4); err != nil {
		return err
	}

	// Is it the end of the stream?
	if s.atEnd() {
		return s.fetchStreamEnd()
	}

	c := s.peek(0)
	if s.mark.Column == 0 {
		switch {
		case c == '%':
			return s.fetchDirective()
		case s.isDocumentIndicator('-'):
			return s.fetchDocumentIndicator(DOCUMENT_START_TOKEN)
		case s.isDocumentIndicator('.'):
			return s.fetchDocumentIndicator(DOCUMENT_END_TOKEN)
		}
	}

	next := s.peek(1)
	switch {
	case c == '[':
		return s.fetchFlowCollectionStart(FLOW_SEQUENCE_START_TOKEN)
	case c == '{':
		return s.fetchFlowCollectionStart(FLOW_MAPPING_START_TOKEN)
	case c == ']':
		return s.fetchFlowCollectionEnd(FLOW_SEQUENCE_END_TOKEN)
	case c == '}':
		return s.fetchFlowCollectionEnd(FLOW_MAPPING_END_TOKEN)
	case c == ',':
		return s.fetchFlowEntry()
	case c == '-' && isBlankZ(next):
		return s.fetchBlockEntry()
	case c == '?' && (s.flow_level > 0 || isBlankZ(next)):
		return s.fetchKey()
	case c == ':' && s.isValueIndicator():
		return s.fetchValue()
	case c == '*':
		return s.fetchAnchor(ALIAS_TOKEN)
	case c == '&':
		return s.fetchAnchor(ANCHOR_TOKEN)
	case c == '!':
		return s.fetchTag()
	case c == '|' && s.flow_level == 0:
		return s.fetchBlockScalar(true)
	case c == '>' && s.flow_level == 0:
		return s.fetchBlockScalar(false)
	case c == '\'':
		return s.fetchFlowScalar(true)
	case c == '"':
		return s.fetchFlowScalar(false)
	}

	// Is it a plain scalar?
	//
	// A plain scalar may start with any non-blank characters except
	//
	//      '-', '?', ':', ',', '[', ']', '{', '}',
	//      '#', '&', '*', '!', '|', '>', '\'', '\"',
	//      '%', '@', '`'.
	//
	// It may also start with the characters
	//
	//      '-', '?', ':'
	//
	// if it is followed by a non-space character that is not taken as an
	// indicator above.
	switch c {
	case '-', '?', ':':
		if !isBlankZ(next) {
			return s.fetchPlainScalar()
		}
	case ',', '[', ']', '{', '}', '#', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
	default:
		if !isBlankZ(c) {
			return s.fetchPlainScalar()
		}
	}

	return s.scannerError(InvalidToken, "while scanning for the next token", s.mark,
		"found character that cannot start any token")
}

// isDocumentIndicator reports whether '---' or '...' followed by a blank
// starts at the current position.
func (s *Scanner) isDocumentIndicator(c rune) bool {
	return s.peek(0) == c && s.peek(1) == c && s.peek(2) == c && isBlankZ(s.peek(3))
}

// isValueIndicator reports whether the ':' at the current position is a
// mapping value indicator. In the flow context it may be directly followed
// by a flow indicator, and it may directly follow a JSON-like key without
// any separating space.
func (s *Scanner) isValueIndicator() bool {
	next := s.peek(1)
	if isBlankZ(next) {
		return true
	}
	if s.flow_level == 0 {
		return false
	}
	return isFlowIndicator(next) || s.mark.Index == s.adjacent_value_at
}

func (s *Scanner) simpleKeyIsValid(simple_key *simpleKey) (bool, error) {
	if !simple_key.possible {
		return false, nil
	}

	// The 1.2 specification says:
	//
	//     "If the ? indicator is omitted, parsing needs to see past the
	//     implicit key to recognize it as such. To limit the amount of
	//     lookahead required, the “:” indicator must appear at most 1024
	//     Unicode characters beyond the start of the key. In addition, the key
	//     is restricted to a single line."
	//
	if simple_key.mark.Line < s.mark.Line || simple_key.mark.Index+1024 < s.mark.Index {
		// Check if the potential simple key to be removed is required.
		if simple_key.required {
			return false, s.scannerError(InvalidToken, "while scanning a simple key", simple_key.mark,
				"could not find expected ':'")
		}
		simple_key.possible = false
		return false, nil
	}
	return true, nil
}

// Check if a simple key may start at the current position and add it if
// needed.
func (s *Scanner) saveSimpleKey() error {
	// A simple key is required at the current position if the scanner is in
	// the block context and the current column coincides with the indentation
	// level.
	required := s.flow_level == 0 && s.indent == s.mark.Column

	// If the current position may start a simple key, save it.
	if s.simple_key_allowed {
		simple_key := simpleKey{
			possible:     true,
			required:     required,
			token_number: s.tokens_parsed + (len(s.tokens) - s.tokens_head),
			mark:         s.mark,
		}

		if err := s.removeSimpleKey(); err != nil {
			return err
		}
		s.simple_keys[len(s.simple_keys)-1] = simple_key
		s.simple_keys_by_tok[simple_key.token_number] = len(s.simple_keys) - 1
	}
	return nil
}

// Remove a potential simple key at the current flow level.
func (s *Scanner) removeSimpleKey() error {
	i := len(s.simple_keys) - 1
	if s.simple_keys[i].possible {
		// If the key is required, it is an error.
		if s.simple_keys[i].required {
			return s.scannerError(InvalidToken, "while scanning a simple key", s.simple_keys[i].mark,
				"could not find expected ':'")
		}
		// Remove the key from the stack.
		s.simple_keys[i].possible = false
		delete(s.simple_keys_by_tok, s.simple_keys[i].token_number)
	}
	return nil
}

// Increase the flow level and resize the simple key list if needed.
func (s *Scanner) increaseFlowLevel(typ TokenType) error {
	// Reset the simple key on the next level.
	s.simple_keys = append(s.simple_keys, simpleKey{
		token_number: s.tokens_parsed + (len(s.tokens) - s.tokens_head),
		mark:         s.mark,
	})
	s.flows = append(s.flows, flowCollection{typ: typ, mark: s.mark})

	// Increase the flow level.
	s.flow_level++
	if s.flow_level > s.max_depth {
		return s.scannerError(RecursionLimitExceeded, "while increasing flow level", s.mark,
			fmt.Sprintf("exceeded max depth of %d", s.max_depth))
	}
	return nil
}

// Decrease the flow level. The closing indicator must match the innermost
// open collection.
func (s *Scanner) decreaseFlowLevel(typ TokenType) error {
	if s.flow_level == 0 {
		return s.scannerError(UnbalancedFlow, "while scanning a flow collection", s.mark,
			fmt.Sprintf("found %s without a matching opening indicator", typ.Indicator()))
	}
	last := len(s.flows) - 1
	open := s.flows[last]
	want := FLOW_SEQUENCE_END_TOKEN
	if open.typ == FLOW_MAPPING_START_TOKEN {
		want = FLOW_MAPPING_END_TOKEN
	}
	if typ != want {
		return s.scannerError(UnbalancedFlow, "while scanning a flow collection", open.mark,
			fmt.Sprintf("did not find expected %s", want.Indicator()))
	}

	s.flow_level--
	s.flows = s.flows[:last]
	last = len(s.simple_keys) - 1
	delete(s.simple_keys_by_tok, s.simple_keys[last].token_number)
	s.simple_keys = s.simple_keys[:last]
	return nil
}

// Push the current indentation level to the stack and set the new level
// the current column is greater than the indentation level.  In this case,
// append or insert the specified token into the token queue.
func (s *Scanner) rollIndent(column, number int, typ TokenType, mark Mark) error {
	// In the flow context, do nothing.
	if s.flow_level > 0 {
		return nil
	}

	if s.indent < column {
		// Push the current indentation level to the stack and set the new
		// indentation level.
		s.indents = append(s.indents, s.indent)
		s.indent_kinds = append(s.indent_kinds, s.indent_kind)
		s.indent = column
		s.indent_kind = typ
		if len(s.indents) > s.max_depth {
			return s.scannerError(RecursionLimitExceeded, "while increasing indentation level", mark,
				fmt.Sprintf("exceeded max depth of %d", s.max_depth))
		}

		// Create a token and insert it into the queue.
		token := Token{
			Type:      typ,
			StartMark: mark,
			EndMark:   mark,
		}
		if number > -1 {
			number -= s.tokens_parsed
		}
		s.insertToken(number, &token)
	}
	return nil
}

// Pop indentation levels from the indents stack until the current level
// becomes less or equal to the column.  For each indentation level, append
// the BLOCK-END token. Landing between two levels is an error.
func (s *Scanner) unrollIndent(column int) error {
	// In the flow context, do nothing.
	if s.flow_level > 0 {
		return nil
	}

	popped := false
	for s.indent > column {
		// Create a token and append it to the queue.
		token := Token{
			Type:      BLOCK_END_TOKEN,
			StartMark: s.mark,
			EndMark:   s.mark,
		}
		s.insertToken(-1, &token)

		// Pop the indentation level.
		s.indent = s.indents[len(s.indents)-1]
		s.indent_kind = s.indent_kinds[len(s.indent_kinds)-1]
		s.indents = s.indents[:len(s.indents)-1]
		s.indent_kinds = s.indent_kinds[:len(s.indent_kinds)-1]
		popped = true
	}

	if popped && s.indent >= 0 && column > s.indent {
		return s.scannerError(BadIndentation, "while scanning a block collection", s.mark,
			"found a line that does not match any enclosing indentation level")
	}
	return nil
}

// Initialize the scanner and produce the STREAM-START token.
func (s *Scanner) fetchStreamStart() {
	// Set the initial indentation.
	s.indent = -1

	// Initialize the simple key stack.
	s.simple_keys = append(s.simple_keys, simpleKey{})

	s.simple_keys_by_tok = make(map[int]int)

	// A simple key is allowed at the beginning of the stream.
	s.simple_key_allowed = true

	// We have started.
	s.stream_start_produced = true

	// Create the STREAM-START token and append it to the queue.
	token := Token{
		Type:      STREAM_START_TOKEN,
		StartMark: s.mark,
		EndMark:   s.mark,
		encoding:  s.encoding,
	}
	s.insertToken(-1, &token)
}

// Produce the STREAM-END token and shut down the scanner.
func (s *Scanner) fetchStreamEnd() error {
	// Every flow collection must be closed.
	if s.flow_level > 0 {
		open := s.flows[len(s.flows)-1]
		want := FLOW_SEQUENCE_END_TOKEN
		if open.typ == FLOW_MAPPING_START_TOKEN {
			want = FLOW_MAPPING_END_TOKEN
		}
		return s.scannerError(UnbalancedFlow, "while scanning a flow collection", open.mark,
			fmt.Sprintf("did not find expected %s", want.Indicator()))
	}

	// Reset the indentation level.
	if err := s.unrollIndent(-1); err != nil {
		return err
	}

	// Reset simple keys.
	if err := s.removeSimpleKey(); err != nil {
		return err
	}

	s.simple_key_allowed = false

	// Create the STREAM-END token and append it to the queue.
	token := Token{
		Type:      STREAM_END_TOKEN,
		StartMark: s.mark,
		EndMark:   s.mark,
	}
	s.insertToken(-1, &token)
	return nil
}

// Produce a VERSION-DIRECTIVE or TAG-DIRECTIVE token.
func (s *Scanner) fetchDirective() error {
	// Reset the indentation level.
	if err := s.unrollIndent(-1); err != nil {
		return err
	}

	// Reset simple keys.
	if err := s.removeSimpleKey(); err != nil {
		return err
	}

	s.simple_key_allowed = false

	// Create the YAML-DIRECTIVE or TAG-DIRECTIVE token.
	token, err := s.scanDirective()
	if err != nil {
		return err
	}
	// Unknown directives produce no token.
	if token != nil {
		s.insertToken(-1, token)
	}
	return nil
}

// Produce the DOCUMENT-START or DOCUMENT-END token.
func (s *Scanner) fetchDocumentIndicator(typ TokenType) error {
	// Reset the indentation level.
	if err := s.unrollIndent(-1); err != nil {
		return err
	}

	// Reset simple keys.
	if err := s.removeSimpleKey(); err != nil {
		return err
	}

	s.simple_key_allowed = false

	// Consume the token.
	start_mark := s.mark

	s.skip()
	s.skip()
	s.skip()

	end_mark := s.mark

	// Create the DOCUMENT-START or DOCUMENT-END token.
	token := Token{
		Type:      typ,
		StartMark: start_mark,
		EndMark:   end_mark,
	}
	// Append the token to the queue.
	s.insertToken(-1, &token)
	return nil
}

// Produce the FLOW-SEQUENCE-START or FLOW-MAPPING-START token.
func (s *Scanner) fetchFlowCollectionStart(typ TokenType) error {
	// The indicators '[' and '{' may start a simple key.
	if err := s.saveSimpleKey(); err != nil {
		return err
	}

	// Increase the flow level.
	if err := s.increaseFlowLevel(typ); err != nil {
		return err
	}

	// A simple key may follow the indicators '[' and '{'.
	s.simple_key_allowed = true

	// Consume the token.
	start_mark := s.mark
	s.skip()
	end_mark := s.mark

	// Create the FLOW-SEQUENCE-START of FLOW-MAPPING-START token.
	token := Token{
		Type:      typ,
		StartMark: start_mark,
		EndMark:   end_mark,
	}
	// Append the token to the queue.
	s.insertToken(-1, &token)
	return nil
}

// Produce the FLOW-SEQUENCE-END or FLOW-MAPPING-END token.
func (s *Scanner) fetchFlowCollectionEnd(typ TokenType) error {
	if s.flow_level > 0 {
		// Reset any potential simple key on the current flow level.
		if err := s.removeSimpleKey(); err != nil {
			return err
		}
	}

	// Decrease the flow level.
	if err := s.decreaseFlowLevel(typ); err != nil {
		return err
	}

	// No simple keys after the indicators ']' and '}'.
	s.simple_key_allowed = false

	// Consume the token.
	start_mark := s.mark
	s.skip()
	end_mark := s.mark

	// A ':' right after the collection is a value indicator.
	s.adjacent_value_at = end_mark.Index

	// Create the FLOW-SEQUENCE-END of FLOW-MAPPING-END token.
	token := Token{
		Type:      typ,
		StartMark: start_mark,
		EndMark:   end_mark,
	}
	// Append the token to the queue.
	s.insertToken(-1, &token)
	return nil
}

// Produce the FLOW-ENTRY token.
func (s *Scanner) fetchFlowEntry() error {
	// Reset any potential simple keys on the current flow level.
	if err := s.removeSimpleKey(); err != nil {
		return err
	}

	// Simple keys are allowed after ','.
	s.simple_key_allowed = true

	// Consume the token.
	start_mark := s.mark
	s.skip()
	end_mark := s.mark

	// Create the FLOW-ENTRY token and append it to the queue.
	token := Token{
		Type:      FLOW_ENTRY_TOKEN,
		StartMark: start_mark,
		EndMark:   end_mark,
	}
	s.insertToken(-1, &token)
	return nil
}

// Produce the BLOCK-ENTRY token.
func (s *Scanner) fetchBlockEntry() error {
	// Check if the scanner is in the block context.
	if s.flow_level == 0 {
		// Check if we are allowed to start a new entry.
		if !s.simple_key_allowed {
			return s.scannerError(InvalidToken, "", s.mark,
				"block sequence entries are not allowed in this context")
		}
		// A sequence nested in a mapping must be indented deeper than
		// the mapping keys.
		if s.indent == s.mark.Column && s.indent_kind == BLOCK_MAPPING_START_TOKEN {
			return s.scannerError(BadIndentation, "while scanning a block mapping", s.mark,
				"found a sequence entry at the indentation of the mapping keys")
		}
		// Add the BLOCK-SEQUENCE-START token if needed.
		if err := s.rollIndent(s.mark.Column, -1, BLOCK_SEQUENCE_START_TOKEN, s.mark); err != nil {
			return err
		}
	}

	// Reset any potential simple keys on the current flow level.
	if err := s.removeSimpleKey(); err != nil {
		return err
	}

	// Simple keys are allowed after '-'.
	s.simple_key_allowed = true

	// Consume the token.
	start_mark := s.mark
	s.skip()
	end_mark := s.mark

	// Create the BLOCK-ENTRY token and append it to the queue.
	token := Token{
		Type:      BLOCK_ENTRY_TOKEN,
		StartMark: start_mark,
		EndMark:   end_mark,
	}
	s.insertToken(-1, &token)
	return nil
}

// Produce the KEY token.
func (s *Scanner) fetchKey() error {
	// In the block context, additional checks are required.
	if s.flow_level == 0 {
		// Check if we are allowed to start a new key (not necessary simple).
		if !s.simple_key_allowed {
			return s.scannerError(InvalidToken, "", s.mark,
				"mapping keys are not allowed in this context")
		}
		// Add the BLOCK-MAPPING-START token if needed.
		if err := s.rollIndent(s.mark.Column, -1, BLOCK_MAPPING_START_TOKEN, s.mark); err != nil {
			return err
		}
	}

	// Reset any potential simple keys on the current flow level.
	if err := s.removeSimpleKey(); err != nil {
		return err
	}

	// Simple keys are allowed after '?' in the block context.
	s.simple_key_allowed = s.flow_level == 0

	// Consume the token.
	start_mark := s.mark
	s.skip()
	end_mark := s.mark

	// Create the KEY token and append it to the queue.
	token := Token{
		Type:      KEY_TOKEN,
		StartMark: start_mark,
		EndMark:   end_mark,
	}
	s.insertToken(-1, &token)
	return nil
}

// Produce the VALUE token.
func (s *Scanner) fetchValue() error {
	simple_key := &s.simple_keys[len(s.simple_keys)-1]

	// Have we found a simple key?
	valid, err := s.simpleKeyIsValid(simple_key)
	if err != nil {
		return err
	}
	if valid {
		// Create the KEY token and insert it into the queue.
		token := Token{
			Type:      KEY_TOKEN,
			StartMark: simple_key.mark,
			EndMark:   simple_key.mark,
		}
		s.insertToken(simple_key.token_number-s.tokens_parsed, &token)

		// In the block context, we may need to add the BLOCK-MAPPING-START token.
		err = s.rollIndent(simple_key.mark.Column, simple_key.token_number, BLOCK_MAPPING_START_TOKEN, simple_key.mark)
		if err != nil {
			return err
		}

		// Remove the simple key.
		simple_key.possible = false
		delete(s.simple_keys_by_tok, simple_key.token_number)

		// A simple key cannot follow another simple key.
		s.simple_key_allowed = false
	} else {
		// The ':' indicator follows a complex key.

		// In the block context, extra checks are required.
		if s.flow_level == 0 {
			// Check if we are allowed to start a complex value.
			if !s.simple_key_allowed {
				return s.scannerError(InvalidToken, "", s.mark,
					"mapping values are not allowed in this context")
			}

			// Add the BLOCK-MAPPING-START token if needed.
			err = s.rollIndent(s.mark.Column, -1, BLOCK_MAPPING_START_TOKEN, s.mark)
			if err != nil {
				return err
			}
		}

		// Simple keys after ':' are allowed in the block context.
		s.simple_key_allowed = s.flow_level == 0
	}

	// Consume the token.
	start_mark := s.mark
	s.skip()
	end_mark := s.mark

	// In the flow context a value node must be separated from a ':' that
	// does not follow a JSON-like key.
	if s.flow_level > 0 && start_mark.Index != s.adjacent_value_at {
		if err := s.cache(1); err != nil {
			return err
		}
		if c := s.peek(0); !isBlankZ(c) && c != ',' && c != ']' && c != '}' {
			return s.scannerError(InvalidToken, "while scanning a flow mapping value", start_mark,
				"did not find expected whitespace after ':'")
		}
	}

	// Create the VALUE token and append it to the queue.
	token := Token{
		Type:      VALUE_TOKEN,
		StartMark: start_mark,
		EndMark:   end_mark,
	}
	s.insertToken(-1, &token)
	return nil
}

// Produce the ALIAS or ANCHOR token.
func (s *Scanner) fetchAnchor(typ TokenType) error {
	// An anchor or an alias could be a simple key.
	if err := s.saveSimpleKey(); err != nil {
		return err
	}

	// A simple key cannot follow an anchor or an alias.
	s.simple_key_allowed = false

	// Create the ALIAS or ANCHOR token and append it to the queue.
	token, err := s.scanAnchor(typ)
	if err != nil {
		return err
	}
	s.insertToken(-1, token)
	return nil
}

// Produce the TAG token.
func (s *Scanner) fetchTag() error {
	// A tag could be a simple key.
	if err := s.saveSimpleKey(); err != nil {
		return err
	}

	// A simple key cannot follow a tag.
	s.simple_key_allowed = false

	// Create the TAG token and append it to the queue.
	token, err := s.scanTag()
	if err != nil {
		return err
	}
	s.insertToken(-1, token)
	return nil
}

// Produce the SCALAR(...,literal) or SCALAR(...,folded) tokens.
func (s *Scanner) fetchBlockScalar(literal bool) error {
	// Remove any potential simple keys.
	if err := s.removeSimpleKey(); err != nil {
		return err
	}

	// A simple key may follow a block scalar.
	s.simple_key_allowed = true

	// Create the SCALAR token and append it to the queue.
	token, err := s.scanBlockScalar(literal)
	if err != nil {
		return err
	}
	s.insertToken(-1, token)
	return nil
}

// Produce the SCALAR(...,single-quoted) or SCALAR(...,double-quoted) tokens.
func (s *Scanner) fetchFlowScalar(single bool) error {
	// A quoted scalar could be a simple key.
	if err := s.saveSimpleKey(); err != nil {
		return err
	}

	// A simple key cannot follow a flow scalar.
	s.simple_key_allowed = false

	// Create the SCALAR token and append it to the queue.
	token, err := s.scanFlowScalar(single)
	if err != nil {
		return err
	}

	// A ':' right after the closing quote is a value indicator.
	s.adjacent_value_at = token.EndMark.Index

	s.insertToken(-1, token)
	return nil
}

// Produce the SCALAR(...,plain) token.
func (s *Scanner) fetchPlainScalar() error {
	// A plain scalar could be a simple key.
	if err := s.saveSimpleKey(); err != nil {
		return err
	}

	// A simple key cannot follow a flow scalar.
	s.simple_key_allowed = false

	// Create the SCALAR token and append it to the queue.
	token, err := s.scanPlainScalar()
	if err != nil {
		return err
	}
	s.insertToken(-1, token)
	return nil
}

// Eat whitespaces and comments until the next token is found.
func (s *Scanner) scanToNextToken() error {
	// Until the next token is not found.
	for {
		// Allow the BOM mark to start a line.
		if err := s.cache(1); err != nil {
			return err
		}
		if s.mark.Column == 0 && s.peek(0) == bom {
			s.skip()
			if err := s.cache(1); err != nil {
				return err
			}
		}

		// Eat whitespaces.
		//
		// Tabs are allowed in the flow context and between tokens, but
		// not in the indentation of a block context line.
		line_start := s.mark.Column == 0
		tab_mark := Mark{}
		for isBlank(s.peek(0)) {
			if isTab(s.peek(0)) && tab_mark.Line == 0 {
				tab_mark = s.mark
			}
			s.skip()
			if err := s.cache(1); err != nil {
				return err
			}
		}
		if line_start && tab_mark.Line > 0 && s.flow_level == 0 && !isBreakZ(s.peek(0)) && s.peek(0) != '#' {
			return s.scannerErrorAt(TabIndentation, "while scanning indentation", tab_mark, tab_mark,
				"found a tab character where an indentation space is expected")
		}

		// Eat a comment until a line break.
		if s.peek(0) == '#' {
			for !isBreakZ(s.peek(0)) {
				s.skip()
				if err := s.cache(1); err != nil {
					return err
				}
			}
		}

		// If it is a line break, eat it.
		if !isBreak(s.peek(0)) {
			break // We have found a token.
		}
		s.skipLine()

		// In the block context, a new line may start a simple key.
		if s.flow_level == 0 {
			s.simple_key_allowed = true
		}
	}

	return nil
}

// Scan a YAML-DIRECTIVE or TAG-DIRECTIVE token. Directives with other names
// are reserved; their line is skipped and no token is returned.
//
// Scope:
//
//	%YAML    1.1    # a comment \n
//	^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^
//	%TAG    !yaml!  tag:yaml.org,2002:  \n
//	^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^
func (s *Scanner) scanDirective() (*Token, error) {
	// Eat '%'.
	start_mark := s.mark
	s.skip()

	// Scan the directive name.
	name, err := s.scanDirectiveName(start_mark)
	if err != nil {
		return nil, err
	}

	var token *Token
	switch {
	case bytes.Equal(name, []byte("YAML")):
		// Scan the VERSION directive value.
		major, minor, err := s.scanVersionDirectiveValue(start_mark)
		if err != nil {
			return nil, err
		}

		// Create a VERSION-DIRECTIVE token.
		token = &Token{
			Type:      VERSION_DIRECTIVE_TOKEN,
			StartMark: start_mark,
			EndMark:   s.mark,
			major:     major,
			minor:     minor,
		}

	case bytes.Equal(name, []byte("TAG")):
		// Scan the TAG directive value.
		handle, prefix, err := s.scanTagDirectiveValue(start_mark)
		if err != nil {
			return nil, err
		}

		// Create a TAG-DIRECTIVE token.
		token = &Token{
			Type:      TAG_DIRECTIVE_TOKEN,
			StartMark: start_mark,
			EndMark:   s.mark,
			Value:     handle,
			prefix:    prefix,
		}

	default:
		// Skip the parameters of a reserved directive.
		for !isBreakZ(s.peek(0)) && s.peek(0) != '#' {
			s.skip()
			if err := s.cache(1); err != nil {
				return nil, err
			}
		}
	}

	// Eat the rest of the line including any comments.
	if err := s.cache(1); err != nil {
		return nil, err
	}

	for isBlank(s.peek(0)) {
		s.skip()
		if err := s.cache(1); err != nil {
			return nil, err
		}
	}

	if s.peek(0) == '#' {
		for !isBreakZ(s.peek(0)) {
			s.skip()
			if err := s.cache(1); err != nil {
				return nil, err
			}
		}
	}

	// Check if we are at the end of the line.
	if !isBreakZ(s.peek(0)) {
		return nil, s.scannerError(MalformedDirective, "while scanning a directive", start_mark,
			"did not find expected comment or line break")
	}

	// Eat a line break.
	s.skipLine()

	return token, nil
}

// Scan the directive name.
//
// Scope:
//
//	%YAML   1.1     # a comment \n
//	 ^^^^
//	%TAG    !yaml!  tag:yaml.org,2002:  \n
//	 ^^^
func (s *Scanner) scanDirectiveName(start_mark Mark) ([]byte, error) {
	// Consume the directive name.
	if err := s.cache(1); err != nil {
		return nil, err
	}

	var name []byte
	for isAlpha(s.peek(0)) {
		name = s.read(name)
		if err := s.cache(1); err != nil {
			return nil, err
		}
	}

	// Check if the name is empty.
	if len(name) == 0 {
		return nil, s.scannerError(MalformedDirective, "while scanning a directive", start_mark,
			"could not find expected directive name")
	}

	// Check for an blank character after the name.
	if !isBlankZ(s.peek(0)) {
		return nil, s.scannerError(MalformedDirective, "while scanning a directive", start_mark,
			"found unexpected non-alphabetical character")
	}
	return name, nil
}

// Scan the value of VERSION-DIRECTIVE.
//
// Scope:
//
//	%YAML   1.1     # a comment \n
//	     ^^^^^^
func (s *Scanner) scanVersionDirectiveValue(start_mark Mark) (major, minor int8, err error) {
	// Eat whitespaces.
	if err := s.cache(1); err != nil {
		return 0, 0, err
	}
	for isBlank(s.peek(0)) {
		s.skip()
		if err := s.cache(1); err != nil {
			return 0, 0, err
		}
	}

	// Consume the major version number.
	major, err = s.scanVersionDirectiveNumber(start_mark)
	if err != nil {
		return 0, 0, err
	}

	// Eat '.'.
	if s.peek(0) != '.' {
		return 0, 0, s.scannerError(MalformedDirective, "while scanning a %YAML directive", start_mark,
			"did not find expected digit or '.' character")
	}

	s.skip()

	// Consume the minor version number.
	minor, err = s.scanVersionDirectiveNumber(start_mark)
	if err != nil {
		return 0, 0, err
	}
	return major, minor, nil
}

const max_number_length = 2

// Scan the version number of VERSION-DIRECTIVE.
//
// Scope:
//
//	%YAML   1.1     # a comment \n
//	        ^
//	%YAML   1.1     # a comment \n
//	          ^
func (s *Scanner) scanVersionDirectiveNumber(start_mark Mark) (int8, error) {
	// Repeat while the next character is digit.
	if err := s.cache(1); err != nil {
		return 0, err
	}
	var value, length int8
	for isDigit(s.peek(0)) {
		// Check if the number is too long.
		length++
		if length > max_number_length {
			return 0, s.scannerError(MalformedDirective, "while scanning a %YAML directive", start_mark,
				"found extremely long version number")
		}
		value = value*10 + int8(asDigit(s.peek(0)))
		s.skip()
		if err := s.cache(1); err != nil {
			return 0, err
		}
	}

	// Check if the number was present.
	if length == 0 {
		return 0, s.scannerError(MalformedDirective, "while scanning a %YAML directive", start_mark,
			"did not find expected version number")
	}
	return value, nil
}

// Scan the value of a TAG-DIRECTIVE token.
//
// Scope:
//
//	%TAG    !yaml!  tag:yaml.org,2002:  \n
//	    ^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^
func (s *Scanner) scanTagDirectiveValue(start_mark Mark) (handle, prefix []byte, err error) {
	// Eat whitespaces.
	if err := s.cache(1); err != nil {
		return nil, nil, err
	}
	for isBlank(s.peek(0)) {
		s.skip()
		if err := s.cache(1); err != nil {
			return nil, nil, err
		}
	}

	// Scan a handle.
	handle, err = s.scanTagHandle(true, start_mark)
	if err != nil {
		return nil, nil, err
	}

	// Expect a whitespace.
	if err := s.cache(1); err != nil {
		return nil, nil, err
	}
	if !isBlank(s.peek(0)) {
		return nil, nil, s.scannerError(MalformedDirective, "while scanning a %TAG directive", start_mark,
			"did not find expected whitespace")
	}

	// Eat whitespaces.
	for isBlank(s.peek(0)) {
		s.skip()
		if err := s.cache(1); err != nil {
			return nil, nil, err
		}
	}

	// Scan a prefix.
	prefix, err = s.scanTagURI(true, false, nil, start_mark)
	if err != nil {
		return nil, nil, err
	}

	// Expect a whitespace or line break.
	if err := s.cache(1); err != nil {
		return nil, nil, err
	}
	if !isBlankZ(s.peek(0)) {
		return nil, nil, s.scannerError(MalformedDirective, "while scanning a %TAG directive", start_mark,
			"did not find expected whitespace or line break")
	}
	return handle, prefix, nil
}

// Scan an ANCHOR or ALIAS token. The name runs up to the next blank or flow
// indicator.
func (s *Scanner) scanAnchor(typ TokenType) (*Token, error) {
	var name []byte

	// Eat the indicator character.
	start_mark := s.mark
	s.skip()

	// Consume the value.
	if err := s.cache(1); err != nil {
		return nil, err
	}
	for isAnchorChar(s.peek(0)) {
		name = s.read(name)
		if err := s.cache(1); err != nil {
			return nil, err
		}
	}

	end_mark := s.mark

	if len(name) == 0 {
		context := "while scanning an anchor"
		if typ == ALIAS_TOKEN {
			context = "while scanning an alias"
		}
		return nil, s.scannerError(InvalidName, context, start_mark,
			"did not find expected anchor name")
	}

	// Create a token.
	token := &Token{
		Type:      typ,
		StartMark: start_mark,
		EndMark:   end_mark,
		Value:     name,
	}
	return token, nil
}

// Scan a TAG token.
func (s *Scanner) scanTag() (*Token, error) {
	var handle, suffix []byte
	var err error

	start_mark := s.mark

	// Check if the tag is in the canonical form.
	if err := s.cache(2); err != nil {
		return nil, err
	}

	if s.peek(1) == '<' {
		// Keep the handle as ''

		// Eat '!<'
		s.skip()
		s.skip()

		// Consume the tag value.
		suffix, err = s.scanTagURI(false, true, nil, start_mark)
		if err != nil {
			return nil, err
		}

		// Check for '>' and eat it.
		if s.peek(0) != '>' {
			return nil, s.scannerError(InvalidName, "while scanning a tag", start_mark,
				"did not find the expected '>'")
		}

		s.skip()
	} else {
		// The tag has either the '!suffix' or the '!handle!suffix' form.

		// First, try to scan a handle.
		handle, err = s.scanTagHandle(false, start_mark)
		if err != nil {
			return nil, err
		}

		// Check if it is, indeed, handle.
		if handle[0] == '!' && len(handle) > 1 && handle[len(handle)-1] == '!' {
			// Scan the suffix now.
			suffix, err = s.scanTagURI(false, false, nil, start_mark)
			if err != nil {
				return nil, err
			}
		} else {
			// It wasn't a handle after all.  Scan the rest of the tag.
			suffix, err = s.scanTagURI(false, false, handle, start_mark)
			if err != nil {
				return nil, err
			}

			// Set the handle to '!'.
			handle = []byte{'!'}

			// A special case: the '!' tag.  Set the handle to '' and the
			// suffix to '!'.
			if len(suffix) == 0 {
				handle, suffix = suffix, handle
			}
		}
	}

	// Check the character which ends the tag.
	if err := s.cache(1); err != nil {
		return nil, err
	}
	if c := s.peek(0); !isBlankZ(c) && !(s.flow_level > 0 && isFlowIndicator(c)) {
		return nil, s.scannerError(InvalidName, "while scanning a tag", start_mark,
			"did not find expected whitespace or line break")
	}

	end_mark := s.mark

	// Create a token.
	token := &Token{
		Type:      TAG_TOKEN,
		StartMark: start_mark,
		EndMark:   end_mark,
		Value:     handle,
		suffix:    suffix,
	}
	return token, nil
}

// tagErrorKind is the kind of a tag syntax error: directive parameters are
// malformed directives, tags on nodes are invalid names.
func tagErrorKind(directive bool) (ErrorKind, string) {
	if directive {
		return MalformedDirective, "while parsing a %TAG directive"
	}
	return InvalidName, "while parsing a tag"
}

// Scan a tag handle.
func (s *Scanner) scanTagHandle(directive bool, start_mark Mark) ([]byte, error) {
	kind, context := tagErrorKind(directive)

	// Check the initial '!' character.
	if err := s.cache(1); err != nil {
		return nil, err
	}
	if s.peek(0) != '!' {
		return nil, s.scannerError(kind, context, start_mark, "did not find expected '!'")
	}

	var handle []byte

	// Copy the '!' character.
	handle = s.read(handle)

	// Copy all subsequent alphabetical and numerical characters.
	if err := s.cache(1); err != nil {
		return nil, err
	}
	for isAlpha(s.peek(0)) {
		handle = s.read(handle)
		if err := s.cache(1); err != nil {
			return nil, err
		}
	}

	// Check if the trailing character is '!' and copy it.
	if s.peek(0) == '!' {
		handle = s.read(handle)
	} else if directive && string(handle) != "!" {
		// It's either the '!' tag or not really a tag handle.  If it's a %TAG
		// directive, it's an error.  If it's a tag token, it must be a part of URI.
		return nil, s.scannerError(kind, context, start_mark, "did not find expected '!'")
	}
	return handle, nil
}

// Scan a tag URI. Tag shorthands end at a flow indicator; verbatim tags and
// %TAG prefixes may contain them.
func (s *Scanner) scanTagURI(directive, verbatim bool, head []byte, start_mark Mark) ([]byte, error) {
	kind, context := tagErrorKind(directive)
	var uri []byte
	hasTag := len(head) > 0

	// Copy the head if needed.
	//
	// Note that we don't copy the leading '!' character.
	if len(head) > 1 {
		uri = append(uri, head[1:]...)
	}

	// Scan the tag.
	if err := s.cache(1); err != nil {
		return nil, err
	}

	for {
		c := s.peek(0)
		if !isURIChar(c) || (!directive && !verbatim && isFlowIndicator(c)) {
			break
		}
		// Check if it is a URI-escape sequence.
		if c == '%' {
			var err error
			if uri, err = s.scanURIEscapes(directive, start_mark, uri); err != nil {
				return nil, err
			}
		} else {
			uri = s.read(uri)
		}
		if err := s.cache(1); err != nil {
			return nil, err
		}
		hasTag = true
	}

	if !hasTag {
		return nil, s.scannerError(kind, context, start_mark, "did not find expected tag URI")
	}
	return uri, nil
}

// utf8Width returns the length of the UTF-8 sequence introduced by the
// leading octet b, or 0 if b cannot start a sequence.
func utf8Width(b byte) int {
	switch {
	case b&0x80 == 0x00:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	}
	return 0
}

// Decode an URI-escape sequence corresponding to a single UTF-8 character.
func (s *Scanner) scanURIEscapes(directive bool, start_mark Mark, uri []byte) ([]byte, error) {
	kind, context := tagErrorKind(directive)

	// Decode the required number of characters.
	w := 1024
	for w > 0 {
		// Check for a URI-escaped octet.
		if err := s.cache(3); err != nil {
			return nil, err
		}

		if !(s.peek(0) == '%' && isHex(s.peek(1)) && isHex(s.peek(2))) {
			return nil, s.scannerError(kind, context, start_mark, "did not find URI escaped octet")
		}

		// Get the octet.
		octet := byte((asHex(s.peek(1)) << 4) + asHex(s.peek(2)))

		// If it is the leading octet, determine the length of the UTF-8 sequence.
		if w == 1024 {
			w = utf8Width(octet)
			if w == 0 {
				return nil, s.scannerError(kind, context, start_mark, "found an incorrect leading UTF-8 octet")
			}
		} else if octet&0xC0 != 0x80 {
			// Check if the trailing octet is correct.
			return nil, s.scannerError(kind, context, start_mark, "found an incorrect trailing UTF-8 octet")
		}

		// Copy the octet and move the pointers.
		uri = append(uri, octet)
		s.skip()
		s.skip()
		s.skip()
		w--
	}
	return uri, nil
}

// Scan a block scalar.
func (s *Scanner) scanBlockScalar(literal bool) (*Token, error) {
	// Eat the indicator '|' or '>'.
	start_mark := s.mark
	s.skip()

	// Scan the additional block scalar indicators.
	if err := s.cache(1); err != nil {
		return nil, err
	}

	// Check for a chomping indicator.
	var chomping, increment int
	if c := s.peek(0); c == '+' || c == '-' {
		// Set the chomping method and eat the indicator.
		if c == '+' {
			chomping = +1
		} else {
			chomping = -1
		}
		s.skip()

		// Check for an indentation indicator.
		if err := s.cache(1); err != nil {
			return nil, err
		}
		if isDigit(s.peek(0)) {
			// Check that the indentation is greater than 0.
			if s.peek(0) == '0' {
				return nil, s.scannerError(InvalidToken, "while scanning a block scalar", start_mark,
					"found an indentation indicator equal to 0")
			}

			// Get the indentation level and eat the indicator.
			increment = asDigit(s.peek(0))
			s.skip()
		}
	} else if isDigit(c) {
		// Do the same as above, but in the opposite order.
		if c == '0' {
			return nil, s.scannerError(InvalidToken, "while scanning a block scalar", start_mark,
				"found an indentation indicator equal to 0")
		}
		increment = asDigit(c)
		s.skip()

		if err := s.cache(1); err != nil {
			return nil, err
		}
		if c := s.peek(0); c == '+' || c == '-' {
			if c == '+' {
				chomping = +1
			} else {
				chomping = -1
			}
			s.skip()
		}
	}

	// Eat whitespaces and comments to the end of the line.
	if err := s.cache(1); err != nil {
		return nil, err
	}
	for isBlank(s.peek(0)) {
		s.skip()
		if err := s.cache(1); err != nil {
			return nil, err
		}
	}
	if s.peek(0) == '#' {
		for !isBreakZ(s.peek(0)) {
			s.skip()
			if err := s.cache(1); err != nil {
				return nil, err
			}
		}
	}

	// Check if we are at the end of the line.
	if !isBreakZ(s.peek(0)) {
		return nil, s.scannerError(InvalidToken, "while scanning a block scalar", start_mark,
			"did not find expected comment or line break")
	}

	// Eat a line break.
	s.skipLine()

	end_mark := s.mark

	// Set the indentation level if it was specified.
	var indent int
	if increment > 0 {
		if s.indent >= 0 {
			indent = s.indent + increment
		} else {
			indent = increment
		}
	}

	// Scan the leading line breaks and determine the indentation level if needed.
	var value, leading_break, trailing_breaks []byte
	if err := s.scanBlockScalarBreaks(&indent, &trailing_breaks, start_mark, &end_mark); err != nil {
		return nil, err
	}

	// Scan the block scalar content.
	if err := s.cache(1); err != nil {
		return nil, err
	}
	var leading_blank, trailing_blank bool
	for s.mark.Column == indent && !s.atEnd() {
		// We are at the beginning of a non-empty line.

		// Is it a trailing whitespace?
		trailing_blank = isBlank(s.peek(0))

		// Check if we need to fold the leading line break.
		if !literal && !leading_blank && !trailing_blank && len(leading_break) > 0 && leading_break[0] == '\n' {
			// Do we need to join the lines by space?
			if len(trailing_breaks) == 0 {
				value = append(value, ' ')
			}
		} else {
			value = append(value, leading_break...)
		}
		leading_break = leading_break[:0]

		// Append the remaining line breaks.
		value = append(value, trailing_breaks...)
		trailing_breaks = trailing_breaks[:0]

		// Is it a leading whitespace?
		leading_blank = isBlank(s.peek(0))

		// Consume the current line.
		for !isBreakZ(s.peek(0)) {
			value = s.read(value)
			if err := s.cache(1); err != nil {
				return nil, err
			}
		}
		end_mark = s.mark

		// Consume the line break.
		leading_break = s.readLine(leading_break)

		// Eat the following indentation spaces and line breaks.
		if err := s.scanBlockScalarBreaks(&indent, &trailing_breaks, start_mark, &end_mark); err != nil {
			return nil, err
		}
	}

	// Chomp the tail.
	if chomping != -1 {
		value = append(value, leading_break...)
	}
	if chomping == 1 {
		value = append(value, trailing_breaks...)
	}

	// Create a token.
	token := &Token{
		Type:      SCALAR_TOKEN,
		StartMark: start_mark,
		EndMark:   end_mark,
		Value:     value,
		Style:     LITERAL_SCALAR_STYLE,
	}
	if !literal {
		token.Style = FOLDED_SCALAR_STYLE
	}
	return token, nil
}

// Scan indentation spaces and line breaks for a block scalar.  Determine the
// indentation level if needed.
func (s *Scanner) scanBlockScalarBreaks(indent *int, breaks *[]byte, start_mark Mark, end_mark *Mark) error {
	*end_mark = s.mark

	// Eat the indentation spaces and line breaks.
	max_indent := 0
	for {
		// Eat the indentation spaces.
		if err := s.cache(1); err != nil {
			return err
		}
		for (*indent == 0 || s.mark.Column < *indent) && isSpace(s.peek(0)) {
			s.skip()
			if err := s.cache(1); err != nil {
				return err
			}
		}
		if s.mark.Column > max_indent {
			max_indent = s.mark.Column
		}

		// Check for a tab character messing the indentation.
		if (*indent == 0 || s.mark.Column < *indent) && isTab(s.peek(0)) {
			return s.scannerError(TabIndentation, "while scanning a block scalar", start_mark,
				"found a tab character where an indentation space is expected")
		}

		// Have we found a non-empty line?
		if !isBreak(s.peek(0)) {
			break
		}

		// Consume the line break.
		*breaks = s.readLine(*breaks)
		*end_mark = s.mark
	}

	// Determine the indentation level if needed.
	if *indent == 0 {
		*indent = max_indent
		if *indent < s.indent+1 {
			*indent = s.indent + 1
		}
		if *indent < 1 {
			*indent = 1
		}
	}
	return nil
}

// Scan a quoted scalar.
func (s *Scanner) scanFlowScalar(single bool) (*Token, error) {
	// Eat the left quote.
	start_mark := s.mark
	s.skip()

	// Consume the content of the quoted scalar.
	var value, leading_break, trailing_breaks, whitespaces []byte
	for {
		// Check that there are no document indicators at the beginning of the line.
		if err := s.cache(4); err != nil {
			return nil, err
		}

		if s.mark.Column == 0 && (s.isDocumentIndicator('-') || s.isDocumentIndicator('.')) {
			return nil, s.scannerError(UnterminatedScalar, "while scanning a quoted scalar", start_mark,
				"found unexpected document indicator")
		}

		// Check for EOF.
		if s.atEnd() {
			return nil, s.scannerError(UnterminatedScalar, "while scanning a quoted scalar", start_mark,
				"found unexpected end of stream")
		}

		// Consume non-blank characters.
		leading_blanks := false
		for !isBlankZ(s.peek(0)) {
			c := s.peek(0)
			if single && c == '\'' && s.peek(1) == '\'' {
				// Is is an escaped single quote.
				value = append(value, '\'')
				s.skip()
				s.skip()
			} else if single && c == '\'' {
				// It is a right single quote.
				break
			} else if !single && c == '"' {
				// It is a right double quote.
				break
			} else if !single && c == '\\' && isBreak(s.peek(1)) {
				// It is an escaped line break.
				s.skip()
				s.skipLine()
				leading_blanks = true
				break
			} else if !single && c == '\\' {
				var err error
				if value, err = s.scanEscape(start_mark, value); err != nil {
					return nil, err
				}
			} else {
				// It is a non-escaped non-blank character.
				value = s.read(value)
			}
			if err := s.cache(2); err != nil {
				return nil, err
			}
		}

		if err := s.cache(1); err != nil {
			return nil, err
		}

		// Check if we are at the end of the scalar.
		if single {
			if s.peek(0) == '\'' {
				break
			}
		} else {
			if s.peek(0) == '"' {
				break
			}
		}

		// Consume blank characters.
		for isBlank(s.peek(0)) || isBreak(s.peek(0)) {
			if isBlank(s.peek(0)) {
				// Consume a space or a tab character.
				if !leading_blanks {
					whitespaces = s.read(whitespaces)
				} else {
					s.skip()
				}
			} else {
				// Check if it is a first line break.
				if !leading_blanks {
					whitespaces = whitespaces[:0]
					leading_break = s.readLine(leading_break)
					leading_blanks = true
				} else {
					trailing_breaks = s.readLine(trailing_breaks)
				}
			}
			if err := s.cache(1); err != nil {
				return nil, err
			}
		}

		// Join the whitespaces or fold line breaks.
		if leading_blanks {
			// Do we need to fold line breaks?
			if len(leading_break) > 0 && leading_break[0] == '\n' {
				if len(trailing_breaks) == 0 {
					value = append(value, ' ')
				} else {
					value = append(value, trailing_breaks...)
				}
			} else {
				value = append(value, leading_break...)
				value = append(value, trailing_breaks...)
			}
			trailing_breaks = trailing_breaks[:0]
			leading_break = leading_break[:0]
		} else {
			value = append(value, whitespaces...)
			whitespaces = whitespaces[:0]
		}
	}

	// Eat the right quote.
	s.skip()
	end_mark := s.mark

	// Create a token.
	token := &Token{
		Type:      SCALAR_TOKEN,
		StartMark: start_mark,
		EndMark:   end_mark,
		Value:     value,
		Style:     SINGLE_QUOTED_SCALAR_STYLE,
	}
	if !single {
		token.Style = DOUBLE_QUOTED_SCALAR_STYLE
	}
	return token, nil
}

// simpleEscapes maps the single character escapes of double-quoted scalars
// to their expansion.
var simpleEscapes = map[rune]string{
	'0':  "\x00",
	'a':  "\x07",
	'b':  "\x08",
	't':  "\x09",
	'\t': "\x09",
	'n':  "\x0A",
	'v':  "\x0B",
	'f':  "\x0C",
	'r':  "\x0D",
	'e':  "\x1B",
	' ':  "\x20",
	'"':  "\"",
	'/':  "/",
	'\'': "'",
	'\\': "\\",
	'N':  "\u0085", // NEL (#x85)
	'_':  "\u00A0", // #xA0
	'L':  "\u2028", // LS (#x2028)
	'P':  "\u2029", // PS (#x2029)
}

// scanEscape decodes the escape sequence at the current position.
func (s *Scanner) scanEscape(start_mark Mark, value []byte) ([]byte, error) {
	if err := s.cache(2); err != nil {
		return nil, err
	}

	code_length := 0
	switch c := s.peek(1); c {
	case 'x':
		code_length = 2
	case 'u':
		code_length = 4
	case 'U':
		code_length = 8
	default:
		expansion, ok := simpleEscapes[c]
		if !ok {
			s.skip()
			return nil, s.scannerError(InvalidEscape, "while parsing a quoted scalar", start_mark,
				"found unknown escape character")
		}
		value = append(value, expansion...)
	}

	s.skip()
	s.skip()

	if code_length == 0 {
		return value, nil
	}

	// Consume an arbitrary escape code.
	if err := s.cache(code_length); err != nil {
		return nil, err
	}
	var code rune
	for k := 0; k < code_length; k++ {
		if !isHex(s.peek(k)) {
			return nil, s.scannerError(InvalidEscape, "while parsing a quoted scalar", start_mark,
				"did not find expected hexdecimal number")
		}
		code = (code << 4) + rune(asHex(s.peek(k)))
	}

	// Check the value and write the character.
	if (code >= 0xD800 && code <= 0xDFFF) || code > 0x10FFFF {
		return nil, s.scannerError(InvalidEscape, "while parsing a quoted scalar", start_mark,
			"found invalid Unicode character escape code")
	}
	value = utf8.AppendRune(value, code)

	// Advance the pointer.
	for k := 0; k < code_length; k++ {
		s.skip()
	}
	return value, nil
}

// Scan a plain scalar.
func (s *Scanner) scanPlainScalar() (*Token, error) {
	var value, leading_break, trailing_breaks, whitespaces []byte
	var leading_blanks bool
	indent := s.indent + 1

	start_mark := s.mark
	end_mark := s.mark

	// Consume the content of the plain scalar.
	for {
		// Check for a document indicator.
		if err := s.cache(4); err != nil {
			return nil, err
		}
		if s.mark.Column == 0 && (s.isDocumentIndicator('-') || s.isDocumentIndicator('.')) {
			break
		}

		// Check for a comment.
		if s.peek(0) == '#' {
			break
		}

		// Consume non-blank characters.
		for !isBlankZ(s.peek(0)) {
			// Check for indicators that may end a plain scalar.
			c, next := s.peek(0), s.peek(1)
			if c == ':' && (isBlankZ(next) || (s.flow_level > 0 && isFlowIndicator(next))) {
				break
			}
			if s.flow_level > 0 && isFlowIndicator(c) {
				break
			}

			// Check if we need to join whitespaces and breaks.
			if leading_blanks || len(whitespaces) > 0 {
				if leading_blanks {
					// Do we need to fold line breaks?
					if leading_break[0] == '\n' {
						if len(trailing_breaks) == 0 {
							value = append(value, ' ')
						} else {
							value = append(value, trailing_breaks...)
						}
					} else {
						value = append(value, leading_break...)
						value = append(value, trailing_breaks...)
					}
					trailing_breaks = trailing_breaks[:0]
					leading_break = leading_break[:0]
					leading_blanks = false
				} else {
					value = append(value, whitespaces...)
					whitespaces = whitespaces[:0]
				}
			}

			// Copy the character.
			value = s.read(value)

			end_mark = s.mark
			if err := s.cache(2); err != nil {
				return nil, err
			}
		}

		// Is it the end?
		if !(isBlank(s.peek(0)) || isBreak(s.peek(0))) {
			break
		}

		// Consume blank characters.
		if err := s.cache(1); err != nil {
			return nil, err
		}

		for isBlank(s.peek(0)) || isBreak(s.peek(0)) {
			if isBlank(s.peek(0)) {
				// Check for tab characters that abuse indentation.
				if leading_blanks && s.mark.Column < indent && isTab(s.peek(0)) {
					return nil, s.scannerError(TabIndentation, "while scanning a plain scalar", start_mark,
						"found a tab character that violates indentation")
				}

				// Consume a space or a tab character.
				if !leading_blanks {
					whitespaces = s.read(whitespaces)
				} else {
					s.skip()
				}
			} else {
				// Check if it is a first line break.
				if !leading_blanks {
					whitespaces = whitespaces[:0]
					leading_break = s.readLine(leading_break)
					leading_blanks = true
				} else {
					trailing_breaks = s.readLine(trailing_breaks)
				}
			}
			if err := s.cache(1); err != nil {
				return nil, err
			}
		}

		// Check indentation level.
		if s.flow_level == 0 && s.mark.Column < indent {
			break
		}
	}

	// Create a token.
	token := &Token{
		Type:      SCALAR_TOKEN,
		StartMark: start_mark,
		EndMark:   end_mark,
		Value:     value,
		Style:     PLAIN_SCALAR_STYLE,
	}

	// Note that we change the 'simple_key_allowed' flag.
	if leading_blanks {
		s.simple_key_allowed = true
	}
	return token, nil
}
