// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Parser stage: Transforms token stream into event stream.
// Implements a recursive-descent parser (LL(1)) following the YAML grammar
// specification.
//
// The parser implements the following grammar:
//
// stream               ::= STREAM-START implicit_document? explicit_document* STREAM-END
// implicit_document    ::= block_node DOCUMENT-END*
// explicit_document    ::= DIRECTIVE* DOCUMENT-START block_node? DOCUMENT-END*
// block_node           ::= ALIAS
//                          | properties block_content?
//                          | block_content
// flow_node            ::= ALIAS
//                          | properties flow_content?
//                          | flow_content
// properties           ::= TAG ANCHOR? | ANCHOR TAG?
// block_content        ::= block_collection | flow_collection | SCALAR
// flow_content         ::= flow_collection | SCALAR
// block_collection     ::= block_sequence | block_mapping
// flow_collection      ::= flow_sequence | flow_mapping
// block_sequence       ::= BLOCK-SEQUENCE-START (BLOCK-ENTRY block_node?)* BLOCK-END
// block_mapping        ::= BLOCK-MAPPING_START
//                          ((KEY block_node?)?
//                          (VALUE block_node?)?)*
//                          BLOCK-END
// flow_sequence        ::= FLOW-SEQUENCE-START
//                          (flow_sequence_entry FLOW-ENTRY)*
//                          flow_sequence_entry?
//                          FLOW-SEQUENCE-END
// flow_sequence_entry  ::= flow_node | KEY flow_node? (VALUE flow_node?)?
// flow_mapping         ::= FLOW-MAPPING-START
//                          (flow_mapping_entry FLOW-ENTRY)*
//                          flow_mapping_entry?
//                          FLOW-MAPPING-END
// flow_mapping_entry   ::= flow_node | KEY flow_node? (VALUE flow_node?)?
//
// Block sequences are always indented deeper than an enclosing mapping's
// keys, so there is no indentless_sequence production.

package libyaml

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// DefaultMaxDepth bounds the number of nested collections.
const DefaultMaxDepth = 10000

// ParserState represents the state of the parser.
type ParserState int

// Parser state constants define the different states the parser can be in.
const (
	PARSE_STREAM_START_STATE ParserState = iota

	PARSE_IMPLICIT_DOCUMENT_START_STATE           // Expect the beginning of an implicit document.
	PARSE_DOCUMENT_START_STATE                    // Expect DOCUMENT-START.
	PARSE_DOCUMENT_CONTENT_STATE                  // Expect the content of a document.
	PARSE_DOCUMENT_END_STATE                      // Expect DOCUMENT-END.
	PARSE_BLOCK_NODE_STATE                        // Expect a block node.
	PARSE_BLOCK_SEQUENCE_FIRST_ENTRY_STATE        // Expect the first entry of a block sequence.
	PARSE_BLOCK_SEQUENCE_ENTRY_STATE              // Expect an entry of a block sequence.
	PARSE_BLOCK_MAPPING_FIRST_KEY_STATE           // Expect the first key of a block mapping.
	PARSE_BLOCK_MAPPING_KEY_STATE                 // Expect a block mapping key.
	PARSE_BLOCK_MAPPING_VALUE_STATE               // Expect a block mapping value.
	PARSE_FLOW_SEQUENCE_FIRST_ENTRY_STATE         // Expect the first entry of a flow sequence.
	PARSE_FLOW_SEQUENCE_ENTRY_STATE               // Expect an entry of a flow sequence.
	PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_KEY_STATE   // Expect a key of an ordered mapping.
	PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_VALUE_STATE // Expect a value of an ordered mapping.
	PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_END_STATE   // Expect the and of an ordered mapping entry.
	PARSE_FLOW_MAPPING_FIRST_KEY_STATE            // Expect the first key of a flow mapping.
	PARSE_FLOW_MAPPING_KEY_STATE                  // Expect a key of a flow mapping.
	PARSE_FLOW_MAPPING_VALUE_STATE                // Expect a value of a flow mapping.
	PARSE_FLOW_MAPPING_EMPTY_VALUE_STATE          // Expect an empty value of a flow mapping.
	PARSE_END_STATE                               // Expect nothing.
)

var parserStateStrings = []string{
	PARSE_STREAM_START_STATE:                      "PARSE_STREAM_START_STATE",
	PARSE_IMPLICIT_DOCUMENT_START_STATE:           "PARSE_IMPLICIT_DOCUMENT_START_STATE",
	PARSE_DOCUMENT_START_STATE:                    "PARSE_DOCUMENT_START_STATE",
	PARSE_DOCUMENT_CONTENT_STATE:                  "PARSE_DOCUMENT_CONTENT_STATE",
	PARSE_DOCUMENT_END_STATE:                      "PARSE_DOCUMENT_END_STATE",
	PARSE_BLOCK_NODE_STATE:                        "PARSE_BLOCK_NODE_STATE",
	PARSE_BLOCK_SEQUENCE_FIRST_ENTRY_STATE:        "PARSE_BLOCK_SEQUENCE_FIRST_ENTRY_STATE",
	PARSE_BLOCK_SEQUENCE_ENTRY_STATE:              "PARSE_BLOCK_SEQUENCE_ENTRY_STATE",
	PARSE_BLOCK_MAPPING_FIRST_KEY_STATE:           "PARSE_BLOCK_MAPPING_FIRST_KEY_STATE",
	PARSE_BLOCK_MAPPING_KEY_STATE:                 "PARSE_BLOCK_MAPPING_KEY_STATE",
	PARSE_BLOCK_MAPPING_VALUE_STATE:               "PARSE_BLOCK_MAPPING_VALUE_STATE",
	PARSE_FLOW_SEQUENCE_FIRST_ENTRY_STATE:         "PARSE_FLOW_SEQUENCE_FIRST_ENTRY_STATE",
	PARSE_FLOW_SEQUENCE_ENTRY_STATE:               "PARSE_FLOW_SEQUENCE_ENTRY_STATE",
	PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_KEY_STATE:   "PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_KEY_STATE",
	PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_VALUE_STATE: "PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_VALUE_STATE",
	PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_END_STATE:   "PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_END_STATE",
	PARSE_FLOW_MAPPING_FIRST_KEY_STATE:            "PARSE_FLOW_MAPPING_FIRST_KEY_STATE",
	PARSE_FLOW_MAPPING_KEY_STATE:                  "PARSE_FLOW_MAPPING_KEY_STATE",
	PARSE_FLOW_MAPPING_VALUE_STATE:                "PARSE_FLOW_MAPPING_VALUE_STATE",
	PARSE_FLOW_MAPPING_EMPTY_VALUE_STATE:          "PARSE_FLOW_MAPPING_EMPTY_VALUE_STATE",
	PARSE_END_STATE:                               "PARSE_END_STATE",
}

// String returns a string representation of the parser state.
func (ps ParserState) String() string {
	if ps < 0 || int(ps) >= len(parserStateStrings) {
		return "<unknown parser state>"
	}
	return parserStateStrings[ps]
}

// Parser structure holds all information about the current
// state of the parser.
type Parser struct {
	scanner Scanner

	lastError error
	logger    log.Logger
	max_depth int

	state          ParserState    // The current parser state.
	states         []ParserState  // The parser states stack.
	marks          []Mark         // The stack of marks.
	depth          int            // The number of open collections.
	tag_directives []TagDirective // The list of TAG directives.

	// Anchors of the current document. The value reports whether an alias
	// referred to the anchor since it was last defined.
	anchors map[string]bool
}

// Parse gets the next event. It returns io.EOF once the STREAM-END event has
// been returned.
func (parser *Parser) Parse(event *Event) error {
	// Erase the event object.
	*event = Event{}

	if parser.lastError != nil {
		return parser.lastError
	}

	// No events after the end of the stream or error.
	if parser.scanner.stream_end_produced || parser.state == PARSE_END_STATE {
		return io.EOF
	}

	if parser.logger != nil {
		level.Debug(parser.logger).Log("msg", "parse", "state", parser.state, "depth", parser.depth)
	}

	// Generate the next event.
	if err := parser.stateMachine(event); err != nil {
		parser.lastError = err
		return err
	}

	return nil
}

// default_tag_directives defines the standard tag directives (! and !!)
// that are implicitly available in all YAML documents.
var default_tag_directives = []TagDirective{
	{[]byte("!"), []byte("!")},
	{[]byte("!!"), []byte(CORE_TAG_PREFIX)},
}

// State dispatcher.
func (parser *Parser) stateMachine(event *Event) error {
	switch parser.state {
	case PARSE_STREAM_START_STATE:
		return parser.parseStreamStart(event)

	case PARSE_IMPLICIT_DOCUMENT_START_STATE:
		return parser.parseDocumentStart(event, true)

	case PARSE_DOCUMENT_START_STATE:
		return parser.parseDocumentStart(event, false)

	case PARSE_DOCUMENT_CONTENT_STATE:
		return parser.parseDocumentContent(event)

	case PARSE_DOCUMENT_END_STATE:
		return parser.parseDocumentEnd(event)

	case PARSE_BLOCK_NODE_STATE:
		return parser.parseNode(event, true)

	case PARSE_BLOCK_SEQUENCE_FIRST_ENTRY_STATE:
		return parser.parseBlockSequenceEntry(event, true)

	case PARSE_BLOCK_SEQUENCE_ENTRY_STATE:
		return parser.parseBlockSequenceEntry(event, false)

	case PARSE_BLOCK_MAPPING_FIRST_KEY_STATE:
		return parser.parseBlockMappingKey(event, true)

	case PARSE_BLOCK_MAPPING_KEY_STATE:
		return parser.parseBlockMappingKey(event, false)

	case PARSE_BLOCK_MAPPING_VALUE_STATE:
		return parser.parseBlockMappingValue(event)

	case PARSE_FLOW_SEQUENCE_FIRST_ENTRY_STATE:
		return parser.parseFlowSequenceEntry(event, true)

	case PARSE_FLOW_SEQUENCE_ENTRY_STATE:
		return parser.parseFlowSequenceEntry(event, false)

	case PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_KEY_STATE:
		return parser.parseFlowSequenceEntryMappingKey(event)

	case PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_VALUE_STATE:
		return parser.parseFlowSequenceEntryMappingValue(event)

	case PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_END_STATE:
		return parser.parseFlowSequenceEntryMappingEnd(event)

	case PARSE_FLOW_MAPPING_FIRST_KEY_STATE:
		return parser.parseFlowMappingKey(event, true)

	case PARSE_FLOW_MAPPING_KEY_STATE:
		return parser.parseFlowMappingKey(event, false)

	case PARSE_FLOW_MAPPING_VALUE_STATE:
		return parser.parseFlowMappingValue(event, false)

	case PARSE_FLOW_MAPPING_EMPTY_VALUE_STATE:
		return parser.parseFlowMappingValue(event, true)

	default:
		panic("invalid parser state")
	}
}

// Parse the production:
// stream   ::= STREAM-START implicit_document? explicit_document* STREAM-END
//
//	************
func (parser *Parser) parseStreamStart(event *Event) error {
	token, err := parser.peekToken()
	if err != nil {
		return err
	}
	if token.Type != STREAM_START_TOKEN {
		return unexpectedTokenError("", Mark{}, "did not find expected <stream-start>", token, STREAM_START_TOKEN)
	}
	parser.state = PARSE_IMPLICIT_DOCUMENT_START_STATE
	*event = Event{
		Type:      STREAM_START_EVENT,
		StartMark: token.StartMark,
		EndMark:   token.EndMark,
		encoding:  token.encoding,
	}
	parser.skipToken()
	return nil
}

// Parse the productions:
// implicit_document    ::= block_node DOCUMENT-END*
//
//	*
//
// explicit_document    ::= DIRECTIVE* DOCUMENT-START block_node? DOCUMENT-END*
//
//	*************************
func (parser *Parser) parseDocumentStart(event *Event, implicit bool) error {
	token, err := parser.peekToken()
	if err != nil {
		return err
	}

	// Parse extra document end indicators.
	for token.Type == DOCUMENT_END_TOKEN {
		implicit = true
		parser.skipToken()
		if token, err = parser.peekToken(); err != nil {
			return err
		}
	}

	// A new document starts with an empty anchor table.
	parser.anchors = make(map[string]bool)

	if implicit && token.Type != VERSION_DIRECTIVE_TOKEN &&
		token.Type != TAG_DIRECTIVE_TOKEN &&
		token.Type != DOCUMENT_START_TOKEN &&
		token.Type != STREAM_END_TOKEN {
		// Parse an implicit document.
		if err := parser.processDirectives(nil, nil); err != nil {
			return err
		}
		parser.states = append(parser.states, PARSE_DOCUMENT_END_STATE)
		parser.state = PARSE_BLOCK_NODE_STATE

		*event = Event{
			Type:      DOCUMENT_START_EVENT,
			StartMark: token.StartMark,
			EndMark:   token.StartMark,
			Implicit:  true,
		}

	} else if token.Type != STREAM_END_TOKEN {
		// Parse an explicit document.
		var version_directive *VersionDirective
		var tag_directives []TagDirective
		start_mark := token.StartMark
		if err := parser.processDirectives(&version_directive, &tag_directives); err != nil {
			return err
		}
		if token, err = parser.peekToken(); err != nil {
			return err
		}
		if token.Type != DOCUMENT_START_TOKEN {
			if version_directive != nil || len(tag_directives) > 0 {
				return unexpectedTokenError("while parsing directives", start_mark,
					"did not find expected <document start>", token, DOCUMENT_START_TOKEN)
			}
			return unexpectedTokenError("", Mark{},
				"did not find expected <document start>", token, DOCUMENT_START_TOKEN)
		}
		parser.states = append(parser.states, PARSE_DOCUMENT_END_STATE)
		parser.state = PARSE_DOCUMENT_CONTENT_STATE
		end_mark := token.EndMark

		*event = Event{
			Type:             DOCUMENT_START_EVENT,
			StartMark:        start_mark,
			EndMark:          end_mark,
			versionDirective: version_directive,
			tagDirectives:    tag_directives,
			Implicit:         false,
		}
		parser.skipToken()

	} else {
		// Parse the stream end.
		parser.state = PARSE_END_STATE
		*event = Event{
			Type:      STREAM_END_EVENT,
			StartMark: token.StartMark,
			EndMark:   token.EndMark,
		}
		parser.skipToken()
	}

	return nil
}

// Parse the productions:
// explicit_document    ::= DIRECTIVE* DOCUMENT-START block_node? DOCUMENT-END*
//
//	***********
func (parser *Parser) parseDocumentContent(event *Event) error {
	token, err := parser.peekToken()
	if err != nil {
		return err
	}

	if token.Type == VERSION_DIRECTIVE_TOKEN ||
		token.Type == TAG_DIRECTIVE_TOKEN ||
		token.Type == DOCUMENT_START_TOKEN ||
		token.Type == DOCUMENT_END_TOKEN ||
		token.Type == STREAM_END_TOKEN {
		parser.popState()
		return parser.processEmptyScalar(event, token.StartMark)
	}
	return parser.parseNode(event, true)
}

// Parse the productions:
// implicit_document    ::= block_node DOCUMENT-END*
//
//	*************
//
// explicit_document    ::= DIRECTIVE* DOCUMENT-START block_node? DOCUMENT-END*
func (parser *Parser) parseDocumentEnd(event *Event) error {
	token, err := parser.peekToken()
	if err != nil {
		return err
	}

	start_mark := token.StartMark
	end_mark := token.StartMark

	implicit := true
	switch token.Type {
	case DOCUMENT_END_TOKEN:
		end_mark = token.EndMark
		parser.skipToken()
		implicit = false
	case DOCUMENT_START_TOKEN, STREAM_END_TOKEN:
	case VERSION_DIRECTIVE_TOKEN, TAG_DIRECTIVE_TOKEN:
		return parser.parserError(MalformedDirective, "", Mark{},
			"found a directive after a document that was not terminated with '...'", token.StartMark)
	default:
		return unexpectedTokenError("", Mark{}, "did not find expected <document end>", token,
			DOCUMENT_END_TOKEN, DOCUMENT_START_TOKEN, STREAM_END_TOKEN)
	}

	// Directives apply to a single document.
	parser.tag_directives = parser.tag_directives[:0]

	// A bare document may follow an explicit end marker.
	if implicit {
		parser.state = PARSE_DOCUMENT_START_STATE
	} else {
		parser.state = PARSE_IMPLICIT_DOCUMENT_START_STATE
	}
	*event = Event{
		Type:      DOCUMENT_END_EVENT,
		StartMark: start_mark,
		EndMark:   end_mark,
		Implicit:  implicit,
	}
	return nil
}

// Parse directives.
func (parser *Parser) processDirectives(version_directive_ref **VersionDirective, tag_directives_ref *[]TagDirective) error {
	var version_directive *VersionDirective
	var tag_directives []TagDirective

	token, err := parser.peekToken()
	if err != nil {
		return err
	}

	for token.Type == VERSION_DIRECTIVE_TOKEN || token.Type == TAG_DIRECTIVE_TOKEN {
		switch token.Type {
		case VERSION_DIRECTIVE_TOKEN:
			if version_directive != nil {
				return parser.parserError(MalformedDirective, "", Mark{},
					"found duplicate %YAML directive", token.StartMark)
			}
			if token.major != 1 {
				return parser.parserError(MalformedDirective, "", Mark{},
					"found incompatible YAML document", token.StartMark)
			}
			if token.minor != 1 && token.minor != 2 && parser.logger != nil {
				level.Debug(parser.logger).Log("msg", "unsupported YAML minor version",
					"version", fmt.Sprintf("%d.%d", token.major, token.minor), "mark", token.StartMark)
			}
			version_directive = &VersionDirective{
				major: token.major,
				minor: token.minor,
			}
		case TAG_DIRECTIVE_TOKEN:
			value := TagDirective{
				handle: token.Value,
				prefix: token.prefix,
			}
			if err := parser.appendTagDirective(value, false, token.StartMark); err != nil {
				return err
			}
			tag_directives = append(tag_directives, value)
		}

		parser.skipToken()
		if token, err = parser.peekToken(); err != nil {
			return err
		}
	}

	for i := range default_tag_directives {
		if err := parser.appendTagDirective(default_tag_directives[i], true, token.StartMark); err != nil {
			return err
		}
	}

	if version_directive_ref != nil {
		*version_directive_ref = version_directive
	}
	if tag_directives_ref != nil {
		*tag_directives_ref = tag_directives
	}
	return nil
}

// Append a tag directive to the directives stack.
func (parser *Parser) appendTagDirective(value TagDirective, allow_duplicates bool, mark Mark) error {
	for i := range parser.tag_directives {
		if bytes.Equal(value.handle, parser.tag_directives[i].handle) {
			if allow_duplicates {
				return nil
			}
			return parser.parserError(MalformedDirective, "", Mark{},
				"found duplicate %TAG directive", mark)
		}
	}

	value_copy := TagDirective{
		handle: bytes.Clone(value.handle),
		prefix: bytes.Clone(value.prefix),
	}
	parser.tag_directives = append(parser.tag_directives, value_copy)
	return nil
}

// Parse the productions:
// block_node           ::= ALIAS
//
//	*****
//	| properties block_content?
//	  ********** *
//	| block_content
//	  *
//
// flow_node            ::= ALIAS
//
//	*****
//	| properties flow_content?
//	  ********** *
//	| flow_content
//	  *
//
// properties           ::= TAG ANCHOR? | ANCHOR TAG?
//
//	*************************
//
// block_content        ::= block_collection | flow_collection | SCALAR
//
//	******
//
// flow_content         ::= flow_collection | SCALAR
//
//	******
func (parser *Parser) parseNode(event *Event, block bool) error {
	token, err := parser.peekToken()
	if err != nil {
		return err
	}

	if token.Type == ALIAS_TOKEN {
		if err := parser.useAnchor(token); err != nil {
			return err
		}
		parser.popState()
		*event = Event{
			Type:      ALIAS_EVENT,
			StartMark: token.StartMark,
			EndMark:   token.EndMark,
			Anchor:    token.Value,
		}
		parser.skipToken()
		return nil
	}

	start_mark := token.StartMark
	end_mark := token.StartMark

	var tag_token bool
	var tag_handle, tag_suffix, anchor []byte
	var tag_mark Mark
	switch token.Type {
	case ANCHOR_TOKEN:
		if err := parser.defineAnchor(token); err != nil {
			return err
		}
		anchor = token.Value
		start_mark = token.StartMark
		end_mark = token.EndMark
		parser.skipToken()
		if token, err = parser.peekToken(); err != nil {
			return err
		}
		if token.Type == TAG_TOKEN {
			tag_token = true
			tag_handle = token.Value
			tag_suffix = token.suffix
			tag_mark = token.StartMark
			end_mark = token.EndMark
			parser.skipToken()
			if token, err = parser.peekToken(); err != nil {
				return err
			}
		}
	case TAG_TOKEN:
		tag_token = true
		tag_handle = token.Value
		tag_suffix = token.suffix
		start_mark = token.StartMark
		tag_mark = token.StartMark
		end_mark = token.EndMark
		parser.skipToken()
		if token, err = parser.peekToken(); err != nil {
			return err
		}
		if token.Type == ANCHOR_TOKEN {
			if err := parser.defineAnchor(token); err != nil {
				return err
			}
			anchor = token.Value
			end_mark = token.EndMark
			parser.skipToken()
			if token, err = parser.peekToken(); err != nil {
				return err
			}
		}
	}

	var tag []byte
	if tag_token {
		if len(tag_handle) == 0 {
			tag = tag_suffix
		} else {
			for i := range parser.tag_directives {
				if bytes.Equal(parser.tag_directives[i].handle, tag_handle) {
					tag = append([]byte(nil), parser.tag_directives[i].prefix...)
					tag = append(tag, tag_suffix...)
					break
				}
			}
			if len(tag) == 0 {
				return parser.parserError(MalformedDirective, "while parsing a node", start_mark,
					fmt.Sprintf("found undefined tag handle %s", tag_handle), tag_mark)
			}
		}
	}

	implicit := len(tag) == 0
	switch {
	case token.Type == SCALAR_TOKEN:
		var plain_implicit, quoted_implicit bool
		end_mark = token.EndMark
		if (len(tag) == 0 && token.Style == PLAIN_SCALAR_STYLE) || (len(tag) == 1 && tag[0] == '!') {
			plain_implicit = true
		} else if len(tag) == 0 {
			quoted_implicit = true
		}
		parser.popState()

		*event = Event{
			Type:           SCALAR_EVENT,
			StartMark:      start_mark,
			EndMark:        end_mark,
			Anchor:         anchor,
			Tag:            tag,
			Value:          token.Value,
			Implicit:       plain_implicit,
			quotedImplicit: quoted_implicit,
			Style:          Style(token.Style),
		}
		parser.skipToken()
		return nil

	case token.Type == FLOW_SEQUENCE_START_TOKEN:
		parser.state = PARSE_FLOW_SEQUENCE_FIRST_ENTRY_STATE
		*event = Event{
			Type:      SEQUENCE_START_EVENT,
			StartMark: start_mark,
			EndMark:   token.EndMark,
			Anchor:    anchor,
			Tag:       tag,
			Implicit:  implicit,
			Style:     Style(FLOW_SEQUENCE_STYLE),
		}
		return parser.openCollection(token.StartMark)

	case token.Type == FLOW_MAPPING_START_TOKEN:
		parser.state = PARSE_FLOW_MAPPING_FIRST_KEY_STATE
		*event = Event{
			Type:      MAPPING_START_EVENT,
			StartMark: start_mark,
			EndMark:   token.EndMark,
			Anchor:    anchor,
			Tag:       tag,
			Implicit:  implicit,
			Style:     Style(FLOW_MAPPING_STYLE),
		}
		return parser.openCollection(token.StartMark)

	case block && token.Type == BLOCK_SEQUENCE_START_TOKEN:
		parser.state = PARSE_BLOCK_SEQUENCE_FIRST_ENTRY_STATE
		*event = Event{
			Type:      SEQUENCE_START_EVENT,
			StartMark: start_mark,
			EndMark:   token.EndMark,
			Anchor:    anchor,
			Tag:       tag,
			Implicit:  implicit,
			Style:     Style(BLOCK_SEQUENCE_STYLE),
		}
		return parser.openCollection(token.StartMark)

	case block && token.Type == BLOCK_MAPPING_START_TOKEN:
		parser.state = PARSE_BLOCK_MAPPING_FIRST_KEY_STATE
		*event = Event{
			Type:      MAPPING_START_EVENT,
			StartMark: start_mark,
			EndMark:   token.EndMark,
			Anchor:    anchor,
			Tag:       tag,
			Implicit:  implicit,
			Style:     Style(BLOCK_MAPPING_STYLE),
		}
		return parser.openCollection(token.StartMark)

	case len(anchor) > 0 || len(tag) > 0:
		// Properties without content denote an empty scalar.
		parser.popState()

		*event = Event{
			Type:           SCALAR_EVENT,
			StartMark:      start_mark,
			EndMark:        end_mark,
			Anchor:         anchor,
			Tag:            tag,
			Implicit:       implicit,
			quotedImplicit: false,
			Style:          Style(PLAIN_SCALAR_STYLE),
		}
		return nil
	}

	context := "while parsing a flow node"
	expected := []TokenType{ALIAS_TOKEN, ANCHOR_TOKEN, TAG_TOKEN, SCALAR_TOKEN,
		FLOW_SEQUENCE_START_TOKEN, FLOW_MAPPING_START_TOKEN}
	if block {
		context = "while parsing a block node"
		expected = append(expected, BLOCK_SEQUENCE_START_TOKEN, BLOCK_MAPPING_START_TOKEN)
	}
	return unexpectedTokenError(context, start_mark, "did not find expected node content", token, expected...)
}

// Parse the productions:
// block_sequence ::= BLOCK-SEQUENCE-START (BLOCK-ENTRY block_node?)* BLOCK-END
//
//	********************  *********** *             *********
func (parser *Parser) parseBlockSequenceEntry(event *Event, first bool) error {
	if first {
		token, err := parser.peekToken()
		if err != nil {
			return err
		}
		parser.marks = append(parser.marks, token.StartMark)
		parser.skipToken()
	}

	token, err := parser.peekToken()
	if err != nil {
		return err
	}

	if token.Type == BLOCK_ENTRY_TOKEN {
		mark := token.EndMark
		parser.skipToken()
		if token, err = parser.peekToken(); err != nil {
			return err
		}
		if token.Type != BLOCK_ENTRY_TOKEN && token.Type != BLOCK_END_TOKEN {
			parser.states = append(parser.states, PARSE_BLOCK_SEQUENCE_ENTRY_STATE)
			return parser.parseNode(event, true)
		}
		parser.state = PARSE_BLOCK_SEQUENCE_ENTRY_STATE
		return parser.processEmptyScalar(event, mark)
	}
	if token.Type == BLOCK_END_TOKEN {
		parser.popState()
		parser.closeCollection()
		parser.popMark()

		*event = Event{
			Type:      SEQUENCE_END_EVENT,
			StartMark: token.StartMark,
			EndMark:   token.EndMark,
		}

		parser.skipToken()
		return nil
	}

	context_mark := parser.marks[len(parser.marks)-1]
	return unexpectedTokenError("while parsing a block collection", context_mark,
		"did not find expected '-' indicator", token, BLOCK_ENTRY_TOKEN, BLOCK_END_TOKEN)
}

// Parse the productions:
// block_mapping        ::= BLOCK-MAPPING_START
//
//	*******************
//	((KEY block_node?)?
//	  *** *
//	(VALUE block_node?)?)*
//
//	BLOCK-END
//	*********
func (parser *Parser) parseBlockMappingKey(event *Event, first bool) error {
	if first {
		token, err := parser.peekToken()
		if err != nil {
			return err
		}
		parser.marks = append(parser.marks, token.StartMark)
		parser.skipToken()
	}

	token, err := parser.peekToken()
	if err != nil {
		return err
	}

	switch token.Type {
	case KEY_TOKEN:
		mark := token.EndMark
		parser.skipToken()
		if token, err = parser.peekToken(); err != nil {
			return err
		}
		if token.Type != KEY_TOKEN &&
			token.Type != VALUE_TOKEN &&
			token.Type != BLOCK_END_TOKEN {
			parser.states = append(parser.states, PARSE_BLOCK_MAPPING_VALUE_STATE)
			return parser.parseNode(event, true)
		}
		parser.state = PARSE_BLOCK_MAPPING_VALUE_STATE
		return parser.processEmptyScalar(event, mark)

	case VALUE_TOKEN:
		// A ':' without a key: the key is empty.
		parser.state = PARSE_BLOCK_MAPPING_VALUE_STATE
		return parser.processEmptyScalar(event, token.StartMark)

	case BLOCK_END_TOKEN:
		parser.popState()
		parser.closeCollection()
		parser.popMark()
		*event = Event{
			Type:      MAPPING_END_EVENT,
			StartMark: token.StartMark,
			EndMark:   token.EndMark,
		}
		parser.skipToken()
		return nil
	}

	context_mark := parser.marks[len(parser.marks)-1]
	return unexpectedTokenError("while parsing a block mapping", context_mark,
		"did not find expected key", token, KEY_TOKEN, VALUE_TOKEN, BLOCK_END_TOKEN)
}

// Parse the productions:
// block_mapping        ::= BLOCK-MAPPING_START
//
//	((KEY block_node?)?
//
//	(VALUE block_node?)?)*
//	 ***** *
//	BLOCK-END
func (parser *Parser) parseBlockMappingValue(event *Event) error {
	token, err := parser.peekToken()
	if err != nil {
		return err
	}
	if token.Type == VALUE_TOKEN {
		mark := token.EndMark
		parser.skipToken()
		if token, err = parser.peekToken(); err != nil {
			return err
		}
		if token.Type != KEY_TOKEN &&
			token.Type != VALUE_TOKEN &&
			token.Type != BLOCK_END_TOKEN {
			parser.states = append(parser.states, PARSE_BLOCK_MAPPING_KEY_STATE)
			return parser.parseNode(event, true)
		}
		parser.state = PARSE_BLOCK_MAPPING_KEY_STATE
		return parser.processEmptyScalar(event, mark)
	}
	// A key without a value: the value is empty.
	parser.state = PARSE_BLOCK_MAPPING_KEY_STATE
	return parser.processEmptyScalar(event, token.StartMark)
}

// Parse the productions:
// flow_sequence        ::= FLOW-SEQUENCE-START
//
//	*******************
//	(flow_sequence_entry FLOW-ENTRY)*
//	 *                   **********
//	flow_sequence_entry?
//	*
//	FLOW-SEQUENCE-END
//	*****************
//
// flow_sequence_entry  ::= flow_node | KEY flow_node? (VALUE flow_node?)?
//
//	*
func (parser *Parser) parseFlowSequenceEntry(event *Event, first bool) error {
	if first {
		token, err := parser.peekToken()
		if err != nil {
			return err
		}
		parser.marks = append(parser.marks, token.StartMark)
		parser.skipToken()
	}
	token, err := parser.peekToken()
	if err != nil {
		return err
	}
	if token.Type != FLOW_SEQUENCE_END_TOKEN {
		if !first {
			if token.Type != FLOW_ENTRY_TOKEN {
				context_mark := parser.marks[len(parser.marks)-1]
				return unexpectedTokenError("while parsing a flow sequence", context_mark,
					"did not find expected ',' or ']'", token, FLOW_ENTRY_TOKEN, FLOW_SEQUENCE_END_TOKEN)
			}
			parser.skipToken()
			if token, err = parser.peekToken(); err != nil {
				return err
			}
		}

		switch token.Type {
		case KEY_TOKEN, VALUE_TOKEN:
			// A single pair mapping. The KEY is consumed here, a VALUE
			// without a key is left for the value state.
			parser.state = PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_KEY_STATE
			*event = Event{
				Type:      MAPPING_START_EVENT,
				StartMark: token.StartMark,
				EndMark:   token.EndMark,
				Implicit:  true,
				Style:     Style(FLOW_MAPPING_STYLE),
			}
			if token.Type == KEY_TOKEN {
				parser.skipToken()
			} else {
				event.EndMark = token.StartMark
			}
			return parser.openCollection(token.StartMark)
		case FLOW_SEQUENCE_END_TOKEN:
		default:
			parser.states = append(parser.states, PARSE_FLOW_SEQUENCE_ENTRY_STATE)
			return parser.parseNode(event, false)
		}
	}

	parser.popState()
	parser.closeCollection()
	parser.popMark()

	*event = Event{
		Type:      SEQUENCE_END_EVENT,
		StartMark: token.StartMark,
		EndMark:   token.EndMark,
	}

	parser.skipToken()
	return nil
}

// Parse the productions:
// flow_sequence_entry  ::= flow_node | KEY flow_node? (VALUE flow_node?)?
//
//	*** *
func (parser *Parser) parseFlowSequenceEntryMappingKey(event *Event) error {
	token, err := parser.peekToken()
	if err != nil {
		return err
	}
	if token.Type != VALUE_TOKEN &&
		token.Type != FLOW_ENTRY_TOKEN &&
		token.Type != FLOW_SEQUENCE_END_TOKEN {
		parser.states = append(parser.states, PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_VALUE_STATE)
		return parser.parseNode(event, false)
	}
	parser.state = PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_VALUE_STATE
	return parser.processEmptyScalar(event, token.StartMark)
}

// Parse the productions:
// flow_sequence_entry  ::= flow_node | KEY flow_node? (VALUE flow_node?)?
//
//	***** *
func (parser *Parser) parseFlowSequenceEntryMappingValue(event *Event) error {
	token, err := parser.peekToken()
	if err != nil {
		return err
	}
	if token.Type == VALUE_TOKEN {
		parser.skipToken()
		if token, err = parser.peekToken(); err != nil {
			return err
		}
		if token.Type != FLOW_ENTRY_TOKEN && token.Type != FLOW_SEQUENCE_END_TOKEN {
			parser.states = append(parser.states, PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_END_STATE)
			return parser.parseNode(event, false)
		}
	}
	parser.state = PARSE_FLOW_SEQUENCE_ENTRY_MAPPING_END_STATE
	return parser.processEmptyScalar(event, token.StartMark)
}

// Parse the productions:
// flow_sequence_entry  ::= flow_node | KEY flow_node? (VALUE flow_node?)?
//
//	*
func (parser *Parser) parseFlowSequenceEntryMappingEnd(event *Event) error {
	token, err := parser.peekToken()
	if err != nil {
		return err
	}
	parser.state = PARSE_FLOW_SEQUENCE_ENTRY_STATE
	parser.closeCollection()
	*event = Event{
		Type:      MAPPING_END_EVENT,
		StartMark: token.StartMark,
		EndMark:   token.StartMark,
	}
	return nil
}

// Parse the productions:
// flow_mapping         ::= FLOW-MAPPING-START
//
//	******************
//	(flow_mapping_entry FLOW-ENTRY)*
//	 *                  **********
//	flow_mapping_entry?
//	******************
//	FLOW-MAPPING-END
//	****************
//
// flow_mapping_entry   ::= flow_node | KEY flow_node? (VALUE flow_node?)?
//   - *** *
func (parser *Parser) parseFlowMappingKey(event *Event, first bool) error {
	if first {
		token, err := parser.peekToken()
		if err != nil {
			return err
		}
		parser.marks = append(parser.marks, token.StartMark)
		parser.skipToken()
	}

	token, err := parser.peekToken()
	if err != nil {
		return err
	}

	if token.Type != FLOW_MAPPING_END_TOKEN {
		if !first {
			if token.Type != FLOW_ENTRY_TOKEN {
				context_mark := parser.marks[len(parser.marks)-1]
				return unexpectedTokenError("while parsing a flow mapping", context_mark,
					"did not find expected ',' or '}'", token, FLOW_ENTRY_TOKEN, FLOW_MAPPING_END_TOKEN)
			}
			parser.skipToken()
			if token, err = parser.peekToken(); err != nil {
				return err
			}
		}

		switch token.Type {
		case KEY_TOKEN:
			parser.skipToken()
			if token, err = parser.peekToken(); err != nil {
				return err
			}
			if token.Type != VALUE_TOKEN &&
				token.Type != FLOW_ENTRY_TOKEN &&
				token.Type != FLOW_MAPPING_END_TOKEN {
				parser.states = append(parser.states, PARSE_FLOW_MAPPING_VALUE_STATE)
				return parser.parseNode(event, false)
			}
			parser.state = PARSE_FLOW_MAPPING_VALUE_STATE
			return parser.processEmptyScalar(event, token.StartMark)
		case VALUE_TOKEN:
			// A ':' without a key: the key is empty.
			parser.state = PARSE_FLOW_MAPPING_VALUE_STATE
			return parser.processEmptyScalar(event, token.StartMark)
		case FLOW_MAPPING_END_TOKEN:
		default:
			parser.states = append(parser.states, PARSE_FLOW_MAPPING_EMPTY_VALUE_STATE)
			return parser.parseNode(event, false)
		}
	}

	parser.popState()
	parser.closeCollection()
	parser.popMark()
	*event = Event{
		Type:      MAPPING_END_EVENT,
		StartMark: token.StartMark,
		EndMark:   token.EndMark,
	}
	parser.skipToken()
	return nil
}

// Parse the productions:
// flow_mapping_entry   ::= flow_node | KEY flow_node? (VALUE flow_node?)?
//   - ***** *
func (parser *Parser) parseFlowMappingValue(event *Event, empty bool) error {
	token, err := parser.peekToken()
	if err != nil {
		return err
	}
	if empty {
		parser.state = PARSE_FLOW_MAPPING_KEY_STATE
		return parser.processEmptyScalar(event, token.StartMark)
	}
	if token.Type == VALUE_TOKEN {
		parser.skipToken()
		if token, err = parser.peekToken(); err != nil {
			return err
		}
		if token.Type != FLOW_ENTRY_TOKEN && token.Type != FLOW_MAPPING_END_TOKEN {
			parser.states = append(parser.states, PARSE_FLOW_MAPPING_KEY_STATE)
			return parser.parseNode(event, false)
		}
	}
	parser.state = PARSE_FLOW_MAPPING_KEY_STATE
	return parser.processEmptyScalar(event, token.StartMark)
}

// Peek the next token in the token queue.
func (parser *Parser) peekToken() (*Token, error) {
	return parser.scanner.peekToken()
}

// Remove the next token from the queue (must be called after peekToken).
func (parser *Parser) skipToken() {
	parser.scanner.skipToken()
}

// popState returns to the state that was pushed before the current node.
func (parser *Parser) popState() {
	parser.state = parser.states[len(parser.states)-1]
	parser.states = parser.states[:len(parser.states)-1]
}

// openCollection accounts for a collection start event.
func (parser *Parser) openCollection(mark Mark) error {
	parser.depth++
	if parser.depth > parser.max_depth {
		return parser.parserError(RecursionLimitExceeded, "while parsing a collection", mark,
			fmt.Sprintf("exceeded max depth of %d", parser.max_depth), mark)
	}
	return nil
}

// closeCollection accounts for a collection end event.
func (parser *Parser) closeCollection() {
	parser.depth--
}

// popMark drops the start mark of the innermost bracketed collection.
func (parser *Parser) popMark() {
	parser.marks = parser.marks[:len(parser.marks)-1]
}

// defineAnchor records the anchor of the current node. Redefining an anchor
// that no alias has referred to yet is an error.
func (parser *Parser) defineAnchor(token *Token) error {
	name := string(token.Value)
	if used, ok := parser.anchors[name]; ok && !used {
		return parser.parserError(DuplicateAnchor, "while parsing a node", token.StartMark,
			fmt.Sprintf("found duplicate anchor &%s before any alias to it", name), token.StartMark)
	}
	parser.anchors[name] = false
	return nil
}

// useAnchor checks that an alias names an anchor of the current document.
func (parser *Parser) useAnchor(token *Token) error {
	name := string(token.Value)
	if _, ok := parser.anchors[name]; !ok {
		return parser.parserError(UndefinedAlias, "while parsing a node", token.StartMark,
			fmt.Sprintf("found undefined alias *%s", name), token.StartMark)
	}
	parser.anchors[name] = true
	return nil
}

// Generate an empty scalar event.
func (parser *Parser) processEmptyScalar(event *Event, mark Mark) error {
	*event = Event{
		Type:      SCALAR_EVENT,
		StartMark: mark,
		EndMark:   mark,
		Value:     nil, // Empty
		Implicit:  true,
		Style:     Style(PLAIN_SCALAR_STYLE),
	}
	return nil
}

// parserError creates a ParserError with both context and problem
// information, each with their own mark positions.
func (parser *Parser) parserError(kind ErrorKind, context string, context_mark Mark, problem string, problem_mark Mark) error {
	return ParserError{
		MarkedYAMLError: MarkedYAMLError{
			Kind:           kind,
			ContextMark:    context_mark,
			ContextMessage: context,
			Mark:           problem_mark,
			Message:        problem,
		},
	}
}

// unexpectedTokenError reports a grammar mismatch at token.
func unexpectedTokenError(context string, context_mark Mark, problem string, token *Token, expected ...TokenType) error {
	return ParserError{
		MarkedYAMLError: MarkedYAMLError{
			Kind:           UnexpectedToken,
			ContextMark:    context_mark,
			ContextMessage: context,
			Mark:           token.StartMark,
			Message:        problem,
		},
		Expected: expected,
		Found:    token.Type,
	}
}

// ParserGetEvents parses the YAML input and returns the generated event
// stream in yaml-test-suite notation, one event per line.
func ParserGetEvents(in []byte) (string, error) {
	parser := NewParser()
	parser.SetInputString(in)
	var events strings.Builder
	var event Event
	for {
		if err := parser.Parse(&event); err != nil {
			return "", err
		}
		events.WriteString(FormatEvent(&event))
		if event.Type == STREAM_END_EVENT {
			break
		}
		events.WriteByte('\n')
	}
	return events.String(), nil
}

var eventValueReplacer = strings.NewReplacer(
	`\`, `\\`,
	"\x00", `\0`,
	"\b", `\b`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// FormatEvent formats an event in yaml-test-suite notation.
func FormatEvent(e *Event) string {
	var b strings.Builder
	writeProperties := func() {
		if len(e.Anchor) > 0 {
			b.WriteString(" &")
			b.Write(e.Anchor)
		}
		if len(e.Tag) > 0 {
			b.WriteString(" <")
			b.Write(e.Tag)
			b.WriteString(">")
		}
	}
	switch e.Type {
	case STREAM_START_EVENT:
		b.WriteString("+STR")
	case STREAM_END_EVENT:
		b.WriteString("-STR")
	case DOCUMENT_START_EVENT:
		b.WriteString("+DOC")
		if !e.Implicit {
			b.WriteString(" ---")
		}
	case DOCUMENT_END_EVENT:
		b.WriteString("-DOC")
		if !e.Implicit {
			b.WriteString(" ...")
		}
	case ALIAS_EVENT:
		b.WriteString("=ALI *")
		b.Write(e.Anchor)
	case SCALAR_EVENT:
		b.WriteString("=VAL")
		writeProperties()
		switch e.ScalarStyle() {
		case PLAIN_SCALAR_STYLE:
			b.WriteString(" :")
		case LITERAL_SCALAR_STYLE:
			b.WriteString(" |")
		case FOLDED_SCALAR_STYLE:
			b.WriteString(" >")
		case SINGLE_QUOTED_SCALAR_STYLE:
			b.WriteString(" '")
		case DOUBLE_QUOTED_SCALAR_STYLE:
			b.WriteString(` "`)
		}
		b.WriteString(eventValueReplacer.Replace(string(e.Value)))
	case SEQUENCE_START_EVENT:
		b.WriteString("+SEQ")
		if e.SequenceStyle() == FLOW_SEQUENCE_STYLE {
			b.WriteString(" []")
		}
		writeProperties()
	case SEQUENCE_END_EVENT:
		b.WriteString("-SEQ")
	case MAPPING_START_EVENT:
		b.WriteString("+MAP")
		if e.MappingStyle() == FLOW_MAPPING_STYLE {
			b.WriteString(" {}")
		}
		writeProperties()
	case MAPPING_END_EVENT:
		b.WriteString("-MAP")
	}
	return b.String()
}

// FormatToken formats a token as its type followed by its payload.
func FormatToken(t *Token) string {
	var b strings.Builder
	b.WriteString(t.Type.String())
	switch t.Type {
	case STREAM_START_TOKEN:
		fmt.Fprintf(&b, " %s", t.encoding)
	case VERSION_DIRECTIVE_TOKEN:
		fmt.Fprintf(&b, " %d.%d", t.major, t.minor)
	case TAG_DIRECTIVE_TOKEN:
		fmt.Fprintf(&b, " %s %s", t.Value, t.prefix)
	case ALIAS_TOKEN, ANCHOR_TOKEN:
		fmt.Fprintf(&b, " %s", t.Value)
	case TAG_TOKEN:
		fmt.Fprintf(&b, " %q %q", t.Value, t.suffix)
	case SCALAR_TOKEN:
		fmt.Fprintf(&b, " %s %q", t.Style, t.Value)
	}
	return b.String()
}
