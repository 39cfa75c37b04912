// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Core libyaml types and structures.
// Defines Mark, Position, Span, Token, Event and the related constants
// shared by the reader, scanner and parser stages.

package libyaml

import (
	"fmt"
	"strings"
)

// VersionDirective holds the YAML version directive data.
type VersionDirective struct {
	major int8 // The major version number.
	minor int8 // The minor version number.
}

// Major returns the major version number.
func (v *VersionDirective) Major() int { return int(v.major) }

// Minor returns the minor version number.
func (v *VersionDirective) Minor() int { return int(v.minor) }

// TagDirective holds the YAML tag directive data.
type TagDirective struct {
	handle []byte // The tag handle.
	prefix []byte // The tag prefix.
}

// GetHandle returns the tag handle.
func (t *TagDirective) GetHandle() string { return string(t.handle) }

// GetPrefix returns the tag prefix.
func (t *TagDirective) GetPrefix() string { return string(t.prefix) }

type Encoding int

// The stream encoding.
const (
	// Let the parser choose the encoding.
	ANY_ENCODING Encoding = iota

	UTF8_ENCODING    // The default UTF-8 encoding.
	UTF16LE_ENCODING // The UTF-16-LE encoding with BOM.
	UTF16BE_ENCODING // The UTF-16-BE encoding with BOM.
)

func (e Encoding) String() string {
	switch e {
	case UTF8_ENCODING:
		return "UTF-8"
	case UTF16LE_ENCODING:
		return "UTF-16LE"
	case UTF16BE_ENCODING:
		return "UTF-16BE"
	}
	return "any"
}

// Mark holds the pointer position.
type Mark struct {
	Index  int // The position index (in bytes of the source).
	Line   int // The position line (1-indexed).
	Column int // The position column (0-indexed internally, displayed as 1-indexed).
}

func (m Mark) String() string {
	var builder strings.Builder
	if m.Line == 0 {
		return "<unknown position>"
	}

	fmt.Fprintf(&builder, "line %d", m.Line)
	if m.Column != 0 {
		fmt.Fprintf(&builder, ", column %d", m.Column+1)
	}

	return builder.String()
}

// Position converts the mark into a 1-based [Position].
func (m Mark) Position() Position {
	if m.Line == 0 {
		return Position{}
	}
	return Position{Offset: m.Index, Line: m.Line, Column: m.Column + 1}
}

// Position is a location in the source: a 0-based byte offset and a
// 1-based line and column.
//
// The zero value is the invalid position.
type Position struct {
	Offset int
	Line   int
	Column int
}

// IsValid reports whether the position was produced by a parse.
func (p Position) IsValid() bool { return p.Line > 0 }

// Before reports whether p is located strictly before q.
func (p Position) Before(q Position) bool { return p.Offset < q.Offset }

func (p Position) String() string {
	if !p.IsValid() {
		return "<unknown position>"
	}
	return fmt.Sprintf("byte %d line %d column %d", p.Offset, p.Line, p.Column)
}

// Span is the half-open source range covered by a token, event or error.
type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// Len returns the number of source bytes covered by the span.
func (s Span) Len() int { return s.End.Offset - s.Start.Offset }

func markSpan(start, end Mark) Span {
	return Span{Start: start.Position(), End: end.Position()}
}

// Node Styles

type styleInt int8

// Style holds the scalar, sequence or mapping style of an event.
type Style styleInt

type ScalarStyle styleInt

// Scalar styles.
const (
	// Let the emitter choose the style.
	ANY_SCALAR_STYLE ScalarStyle = 0

	PLAIN_SCALAR_STYLE         ScalarStyle = 1 << iota // The plain scalar style.
	SINGLE_QUOTED_SCALAR_STYLE                         // The single-quoted scalar style.
	DOUBLE_QUOTED_SCALAR_STYLE                         // The double-quoted scalar style.
	LITERAL_SCALAR_STYLE                               // The literal scalar style.
	FOLDED_SCALAR_STYLE                                // The folded scalar style.
)

// String returns a string representation of a [ScalarStyle].
func (style ScalarStyle) String() string {
	switch style {
	case PLAIN_SCALAR_STYLE:
		return "Plain"
	case SINGLE_QUOTED_SCALAR_STYLE:
		return "Single"
	case DOUBLE_QUOTED_SCALAR_STYLE:
		return "Double"
	case LITERAL_SCALAR_STYLE:
		return "Literal"
	case FOLDED_SCALAR_STYLE:
		return "Folded"
	default:
		return ""
	}
}

type SequenceStyle styleInt

// Sequence styles.
const (
	ANY_SEQUENCE_STYLE SequenceStyle = iota

	BLOCK_SEQUENCE_STYLE // The block sequence style.
	FLOW_SEQUENCE_STYLE  // The flow sequence style.
)

type MappingStyle styleInt

// Mapping styles.
const (
	ANY_MAPPING_STYLE MappingStyle = iota

	BLOCK_MAPPING_STYLE // The block mapping style.
	FLOW_MAPPING_STYLE  // The flow mapping style.
)

// Tokens

type TokenType int

// Token types.
const (
	// An empty token.
	NO_TOKEN TokenType = iota

	STREAM_START_TOKEN // A STREAM-START token.
	STREAM_END_TOKEN   // A STREAM-END token.

	VERSION_DIRECTIVE_TOKEN // A VERSION-DIRECTIVE token.
	TAG_DIRECTIVE_TOKEN     // A TAG-DIRECTIVE token.
	DOCUMENT_START_TOKEN    // A DOCUMENT-START token.
	DOCUMENT_END_TOKEN      // A DOCUMENT-END token.

	BLOCK_SEQUENCE_START_TOKEN // A BLOCK-SEQUENCE-START token.
	BLOCK_MAPPING_START_TOKEN  // A BLOCK-MAPPING-START token.
	BLOCK_END_TOKEN            // A BLOCK-END token.

	FLOW_SEQUENCE_START_TOKEN // A FLOW-SEQUENCE-START token.
	FLOW_SEQUENCE_END_TOKEN   // A FLOW-SEQUENCE-END token.
	FLOW_MAPPING_START_TOKEN  // A FLOW-MAPPING-START token.
	FLOW_MAPPING_END_TOKEN    // A FLOW-MAPPING-END token.

	BLOCK_ENTRY_TOKEN // A BLOCK-ENTRY token.
	FLOW_ENTRY_TOKEN  // A FLOW-ENTRY token.
	KEY_TOKEN         // A KEY token.
	VALUE_TOKEN       // A VALUE token.

	ALIAS_TOKEN  // An ALIAS token.
	ANCHOR_TOKEN // An ANCHOR token.
	TAG_TOKEN    // A TAG token.
	SCALAR_TOKEN // A SCALAR token.
)

var tokenStrings = []string{
	NO_TOKEN:                   "NO_TOKEN",
	STREAM_START_TOKEN:         "STREAM_START_TOKEN",
	STREAM_END_TOKEN:           "STREAM_END_TOKEN",
	VERSION_DIRECTIVE_TOKEN:    "VERSION_DIRECTIVE_TOKEN",
	TAG_DIRECTIVE_TOKEN:        "TAG_DIRECTIVE_TOKEN",
	DOCUMENT_START_TOKEN:       "DOCUMENT_START_TOKEN",
	DOCUMENT_END_TOKEN:         "DOCUMENT_END_TOKEN",
	BLOCK_SEQUENCE_START_TOKEN: "BLOCK_SEQUENCE_START_TOKEN",
	BLOCK_MAPPING_START_TOKEN:  "BLOCK_MAPPING_START_TOKEN",
	BLOCK_END_TOKEN:            "BLOCK_END_TOKEN",
	FLOW_SEQUENCE_START_TOKEN:  "FLOW_SEQUENCE_START_TOKEN",
	FLOW_SEQUENCE_END_TOKEN:    "FLOW_SEQUENCE_END_TOKEN",
	FLOW_MAPPING_START_TOKEN:   "FLOW_MAPPING_START_TOKEN",
	FLOW_MAPPING_END_TOKEN:     "FLOW_MAPPING_END_TOKEN",
	BLOCK_ENTRY_TOKEN:          "BLOCK_ENTRY_TOKEN",
	FLOW_ENTRY_TOKEN:           "FLOW_ENTRY_TOKEN",
	KEY_TOKEN:                  "KEY_TOKEN",
	VALUE_TOKEN:                "VALUE_TOKEN",
	ALIAS_TOKEN:                "ALIAS_TOKEN",
	ANCHOR_TOKEN:               "ANCHOR_TOKEN",
	TAG_TOKEN:                  "TAG_TOKEN",
	SCALAR_TOKEN:               "SCALAR_TOKEN",
}

func (tt TokenType) String() string {
	if tt < 0 || int(tt) >= len(tokenStrings) {
		return "<unknown token>"
	}
	return tokenStrings[tt]
}

// tokenIndicators is the human readable form of each token, used in
// "did not find expected ..." messages.
var tokenIndicators = []string{
	STREAM_START_TOKEN:         "<stream start>",
	STREAM_END_TOKEN:           "<stream end>",
	VERSION_DIRECTIVE_TOKEN:    "%YAML",
	TAG_DIRECTIVE_TOKEN:        "%TAG",
	DOCUMENT_START_TOKEN:       "<document start>",
	DOCUMENT_END_TOKEN:         "<document end>",
	BLOCK_SEQUENCE_START_TOKEN: "<block sequence start>",
	BLOCK_MAPPING_START_TOKEN:  "<block mapping start>",
	BLOCK_END_TOKEN:            "<block end>",
	FLOW_SEQUENCE_START_TOKEN:  "'['",
	FLOW_SEQUENCE_END_TOKEN:    "']'",
	FLOW_MAPPING_START_TOKEN:   "'{'",
	FLOW_MAPPING_END_TOKEN:     "'}'",
	BLOCK_ENTRY_TOKEN:          "'-'",
	FLOW_ENTRY_TOKEN:           "','",
	KEY_TOKEN:                  "key",
	VALUE_TOKEN:                "':'",
	ALIAS_TOKEN:                "alias",
	ANCHOR_TOKEN:               "anchor",
	TAG_TOKEN:                  "tag",
	SCALAR_TOKEN:               "scalar",
}

// Indicator returns the token as it appears in error messages.
func (tt TokenType) Indicator() string {
	if tt <= NO_TOKEN || int(tt) >= len(tokenIndicators) {
		return tt.String()
	}
	return tokenIndicators[tt]
}

// Token holds information about a scanning token.
type Token struct {
	// The token type.
	Type TokenType

	// The start/end of the token.
	StartMark, EndMark Mark

	// The stream encoding (for STREAM_START_TOKEN).
	encoding Encoding

	// The alias/anchor/scalar Value or tag/tag directive handle
	// (for ALIAS_TOKEN, ANCHOR_TOKEN, SCALAR_TOKEN, TAG_TOKEN, TAG_DIRECTIVE_TOKEN).
	Value []byte

	// The tag suffix (for TAG_TOKEN).
	suffix []byte

	// The tag directive prefix (for TAG_DIRECTIVE_TOKEN).
	prefix []byte

	// The scalar Style (for SCALAR_TOKEN).
	Style ScalarStyle

	// The version directive major/minor (for VERSION_DIRECTIVE_TOKEN).
	major, minor int8
}

// Span returns the source range covered by the token.
func (t *Token) Span() Span { return markSpan(t.StartMark, t.EndMark) }

// Suffix returns the tag suffix (for TAG_TOKEN).
func (t *Token) Suffix() []byte { return t.suffix }

// Prefix returns the tag directive prefix (for TAG_DIRECTIVE_TOKEN).
func (t *Token) Prefix() []byte { return t.prefix }

// Version returns the version directive numbers (for VERSION_DIRECTIVE_TOKEN).
func (t *Token) Version() (major, minor int) { return int(t.major), int(t.minor) }

// GetEncoding returns the stream encoding (for STREAM_START_TOKEN).
func (t *Token) GetEncoding() Encoding { return t.encoding }

// Events

type EventType int8

// Event types.
const (
	// An empty event.
	NO_EVENT EventType = iota

	STREAM_START_EVENT   // A STREAM-START event.
	STREAM_END_EVENT     // A STREAM-END event.
	DOCUMENT_START_EVENT // A DOCUMENT-START event.
	DOCUMENT_END_EVENT   // A DOCUMENT-END event.
	ALIAS_EVENT          // An ALIAS event.
	SCALAR_EVENT         // A SCALAR event.
	SEQUENCE_START_EVENT // A SEQUENCE-START event.
	SEQUENCE_END_EVENT   // A SEQUENCE-END event.
	MAPPING_START_EVENT  // A MAPPING-START event.
	MAPPING_END_EVENT    // A MAPPING-END event.
)

var eventStrings = []string{
	NO_EVENT:             "none",
	STREAM_START_EVENT:   "stream start",
	STREAM_END_EVENT:     "stream end",
	DOCUMENT_START_EVENT: "document start",
	DOCUMENT_END_EVENT:   "document end",
	ALIAS_EVENT:          "alias",
	SCALAR_EVENT:         "scalar",
	SEQUENCE_START_EVENT: "sequence start",
	SEQUENCE_END_EVENT:   "sequence end",
	MAPPING_START_EVENT:  "mapping start",
	MAPPING_END_EVENT:    "mapping end",
}

func (e EventType) String() string {
	if e < 0 || int(e) >= len(eventStrings) {
		return fmt.Sprintf("unknown event %d", e)
	}
	return eventStrings[e]
}

// Event holds information about a parsing event.
type Event struct {
	// The event type.
	Type EventType

	// The start and end of the event.
	StartMark, EndMark Mark

	// The document encoding (for STREAM_START_EVENT).
	encoding Encoding

	// The version directive (for DOCUMENT_START_EVENT).
	versionDirective *VersionDirective

	// The list of tag directives (for DOCUMENT_START_EVENT).
	tagDirectives []TagDirective

	// The Anchor (for SCALAR_EVENT, SEQUENCE_START_EVENT, MAPPING_START_EVENT, ALIAS_EVENT).
	Anchor []byte

	// The Tag (for SCALAR_EVENT, SEQUENCE_START_EVENT, MAPPING_START_EVENT).
	Tag []byte

	// The scalar Value (for SCALAR_EVENT).
	Value []byte

	// Is the document start/end indicator Implicit, or the tag optional?
	// (for DOCUMENT_START_EVENT, DOCUMENT_END_EVENT, SEQUENCE_START_EVENT, MAPPING_START_EVENT, SCALAR_EVENT).
	Implicit bool

	// Is the tag optional for any non-plain style? (for SCALAR_EVENT).
	quotedImplicit bool

	// The Style (for SCALAR_EVENT, SEQUENCE_START_EVENT, MAPPING_START_EVENT).
	Style Style
}

func (e *Event) ScalarStyle() ScalarStyle     { return ScalarStyle(e.Style) }
func (e *Event) SequenceStyle() SequenceStyle { return SequenceStyle(e.Style) }
func (e *Event) MappingStyle() MappingStyle   { return MappingStyle(e.Style) }

// Span returns the source range covered by the event.
func (e *Event) Span() Span { return markSpan(e.StartMark, e.EndMark) }

// QuotedImplicit reports whether the tag may be omitted for a non-plain
// scalar (for SCALAR_EVENT).
func (e *Event) QuotedImplicit() bool { return e.quotedImplicit }

// GetEncoding returns the stream encoding (for STREAM_START_EVENT).
func (e *Event) GetEncoding() Encoding { return e.encoding }

// GetVersionDirective returns the version directive (for DOCUMENT_START_EVENT).
func (e *Event) GetVersionDirective() *VersionDirective { return e.versionDirective }

// GetTagDirectives returns the tag directives (for DOCUMENT_START_EVENT).
func (e *Event) GetTagDirectives() []TagDirective { return e.tagDirectives }

// IsStart reports whether the event opens a nesting level.
func (e *Event) IsStart() bool {
	switch e.Type {
	case STREAM_START_EVENT, DOCUMENT_START_EVENT, SEQUENCE_START_EVENT, MAPPING_START_EVENT:
		return true
	}
	return false
}

// IsEnd reports whether the event closes a nesting level.
func (e *Event) IsEnd() bool {
	switch e.Type {
	case STREAM_END_EVENT, DOCUMENT_END_EVENT, SEQUENCE_END_EVENT, MAPPING_END_EVENT:
		return true
	}
	return false
}

// Tags

const (
	// CORE_TAG_PREFIX is the prefix the secondary '!!' handle expands to.
	CORE_TAG_PREFIX = "tag:yaml.org,2002:"

	NULL_TAG = CORE_TAG_PREFIX + "null" // The tag !!null with the only possible value: null.
	STR_TAG  = CORE_TAG_PREFIX + "str"  // The tag !!str for string values.
	SEQ_TAG  = CORE_TAG_PREFIX + "seq"  // The tag !!seq is used to denote sequences.
	MAP_TAG  = CORE_TAG_PREFIX + "map"  // The tag !!map is used to denote mapping.
)
