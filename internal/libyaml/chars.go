// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Character classification helpers.
// The reader hands decoded characters to the scanner, so every predicate
// works on a single rune. The NUL character marks the end of the input.

package libyaml

const bom = '\uFEFF'

// Check if the character can be part of a directive name, or of a %TAG
// handle (alphanumerical, '_' and '-').
func isAlpha(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' ||
		r == '_' || r == '-'
}

// Check if the character is a flow indicator as defined by YAML 1.2 production
// [23] c-flow-indicator ::= "," | "[" | "]" | "{" | "}".
func isFlowIndicator(r rune) bool {
	switch r {
	case ',', '[', ']', '{', '}':
		return true
	}
	return false
}

// Check if the character is a valid anchor name character as defined by
// YAML 1.2 production [102] ns-anchor-char ::= ns-char - c-flow-indicator.
func isAnchorChar(r rune) bool {
	return !isBlankZ(r) && !isFlowIndicator(r) && r != bom
}

// Check if the character can appear in a tag URI.
func isURIChar(r rune) bool {
	if isAlpha(r) {
		return true
	}
	switch r {
	case ';', '/', '?', ':', '@', '&', '=', '+', '$', ',', '.', '!', '~',
		'*', '\'', '(', ')', '[', ']', '%', '#':
		return true
	}
	return false
}

// Check if the character is a digit.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Get the value of a digit.
func asDigit(r rune) int {
	return int(r - '0')
}

// Check if the character is a hex-digit.
func isHex(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'A' && r <= 'F' || r >= 'a' && r <= 'f'
}

// Get the value of a hex-digit.
func asHex(r rune) int {
	switch {
	case r >= 'A' && r <= 'F':
		return int(r) - 'A' + 10
	case r >= 'a' && r <= 'f':
		return int(r) - 'a' + 10
	}
	return int(r) - '0'
}

// Check if the character may appear in a YAML stream, as defined by YAML 1.2
// production [1] c-printable.
func isPrintable(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0x7E:
		return true
	case r == 0x85:
		return true
	case r >= 0xA0 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// Check if the character is NUL, the end of input marker.
func isZ(r rune) bool {
	return r == 0
}

// Check if the character is space.
func isSpace(r rune) bool {
	return r == ' '
}

// Check if the character is tab.
func isTab(r rune) bool {
	return r == '\t'
}

// Check if the character is blank (space or tab).
func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

// Check if the character is a line break. The reader folds CR, LF and CRLF
// into a single '\n'; NEL, LS and PS are ordinary characters in YAML 1.2.
func isBreak(r rune) bool {
	return r == '\n'
}

// Check if the character is a line break or NUL.
func isBreakZ(r rune) bool {
	return r == '\n' || r == 0
}

// Check if the character is a line break, space, or NUL.
func isSpaceZ(r rune) bool {
	return r == ' ' || r == '\n' || r == 0
}

// Check if the character is a line break, space, tab, or NUL.
func isBlankZ(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == 0
}
