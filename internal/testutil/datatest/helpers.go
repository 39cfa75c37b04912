// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package datatest

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
)

// HexToBytes decodes the hex input of a test case.
func HexToBytes(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("invalid hex string: %s: %v", s, err)
	}
	return b
}

// TrimTrailingNewline drops the newline a YAML literal block leaves at the
// end of an expected value.
func TrimTrailingNewline(s string) string {
	return strings.TrimSuffix(s, "\n")
}

// GenerateData builds large inputs that would be unwieldy to write out in a
// test file. A data spec is one of:
//
//	"text"                                 the text itself
//	{loop: ["text", n]}                    text repeated n times
//	{join: [{text: ...}, {loop: ...}]}     the parts concatenated
//	{join: [...], loop: n}                 the joined parts repeated n times
func GenerateData(spec any) ([]byte, error) {
	switch spec := spec.(type) {
	case string:
		return []byte(spec), nil
	case map[string]any:
		joinVal, hasJoin := spec["join"]
		loopVal, hasLoop := spec["loop"]
		switch {
		case hasJoin:
			joined, err := join(joinVal)
			if err != nil || !hasLoop {
				return joined, err
			}
			count, ok := loopVal.(int)
			if !ok {
				return nil, fmt.Errorf("loop count must be int, got %T", loopVal)
			}
			return bytes.Repeat(joined, count), nil
		case hasLoop:
			return loop(loopVal)
		}
		return nil, fmt.Errorf("data spec must have 'loop' or 'join' field")
	}
	return nil, fmt.Errorf("data spec must be map or string, got %T", spec)
}

// loop expands a [text, count] pair.
func loop(v any) ([]byte, error) {
	pair, ok := v.([]any)
	if !ok || len(pair) != 2 {
		return nil, fmt.Errorf("loop must be [value, count], got %v", v)
	}
	text, ok := pair[0].(string)
	if !ok {
		return nil, fmt.Errorf("loop value must be string, got %T", pair[0])
	}
	count, ok := pair[1].(int)
	if !ok {
		return nil, fmt.Errorf("loop count must be int, got %T", pair[1])
	}
	return bytes.Repeat([]byte(text), count), nil
}

func join(v any) ([]byte, error) {
	parts, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("join must be array, got %T", v)
	}
	var buf bytes.Buffer
	for i, part := range parts {
		m, ok := part.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("join item %d must be map, got %T", i, part)
		}
		if text, ok := m["text"]; ok {
			s, ok := text.(string)
			if !ok {
				return nil, fmt.Errorf("join item %d text must be string, got %T", i, text)
			}
			buf.WriteString(s)
			continue
		}
		if l, ok := m["loop"]; ok {
			b, err := loop(l)
			if err != nil {
				return nil, fmt.Errorf("join item %d: %w", i, err)
			}
			buf.Write(b)
			continue
		}
		return nil, fmt.Errorf("join item %d must have 'text' or 'loop' field", i)
	}
	return buf.Bytes(), nil
}
