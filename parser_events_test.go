// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package stream_test

import (
	"testing"

	"go.yaml.in/yaml/stream"
	"go.yaml.in/yaml/stream/internal/testutil/assert"
)

func TestParserGetEventsNotation(t *testing.T) {
	for _, tc := range []struct {
		in  string
		exp string
	}{
		// ImplicitDocumentStart
		{
			in: `a: b`,
			exp: `+STR
+DOC
+MAP
=VAL :a
=VAL :b
-MAP
-DOC
-STR`,
		},
		// ExplicitDocumentStart
		{
			in: `---
a: b`,
			exp: `+STR
+DOC ---
+MAP
=VAL :a
=VAL :b
-MAP
-DOC
-STR`,
		},
		// ExplicitDocumentEnd
		{
			in: `--- a
...`,
			exp: `+STR
+DOC ---
=VAL :a
-DOC ...
-STR`,
		},
		// Properties
		{
			in: `- &a !!str x
- *a
- !local {k: 'v'}`,
			exp: `+STR
+DOC
+SEQ
=VAL &a <tag:yaml.org,2002:str> :x
=ALI *a
+MAP {} <!local>
=VAL :k
=VAL 'v
-MAP
-SEQ
-DOC
-STR`,
		},
		// BlockScalars
		{
			in: `a: |
  x
b: >-
  y
  z
`,
			exp: `+STR
+DOC
+MAP
=VAL :a
=VAL |x\n
=VAL :b
=VAL >y z
-MAP
-DOC
-STR`,
		},
		// SinglePairMappings
		{
			in: `[a: [42]]`,
			exp: `+STR
+DOC
+SEQ []
+MAP {}
=VAL :a
+SEQ []
=VAL :42
-SEQ
-MAP
-SEQ
-DOC
-STR`,
		},
	} {
		t.Run(tc.in, func(t *testing.T) {
			events, err := stream.ParserGetEvents([]byte(tc.in))
			if err != nil {
				t.Fatalf("ParserGetEvents error: %v", err)
			}
			assert.Equal(t, tc.exp, events)
		})
	}
}
