// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package stream_test

import (
	"strings"
	"testing"

	"go.yaml.in/yaml/stream"
	"go.yaml.in/yaml/stream/internal/testutil/assert"
)

var limitTests = []struct {
	name  string
	data  []byte
	error string
}{
	{
		name:  "1000kb of deeply nested slices",
		data:  []byte(strings.Repeat(`[`, 1000*1024)),
		error: "yaml: while increasing flow level at line 1, column 10001: exceeded max depth of 10000",
	},
	{
		name:  "1000kb of deeply nested maps",
		data:  []byte("x: " + strings.Repeat(`{`, 1000*1024)),
		error: "yaml: while increasing flow level at line 1, column 10004: exceeded max depth of 10000",
	},
	{
		name:  "1000kb of deeply nested indents",
		data:  []byte(strings.Repeat(`- `, 1000*1024)),
		error: "yaml: while increasing indentation level at line 1, column 20001: exceeded max depth of 10000",
	},
	{
		name: "1000kb of 1000-indent lines",
		data: []byte(strings.Repeat(strings.Repeat(`- `, 1000)+"\n", 1024/2)),
	},
	{name: "1kb of maps", data: []byte(`a: &a [{a}` + strings.Repeat(`,{a}`, 1*1024/4-1) + `]`)},
	{name: "10kb of maps", data: []byte(`a: &a [{a}` + strings.Repeat(`,{a}`, 10*1024/4-1) + `]`)},
	{name: "100kb of maps", data: []byte(`a: &a [{a}` + strings.Repeat(`,{a}`, 100*1024/4-1) + `]`)},
	{name: "1000kb of maps", data: []byte(`a: &a [{a}` + strings.Repeat(`,{a}`, 1000*1024/4-1) + `]`)},
	{name: "1000kb of aliases", data: []byte(`{a: &a [{a}], b: [*a` + strings.Repeat(`,*a`, 1000*1024/3) + `]}`)},
	{name: "1000kb slice nested at max-depth", data: []byte(strings.Repeat(`[`, 10000) + `1` + strings.Repeat(`,1`, 1000*1024/2-20000-1) + strings.Repeat(`]`, 10000))},
	{name: "1000kb of max-depth lines", data: []byte(strings.Repeat(`- `+strings.Repeat(`[`, 9999)+strings.Repeat(`]`, 9999)+"\n", 1000*1024/20000))},
	{
		name:  "1000kb of too deep lines",
		data:  []byte(strings.Repeat(`- `+strings.Repeat(`[`, 10000)+strings.Repeat(`]`, 10000)+"\n", 1000*1024/20000)),
		error: "yaml: while parsing a collection at line 1, column 10002: exceeded max depth of 10000",
	},
}

func TestLimits(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large inputs in short mode")
	}
	for _, tc := range limitTests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := stream.Events(tc.data)
			if tc.error != "" {
				assert.ErrorIs(t, err, stream.RecursionLimitExceeded)
				assert.Equal(t, tc.error, err.Error())
				return
			}
			assert.NoError(t, err)
		})
	}
}

func BenchmarkLimits(b *testing.B) {
	for _, tc := range limitTests {
		b.Run(tc.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, err := stream.Events(tc.data)
				if tc.error != "" {
					assert.ErrorMatches(b, "exceeded max depth", err)
					continue
				}
				assert.NoError(b, err)
			}
		})
	}
}
