// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xjs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatErrors(t *testing.T) {
	tests := []struct {
		name   string
		format func([]byte) ([]byte, error)
	}{
		{"Standardize", Standardize},
		{"Minimize", Minimize},
		{"Format", Format},
	}

	const want = "[null,false,true,invalid]"
	for _, tt := range tests {
		got, err := tt.format([]byte(want))
		if err == nil {
			t.Errorf("%s error = nil, want non-nil", tt.name)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", tt.name, got, want)
		}
	}
}

var testdataFormat = []struct {
	in   string
	want string
}{{
	in:   `null`,
	want: "null\n",
}, {
	in:   "{\n\r\t \n\r\t }",
	want: "{}\n",
}, {
	in:   "[\n\r\t \n\r\t ]",
	want: "[]\n",
}, {
	in:   `{"name" 	 	:"value" 	 	,"name":"value"}`,
	want: `{"name": "value", "name": "value"}` + "\n",
}, {
	in:   `[null 	 	,null]`,
	want: "[null, null]\n",
}, {
	in:   `{"a":{"b":[],"c":[1,2,3]}}`,
	want: `{"a": {"b": [], "c": [1, 2, 3]}}` + "\n",
}, {
	in:   "{\n\n  \"a\": 1,\n\n\n  \"b\": 2\n}",
	want: "{\n\n  \"a\": 1\n\n\n  \"b\": 2}\n",
}}

func TestFormat(t *testing.T) {
	for _, tt := range testdataFormat {
		t.Run("", func(t *testing.T) {
			got, err := Format([]byte(tt.in))
			if err != nil {
				t.Fatalf("Format error: %v", err)
			}
			if diff := cmp.Diff(tt.want, string(got)); diff != "" {
				t.Errorf("Format mismatch (-want +got):\n%s\n\ngot:\n%s\n\nwant:\n%s", diff, got, tt.want)
			}
		})
	}
}

func TestMinimize(t *testing.T) {
	in := "{\n  a: 1, // drop me\n  b: [1, 2, 3,],\n}\n"
	got, err := Minimize([]byte(in))
	if err != nil {
		t.Fatalf("Minimize error: %v", err)
	}
	want := `{a:1,b:[1,2,3]}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("Minimize mismatch (-want +got):\n%s", diff)
	}
}

func TestStandardize(t *testing.T) {
	in := "{\n  a: 1, // drop me\n  b: 'hi',\n}\n"
	got, err := Standardize([]byte(in))
	if err != nil {
		t.Fatalf("Standardize error: %v", err)
	}
	want := `{"a":1,"b":"hi"}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("Standardize mismatch (-want +got):\n%s", diff)
	}
}
