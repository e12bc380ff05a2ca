// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xjs

import "testing"

func TestParseJSONStringValid(t *testing.T) {
	v, err := ParseJSONString(`{"a": 1, "b": [true, false, null, "s"]}`)
	if err != nil {
		t.Fatalf("ParseJSONString: %v", err)
	}
	if v.Kind != KindObject || len(v.Object.Members) != 2 {
		t.Fatalf("parsed = %+v, want 2-member object", v)
	}
}

func TestParseJSONStringRejectsTrailingComma(t *testing.T) {
	if _, err := ParseJSONString(`{"a": 1,}`); err == nil {
		t.Error("ParseJSONString with trailing comma: want error, got nil")
	}
	if _, err := ParseJSONString(`[1, 2,]`); err == nil {
		t.Error("ParseJSONString array with trailing comma: want error, got nil")
	}
}

func TestParseJSONStringRejectsUnquotedKey(t *testing.T) {
	if _, err := ParseJSONString(`{a: 1}`); err == nil {
		t.Error("ParseJSONString with unquoted key: want error, got nil")
	}
}

func TestParseJSONStringRejectsSingleQuotes(t *testing.T) {
	if _, err := ParseJSONString(`{"a": 'b'}`); err == nil {
		t.Error("ParseJSONString with single-quoted value: want error, got nil")
	}
}

func TestParseJSONStringRejectsComments(t *testing.T) {
	if _, err := ParseJSONString("{\"a\": 1} // trailing comment"); err == nil {
		t.Error("ParseJSONString with trailing comment: want error, got nil")
	}
}

func TestParseJSONStringRejectsTrailingContent(t *testing.T) {
	if _, err := ParseJSONString(`1 2`); err == nil {
		t.Error("ParseJSONString with trailing content: want error, got nil")
	}
}

func TestParseJSONStringLiterals(t *testing.T) {
	tests := []struct {
		in   string
		kind Kind
	}{
		{"true", KindBool},
		{"false", KindBool},
		{"null", KindNull},
		{"3.14", KindNumber},
		{`"hi"`, KindString},
	}
	for _, tt := range tests {
		v, err := ParseJSONString(tt.in)
		if err != nil {
			t.Errorf("ParseJSONString(%q): %v", tt.in, err)
			continue
		}
		if v.Kind != tt.kind {
			t.Errorf("ParseJSONString(%q).Kind = %v, want %v", tt.in, v.Kind, tt.kind)
		}
	}
}

func TestParseJSONStringEmptyContainers(t *testing.T) {
	obj, err := ParseJSONString(`{}`)
	if err != nil || obj.Kind != KindObject || len(obj.Object.Members) != 0 {
		t.Errorf("ParseJSONString({}) = %+v, err=%v", obj, err)
	}
	arr, err := ParseJSONString(`[]`)
	if err != nil || arr.Kind != KindArray || len(arr.Array.Elements) != 0 {
		t.Errorf("ParseJSONString([]) = %+v, err=%v", arr, err)
	}
}
