// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package typesig

import "testing"

func TestParseType(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"bool", "bool"},
		{"ns.Proto", "ns.Proto"},
		{"list<string>", "list<string>"},
		{"map<string, int>", "map<string, int>"},
		{"list<map<string, int>>", "list<map<string, int>>"},
		{"bool|null", "bool|null"},
		{"list<string>|null", "list<string>|null"},
	}
	for _, c := range cases {
		got := ParseType(c.in).String()
		if got != c.want {
			t.Errorf("ParseType(%q).String() = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseParamList(t *testing.T) {
	decls := ParseParamList("s: bool, items: list<string>, meta: map<string, int>|null")
	if len(decls) != 3 {
		t.Fatalf("expected 3 decls, got %d", len(decls))
	}
	if decls[0].Name != "s" || decls[0].Type.Kind != KindNamed || decls[0].Type.Name != "bool" {
		t.Errorf("decl[0] = %+v", decls[0])
	}
	if decls[1].Name != "items" || decls[1].Type.Kind != KindList {
		t.Errorf("decl[1] = %+v", decls[1])
	}
	if decls[2].Name != "meta" || decls[2].Type.Kind != KindUnion {
		t.Errorf("decl[2] = %+v", decls[2])
	}
}

func TestParseParamListEmpty(t *testing.T) {
	if decls := ParseParamList(""); decls != nil {
		t.Errorf("expected nil for empty input, got %v", decls)
	}
	if decls := ParseParamList("malformed"); decls != nil {
		t.Errorf("expected nil for entry missing ':', got %v", decls)
	}
}

func TestTypeEqual(t *testing.T) {
	a := ParseType("list<string>")
	b := ParseType("list<string>")
	c := ParseType("list<int>")
	if !a.Equal(b) {
		t.Errorf("expected %v to equal %v", a, b)
	}
	if a.Equal(c) {
		t.Errorf("expected %v to not equal %v", a, c)
	}
	if Unknown.Equal(Unknown) {
		t.Errorf("Unknown must never equal itself")
	}
}

func TestParseTypeMapArityMismatch(t *testing.T) {
	got := ParseType("map<string>")
	if got.Kind != KindUnknown {
		t.Errorf("expected Unknown for malformed map, got %v", got)
	}
}
