package util

import "testing"

func TestKey(t *testing.T) {
	if got := Key("tag", "tags", "user:1"); got != "tag:tags:user:1" {
		t.Fatalf("Key=%q", got)
	}
	if got := Prefix("entity", "app"); got != "entity:app:" {
		t.Fatalf("Prefix=%q", got)
	}
}

func TestEscapeGlob(t *testing.T) {
	cases := map[string]string{
		"entity:app:":  "entity:app:",
		"a*b":          `a\*b`,
		"x?[y]":        `x\?\[y\]`,
		`back\slash`:   `back\\slash`,
		"ns-with-dash": "ns-with-dash",
	}
	for in, want := range cases {
		if got := EscapeGlob(in); got != want {
			t.Fatalf("EscapeGlob(%q)=%q want %q", in, got, want)
		}
	}
}
