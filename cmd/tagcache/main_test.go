package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func run(t *testing.T, addr string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--redis", addr}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSetGetTouchInvalidates(t *testing.T) {
	mr := miniredis.RunT(t)

	if _, err := run(t, mr.Addr(), "set", "post:1", "hello", "--depends", "posts,users"); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err := run(t, mr.Addr(), "get", "post:1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Fatalf("get output = %q", out)
	}

	out, err = run(t, mr.Addr(), "tag", "touch", "posts")
	if err != nil {
		t.Fatalf("touch: %v", err)
	}
	if !strings.HasPrefix(out, "posts\t") {
		t.Fatalf("touch output = %q", out)
	}

	if _, err := run(t, mr.Addr(), "get", "post:1"); err == nil {
		t.Fatalf("expected miss after touching a dependency")
	}
}

func TestTagReadPrintsSorted(t *testing.T) {
	mr := miniredis.RunT(t)

	out, err := run(t, mr.Addr(), "tag", "read", "b", "a")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "a\t") || !strings.HasPrefix(lines[1], "b\t") {
		t.Fatalf("unexpected output %q", out)
	}
	if !mr.Exists("tag:tags:a") || !mr.Exists("tag:tags:b") {
		t.Fatalf("tags were not created")
	}
}

func TestClearKeepsTags(t *testing.T) {
	mr := miniredis.RunT(t)

	if _, err := run(t, mr.Addr(), "set", "k", "v", "--depends", "t"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := run(t, mr.Addr(), "clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if mr.Exists("entity:entities:k") {
		t.Fatalf("entity survived clear")
	}
	if !mr.Exists("tag:tags:t") {
		t.Fatalf("tag removed by clear")
	}
}
