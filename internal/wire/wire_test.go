package wire

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"
)

func mustEncodeEntry(t *testing.T, deps []Dep, payload []byte) []byte {
	t.Helper()
	b, err := EncodeEntry(deps, payload)
	if err != nil {
		t.Fatalf("EncodeEntry error: %v", err)
	}
	return b
}

func mustDecodeEntry(t *testing.T, b []byte) ([]Dep, []byte) {
	t.Helper()
	deps, p, err := DecodeEntry(b)
	if err != nil {
		t.Fatalf("DecodeEntry error: %v", err)
	}
	return deps, p
}

func TestEntryRoundTrip(t *testing.T) {
	cases := []struct {
		deps    []Dep
		payload []byte
	}{
		{nil, nil},
		{nil, []byte("hello")},
		{[]Dep{{Tag: "a", Version: 1}}, []byte("x")},
		{[]Dep{{Tag: "tag1", Version: 1700000000}, {Tag: "tag2", Version: math.MaxInt64}}, []byte{0, 1, 2, 3}},
	}
	for _, tc := range cases {
		enc := mustEncodeEntry(t, tc.deps, tc.payload)
		deps, p := mustDecodeEntry(t, enc)
		if len(deps) != len(tc.deps) {
			t.Fatalf("deps len mismatch: got %d want %d", len(deps), len(tc.deps))
		}
		for i := range tc.deps {
			if deps[i] != tc.deps[i] {
				t.Fatalf("dep %d mismatch: got %+v want %+v", i, deps[i], tc.deps[i])
			}
		}
		if !bytes.Equal(p, tc.payload) {
			t.Fatalf("payload mismatch: got %x want %x", p, tc.payload)
		}
	}
}

func TestEntryDepsSortedByTag(t *testing.T) {
	in := []Dep{{Tag: "z", Version: 3}, {Tag: "a", Version: 1}, {Tag: "m", Version: 2}}
	enc := mustEncodeEntry(t, in, []byte("v"))
	deps, _ := mustDecodeEntry(t, enc)
	want := []string{"a", "m", "z"}
	for i, d := range deps {
		if d.Tag != want[i] {
			t.Fatalf("dep %d: got %q want %q", i, d.Tag, want[i])
		}
	}
	// input must not be reordered
	if in[0].Tag != "z" {
		t.Fatalf("input mutated: %+v", in)
	}

	// same snapshot in another order encodes identically
	enc2 := mustEncodeEntry(t, []Dep{{Tag: "m", Version: 2}, {Tag: "z", Version: 3}, {Tag: "a", Version: 1}}, []byte("v"))
	if !bytes.Equal(enc, enc2) {
		t.Fatalf("expected deterministic encoding")
	}
}

func TestEntryRejectsTrailingBytes(t *testing.T) {
	enc := mustEncodeEntry(t, []Dep{{Tag: "t", Version: 7}}, []byte("x"))
	enc = append(enc, 0xDE, 0xAD)
	if _, _, err := DecodeEntry(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestEntryCorruptHeadersAndLengths(t *testing.T) {
	enc := mustEncodeEntry(t, []Dep{{Tag: "k", Version: 9}}, []byte("abc"))

	// bad magic
	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, _, err := DecodeEntry(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	// wrong version
	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, _, err := DecodeEntry(badVer); err == nil {
		t.Fatalf("expected error on bad version")
	}

	// wrong kind
	badKind := append([]byte(nil), enc...)
	badKind[5] = kindEntry + 1
	if _, _, err := DecodeEntry(badKind); err == nil {
		t.Fatalf("expected error on bad kind")
	}

	// header: 4 magic +1 ver +1 kind +2 n = 8 bytes
	// dep: 2 nameLen + nameLen + 8 version
	offset := 8 + 2 + 1 + 8 // start of vlen
	badVlen := append([]byte(nil), enc...)
	binary.BigEndian.PutUint32(badVlen[offset:offset+4], uint32(len("abc")+1))
	if _, _, err := DecodeEntry(badVlen); err == nil {
		t.Fatalf("expected error on vlen beyond buffer")
	}

	// nameLen larger than what is available
	badName := append([]byte(nil), enc...)
	binary.BigEndian.PutUint16(badName[8:10], uint16(500))
	if _, _, err := DecodeEntry(badName); err == nil {
		t.Fatalf("expected error on nameLen beyond buffer")
	}

	// zero-length name
	zeroName := append([]byte(nil), enc...)
	binary.BigEndian.PutUint16(zeroName[8:10], 0)
	if _, _, err := DecodeEntry(zeroName); err == nil {
		t.Fatalf("expected error on empty tag name")
	}

	// truncated buffer
	if _, _, err := DecodeEntry(enc[:len(enc)-1]); err == nil {
		t.Fatalf("expected error on truncated buffer")
	}
}

func TestEntryBogusDepCount(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindEntry)
	var u2 [2]byte
	binary.BigEndian.PutUint16(u2[:], 0xFFFF)
	buf.Write(u2[:])
	if _, _, err := DecodeEntry(buf.Bytes()); err == nil {
		t.Fatalf("expected error on bogus n with insufficient bytes")
	}
}

func TestEntryTagNameValidation(t *testing.T) {
	if _, err := EncodeEntry([]Dep{{Tag: "", Version: 1}}, nil); err != ErrBadTagName {
		t.Fatalf("expected ErrBadTagName on empty tag, got %v", err)
	}
	if _, err := EncodeEntry([]Dep{{Tag: strings.Repeat("a", 0x10000), Version: 1}}, nil); err != ErrBadTagName {
		t.Fatalf("expected ErrBadTagName on tag > 0xFFFF, got %v", err)
	}
	if _, err := EncodeEntry([]Dep{{Tag: strings.Repeat("b", 0xFFFF), Version: 1}}, nil); err != nil {
		t.Fatalf("boundary tag length should succeed: %v", err)
	}
}

func TestEntryZeroCopyPayload(t *testing.T) {
	enc := mustEncodeEntry(t, nil, []byte("Z"))
	_, p := mustDecodeEntry(t, enc)
	if len(p) != 1 {
		t.Fatalf("unexpected payload len")
	}
	p[0] = 'Q'
	_, p2 := mustDecodeEntry(t, enc)
	if p2[0] != 'Q' {
		t.Fatalf("expected zero-copy slice into enc buffer")
	}
}
