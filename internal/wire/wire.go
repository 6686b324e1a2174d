package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sort"
)

const (
	version   byte = 1
	kindEntry byte = 1
)

const (
	maxDeps     = 0xFFFF
	maxNameSize = 0xFFFF
)

var (
	ErrCorrupt     = errors.New("tagcache: corrupt entry")
	ErrTooManyDeps = errors.New("tagcache: too many dependencies in entry")
	ErrBadTagName  = errors.New("tagcache: invalid tag name length in entry")
	magic4         = [...]byte{'T', 'A', 'G', 'C'}
)

// Dep is one tag version captured when an entry was written.
type Dep struct {
	Tag     string
	Version int64
}

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry:
//
//	magic(4) | ver(1) | kind(1=entry) | n(u16 be)
//	nameLen(u16 be) | name(nameLen) | version(u64 be)   * n
//	vlen(u32 be) | payload(vlen)
//
// Deps are written sorted by tag name so equal snapshots encode identically.
func EncodeEntry(deps []Dep, payload []byte) ([]byte, error) {
	if len(deps) > maxDeps {
		return nil, ErrTooManyDeps
	}
	sorted := make([]Dep, len(deps))
	copy(sorted, deps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tag < sorted[j].Tag })

	total := 4 + 1 + 1 + 2 + 4 + len(payload)
	for _, d := range sorted {
		if l := len(d.Tag); l == 0 || l > maxNameSize {
			return nil, ErrBadTagName
		}
		total += 2 + len(d.Tag) + 8
	}

	var buf bytes.Buffer
	buf.Grow(total)

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindEntry)

	var u8 [8]byte
	var u4 [4]byte
	var u2 [2]byte

	binary.BigEndian.PutUint16(u2[:], uint16(len(sorted)))
	buf.Write(u2[:])

	for _, d := range sorted {
		binary.BigEndian.PutUint16(u2[:], uint16(len(d.Tag)))
		buf.Write(u2[:])
		buf.WriteString(d.Tag)

		binary.BigEndian.PutUint64(u8[:], uint64(d.Version))
		buf.Write(u8[:])
	}

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])
	buf.Write(payload)

	return buf.Bytes(), nil
}

// DecodeEntry parses an entry frame. The returned payload aliases b.
// Trailing bytes after the payload are rejected.
func DecodeEntry(b []byte) (deps []Dep, payload []byte, err error) {
	const hdr = 4 + 1 + 1 + 2
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindEntry {
		return nil, nil, ErrCorrupt
	}

	off := 6
	n := int(binary.BigEndian.Uint16(b[off : off+2]))
	off += 2

	deps = make([]Dep, 0, n)
	for i := 0; i < n; i++ {
		// nameLen
		if off+2 > len(b) {
			return nil, nil, ErrCorrupt
		}
		nlen := int(binary.BigEndian.Uint16(b[off : off+2]))
		off += 2
		if nlen <= 0 || nlen > len(b)-off {
			return nil, nil, ErrCorrupt
		}
		name := string(b[off : off+nlen])
		off += nlen

		// version
		if off+8 > len(b) {
			return nil, nil, ErrCorrupt
		}
		v := binary.BigEndian.Uint64(b[off : off+8])
		off += 8

		deps = append(deps, Dep{Tag: name, Version: int64(v)})
	}

	// vlen
	if off+4 > len(b) {
		return nil, nil, ErrCorrupt
	}
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off {
		return nil, nil, ErrCorrupt
	}

	return deps, b[off : off+vlen], nil
}
