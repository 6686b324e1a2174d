package codec

import "bytes"

// Bytes stores []byte values as-is, leaving only tagcache's entry framing
// and dependency validation around them. Decode returns a copy so callers
// never share a buffer with the provider.
type Bytes struct{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }
func (Bytes) Decode(b []byte) ([]byte, error) { return bytes.Clone(b), nil }

// String stores Go strings as their raw bytes. No UTF-8 validation is done.
type String struct{}

func (String) Encode(s string) ([]byte, error) { return []byte(s), nil }
func (String) Decode(b []byte) (string, error) { return string(b), nil }
