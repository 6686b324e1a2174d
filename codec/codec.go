// Package codec converts cached values to and from the payload bytes stored
// inside an entity entry. tagcache owns the surrounding frame (dependency
// snapshot and lengths); a codec only ever sees the value.
package codec

// Codec encodes/decodes values V to []byte for storage. Decode must not retain
// b: it may alias a provider-owned buffer.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
