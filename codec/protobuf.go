package codec

import (
	"errors"

	"google.golang.org/protobuf/proto"
)

// ErrNilMessage is returned when encoding a nil protobuf message.
var ErrNilMessage = errors.New("codec: nil protobuf message")

// Protobuf is a Codec for generated protobuf messages. Encoding is
// deterministic so the same message always yields the same payload.
type Protobuf[T proto.Message] struct {
	new func() T // e.g. func() *userpb.User { return &userpb.User{} }

	// DiscardUnknown drops fields unknown to T when decoding, which keeps
	// entries written by a newer schema readable.
	DiscardUnknown bool
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	if ctor == nil {
		panic("codec: NewProtobuf requires a constructor")
	}
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	if !v.ProtoReflect().IsValid() {
		return nil, ErrNilMessage
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.UnmarshalOptions{DiscardUnknown: c.DiscardUnknown}.Unmarshal(b, m)
	return m, err
}
