// Package msgp adapts code-generated MessagePack types, see
// github.com/tinylib/msgp, to the incremental codec protocol.
package msgp

import (
	"fmt"

	codec "github.com/oy3o/bytecodec"
	"github.com/tinylib/msgp/msgp"
)

type msgpable[Item any] interface {
	*Item
	msgp.Marshaler
	msgp.Unmarshaler
}

// NewDecoder decodes exactly one MessagePack value per item.
func NewDecoder[Item any, ItemPtr msgpable[Item]]() *codec.MonolithicDecoder[Item] {
	return codec.NewMonolithicDecoder(func(data []byte) (Item, error) {
		var item Item
		rest, err := ItemPtr(&item).UnmarshalMsg(data)
		if err != nil {
			return item, err
		}
		if len(rest) > 0 {
			return item, fmt.Errorf("%w: %d bytes after the message", codec.ErrInvalidInput, len(rest))
		}
		return item, nil
	})
}

// NewEncoder encodes one MessagePack value per item.
func NewEncoder[Item any, ItemPtr msgpable[Item]]() *codec.MonolithicEncoder[Item] {
	return codec.NewMonolithicEncoder(func(item Item) ([]byte, error) {
		return ItemPtr(&item).MarshalMsg(nil)
	})
}
