// Package msgpack adapts reflection-based MessagePack values, using
// github.com/ugorji/go/codec, to the incremental codec protocol.
package msgpack

import (
	codec "github.com/oy3o/bytecodec"
	ugorji "github.com/ugorji/go/codec"
)

// Handle returns a MessagePack handle with the settings used by this package:
// strings are written as str and raw bytes as bin.
func Handle() *ugorji.MsgpackHandle {
	h := new(ugorji.MsgpackHandle)
	h.WriteExt = true
	h.RawToString = true
	return h
}

// NewDecoder decodes one MessagePack value per item.
func NewDecoder[Item any](h *ugorji.MsgpackHandle) *codec.MonolithicDecoder[Item] {
	if h == nil {
		h = Handle()
	}
	return codec.NewMonolithicDecoder(func(data []byte) (Item, error) {
		var item Item
		err := ugorji.NewDecoderBytes(data, h).Decode(&item)
		return item, err
	})
}

// NewEncoder encodes one MessagePack value per item.
func NewEncoder[Item any](h *ugorji.MsgpackHandle) *codec.MonolithicEncoder[Item] {
	if h == nil {
		h = Handle()
	}
	return codec.NewMonolithicEncoder(func(item Item) ([]byte, error) {
		var b []byte
		if err := ugorji.NewEncoderBytes(&b, h).Encode(item); err != nil {
			return nil, err
		}
		return b, nil
	})
}
