// Package gob adapts encoding/gob values to the incremental codec protocol.
package gob

import (
	"bytes"
	"encoding/gob"

	codec "github.com/oy3o/bytecodec"
)

// NewDecoder decodes one self-describing gob stream per item.
func NewDecoder[Item any]() *codec.MonolithicDecoder[Item] {
	return codec.NewMonolithicDecoder(func(data []byte) (Item, error) {
		var item Item
		err := gob.NewDecoder(bytes.NewReader(data)).Decode(&item)
		return item, err
	})
}

// NewEncoder encodes one self-describing gob stream per item.
func NewEncoder[Item any]() *codec.MonolithicEncoder[Item] {
	return codec.NewMonolithicEncoder(func(item Item) ([]byte, error) {
		buf := new(bytes.Buffer)
		if err := gob.NewEncoder(buf).Encode(&item); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}
