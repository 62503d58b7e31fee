// Package json adapts encoding/json values to the incremental codec protocol.
// Each item spans the whole of its stream or frame.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	codec "github.com/oy3o/bytecodec"
)

// NewDecoder decodes one JSON document per item. Bytes after the document
// other than white space are rejected.
func NewDecoder[Item any]() *codec.MonolithicDecoder[Item] {
	return codec.NewMonolithicDecoder(func(data []byte) (Item, error) {
		var item Item
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&item); err != nil {
			return item, err
		}
		if _, err := dec.Token(); err != io.EOF {
			return item, fmt.Errorf("%w: data after the JSON document", codec.ErrInvalidInput)
		}
		return item, nil
	})
}

// NewEncoder encodes one compact JSON document per item, without the
// trailing newline of json.Encoder.
func NewEncoder[Item any]() *codec.MonolithicEncoder[Item] {
	return codec.NewMonolithicEncoder(func(item Item) ([]byte, error) {
		return json.Marshal(item)
	})
}
