package server

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/loxbc/pkg/wire"
)

// cborCodec carries service messages as canonical CBOR, the same encoding
// used for chunk envelopes. It is registered on both handlers and clients.
type cborCodec struct{}

func (cborCodec) Name() string { return "cbor" }

func (cborCodec) Marshal(v any) ([]byte, error) {
	return wire.EncMode().Marshal(v)
}

func (cborCodec) Unmarshal(data []byte, v any) error {
	return cbor.Unmarshal(data, v)
}
