// Package rpcapi holds the wire contracts shared by the gRPC services.
//
// Messages are plain Go structs encoded as JSON. The codec is registered with
// grpc-go under the "json" content-subtype, so clients select it per call with
// grpc.CallContentSubtype(rpcapi.CodecName) and servers pick it up from the
// incoming content-type automatically.
package rpcapi

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName is the content-subtype used on the wire ("application/grpc+json").
const CodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rpcapi: marshal %T: %w", v, err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("rpcapi: unmarshal %T: %w", v, err)
	}
	return nil
}

func (jsonCodec) Name() string { return CodecName }

// CallOption forces the JSON codec on an outgoing call.
func CallOption() grpc.CallOption {
	return grpc.CallContentSubtype(CodecName)
}
