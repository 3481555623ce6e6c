// Copyright 2025 Treeline Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package grpcrpc

import (
	"github.com/treelinedb/gotreeline/wire"
)

// Codec implements gRPC message encoding using the same deterministic CBOR
// mode as the stream transport, so both transports exchange identical
// message bytes. Servers must install it with grpc.ForceServerCodec; the
// client forces it on every call
type Codec struct{}

// Marshal implements encoding.Codec
func (Codec) Marshal(v any) ([]byte, error) {
	return wire.Encode(v)
}

// Unmarshal implements encoding.Codec
func (Codec) Unmarshal(data []byte, v any) error {
	return wire.DecodeFull(data, v)
}

// Name implements encoding.Codec. It is used as the gRPC content subtype
func (Codec) Name() string {
	return "cbor"
}
