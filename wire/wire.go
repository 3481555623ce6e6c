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

// Package wire provides the CBOR encoding used on the Treeline protocol
// boundary. Encoding is deterministic (core deterministic map key sort) so
// that identical client state always produces identical bytes, which the
// backend relies on for caching.
package wire

import (
	_cbor "github.com/fxamacker/cbor/v2"
)

// RawMessage is an alias for convenience
type RawMessage = _cbor.RawMessage
