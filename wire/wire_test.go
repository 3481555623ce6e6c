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

package wire_test

import (
	"encoding/hex"
	"testing"

	"github.com/treelinedb/gotreeline/internal/test"
	"github.com/treelinedb/gotreeline/wire"
)

type encodeTestDefinition struct {
	CborHex string
	Object  any
}

var encodeTests = []encodeTestDefinition{
	// Simple list of numbers
	{
		CborHex: "83010203",
		Object:  []any{1, 2, 3},
	},
	// Map keys must come out sorted regardless of insertion order
	{
		CborHex: "a361780561790262797a03",
		Object:  map[string]int{"yz": 3, "x": 5, "y": 2},
	},
	// Nested map inside a list
	{
		CborHex: "82a16131016162",
		Object:  []any{map[string]int{"1": 1}, "b"},
	},
}

func TestEncode(t *testing.T) {
	for _, test := range encodeTests {
		cborData, err := wire.Encode(test.Object)
		if err != nil {
			t.Fatalf("failed to encode object to CBOR: %s", err)
		}
		cborHex := hex.EncodeToString(cborData)
		if cborHex != test.CborHex {
			t.Fatalf(
				"object did not encode to expected CBOR\n  got: %s\n  wanted: %s",
				cborHex,
				test.CborHex,
			)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	// Two maps with the same entries added in different orders must encode
	// to identical bytes
	a := map[string]any{"locale": "en", "clientId": "abc", "rulesetId": "r1"}
	b := map[string]any{"rulesetId": "r1", "clientId": "abc", "locale": "en"}
	dataA, err := wire.Encode(a)
	if err != nil {
		t.Fatalf("failed to encode object to CBOR: %s", err)
	}
	dataB, err := wire.Encode(b)
	if err != nil {
		t.Fatalf("failed to encode object to CBOR: %s", err)
	}
	if hex.EncodeToString(dataA) != hex.EncodeToString(dataB) {
		t.Fatalf(
			"equal maps encoded to different CBOR\n  a: %x\n  b: %x",
			dataA,
			dataB,
		)
	}
}

func TestDecode(t *testing.T) {
	cborData := test.DecodeHexString("83010203")
	var dest []int
	n, err := wire.Decode(cborData, &dest)
	if err != nil {
		t.Fatalf("failed to decode CBOR: %s", err)
	}
	if n != len(cborData) {
		t.Fatalf("consumed %d bytes, expected %d", n, len(cborData))
	}
	if len(dest) != 3 || dest[0] != 1 || dest[1] != 2 || dest[2] != 3 {
		t.Fatalf("decoded unexpected value: %v", dest)
	}
}

func TestDecodeUnknownField(t *testing.T) {
	type narrow struct {
		A int `cbor:"a"`
	}
	// {"a": 1, "b": 2} into a struct that only knows "a"
	cborData := test.DecodeHexString("a2616101616202")
	var dest narrow
	if _, err := wire.Decode(cborData, &dest); err == nil {
		t.Fatalf("expected error decoding unknown field, got none")
	}
}

func TestDecodeFullTrailingBytes(t *testing.T) {
	// A complete item followed by a stray byte
	cborData := test.DecodeHexString("8301020300")
	var dest []int
	if err := wire.DecodeFull(cborData, &dest); err == nil {
		t.Fatalf("expected error for trailing bytes, got none")
	}
}
