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

package keys_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treelinedb/gotreeline/keys"
	"github.com/treelinedb/gotreeline/wire"
)

func TestKeySetAddRemove(t *testing.T) {
	ks := keys.NewKeySet()
	a := keys.InstanceKey{Class: "Widget", ID: "0x1"}
	b := keys.InstanceKey{Class: "Widget", ID: "0x2"}
	c := keys.InstanceKey{Class: "Gadget", ID: "0x1"}
	ks.Add(a, b, c)
	assert.Equal(t, 3, ks.Size())
	assert.True(t, ks.Has(a))
	assert.True(t, ks.Has(c))
	// Duplicate adds don't grow the set
	ks.Add(a)
	assert.Equal(t, 3, ks.Size())
	ks.Remove(b)
	assert.Equal(t, 2, ks.Size())
	assert.False(t, ks.Has(b))
	// Removing an absent key is a no-op
	ks.Remove(b)
	assert.Equal(t, 2, ks.Size())
}

func TestKeySetIgnoresInvalidKeys(t *testing.T) {
	ks := keys.NewKeySet(
		keys.InstanceKey{Class: "", ID: "0x1"},
		keys.InstanceKey{Class: "Widget", ID: keys.NilID},
	)
	assert.Equal(t, 0, ks.Size())
}

func TestKeySetKeysSorted(t *testing.T) {
	ks := keys.NewKeySet(
		keys.InstanceKey{Class: "Widget", ID: "0x2"},
		keys.InstanceKey{Class: "Gadget", ID: "0x9"},
		keys.InstanceKey{Class: "Widget", ID: "0x1"},
	)
	expected := []keys.InstanceKey{
		{Class: "Gadget", ID: "0x9"},
		{Class: "Widget", ID: "0x1"},
		{Class: "Widget", ID: "0x2"},
	}
	assert.Equal(t, expected, ks.Keys())
}

func TestKeySetWireDeterminism(t *testing.T) {
	a := keys.NewKeySet(
		keys.InstanceKey{Class: "Widget", ID: "0x1"},
		keys.InstanceKey{Class: "Gadget", ID: "0x9"},
	)
	b := keys.NewKeySet(
		keys.InstanceKey{Class: "Gadget", ID: "0x9"},
		keys.InstanceKey{Class: "Widget", ID: "0x1"},
	)
	dataA, err := wire.Encode(a)
	require.NoError(t, err)
	dataB, err := wire.Encode(b)
	require.NoError(t, err)
	assert.Equal(t, dataA, dataB)
}

func TestKeySetWireRoundTrip(t *testing.T) {
	ks := keys.NewKeySet(
		keys.InstanceKey{Class: "Widget", ID: "0x1"},
		keys.InstanceKey{Class: "Widget", ID: "0x2"},
		keys.InstanceKey{Class: "Gadget", ID: "0x9"},
	)
	data, err := wire.Encode(ks)
	require.NoError(t, err)
	decoded := keys.NewKeySet()
	_, err = wire.Decode(data, decoded)
	require.NoError(t, err)
	assert.Equal(t, ks.Keys(), decoded.Keys())
	assert.Equal(t, ks.Size(), decoded.Size())
}
