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

package hierarchy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treelinedb/gotreeline/hierarchy"
	"github.com/treelinedb/gotreeline/keys"
	"github.com/treelinedb/gotreeline/labels"
	"github.com/treelinedb/gotreeline/wire"
)

func TestNodeKeyEqual(t *testing.T) {
	a := hierarchy.NodeKey{
		Type:         hierarchy.NodeInstances,
		PathFromRoot: []string{"p0", "p1"},
	}
	b := hierarchy.NodeKey{
		Type:         hierarchy.NodeInstances,
		PathFromRoot: []string{"p0", "p1"},
		InstanceKeys: []keys.InstanceKey{{Class: "Widget", ID: "0x1"}},
	}
	c := hierarchy.NodeKey{
		Type:         hierarchy.NodeInstances,
		PathFromRoot: []string{"p0", "p2"},
	}
	d := hierarchy.NodeKey{
		Type:         hierarchy.NodeLabelGrouping,
		PathFromRoot: []string{"p0", "p1"},
	}
	// Instance keys don't participate in identity
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestNodeWireRoundTrip(t *testing.T) {
	node := hierarchy.Node{
		Key: hierarchy.NodeKey{
			Type:         hierarchy.NodeInstances,
			PathFromRoot: []string{"p0"},
			InstanceKeys: []keys.InstanceKey{{Class: "Widget", ID: "0x1"}},
		},
		Label:       labels.FromString("Widget-1"),
		HasChildren: true,
	}
	data, err := wire.Encode(node)
	require.NoError(t, err)
	var decoded hierarchy.Node
	_, err = wire.Decode(data, &decoded)
	require.NoError(t, err)
	assert.True(t, node.Key.Equal(decoded.Key))
	assert.Equal(t, node.Label.DisplayValue, decoded.Label.DisplayValue)
	assert.Equal(t, node.HasChildren, decoded.HasChildren)
}
