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

package labels_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/treelinedb/gotreeline/labels"
)

func TestFromString(t *testing.T) {
	def := labels.FromString("Widget-1")
	assert.Equal(t, "Widget-1", def.DisplayValue)
	assert.Equal(t, labels.TypeString, def.TypeName)
	assert.Equal(t, "Widget-1", def.RawValue)
	assert.False(t, def.IsEmpty())
}

func TestFromParts(t *testing.T) {
	def := labels.FromParts(
		" - ",
		labels.FromString("Widget"),
		labels.FromString("0x1"),
	)
	assert.Equal(t, "Widget - 0x1", def.DisplayValue)
	assert.Equal(t, labels.TypeComposite, def.TypeName)
	composite, ok := def.RawValue.(labels.Composite)
	assert.True(t, ok)
	assert.Equal(t, " - ", composite.Separator)
	assert.Len(t, composite.Values, 2)
}

func TestIsEmpty(t *testing.T) {
	var def labels.Definition
	assert.True(t, def.IsEmpty())
}
