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

package treeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	treeline "github.com/treelinedb/gotreeline"
	"github.com/treelinedb/gotreeline/internal/test/mockrpc"
)

func TestEnvOptionsUnset(t *testing.T) {
	t.Setenv("TREELINE_LOCALE", "")
	t.Setenv("TREELINE_CLIENT_ID", "")
	options, err := treeline.EnvOptions()
	require.NoError(t, err)
	assert.Empty(t, options)
}

func TestEnvOptions(t *testing.T) {
	t.Setenv("TREELINE_LOCALE", "de")
	t.Setenv("TREELINE_CLIENT_ID", "client-7")
	options, err := treeline.EnvOptions()
	require.NoError(t, err)
	require.Len(t, options, 2)
	m := newTestManager(t, mockrpc.NewHandler(nil), options...)
	assert.Equal(t, "de", m.ActiveLocale())
	assert.Equal(t, "client-7", m.ClientID())
}

func TestEnvOptionsExplicitWins(t *testing.T) {
	t.Setenv("TREELINE_LOCALE", "de")
	t.Setenv("TREELINE_CLIENT_ID", "")
	options, err := treeline.EnvOptions()
	require.NoError(t, err)
	options = append(options, treeline.WithLocale("en"))
	m := newTestManager(t, mockrpc.NewHandler(nil), options...)
	assert.Equal(t, "en", m.ActiveLocale())
}
