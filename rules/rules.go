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

// Package rules provides presentation ruleset types and the client-side
// state holders that keep registered rulesets and ruleset variables
// available to the stateless backend.
package rules

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/treelinedb/gotreeline/wire"
)

// Ruleset is a named set of presentation rules. The rule content is opaque
// to the client; the backend interprets it when producing hierarchies and
// content
type Ruleset struct {
	ID      string `cbor:"id"`
	Version string `cbor:"version,omitempty"`
	Rules   any    `cbor:"rules,omitempty"`
}

// Digest returns the blake2b-256 hash of the ruleset's canonical encoding,
// hex encoded. The backend uses it as a cache identity: equal rulesets
// digest equal regardless of how the client assembled them
func (r Ruleset) Digest() (string, error) {
	data, err := wire.Encode(r)
	if err != nil {
		return "", fmt.Errorf("encode ruleset %s: %w", r.ID, err)
	}
	digest := blake2b.Sum256(data)
	return hex.EncodeToString(digest[:]), nil
}
