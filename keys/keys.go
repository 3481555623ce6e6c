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

// Package keys provides identifiers for elements in a remote Treeline
// dataset and set containers used to select operation inputs.
package keys

import (
	"fmt"
)

// ID is an opaque element identifier assigned by the backend
type ID string

// NilID is the zero value for an element identifier
const NilID ID = ""

// InstanceKey uniquely identifies an element within a dataset by its class
// and identifier
type InstanceKey struct {
	Class string `cbor:"class"`
	ID    ID     `cbor:"id"`
}

func (k InstanceKey) String() string {
	return fmt.Sprintf("%s:%s", k.Class, k.ID)
}

// IsValid returns true when both the class and the identifier are set
func (k InstanceKey) IsValid() bool {
	return k.Class != "" && k.ID != NilID
}
