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

// Package labels provides display label values produced by the backend
package labels

import (
	"strings"
)

// Value type names used in label definitions
const (
	TypeString    = "string"
	TypeComposite = "composite"
)

// Definition is a backend-computed display label. RawValue carries the
// underlying value: a plain string for simple labels or a Composite for
// labels assembled from multiple parts
type Definition struct {
	DisplayValue string `cbor:"displayValue"`
	TypeName     string `cbor:"typeName"`
	RawValue     any    `cbor:"rawValue,omitempty"`
}

// Composite is the raw value of a label assembled from multiple parts
type Composite struct {
	Separator string       `cbor:"separator"`
	Values    []Definition `cbor:"values"`
}

// FromString creates a simple string label definition
func FromString(value string) Definition {
	return Definition{
		DisplayValue: value,
		TypeName:     TypeString,
		RawValue:     value,
	}
}

// FromParts creates a composite label definition whose display value joins
// the parts with the provided separator
func FromParts(separator string, parts ...Definition) Definition {
	displayParts := make([]string, 0, len(parts))
	for _, part := range parts {
		displayParts = append(displayParts, part.DisplayValue)
	}
	return Definition{
		DisplayValue: strings.Join(displayParts, separator),
		TypeName:     TypeComposite,
		RawValue: Composite{
			Separator: separator,
			Values:    parts,
		},
	}
}

// IsEmpty returns true for the zero-value definition
func (d Definition) IsEmpty() bool {
	return d.DisplayValue == "" && d.TypeName == "" && d.RawValue == nil
}
