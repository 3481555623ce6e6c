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

package rules

import (
	"sort"
	"sync"

	"github.com/treelinedb/gotreeline/keys"
	"github.com/treelinedb/gotreeline/wire"
)

// Variable value kinds
const (
	KindBool    = "bool"
	KindString  = "string"
	KindInt     = "int"
	KindIntList = "intList"
	KindID      = "id"
	KindIDList  = "idList"
)

// Variable is a single named ruleset variable value
type Variable struct {
	Name  string `cbor:"name"`
	Kind  string `cbor:"kind"`
	Value any    `cbor:"value"`
}

// UnmarshalCBOR decodes a variable, re-typing the value according to its
// kind so that decoded values compare equal to the originals
func (v *Variable) UnmarshalCBOR(data []byte) error {
	var tmp struct {
		Name  string          `cbor:"name"`
		Kind  string          `cbor:"kind"`
		Value wire.RawMessage `cbor:"value"`
	}
	if _, err := wire.Decode(data, &tmp); err != nil {
		return err
	}
	v.Name = tmp.Name
	v.Kind = tmp.Kind
	switch tmp.Kind {
	case KindBool:
		var value bool
		if _, err := wire.Decode(tmp.Value, &value); err != nil {
			return err
		}
		v.Value = value
	case KindString:
		var value string
		if _, err := wire.Decode(tmp.Value, &value); err != nil {
			return err
		}
		v.Value = value
	case KindInt:
		var value int64
		if _, err := wire.Decode(tmp.Value, &value); err != nil {
			return err
		}
		v.Value = value
	case KindIntList:
		var value []int64
		if _, err := wire.Decode(tmp.Value, &value); err != nil {
			return err
		}
		v.Value = value
	case KindID:
		var value keys.ID
		if _, err := wire.Decode(tmp.Value, &value); err != nil {
			return err
		}
		v.Value = value
	case KindIDList:
		var value []keys.ID
		if _, err := wire.Decode(tmp.Value, &value); err != nil {
			return err
		}
		v.Value = value
	default:
		var value any
		if _, err := wire.Decode(tmp.Value, &value); err != nil {
			return err
		}
		v.Value = value
	}
	return nil
}

// Variables holds the variable values for one ruleset. It implements
// state.Holder keyed by the ruleset id, so values set here reach the backend
// with the next request. All mutations are local; reading an absent or
// differently-typed name yields the zero value with ok=false.
//
// Instances are created through the owning manager's Vars method, which
// guarantees a single instance per ruleset id for the manager's lifetime.
type Variables struct {
	mutex     sync.Mutex
	rulesetID string
	values    map[string]Variable
}

// NewVariables creates an empty variables holder for a ruleset
func NewVariables(rulesetID string) *Variables {
	return &Variables{
		rulesetID: rulesetID,
		values:    map[string]Variable{},
	}
}

// RulesetID returns the id of the ruleset the variables belong to
func (v *Variables) RulesetID() string {
	return v.rulesetID
}

// Key implements state.Holder
func (v *Variables) Key() string {
	return v.rulesetID
}

func (v *Variables) set(name string, kind string, value any) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.values[name] = Variable{
		Name:  name,
		Kind:  kind,
		Value: value,
	}
}

func (v *Variables) get(name string, kind string) (any, bool) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	variable, ok := v.values[name]
	if !ok || variable.Kind != kind {
		return nil, false
	}
	return variable.Value, true
}

// SetBool sets a boolean variable
func (v *Variables) SetBool(name string, value bool) {
	v.set(name, KindBool, value)
}

// GetBool returns a boolean variable value
func (v *Variables) GetBool(name string) (bool, bool) {
	value, ok := v.get(name, KindBool)
	if !ok {
		return false, false
	}
	return value.(bool), true
}

// SetString sets a string variable
func (v *Variables) SetString(name string, value string) {
	v.set(name, KindString, value)
}

// GetString returns a string variable value
func (v *Variables) GetString(name string) (string, bool) {
	value, ok := v.get(name, KindString)
	if !ok {
		return "", false
	}
	return value.(string), true
}

// SetInt sets an integer variable
func (v *Variables) SetInt(name string, value int64) {
	v.set(name, KindInt, value)
}

// GetInt returns an integer variable value
func (v *Variables) GetInt(name string) (int64, bool) {
	value, ok := v.get(name, KindInt)
	if !ok {
		return 0, false
	}
	return value.(int64), true
}

// SetIntList sets an integer list variable. The provided slice is copied
func (v *Variables) SetIntList(name string, values []int64) {
	tmpValues := make([]int64, len(values))
	copy(tmpValues, values)
	v.set(name, KindIntList, tmpValues)
}

// GetIntList returns an integer list variable value as a copy
func (v *Variables) GetIntList(name string) ([]int64, bool) {
	value, ok := v.get(name, KindIntList)
	if !ok {
		return nil, false
	}
	stored := value.([]int64)
	ret := make([]int64, len(stored))
	copy(ret, stored)
	return ret, true
}

// SetID sets an element id variable
func (v *Variables) SetID(name string, value keys.ID) {
	v.set(name, KindID, value)
}

// GetID returns an element id variable value
func (v *Variables) GetID(name string) (keys.ID, bool) {
	value, ok := v.get(name, KindID)
	if !ok {
		return keys.NilID, false
	}
	return value.(keys.ID), true
}

// SetIDList sets an element id list variable. The provided slice is copied
func (v *Variables) SetIDList(name string, values []keys.ID) {
	tmpValues := make([]keys.ID, len(values))
	copy(tmpValues, values)
	v.set(name, KindIDList, tmpValues)
}

// GetIDList returns an element id list variable value as a copy
func (v *Variables) GetIDList(name string) ([]keys.ID, bool) {
	value, ok := v.get(name, KindIDList)
	if !ok {
		return nil, false
	}
	stored := value.([]keys.ID)
	ret := make([]keys.ID, len(stored))
	copy(ret, stored)
	return ret, true
}

// Unset removes a variable value. Unsetting an absent name is a no-op
func (v *Variables) Unset(name string) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	delete(v.values, name)
}

// Len returns the number of set variables
func (v *Variables) Len() int {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return len(v.values)
}

// State implements state.Holder. Entries are sorted by variable name
func (v *Variables) State() (any, error) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	ret := make([]Variable, 0, len(v.values))
	for _, variable := range v.values {
		ret = append(ret, variable)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Name < ret[j].Name
	})
	return ret, nil
}
