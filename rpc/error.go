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

package rpc

import (
	"fmt"
)

// RemoteError wraps any failure that occurred while executing an operation
// remotely: transport failures, cancelled calls and backend-reported errors.
// The cause is preserved unchanged and available via Unwrap.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s failed: %s", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// BackendError is a failure reported by the backend itself, as opposed to a
// failure reaching it
type BackendError struct {
	Code    string `cbor:"code"`
	Message string `cbor:"message"`
}

func (e *BackendError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
