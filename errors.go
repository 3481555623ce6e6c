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

package treeline

import (
	"errors"
)

// ErrInvalidOptions indicates that request options could not be normalized:
// no dataset was provided, the dataset key could not be resolved, or the
// locale is malformed. Raised before any transport call.
var ErrInvalidOptions = errors.New("invalid request options")

// ErrManagerClosed indicates an operation on a closed manager. Raised before
// any transport call.
var ErrManagerClosed = errors.New("manager is closed")
