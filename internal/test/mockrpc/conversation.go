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

package mockrpc

// EntryType is an enum of conversation entry types
type EntryType int

// Conversation entry types
const (
	EntryTypeNone  EntryType = 0 // Default (invalid) entry type
	EntryTypeCall  EntryType = 1 // Expect an operation call and respond to it
	EntryTypeClose EntryType = 2 // Expect the handler to be closed
)

// ConversationEntry represents one expected interaction with the handler
type ConversationEntry struct {
	Type EntryType
	// Op is the expected operation name for call entries
	Op string
	// VerifyFunc is called with the request object for call entries. A
	// non-nil return fails the conversation
	VerifyFunc func(req any) error
	// Result is returned from the call when Err is nil. It must be a
	// pointer to the operation's result type
	Result any
	// Err is returned from the call (or from Close) instead of a result
	Err error
}
