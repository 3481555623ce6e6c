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
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/treelinedb/gotreeline/rpc"
	"github.com/treelinedb/gotreeline/rules"
	"github.com/treelinedb/gotreeline/state"
)

// The Manager type is a wrapper around an rpc.Handler that exposes the
// backend's hierarchy, content and label operations as local methods and
// keeps client-owned state synchronized with the stateless backend
type Manager struct {
	handler   rpc.Handler
	locale    string
	clientID  string
	logger    *slog.Logger
	registry  *state.Registry
	rulesets  *rules.Store
	onceClose sync.Once
	closed    atomic.Bool
}

// NewManager returns a new Manager object with the specified options. A
// transport handler must be provided via WithHandler; an error is returned
// when it is missing or the configured locale is malformed
func NewManager(options ...ManagerOptionFunc) (*Manager, error) {
	m := &Manager{}
	// Apply provided options functions
	for _, option := range options {
		option(m)
	}
	if m.handler == nil {
		return nil, errors.New("no transport handler provided")
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.clientID == "" {
		m.clientID = uuid.NewString()
	}
	if m.locale != "" {
		// Canonicalize up front so per-request normalization can't fail on
		// a locale the manager was built with
		tag, err := language.Parse(m.locale)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", m.locale, err)
		}
		m.locale = tag.String()
	}
	m.registry = state.NewRegistry(m.handler.RegisterStateHolder)
	m.rulesets = rules.NewStore()
	if err := m.registry.Register(m.rulesets); err != nil {
		return nil, err
	}
	return m, nil
}

// ActiveLocale returns the locale used when request options don't carry one
func (m *Manager) ActiveLocale() string {
	return m.locale
}

// ClientID returns the client id attached to every request
func (m *Manager) ClientID() string {
	return m.clientID
}

// Rulesets returns the ruleset store. Rulesets added there reach the backend
// with the next operation
func (m *Manager) Rulesets() *rules.Store {
	return m.rulesets
}

// Vars returns the variables holder for the given ruleset id, creating it on
// first use. Subsequent calls with the same id return the identical
// instance for the manager's lifetime.
func (m *Manager) Vars(rulesetID string) *rules.Variables {
	holder := m.registry.GetOrCreate(rulesetID, func() state.Holder {
		m.logger.Debug(
			"creating ruleset variables holder",
			"component", "treeline",
			"client_id", m.clientID,
			"ruleset_id", rulesetID,
		)
		return rules.NewVariables(rulesetID)
	})
	vars, ok := holder.(*rules.Variables)
	if !ok {
		// Reachable only when a ruleset id collides with the reserved
		// rulesets store key
		panic(fmt.Sprintf(
			"state holder %q is not a ruleset variables holder",
			rulesetID,
		))
	}
	return vars
}

// Close releases the transport handler. Operations after Close fail with
// ErrManagerClosed. Close is idempotent; only the first call can return an
// error
func (m *Manager) Close() error {
	var err error
	m.onceClose.Do(func() {
		m.closed.Store(true)
		m.logger.Debug(
			"closing manager",
			"component", "treeline",
			"client_id", m.clientID,
		)
		err = m.handler.Close()
	})
	return err
}

// prepareRequest builds the request base for an operation: fail fast when
// closed, normalize the options, snapshot the state registry
func (m *Manager) prepareRequest(raw RequestOptions) (rpc.RequestBase, error) {
	if m.closed.Load() {
		return rpc.RequestBase{}, ErrManagerClosed
	}
	options, err := m.normalize(raw)
	if err != nil {
		return rpc.RequestBase{}, err
	}
	snapshot, err := m.registry.Snapshot()
	if err != nil {
		return rpc.RequestBase{}, fmt.Errorf("snapshot client state: %w", err)
	}
	return rpc.RequestBase{
		Options: options,
		State:   snapshot,
	}, nil
}

// remoteErr wraps a handler failure as an rpc.RemoteError, preserving the
// cause. Errors that already are remote errors pass through unchanged
func (m *Manager) remoteErr(op string, err error) error {
	var remoteErr *rpc.RemoteError
	if errors.As(err, &remoteErr) {
		return err
	}
	return &rpc.RemoteError{
		Op:  op,
		Err: err,
	}
}
