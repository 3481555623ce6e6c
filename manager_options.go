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
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"

	"github.com/treelinedb/gotreeline/rpc"
)

// ManagerOptionFunc is a type that represents functions that modify the
// Manager config
type ManagerOptionFunc func(*Manager)

// WithHandler specifies the transport handler to use. A handler is required
func WithHandler(handler rpc.Handler) ManagerOptionFunc {
	return func(m *Manager) {
		m.handler = handler
	}
}

// WithLocale specifies the active locale used when request options don't
// carry one. The default is empty, which lets the backend pick its default
func WithLocale(locale string) ManagerOptionFunc {
	return func(m *Manager) {
		m.locale = locale
	}
}

// WithClientID specifies the client id attached to every request. The
// backend uses it to scope caches to a client. If none is provided, a fresh
// unique id is generated
func WithClientID(clientID string) ManagerOptionFunc {
	return func(m *Manager) {
		m.clientID = clientID
	}
}

// WithLogger specifies the logger to use. If none is provided,
// slog.Default() is used
func WithLogger(logger *slog.Logger) ManagerOptionFunc {
	return func(m *Manager) {
		m.logger = logger
	}
}

type envConfig struct {
	Locale   string `env:"TREELINE_LOCALE"`
	ClientID string `env:"TREELINE_CLIENT_ID"`
}

// EnvOptions returns manager options derived from the TREELINE_LOCALE and
// TREELINE_CLIENT_ID environment variables. Hosts that persist a client id
// across sessions keep their backend caches warm between runs. Unset
// variables produce no options, so explicit options given after these win.
func EnvOptions() ([]ManagerOptionFunc, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	var ret []ManagerOptionFunc
	if cfg.Locale != "" {
		ret = append(ret, WithLocale(cfg.Locale))
	}
	if cfg.ClientID != "" {
		ret = append(ret, WithClientID(cfg.ClientID))
	}
	return ret, nil
}
