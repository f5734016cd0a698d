// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package editor

import "sync"

// DefaultSessionID is used when a request carries no client session
const DefaultSessionID = "default"

// Registry hands out one Session per client session
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     Options
}

// NewRegistry creates a registry whose sessions share opts
func NewRegistry(opts Options) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Get returns the session for id, creating it on first use
func (r *Registry) Get(id string) *Session {
	if id == "" {
		id = DefaultSessionID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		s = NewSession(r.opts)
		r.sessions[id] = s
	}
	return s
}

// Drop forgets the session for id, discarding its unsaved draft
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
