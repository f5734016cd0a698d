// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package editor

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejzpr/xref-mcp/internal/legal"
)

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	r := NewRegistry(Options{Lookup: newFakeLookup()})

	a := r.Get("client-a")
	b := r.Get("client-b")
	assert.NotSame(t, a, b)
	assert.Same(t, a, r.Get("client-a"))

	from, err := a.Select(context.Background(), "lov-56-3-1")
	require.NoError(t, err)
	to, err := a.Select(context.Background(), "for-1319-1-1")
	require.NoError(t, err)
	_, err = a.Add(from, to, legal.RelationCites, "")
	require.NoError(t, err)

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())
}

func TestRegistry_DefaultAndDrop(t *testing.T) {
	r := NewRegistry(Options{})

	assert.Same(t, r.Get(""), r.Get(DefaultSessionID))
	r.Get("other")
	assert.Equal(t, 2, r.Len())

	r.Drop("other")
	r.Drop("never-seen")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ConcurrentGet(t *testing.T) {
	r := NewRegistry(Options{})

	var wg sync.WaitGroup
	sessions := make([]*Session, 20)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i] = r.Get("shared")
		}(i)
	}
	wg.Wait()

	for _, s := range sessions {
		assert.Same(t, sessions[0], s)
	}
}
