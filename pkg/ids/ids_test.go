// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package ids

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratorMonotonic(t *testing.T) {
	g := NewGenerator()
	seen := map[ID]bool{}
	var prev ID
	for i := 0; i < 100; i++ {
		id := g.Next()
		require.False(t, seen[id], "id %d reused", id)
		require.Greater(t, id, prev, "id %d not greater than previous %d", id, prev)
		seen[id] = true
		prev = id
	}
}

func TestGeneratorPeekDoesNotAllocate(t *testing.T) {
	g := NewGenerator()
	p := g.Peek()
	require.Equal(t, p, g.Next())
}

func TestAtomicGeneratorConcurrentUnique(t *testing.T) {
	g := NewAtomicGenerator()
	const n = 1000
	ids := make([]ID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = g.Next()
		}(i)
	}
	wg.Wait()

	seen := map[ID]bool{}
	for _, id := range ids {
		require.False(t, seen[id], "id %d reused", id)
		seen[id] = true
	}
	require.Len(t, seen, n)
}
