package chat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryTryAddEnforcesUniqueness(t *testing.T) {
	registry := NewRegistry()

	alice := newSession("alice", "#3498db", 4)
	require.True(t, registry.TryAdd("alice", alice))

	imposter := newSession("alice", "#e74c3c", 4)
	require.False(t, registry.TryAdd("alice", imposter))

	got, ok := registry.Lookup("alice")
	require.True(t, ok)
	require.Same(t, alice, got)
}

func TestRegistryTryAddRejectsEmptyUsername(t *testing.T) {
	registry := NewRegistry()

	require.False(t, registry.TryAdd("", newSession("", "#3498db", 4)))
	require.Zero(t, registry.Count())
}

func TestRegistryRemoveIsIdempotent(t *testing.T) {
	registry := NewRegistry()
	registry.TryAdd("alice", newSession("alice", "#3498db", 4))

	registry.Remove("alice")
	registry.Remove("alice")
	registry.Remove("never-joined")

	_, ok := registry.Lookup("alice")
	require.False(t, ok)
	require.Zero(t, registry.Count())
}

func TestRegistryConcurrentTryAddAdmitsExactlyOne(t *testing.T) {
	registry := NewRegistry()

	const attempts = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if registry.TryAdd("alice", newSession("alice", "#3498db", 4)) {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, successes)
	require.Equal(t, 1, registry.Count())
}

func TestRegistrySnapshotIsDetachedFromLiveMap(t *testing.T) {
	registry := NewRegistry()
	registry.TryAdd("alice", newSession("alice", "#3498db", 4))

	snapshot := registry.Snapshot()
	require.Len(t, snapshot, 1)

	registry.TryAdd("bob", newSession("bob", "#2ecc71", 4))
	registry.Remove("alice")

	require.Len(t, snapshot, 1)
	require.Equal(t, "alice", snapshot[0].Username)
}

func TestRegistryUsernamesSorted(t *testing.T) {
	registry := NewRegistry()
	registry.TryAdd("carol", newSession("carol", "#f1c40f", 4))
	registry.TryAdd("alice", newSession("alice", "#3498db", 4))
	registry.TryAdd("bob", newSession("bob", "#2ecc71", 4))

	require.Equal(t, []string{"alice", "bob", "carol"}, registry.Usernames())
}
