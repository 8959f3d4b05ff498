package presence

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSessionFirstAndSecond(t *testing.T) {
	reg := NewRegistry()

	first := reg.AddSession("s1", "bob")
	assert.True(t, first)
	assert.True(t, reg.IsOnline("bob"))

	second := reg.AddSession("s2", "bob")
	assert.False(t, second)
	assert.Equal(t, 2, reg.SessionCount("bob"))
}

func TestAddSessionIdempotentPerSessionID(t *testing.T) {
	reg := NewRegistry()

	reg.AddSession("s1", "bob")
	first := reg.AddSession("s1", "bob")
	assert.False(t, first)
	assert.Equal(t, 1, reg.SessionCount("bob"))
}

func TestRemoveSessionLastGoesOffline(t *testing.T) {
	reg := NewRegistry()
	reg.AddSession("s1", "bob")
	reg.AddSession("s2", "bob")

	username, offline := reg.RemoveSession("s1")
	assert.Equal(t, "bob", username)
	assert.False(t, offline)
	assert.True(t, reg.IsOnline("bob"))

	username, offline = reg.RemoveSession("s2")
	assert.Equal(t, "bob", username)
	assert.True(t, offline)
	assert.False(t, reg.IsOnline("bob"))
	assert.Equal(t, 0, reg.SessionCount("bob"))
}

func TestRemoveUnknownSession(t *testing.T) {
	reg := NewRegistry()

	username, offline := reg.RemoveSession("nope")
	assert.Empty(t, username)
	assert.False(t, offline)
}

func TestOnlineUsersSnapshot(t *testing.T) {
	reg := NewRegistry()
	reg.AddSession("s1", "alice")
	reg.AddSession("s2", "bob")
	reg.AddSession("s3", "bob")

	users := reg.OnlineUsers()
	require.Len(t, users, 2)
	assert.ElementsMatch(t, []string{"alice", "bob"}, users)
	assert.Equal(t, 2, reg.OnlineCount())
}

func TestConcurrentConnectDisconnect(t *testing.T) {
	reg := NewRegistry()

	const workers = 32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", n%4)
			for j := 0; j < 100; j++ {
				session := fmt.Sprintf("s-%d-%d", n, j)
				reg.AddSession(session, user)
				reg.IsOnline(user)
				reg.OnlineUsers()
				reg.RemoveSession(session)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, reg.OnlineCount())
	for i := 0; i < 4; i++ {
		assert.False(t, reg.IsOnline(fmt.Sprintf("user-%d", i)))
	}
}
