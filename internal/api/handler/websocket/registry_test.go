package websocket

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(id string, userID uint, username string) *Client {
	c := &Client{
		ID:     id,
		Send:   make(chan Message, 8),
		Logger: zerolog.Nop(),
	}
	if userID != 0 {
		c.setIdentity(userID, username)
	}
	return c
}

func drainOne(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	default:
		t.Fatal("expected a message in the send buffer")
		return Message{}
	}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	registry := NewRegistry(zerolog.Nop())
	client := newTestClient("c1", 7, "agent7")

	registry.Register(7, client)

	found, ok := registry.Lookup(7)
	require.True(t, ok)
	assert.Same(t, client, found)
	assert.Equal(t, 1, registry.Count())
}

func TestRegistry_Lookup_Absent(t *testing.T) {
	registry := NewRegistry(zerolog.Nop())

	_, ok := registry.Lookup(42)
	assert.False(t, ok)
}

func TestRegistry_Register_EvictsPreviousConnection(t *testing.T) {
	registry := NewRegistry(zerolog.Nop())
	old := newTestClient("c-old", 7, "agent7")
	fresh := newTestClient("c-new", 7, "agent7")

	registry.Register(7, old)
	registry.Register(7, fresh)

	found, ok := registry.Lookup(7)
	require.True(t, ok)
	assert.Same(t, fresh, found)
	assert.Equal(t, 1, registry.Count())

	// The evicted connection was told why it is being closed.
	msg := drainOne(t, old)
	assert.Equal(t, MessageTypeError, msg.Type)
}

func TestRegistry_Lookup_SelfHealsStaleMapping(t *testing.T) {
	registry := NewRegistry(zerolog.Nop())
	client := newTestClient("c1", 7, "agent7")

	registry.Register(7, client)
	client.shutdown()

	_, ok := registry.Lookup(7)
	assert.False(t, ok)
	assert.Equal(t, 0, registry.Count())
}

func TestRegistry_Remove_MissingIsNoop(t *testing.T) {
	registry := NewRegistry(zerolog.Nop())

	registry.Remove(99)
	assert.Equal(t, 0, registry.Count())
}

func TestRegistry_RemoveClient_LeavesNewerConnection(t *testing.T) {
	registry := NewRegistry(zerolog.Nop())
	old := newTestClient("c-old", 7, "agent7")
	fresh := newTestClient("c-new", 7, "agent7")

	registry.Register(7, old)
	registry.Register(7, fresh)

	// The evicted connection unwinds after the replacement registered.
	// Its teardown must not tear down the replacement's mapping.
	registry.RemoveClient(old)

	found, ok := registry.Lookup(7)
	require.True(t, ok)
	assert.Same(t, fresh, found)
}

func TestRegistry_RemoveClient_Unauthenticated(t *testing.T) {
	registry := NewRegistry(zerolog.Nop())
	client := newTestClient("c1", 0, "")

	registry.RemoveClient(client)
	assert.Equal(t, 0, registry.Count())
}

func TestRegistry_Snapshot(t *testing.T) {
	registry := NewRegistry(zerolog.Nop())
	registry.Register(1, newTestClient("c1", 1, "alpha"))
	registry.Register(2, newTestClient("c2", 2, "beta"))

	infos := registry.Snapshot()
	require.Len(t, infos, 2)

	usernames := map[uint]string{}
	for _, info := range infos {
		usernames[info.UserID] = info.Username
	}
	assert.Equal(t, "alpha", usernames[1])
	assert.Equal(t, "beta", usernames[2])
}
