package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendCloseFlushesFinalFrame(t *testing.T) {
	client := newTestClient("c1", 0, "")

	client.sendClose(NewAuthTimeoutMessage())

	// The reason frame sits in the buffer ahead of the channel close, so the
	// write pump delivers it before the close frame.
	msg := drainOne(t, client)
	assert.Equal(t, MessageTypeAuthTimeout, msg.Type)

	_, open := <-client.Send
	assert.False(t, open, "send channel must be closed after the final frame")
	assert.False(t, client.Alive())
	assert.False(t, client.send(NewHeartbeatAckMessage()), "no frames after close")
}

func TestClient_SendCloseIsIdempotent(t *testing.T) {
	client := newTestClient("c1", 0, "")

	client.sendClose(NewErrorMessage("first"))
	client.sendClose(NewErrorMessage("second"))

	msg := drainOne(t, client)
	data := msg.Data.(ErrorMessage)
	assert.Equal(t, "first", data.Message)

	_, open := <-client.Send
	assert.False(t, open)
}

func TestClient_AuthTimeoutAfterAuthenticationIsNoop(t *testing.T) {
	client := newTestClient("c1", 7, "agent7")

	// Timer callback firing after a successful authenticate must not close
	// the connection.
	client.authTimedOut()

	assert.True(t, client.Alive())
	assert.True(t, client.Authenticated())
	select {
	case msg := <-client.Send:
		t.Fatalf("unexpected frame after authenticated timeout: %v", msg.Type)
	default:
	}
}

func TestClient_LateAuthenticationAfterTimeoutRejected(t *testing.T) {
	client := newTestClient("c1", 0, "")

	client.authTimedOut()

	msg := drainOne(t, client)
	require.Equal(t, MessageTypeAuthTimeout, msg.Type)

	assert.False(t, client.setIdentity(7, "agent7"), "timed-out connection cannot be claimed")
	assert.False(t, client.Authenticated())
}
