package websocket

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printhub/internal/api/models"
)

type fakeAuthenticator struct {
	user models.User
	err  error
}

func (f *fakeAuthenticator) ResolveAPIKey(apiKey string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	return f.user, nil
}

type fakeJobUpdater struct {
	calls []StatusUpdateData
	err   error
}

func (f *fakeJobUpdater) UpdateStatus(jobID uint, status string, errText string) (models.PrintJob, error) {
	f.calls = append(f.calls, StatusUpdateData{JobID: jobID, Status: status, Error: errText})
	if f.err != nil {
		return models.PrintJob{}, f.err
	}
	return models.PrintJob{ID: jobID, Status: status}, nil
}

func newTestProcessor(auth *fakeAuthenticator, jobs *fakeJobUpdater) (*MessageProcessor, *Registry) {
	registry := NewRegistry(zerolog.Nop())
	return NewMessageProcessor(auth, jobs, registry, zerolog.Nop()), registry
}

func TestProcessor_Authenticate_Success(t *testing.T) {
	auth := &fakeAuthenticator{user: models.User{ID: 7, Username: "agent7"}}
	processor, registry := newTestProcessor(auth, &fakeJobUpdater{})
	client := newTestClient("c1", 0, "")

	msg := Message{Type: MessageTypeAuthenticate, Data: AuthenticateData{APIKey: "key"}}
	processor.Handle(client, &msg)

	assert.True(t, client.Authenticated())
	userID, username := client.Identity()
	assert.Equal(t, uint(7), userID)
	assert.Equal(t, "agent7", username)

	_, ok := registry.Lookup(7)
	assert.True(t, ok)

	reply := drainOne(t, client)
	require.Equal(t, MessageTypeAuthenticated, reply.Type)
	data := reply.Data.(AuthenticatedData)
	assert.True(t, data.Success)
	assert.Equal(t, uint(7), data.UserID)
}

func TestProcessor_Authenticate_BadKey(t *testing.T) {
	auth := &fakeAuthenticator{err: errors.New("no such key")}
	processor, registry := newTestProcessor(auth, &fakeJobUpdater{})
	client := newTestClient("c1", 0, "")

	msg := Message{Type: MessageTypeAuthenticate, Data: AuthenticateData{APIKey: "bogus"}}
	processor.Handle(client, &msg)

	assert.False(t, client.Authenticated())
	assert.Equal(t, 0, registry.Count())

	reply := drainOne(t, client)
	require.Equal(t, MessageTypeAuthenticated, reply.Type)
	data := reply.Data.(AuthenticatedData)
	assert.False(t, data.Success)
	assert.NotEmpty(t, data.Error)
}

func TestProcessor_Authenticate_MissingKey(t *testing.T) {
	processor, _ := newTestProcessor(&fakeAuthenticator{}, &fakeJobUpdater{})
	client := newTestClient("c1", 0, "")

	msg := Message{Type: MessageTypeAuthenticate, Data: AuthenticateData{}}
	processor.Handle(client, &msg)

	assert.False(t, client.Authenticated())
	reply := drainOne(t, client)
	data := reply.Data.(AuthenticatedData)
	assert.False(t, data.Success)
}

func TestProcessor_Reauthenticate_EvictsOldConnection(t *testing.T) {
	auth := &fakeAuthenticator{user: models.User{ID: 7, Username: "agent7"}}
	processor, registry := newTestProcessor(auth, &fakeJobUpdater{})

	old := newTestClient("c-old", 0, "")
	processor.Handle(old, &Message{Type: MessageTypeAuthenticate, Data: AuthenticateData{APIKey: "key"}})
	drainOne(t, old)

	fresh := newTestClient("c-new", 0, "")
	processor.Handle(fresh, &Message{Type: MessageTypeAuthenticate, Data: AuthenticateData{APIKey: "key"}})

	found, ok := registry.Lookup(7)
	require.True(t, ok)
	assert.Same(t, fresh, found)
}

func TestProcessor_StatusUpdate(t *testing.T) {
	jobs := &fakeJobUpdater{}
	processor, _ := newTestProcessor(&fakeAuthenticator{}, jobs)
	client := newTestClient("c1", 7, "agent7")

	msg := Message{
		Type: MessageTypeStatusUpdate,
		Data: StatusUpdateData{JobID: 12, Status: models.JobStatusCompleted},
	}
	processor.Handle(client, &msg)

	require.Len(t, jobs.calls, 1)
	assert.Equal(t, uint(12), jobs.calls[0].JobID)
	assert.Equal(t, models.JobStatusCompleted, jobs.calls[0].Status)
}

func TestProcessor_StatusUpdate_Unauthenticated(t *testing.T) {
	jobs := &fakeJobUpdater{}
	processor, _ := newTestProcessor(&fakeAuthenticator{}, jobs)
	client := newTestClient("c1", 0, "")

	msg := Message{
		Type: MessageTypeStatusUpdate,
		Data: StatusUpdateData{JobID: 12, Status: models.JobStatusCompleted},
	}
	processor.Handle(client, &msg)

	assert.Empty(t, jobs.calls)
	reply := drainOne(t, client)
	assert.Equal(t, MessageTypeError, reply.Type)
}

func TestProcessor_StatusUpdate_Failure(t *testing.T) {
	jobs := &fakeJobUpdater{err: errors.New("job not found")}
	processor, _ := newTestProcessor(&fakeAuthenticator{}, jobs)
	client := newTestClient("c1", 7, "agent7")

	msg := Message{
		Type: MessageTypeStatusUpdate,
		Data: StatusUpdateData{JobID: 999, Status: models.JobStatusCompleted},
	}
	processor.Handle(client, &msg)

	reply := drainOne(t, client)
	assert.Equal(t, MessageTypeError, reply.Type)
}

func TestProcessor_Heartbeat(t *testing.T) {
	processor, _ := newTestProcessor(&fakeAuthenticator{}, &fakeJobUpdater{})
	client := newTestClient("c1", 7, "agent7")

	processor.Handle(client, &Message{Type: MessageTypeHeartbeat})

	reply := drainOne(t, client)
	assert.Equal(t, MessageTypeHeartbeatAck, reply.Type)
}

func TestProcessor_UnsupportedType(t *testing.T) {
	processor, _ := newTestProcessor(&fakeAuthenticator{}, &fakeJobUpdater{})
	client := newTestClient("c1", 7, "agent7")

	processor.Handle(client, &Message{Type: MessageType("mystery")})

	reply := drainOne(t, client)
	assert.Equal(t, MessageTypeError, reply.Type)
}
