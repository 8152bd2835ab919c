package chathub_test

import (
	"encoding/json"
	"testing"
	"time"

	"futuremesh/backend/internal/auth"
	"futuremesh/backend/internal/chathub"
	"futuremesh/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveMessage(msg *models.ChatMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) RecentMessages(userA, userB string, limit int) ([]models.ChatMessage, error) {
	args := m.Called(userA, userB, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

func (m *MockStorage) MarkMessagesRead(senderID, receiverID string) (int64, error) {
	args := m.Called(senderID, receiverID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetActiveUsers(role, department string) ([]models.User, error) {
	args := m.Called(role, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStorage) SetPresence(userID string, online bool) error {
	args := m.Called(userID, online)
	return args.Error(0)
}

// mockClient is a buffered in-memory Client.
type mockClient struct {
	userID string
	send   chan models.ServerEvent
	closed bool
}

func newMockClient() *mockClient {
	return &mockClient{send: make(chan models.ServerEvent, 64)}
}

func (c *mockClient) GetUserID() string                         { return c.userID }
func (c *mockClient) BindUser(userID string)                    { c.userID = userID }
func (c *mockClient) GetSendChannel() chan<- models.ServerEvent { return c.send }
func (c *mockClient) Run()                                      {}

func (c *mockClient) Close() {
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// drain returns everything delivered to the client so far.
func (c *mockClient) drain() []models.ServerEvent {
	var events []models.ServerEvent
	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

// eventsNamed filters drained events by name.
func eventsNamed(events []models.ServerEvent, name string) []models.ServerEvent {
	var out []models.ServerEvent
	for _, ev := range events {
		if ev.Event == name {
			out = append(out, ev)
		}
	}
	return out
}

// stubVerifier resolves tokens from a fixed map.
type stubVerifier struct {
	tokens map[string]string
}

func (v *stubVerifier) Resolve(token string) (string, error) {
	if id, ok := v.tokens[token]; ok {
		return id, nil
	}
	return "", auth.ErrInvalidToken
}

// newTestHub builds a hub with a stub verifier mapping "token-<id>" to <id>
// for the given user ids, and starts its loop.
func newTestHub(s *MockStorage, userIDs ...string) *chathub.ManagerService {
	tokens := make(map[string]string, len(userIDs))
	for _, id := range userIDs {
		tokens["token-"+id] = id
	}
	hub := chathub.NewManagerService(s, &stubVerifier{tokens: tokens})
	go hub.Run()
	return hub
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return data
}

// push feeds one client event into the hub loop and gives it time to settle.
func push(t *testing.T, hub *chathub.ManagerService, c chathub.Client, event string, payload any) {
	t.Helper()
	hub.IncomingCh <- chathub.Inbound{
		Client: c,
		Event:  models.ClientEvent{Event: event, Data: mustJSON(t, payload)},
	}
	time.Sleep(50 * time.Millisecond)
}

// connect registers the client, authenticates it as userID and discards the
// handshake events so tests start from a clean buffer.
func connect(t *testing.T, hub *chathub.ManagerService, c *mockClient, userID string) {
	t.Helper()
	hub.RegisterCh <- c
	push(t, hub, c, models.EventConnect, models.ConnectPayload{Token: "token-" + userID})
	c.drain()
}
