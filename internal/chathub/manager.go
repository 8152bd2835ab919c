package chathub

import (
	"encoding/json"
	"log"

	"futuremesh/backend/internal/auth"
	"futuremesh/backend/internal/models"
	"futuremesh/backend/internal/storage"
)

// Inbound pairs a decoded client frame with the connection it arrived on.
type Inbound struct {
	Client Client
	Event  models.ClientEvent
}

// ManagerService is the chat session coordinator. All presence and channel
// mutations, and all event handlers, run on the single Run goroutine, so
// handlers execute to completion without interleaving with each other.
type ManagerService struct {
	Presence *PresenceRegistry
	Router   *ChannelRouter
	Notifier *NotificationGateway

	Storage  storage.Storage
	Verifier auth.TokenVerifier

	RegisterCh   chan Client
	UnregisterCh chan Client
	IncomingCh   chan Inbound
	NotifyCh     chan models.NotificationEnvelope

	// conns tracks every open connection, authenticated or not, so
	// presence broadcasts reach clients that have not completed the
	// connect handshake yet.
	conns map[Client]struct{}
}

func NewManagerService(s storage.Storage, verifier auth.TokenVerifier) *ManagerService {
	presence := NewPresenceRegistry()
	router := NewChannelRouter()
	return &ManagerService{
		Presence:     presence,
		Router:       router,
		Notifier:     NewNotificationGateway(presence, router),
		Storage:      s,
		Verifier:     verifier,
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		IncomingCh:   make(chan Inbound),
		NotifyCh:     make(chan models.NotificationEnvelope, 64),
		conns:        make(map[Client]struct{}),
	}
}

// Run is the hub's main dispatch loop.
func (m *ManagerService) Run() {
	for {
		select {
		case c := <-m.RegisterCh:
			m.conns[c] = struct{}{}

		case c := <-m.UnregisterCh:
			m.handleDisconnect(c)

		case in := <-m.IncomingCh:
			m.dispatch(in.Client, in.Event)

		case env := <-m.NotifyCh:
			m.Notifier.Notify(env.UserID, models.ServerEvent{
				Event: models.EventNotification,
				Data: models.NotificationPayload{
					Type:    env.Type,
					Title:   env.Title,
					Message: env.Message,
					Data:    env.Data,
				},
			})
		}
	}
}

func (m *ManagerService) dispatch(c Client, ev models.ClientEvent) {
	switch ev.Event {
	case models.EventConnect:
		var p models.ConnectPayload
		if !m.decode(c, ev.Data, &p, "Connection failed") {
			return
		}
		m.handleConnect(c, p)

	case models.EventJoinChat:
		var p models.JoinChatPayload
		if !m.decode(c, ev.Data, &p, "Failed to join chat") {
			return
		}
		m.handleJoinChat(c, p)

	case models.EventSendMessage:
		var p models.SendMessagePayload
		if !m.decode(c, ev.Data, &p, "Failed to send message") {
			return
		}
		m.handleSendMessage(c, p)

	case models.EventTyping:
		var p models.TypingPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			log.Printf("Dropping malformed typing payload: %v", err)
			return
		}
		m.handleTyping(c, p)

	case models.EventGetOnlineUsers:
		var p models.GetOnlineUsersPayload
		if !m.decode(c, ev.Data, &p, "Failed to get online users") {
			return
		}
		m.handleGetOnlineUsers(c, p)

	case models.EventMarkRead:
		var p models.MarkReadPayload
		if !m.decode(c, ev.Data, &p, "Failed to mark messages read") {
			return
		}
		m.handleMarkRead(c, p)

	case models.EventSubscribeJobs:
		var p models.SubscribeJobsPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			log.Printf("Dropping malformed job subscription payload: %v", err)
			return
		}
		m.handleSubscribeJobs(c, p)

	default:
		log.Printf("Unknown event %q from client %q", ev.Event, c.GetUserID())
	}
}

// decode unmarshals an event payload, emitting a scoped error event to the
// caller on failure.
func (m *ManagerService) decode(c Client, data json.RawMessage, dst any, errMsg string) bool {
	if len(data) == 0 {
		m.sendError(c, errMsg)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Printf("Error decoding payload: %v", err)
		m.sendError(c, errMsg)
		return false
	}
	return true
}

// send delivers an event to a single connection, best-effort.
func (m *ManagerService) send(c Client, event models.ServerEvent) {
	select {
	case c.GetSendChannel() <- event:
	default:
	}
}

func (m *ManagerService) sendError(c Client, message string) {
	m.send(c, models.ServerEvent{
		Event: models.EventError,
		Data:  models.ErrorPayload{Message: message},
	})
}

// broadcastAll fans an event out to every open connection, authenticated or
// not, optionally excluding one.
func (m *ManagerService) broadcastAll(event models.ServerEvent, exclude Client) {
	for c := range m.conns {
		if c == exclude {
			continue
		}
		select {
		case c.GetSendChannel() <- event:
		default:
		}
	}
}
