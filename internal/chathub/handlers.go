package chathub

import (
	"log"

	"futuremesh/backend/internal/config"
	"futuremesh/backend/internal/models"
)

// handleConnect authenticates the connection, registers presence, joins the
// personal channel and announces the user to everyone else.
func (m *ManagerService) handleConnect(c Client, p models.ConnectPayload) {
	if p.Token == "" {
		m.sendError(c, "Authentication required")
		return
	}

	userID, err := m.Verifier.Resolve(p.Token)
	if err != nil {
		m.sendError(c, "Connection failed")
		return
	}

	c.BindUser(userID)
	prev := m.Presence.SetOnline(userID, c)
	if prev != nil {
		// The old connection stays open and keeps its channel
		// memberships; it simply stops being the presence entry. It
		// will clean itself up when it disconnects or times out.
		log.Printf("User %s reconnected, superseding previous connection", userID)
	}

	m.Router.Join(c, PersonalChannel(userID))

	if err := m.Storage.SetPresence(userID, true); err != nil {
		log.Printf("WARNING: Failed to mirror presence for %s: %v", userID, err)
	}

	m.send(c, models.ServerEvent{
		Event: models.EventConnected,
		Data:  models.AckPayload{Message: "Connected successfully"},
	})

	m.broadcastAll(models.ServerEvent{
		Event: models.EventUserOnline,
		Data:  models.PresencePayload{UserID: userID},
	}, nil)
}

// handleDisconnect clears presence and channel membership for a closed
// connection. Safe for connections that never authenticated or were
// superseded by a reconnect.
func (m *ManagerService) handleDisconnect(c Client) {
	if _, tracked := m.conns[c]; !tracked {
		return
	}
	delete(m.conns, c)

	userID, wasOnline := m.Presence.SetOffline(c)
	m.Router.LeaveAll(c)

	if wasOnline {
		if err := m.Storage.SetPresence(userID, false); err != nil {
			log.Printf("WARNING: Failed to mirror presence for %s: %v", userID, err)
		}
		m.broadcastAll(models.ServerEvent{
			Event: models.EventUserOffline,
			Data:  models.PresencePayload{UserID: userID},
		}, c)
	}

	c.Close()
}

// handleJoinChat joins the caller to the pair channel with the peer, replays
// the recent history and reconciles read state: everything the peer sent
// that the caller had not read is now read.
func (m *ManagerService) handleJoinChat(c Client, p models.JoinChatPayload) {
	if p.Token == "" || p.OtherUserID == "" {
		m.sendError(c, "Token and other_user_id required")
		return
	}

	userID, err := m.Verifier.Resolve(p.Token)
	if err != nil {
		m.sendError(c, "Failed to join chat")
		return
	}

	room := PairChannel(userID, p.OtherUserID)
	m.Router.Join(c, room)

	messages, err := m.Storage.RecentMessages(userID, p.OtherUserID, config.HistoryLimit)
	if err != nil {
		m.sendError(c, "Failed to join chat")
		return
	}

	if _, err := m.Storage.MarkMessagesRead(p.OtherUserID, userID); err != nil {
		m.sendError(c, "Failed to join chat")
		return
	}

	m.fillSenderNames(messages, userID, p.OtherUserID)

	m.send(c, models.ServerEvent{
		Event: models.EventChatHistory,
		Data:  models.ChatHistoryPayload{Messages: messages, Room: room},
	})
}

// handleSendMessage persists the message and only then fans it out: to the
// pair channel for every member (sender included, for multi-tab
// consistency), and additionally to the receiver's personal channel when
// they are online. A receiver sitting in the pair channel gets both copies
// on purpose.
func (m *ManagerService) handleSendMessage(c Client, p models.SendMessagePayload) {
	if p.Token == "" || p.ReceiverID == "" || p.Message == "" {
		m.sendError(c, "Token, receiver_id, and message required")
		return
	}

	senderID, err := m.Verifier.Resolve(p.Token)
	if err != nil {
		m.sendError(c, "Failed to send message")
		return
	}

	msg := &models.ChatMessage{
		SenderID:    senderID,
		ReceiverID:  p.ReceiverID,
		Body:        p.Message,
		MessageType: p.MessageType,
		FilePath:    p.FilePath,
	}

	// Durable write first. A receiver whose join_chat races with this send
	// must find the message in history if the broadcast reached them.
	if err := m.Storage.SaveMessage(msg); err != nil {
		m.sendError(c, "Failed to send message")
		return
	}

	var senderFirstName string
	if sender, err := m.Storage.GetUserByID(senderID); err == nil {
		msg.SenderName = sender.FullName()
		senderFirstName = sender.FirstName
	} else {
		log.Printf("WARNING: Failed to resolve sender %s for display name: %v", senderID, err)
	}

	room := PairChannel(senderID, p.ReceiverID)
	m.Router.Broadcast(room, models.ServerEvent{
		Event: models.EventNewMessage,
		Data:  models.NewMessagePayload{Message: *msg},
	}, nil)

	m.Notifier.Notify(p.ReceiverID, models.ServerEvent{
		Event: models.EventNotification,
		Data: models.NotificationPayload{
			Type:    "new_message",
			Title:   "New Message",
			Message: "You have a new message from " + senderFirstName,
			Data:    *msg,
		},
	})
}

// handleTyping relays a typing indicator to the pair channel, excluding the
// typist. Typing is a best-effort, high-frequency signal: malformed or
// unauthenticated input is logged and dropped without an error event.
func (m *ManagerService) handleTyping(c Client, p models.TypingPayload) {
	if p.Token == "" || p.OtherUserID == "" {
		return
	}

	userID, err := m.Verifier.Resolve(p.Token)
	if err != nil {
		log.Printf("Dropping typing signal with bad token: %v", err)
		return
	}

	m.Router.Broadcast(PairChannel(userID, p.OtherUserID), models.ServerEvent{
		Event: models.EventTypingIndicator,
		Data:  models.TypingIndicatorPayload{UserID: userID, IsTyping: p.IsTyping},
	}, c)
}

// handleGetOnlineUsers returns the online subset of the caller's relevant
// peers: students see alumni from their department and vice versa; other
// roles get an empty list.
func (m *ManagerService) handleGetOnlineUsers(c Client, p models.GetOnlineUsersPayload) {
	if p.Token == "" {
		m.sendError(c, "Token required")
		return
	}

	userID, err := m.Verifier.Resolve(p.Token)
	if err != nil {
		m.sendError(c, "Failed to get online users")
		return
	}

	user, err := m.Storage.GetUserByID(userID)
	if err != nil {
		m.sendError(c, "Failed to get online users")
		return
	}

	var peerRole string
	switch user.Role {
	case models.RoleStudent:
		peerRole = models.RoleAlumni
	case models.RoleAlumni:
		peerRole = models.RoleStudent
	}

	online := []models.OnlineUser{}
	if peerRole != "" {
		peers, err := m.Storage.GetActiveUsers(peerRole, user.Department)
		if err != nil {
			m.sendError(c, "Failed to get online users")
			return
		}
		for _, peer := range peers {
			if !m.Presence.IsOnline(peer.ID) {
				continue
			}
			online = append(online, models.OnlineUser{
				ID:           peer.ID,
				Name:         peer.FullName(),
				Role:         peer.Role,
				Department:   peer.Department,
				ProfileImage: peer.ProfileImage,
			})
		}
	}

	m.send(c, models.ServerEvent{
		Event: models.EventOnlineUsers,
		Data:  models.OnlineUsersPayload{Users: online},
	})
}

// handleMarkRead bulk-marks everything from the given sender as read and,
// when the sender is online, tells them so their unread markers can be
// retracted live.
func (m *ManagerService) handleMarkRead(c Client, p models.MarkReadPayload) {
	if p.Token == "" || p.SenderID == "" {
		m.sendError(c, "Token and sender_id required")
		return
	}

	readerID, err := m.Verifier.Resolve(p.Token)
	if err != nil {
		m.sendError(c, "Failed to mark messages read")
		return
	}

	if _, err := m.Storage.MarkMessagesRead(p.SenderID, readerID); err != nil {
		m.sendError(c, "Failed to mark messages read")
		return
	}

	m.Notifier.Notify(p.SenderID, models.ServerEvent{
		Event: models.EventMessagesRead,
		Data:  models.MessagesReadPayload{ReaderID: readerID},
	})
}

// handleSubscribeJobs joins the caller to their job notification channel.
// Like typing, failures are logged and dropped.
func (m *ManagerService) handleSubscribeJobs(c Client, p models.SubscribeJobsPayload) {
	if p.Token == "" {
		return
	}

	userID, err := m.Verifier.Resolve(p.Token)
	if err != nil {
		log.Printf("Dropping job subscription with bad token: %v", err)
		return
	}

	m.Router.Join(c, JobChannel(userID))
}

// fillSenderNames resolves display names for a history page. Only the two
// participants can appear as senders, so two lookups cover the whole page.
func (m *ManagerService) fillSenderNames(messages []models.ChatMessage, userA, userB string) {
	names := make(map[string]string, 2)
	for _, id := range []string{userA, userB} {
		user, err := m.Storage.GetUserByID(id)
		if err != nil {
			log.Printf("WARNING: Failed to resolve user %s for display name: %v", id, err)
			continue
		}
		names[id] = user.FullName()
	}
	for i := range messages {
		messages[i].SenderName = names[messages[i].SenderID]
	}
}
