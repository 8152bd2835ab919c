package models

import "encoding/json"

// Event names accepted from clients.
const (
	EventConnect        = "connect"
	EventJoinChat       = "join_chat"
	EventSendMessage    = "send_message"
	EventTyping         = "typing"
	EventGetOnlineUsers = "get_online_users"
	EventMarkRead       = "mark_messages_read"
	EventSubscribeJobs  = "subscribe_to_job_notifications"
)

// Event names emitted to clients.
const (
	EventConnected       = "connected"
	EventError           = "error"
	EventChatHistory     = "chat_history"
	EventNewMessage      = "new_message"
	EventNotification    = "notification"
	EventTypingIndicator = "typing_indicator"
	EventOnlineUsers     = "online_users"
	EventMessagesRead    = "messages_read"
	EventUserOnline      = "user_online"
	EventUserOffline     = "user_offline"
)

// ClientEvent is the inbound wire frame. Data stays raw until the hub
// dispatches on Event and decodes into the matching payload struct.
type ClientEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ServerEvent is the outbound wire frame.
type ServerEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Inbound payloads, one fixed shape per event.

type ConnectPayload struct {
	Token string `json:"token"`
}

type JoinChatPayload struct {
	Token       string `json:"token"`
	OtherUserID string `json:"other_user_id"`
}

type SendMessagePayload struct {
	Token       string `json:"token"`
	ReceiverID  string `json:"receiver_id"`
	Message     string `json:"message"`
	MessageType string `json:"message_type"`
	FilePath    string `json:"file_path"`
}

type TypingPayload struct {
	Token       string `json:"token"`
	OtherUserID string `json:"other_user_id"`
	IsTyping    bool   `json:"is_typing"`
}

type GetOnlineUsersPayload struct {
	Token string `json:"token"`
}

type MarkReadPayload struct {
	Token    string `json:"token"`
	SenderID string `json:"sender_id"`
}

type SubscribeJobsPayload struct {
	Token string `json:"token"`
}

// Outbound payloads.

type AckPayload struct {
	Message string `json:"message"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type ChatHistoryPayload struct {
	Messages []ChatMessage `json:"messages"`
	Room     string        `json:"room"`
}

type NewMessagePayload struct {
	Message ChatMessage `json:"message"`
}

type NotificationPayload struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type TypingIndicatorPayload struct {
	UserID   string `json:"user_id"`
	IsTyping bool   `json:"is_typing"`
}

// OnlineUser is the directory projection returned by get_online_users.
type OnlineUser struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Department   string `json:"department"`
	ProfileImage string `json:"profile_image,omitempty"`
}

type OnlineUsersPayload struct {
	Users []OnlineUser `json:"users"`
}

type MessagesReadPayload struct {
	ReaderID string `json:"reader_id"`
}

type PresencePayload struct {
	UserID string `json:"user_id"`
}

// NotificationEnvelope is published on the Redis notification channel by the
// HTTP side of the application (job approvals, application updates,
// mentorship requests) and delivered to the target's personal channel by the
// hub when the target is online.
type NotificationEnvelope struct {
	UserID  string          `json:"user_id"`
	Type    string          `json:"type"`
	Title   string          `json:"title"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}
