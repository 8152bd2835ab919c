package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message kinds. File and image messages carry a FilePath; the upload itself
// is handled by the HTTP API before send_message is emitted.
const (
	MessageTypeText  = "text"
	MessageTypeFile  = "file"
	MessageTypeImage = "image"
)

// ChatMessage is a persisted direct message between two users. Rows are
// created exactly once on send; IsRead only ever flips false -> true via the
// bulk mark-read update. Nothing in the realtime subsystem deletes them.
type ChatMessage struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID    string    `gorm:"type:uuid;not null;index:idx_pair" json:"sender_id"`
	ReceiverID  string    `gorm:"type:uuid;not null;index:idx_pair" json:"receiver_id"`
	Body        string    `gorm:"column:message;type:text;not null" json:"message"`
	MessageType string    `gorm:"size:20;not null;default:text" json:"message_type"`
	FilePath    string    `gorm:"size:200" json:"file_path,omitempty"`
	IsRead      bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`

	// SenderName is filled in for wire payloads, never stored.
	SenderName string `gorm:"-" json:"sender_name,omitempty"`
}

// BeforeCreate defaults the ID and message type before the row is written.
func (m *ChatMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.MessageType == "" {
		m.MessageType = MessageTypeText
	}
	return
}
