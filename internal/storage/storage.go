package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"futuremesh/backend/internal/config"
	"futuremesh/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrUserNotFound is returned when a directory lookup misses.
var ErrUserNotFound = errors.New("user not found")

// Storage is the persistence surface the chat hub depends on: the message
// store, the user directory, and the advisory presence mirror.
type Storage interface {
	SaveMessage(msg *models.ChatMessage) error
	RecentMessages(userA, userB string, limit int) ([]models.ChatMessage, error)
	MarkMessagesRead(senderID, receiverID string) (int64, error)

	GetUserByID(id string) (*models.User, error)
	GetActiveUsers(role, department string) ([]models.User, error)

	SetPresence(userID string, online bool) error
}

// Service implements Storage on PostgreSQL (gorm) and Redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// SaveMessage persists a new chat message. The BeforeCreate hook fills in the
// ID and message type, so msg carries the authoritative row after the call.
func (s *Service) SaveMessage(msg *models.ChatMessage) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message from %s to %s: %v", msg.SenderID, msg.ReceiverID, err)
		return err
	}
	return nil
}

// RecentMessages returns the most recent `limit` messages exchanged between
// the two users, ordered oldest to newest.
func (s *Service) RecentMessages(userA, userB string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage

	err := s.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at desc").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("ERROR: Failed to load chat history for %s/%s: %v", userA, userB, err)
		return nil, err
	}

	// The query walks newest-first so LIMIT keeps the latest window; flip it
	// back to chronological order for the client.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// MarkMessagesRead flips every unread message from senderID to receiverID to
// read in a single UPDATE and reports how many rows changed.
func (s *Service) MarkMessagesRead(senderID, receiverID string) (int64, error) {
	result := s.DB.Model(&models.ChatMessage{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Update("is_read", true)
	if result.Error != nil {
		log.Printf("ERROR: Failed to mark messages read (%s -> %s): %v", senderID, receiverID, result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// GetUserByID loads a user for directory/display purposes.
func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to load user %s: %v", id, err)
		return nil, err
	}
	return &user, nil
}

// GetActiveUsers returns the active users matching role and department.
func (s *Service) GetActiveUsers(role, department string) ([]models.User, error) {
	var users []models.User
	err := s.DB.
		Where("role = ? AND department = ? AND is_active = ?", role, department, true).
		Find(&users).Error
	if err != nil {
		log.Printf("ERROR: Failed to query %s users for department %q: %v", role, department, err)
		return nil, err
	}
	return users, nil
}

// SetPresence mirrors online state into a Redis set. The in-process registry
// is authoritative; the mirror lets the HTTP side answer "is X online"
// without touching the hub.
func (s *Service) SetPresence(userID string, online bool) error {
	if online {
		return s.Redis.SAdd(s.Ctx, config.PresenceSetKey, userID).Err()
	}
	return s.Redis.SRem(s.Ctx, config.PresenceSetKey, userID).Err()
}

// PublishNotification pushes an out-of-band notification onto the Redis
// channel the hub listens on. Called by the HTTP handlers (job approved,
// application update, mentorship request) rather than by the hub itself.
func (s *Service) PublishNotification(env models.NotificationEnvelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	if err := s.Redis.Publish(s.Ctx, config.NotificationChannel, payload).Err(); err != nil {
		log.Printf("ERROR: Failed to publish notification for %s: %v", env.UserID, err)
		return err
	}
	return nil
}

// SubscribeNotifications opens the Redis subscription consumed by the hub's
// notification bridge.
func (s *Service) SubscribeNotifications() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, config.NotificationChannel)
}
