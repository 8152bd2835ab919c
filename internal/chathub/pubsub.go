package chathub

import (
	"encoding/json"
	"log"

	"futuremesh/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// RunNotificationBridge consumes the Redis notification channel that the
// HTTP side of the application publishes on (job approvals, application
// updates, mentorship requests) and feeds the envelopes into the hub loop,
// where the gateway delivers them to online targets only.
//
// Runs until the subscription's channel is closed.
func (m *ManagerService) RunNotificationBridge(pubsub *redis.PubSub) {
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var env models.NotificationEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			log.Printf("Error unmarshalling notification envelope: %v", err)
			continue
		}
		if env.UserID == "" {
			log.Printf("Dropping notification envelope without user_id")
			continue
		}
		m.NotifyCh <- env
	}
}
