package chathub

import "futuremesh/backend/internal/models"

// NotificationGateway delivers out-of-band events to a user's personal
// channel, but only while the user is present. Notifications are ephemeral
// and advisory: there is no queue and no offline delivery. Durable
// notification records are the HTTP layer's concern.
type NotificationGateway struct {
	presence *PresenceRegistry
	router   *ChannelRouter
}

func NewNotificationGateway(presence *PresenceRegistry, router *ChannelRouter) *NotificationGateway {
	return &NotificationGateway{presence: presence, router: router}
}

// Notify delivers the event to the user's personal channel if they are
// online, and reports whether a delivery was attempted. Offline users are
// skipped silently.
func (g *NotificationGateway) Notify(userID string, event models.ServerEvent) bool {
	if !g.presence.IsOnline(userID) {
		return false
	}
	g.router.Broadcast(PersonalChannel(userID), event, nil)
	return true
}
