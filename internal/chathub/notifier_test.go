package chathub_test

import (
	"testing"

	"futuremesh/backend/internal/chathub"
	"futuremesh/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNotify_DeliversToOnlineUser(t *testing.T) {
	presence := chathub.NewPresenceRegistry()
	router := chathub.NewChannelRouter()
	gateway := chathub.NewNotificationGateway(presence, router)

	client := newMockClient()
	presence.SetOnline("user_A", client)
	router.Join(client, chathub.PersonalChannel("user_A"))

	delivered := gateway.Notify("user_A", models.ServerEvent{
		Event: models.EventNotification,
		Data:  models.NotificationPayload{Type: "job_posted", Title: "New Job"},
	})

	assert.True(t, delivered)
	events := client.drain()
	assert.Len(t, events, 1)
	assert.Equal(t, models.EventNotification, events[0].Event)
}

func TestNotify_DiscardsForOfflineUser(t *testing.T) {
	presence := chathub.NewPresenceRegistry()
	router := chathub.NewChannelRouter()
	gateway := chathub.NewNotificationGateway(presence, router)

	delivered := gateway.Notify("user_gone", models.ServerEvent{Event: models.EventNotification})

	assert.False(t, delivered, "offline delivery is silently discarded, not an error")
}

func TestNotify_SupersededConnectionDoesNotBlockDelivery(t *testing.T) {
	presence := chathub.NewPresenceRegistry()
	router := chathub.NewChannelRouter()
	gateway := chathub.NewNotificationGateway(presence, router)

	old := newMockClient()
	presence.SetOnline("user_A", old)
	router.Join(old, chathub.PersonalChannel("user_A"))

	fresh := newMockClient()
	presence.SetOnline("user_A", fresh)
	router.Join(fresh, chathub.PersonalChannel("user_A"))

	delivered := gateway.Notify("user_A", models.ServerEvent{Event: models.EventNotification})

	assert.True(t, delivered)
	assert.Len(t, fresh.drain(), 1)
}
