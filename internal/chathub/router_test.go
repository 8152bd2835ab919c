package chathub_test

import (
	"testing"

	"futuremesh/backend/internal/chathub"
	"futuremesh/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPairChannel_Commutative(t *testing.T) {
	a := "0b9cfa55-6b74-4f1e-9f3b-1f7f2b9f0001"
	b := "ff1c2d3e-0000-4f1e-9f3b-1f7f2b9f0002"

	assert.Equal(t, chathub.PairChannel(a, b), chathub.PairChannel(b, a))
	assert.Equal(t, "chat_"+a+"_"+b, chathub.PairChannel(b, a), "lexicographically smaller id comes first")
}

func TestPairChannel_DistinctPairs(t *testing.T) {
	a, b, c := "user-a", "user-b", "user-c"

	assert.NotEqual(t, chathub.PairChannel(a, b), chathub.PairChannel(a, c))
	assert.NotEqual(t, chathub.PairChannel(a, b), chathub.PairChannel(b, c))
}

func TestPersonalAndJobChannels(t *testing.T) {
	assert.Equal(t, "user_u1", chathub.PersonalChannel("u1"))
	assert.Equal(t, "job_notifications_u1", chathub.JobChannel("u1"))
	assert.NotEqual(t, chathub.PersonalChannel("u1"), chathub.JobChannel("u1"))
}

func TestRouter_JoinIdempotent(t *testing.T) {
	router := chathub.NewChannelRouter()
	client := newMockClient()

	router.Join(client, "room1")
	router.Join(client, "room1")

	assert.Equal(t, 1, router.Members("room1"))

	router.Broadcast("room1", models.ServerEvent{Event: "ping"}, nil)
	assert.Len(t, client.drain(), 1, "double join must not double deliveries")
}

func TestRouter_BroadcastExcludesSender(t *testing.T) {
	router := chathub.NewChannelRouter()
	sender := newMockClient()
	peer := newMockClient()

	router.Join(sender, "room1")
	router.Join(peer, "room1")

	router.Broadcast("room1", models.ServerEvent{Event: "typing_indicator"}, sender)

	assert.Empty(t, sender.drain())
	assert.Len(t, peer.drain(), 1)
}

func TestRouter_LeaveAll(t *testing.T) {
	router := chathub.NewChannelRouter()
	client := newMockClient()
	other := newMockClient()

	router.Join(client, "room1")
	router.Join(client, "room2")
	router.Join(other, "room1")

	router.LeaveAll(client)

	assert.Equal(t, 1, router.Members("room1"))
	assert.Equal(t, 0, router.Members("room2"))

	router.Broadcast("room1", models.ServerEvent{Event: "ping"}, nil)
	router.Broadcast("room2", models.ServerEvent{Event: "ping"}, nil)
	assert.Empty(t, client.drain())
	assert.Len(t, other.drain(), 1)
}

func TestRouter_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	router := chathub.NewChannelRouter()
	slow := &mockClient{send: make(chan models.ServerEvent, 1)}
	router.Join(slow, "room1")

	router.Broadcast("room1", models.ServerEvent{Event: "first"}, nil)
	router.Broadcast("room1", models.ServerEvent{Event: "second"}, nil)

	events := slow.drain()
	assert.Len(t, events, 1)
	assert.Equal(t, "first", events[0].Event)
}
