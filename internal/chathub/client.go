package chathub

import "futuremesh/backend/internal/models"

// Client is one duplex realtime connection. It abstracts the underlying
// transport so the hub can manage websocket connections (and test doubles)
// uniformly.
//
// A client starts unauthenticated; the hub binds it to a user identity after
// a successful connect handshake. BindUser and GetUserID are only touched
// from the hub loop, so implementations do not need to synchronise them.
type Client interface {
	// GetUserID returns the bound user identity, or "" before authentication.
	GetUserID() string
	// BindUser associates the connection with a verified user identity.
	BindUser(userID string)

	// GetSendChannel returns the channel the hub writes outbound events to.
	GetSendChannel() chan<- models.ServerEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the outbound channel, ending the write pump.
	Close()
}
