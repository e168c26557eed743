package activity

import "mlaconnect/backend/internal/models"

// Client is one live connection watching an MLA's activity feed.
type Client interface {
	// GetUserID returns the MLA the connection belongs to.
	GetUserID() string

	// GetSendChannel returns the channel the hub pushes events into.
	GetSendChannel() chan<- models.ActivityEvent

	// Run starts the client's pumps.
	Run()
	// Close shuts down the send side. The hub calls it exactly once.
	Close()
}
