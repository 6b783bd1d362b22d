package services

// Broadcaster pushes session updates to connected shells.
type Broadcaster interface {
	BroadcastBalance(sessionID string, balance float64)
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastBalance(string, float64) {}
