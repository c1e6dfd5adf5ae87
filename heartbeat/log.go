package heartbeat

import (
	"context"
	"log"
)

// LogHeartbeat is the fallback when no heartbeat URL is configured.
type LogHeartbeat struct{}

func NewLogHeartbeat() LogHeartbeat {
	return LogHeartbeat{}
}

func (b LogHeartbeat) Beat(ctx context.Context) error {
	log.Print("heartbeat discarded: no heartbeat URL configured")
	return nil
}
