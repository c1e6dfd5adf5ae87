package heartbeat

import (
	"context"
)

// Heartbeat signals successful completion of a run to an external
// monitor (dead man's switch for scheduled enumerations).
type Heartbeat interface {
	Beat(context.Context) error
}
