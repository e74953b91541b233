package publishers

import (
	"context"

	"github.com/samvad-hq/folio-content/internal/logger"
)

// Publisher sends events to a downstream sink (HTTP, SQS, SNS, Pub/Sub).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger is the logging surface publishers rely on.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger { return logger.Ensure(log) }
