package events

import (
	"context"

	"github.com/corrsys/parolecore/internal/logging"
)

// Publisher delivers domain events to interested collaborators
// (notification sinks, activity logs). Implementations must not block the
// caller on delivery and must not return errors to it.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// LogPublisher writes every event to the structured log. It doubles as the
// activity-log sink in deployments without an external subscriber.
type LogPublisher struct {
	logger logging.Logger
}

func NewLogPublisher(l logging.Logger) *LogPublisher {
	return &LogPublisher{logger: l.With("module", "events")}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) {
	p.logger.Info(ctx, "domain event", "kind", e.Kind(), "event", e)
}
