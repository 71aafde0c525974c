package bus

import (
	"context"

	"github.com/yungbote/scool-backend/internal/realtime"
)

// Bus fans SSE messages out across server instances.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}

// Local delivers straight to an in-process hub. Used when no Redis is configured.
type Local struct {
	Hub *realtime.SSEHub
}

func (l *Local) Publish(_ context.Context, msg realtime.SSEMessage) error {
	if l == nil || l.Hub == nil {
		return nil
	}
	l.Hub.Broadcast(msg)
	return nil
}

func (l *Local) StartForwarder(context.Context, func(m realtime.SSEMessage)) error { return nil }

func (l *Local) Close() error { return nil }
