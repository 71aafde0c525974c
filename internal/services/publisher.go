package services

import (
	"context"

	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/realtime"
)

// Publisher delivers realtime events. bus.Bus satisfies it.
type Publisher interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
}

// notify is fire and forget; a failed publish never fails the write that caused it.
func notify(ctx context.Context, pub Publisher, log *logger.Logger, profileIDs []uint, event realtime.SSEEvent, data any) {
	if pub == nil {
		return
	}
	for _, id := range profileIDs {
		msg := realtime.SSEMessage{Channel: realtime.ProfileChannel(id), Event: event, Data: data}
		if err := pub.Publish(ctx, msg); err != nil {
			log.Warn("Realtime publish failed", "event", event, "profile_id", id, "error", err)
		}
	}
}
