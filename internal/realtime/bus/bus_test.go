package bus

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/realtime"
)

func TestLocalPublishBroadcasts(t *testing.T) {
	hub := realtime.NewSSEHub(logger.Nop())
	c := hub.NewSSEClient(4)
	hub.AddChannel(c, realtime.ProfileChannel(4))

	var b Bus = &Local{Hub: hub}
	if err := b.Publish(context.Background(), realtime.SSEMessage{Channel: realtime.ProfileChannel(4), Event: realtime.SSEEventMessageCreated}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case msg := <-c.Outbound:
		if msg.Event != realtime.SSEEventMessageCreated {
			t.Fatalf("event: want=%s got=%s", realtime.SSEEventMessageCreated, msg.Event)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for local publish")
	}
}

func TestDecodeMessage(t *testing.T) {
	msg, err := decodeMessage(`{"channel":"profile:1","event":"MessageCreated","data":{"id":3}}`)
	if err != nil {
		t.Fatalf("decodeMessage: %v", err)
	}
	if msg.Channel != "profile:1" || msg.Event != realtime.SSEEventMessageCreated {
		t.Fatalf("decodeMessage: unexpected %+v", msg)
	}
	if _, err := decodeMessage(`{"event":"MessageCreated"}`); err == nil {
		t.Fatalf("decodeMessage: want error for missing channel")
	}
	if _, err := decodeMessage(`not json`); err == nil {
		t.Fatalf("decodeMessage: want error for bad json")
	}
}

func TestNewRedisBusRequiresAddr(t *testing.T) {
	if _, err := NewRedisBus(logger.Nop(), RedisConfig{}); err == nil {
		t.Fatalf("NewRedisBus: want error without addr")
	}
}
