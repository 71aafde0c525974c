package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/scool-backend/internal/observability"
	"github.com/yungbote/scool-backend/internal/platform/gcp"
	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/realtime"
	"github.com/yungbote/scool-backend/internal/realtime/bus"
)

type Clients struct {
	Bucket gcp.BucketService
	Bus    bus.Bus
}

// wireClients opens the media bucket and the realtime bus. Without
// REDIS_ADDR events are delivered to the local hub only.
func wireClients(log *logger.Logger, cfg Config, hub *realtime.SSEHub) (Clients, error) {
	log.Info("Wiring clients...")

	bucket, err := resolveBucketService(log, cfg)
	if err != nil {
		return Clients{}, err
	}

	var b bus.Bus = &bus.Local{Hub: hub}
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		rb, err := bus.NewRedisBus(log, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		b = rb
	}
	return Clients{Bucket: bucket, Bus: b}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
}

// instrumentedPublisher counts every realtime publish by event and result.
type instrumentedPublisher struct {
	next    bus.Bus
	metrics *observability.Metrics
}

func (p *instrumentedPublisher) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	err := p.next.Publish(ctx, msg)
	p.metrics.IncRealtimePublished(string(msg.Event), err)
	return err
}
