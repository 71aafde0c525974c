package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/scool-backend/internal/http/response"
	"github.com/yungbote/scool-backend/internal/observability"
	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/realtime"
)

type RealtimeHandler struct {
	Log     *logger.Logger
	Hub     *realtime.SSEHub
	Metrics *observability.Metrics
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, metrics *observability.Metrics) *RealtimeHandler {
	return &RealtimeHandler{Log: log, Hub: hub, Metrics: metrics}
}

// GET /sse/stream
// Every connection of a profile joins that profile's channel, so all open
// tabs receive the same events.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	rd, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	client := h.Hub.NewSSEClient(rd.ProfileID)
	h.Hub.AddChannel(client, realtime.ProfileChannel(rd.ProfileID))
	h.Log.Debug("SSE stream open", "profile_id", rd.ProfileID, "client_id", client.ID)

	h.Metrics.SSEClients(1)
	defer h.Metrics.SSEClients(-1)
	defer h.Hub.CloseClient(client)

	h.Hub.ServeHTTP(c.Writer, c.Request, client)
}
