package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/scool-backend/internal/http/response"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/services"
	"github.com/yungbote/scool-backend/internal/views"
)

type DialogHandler struct {
	dialogs services.DialogService
}

func NewDialogHandler(dialogs services.DialogService) *DialogHandler {
	return &DialogHandler{dialogs: dialogs}
}

// GET /dialogs
func (h *DialogHandler) ListDialogs(c *gin.Context) {
	rd, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.dialogs.ListDialogs(dbcOf(c), rd.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /dialogs
// body: { "participants": [3, 4], "name": "Project" }
func (h *DialogHandler) CreateDialog(c *gin.Context) {
	rd, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var in views.CreateDialogInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.dialogs.CreateDialog(dbcOf(c), rd.ProfileID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondCreated(c, location("/dialogs/%d", out.ID), out)
}

// GET /dialogs/:id
func (h *DialogHandler) GetDialog(c *gin.Context) {
	rd, id, ok := h.scope(c)
	if !ok {
		return
	}
	out, err := h.dialogs.GetDialog(dbcOf(c), id, rd)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /dialogs/:id
func (h *DialogHandler) DeleteDialog(c *gin.Context) {
	rd, id, ok := h.scope(c)
	if !ok {
		return
	}
	if err := h.dialogs.DeleteDialog(dbcOf(c), id, rd); err != nil {
		response.Error(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /dialogs/:id/messages?before=2024-09-01T10:00:00Z&limit=50
func (h *DialogHandler) ListMessages(c *gin.Context) {
	rd, id, ok := h.scope(c)
	if !ok {
		return
	}
	var before *time.Time
	if raw := strings.TrimSpace(c.Query("before")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, apierr.Validation("before: %q is not an RFC3339 timestamp", raw))
			return
		}
		before = &t
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.dialogs.ListMessages(dbcOf(c), id, rd, before, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /dialogs/:id/messages
// body: { "text": "hi", "attachment": 9 }
func (h *DialogHandler) SendMessage(c *gin.Context) {
	rd, id, ok := h.scope(c)
	if !ok {
		return
	}
	var in views.MessageInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	in.Dialog = id
	in.FromUser = rd
	out, err := h.dialogs.SendMessage(dbcOf(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondCreated(c, "", out)
}

// POST /dialogs/:id/attachments (multipart, field "file")
func (h *DialogHandler) UploadAttachment(c *gin.Context) {
	rd, id, ok := h.scope(c)
	if !ok {
		return
	}
	name, raw, err := formFile(c, "file")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.dialogs.UploadAttachment(dbcOf(c), id, rd, name, raw)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondCreated(c, "", gin.H{"id": out.ID, "attachment": out.View})
}

// POST /dialogs/:id/read
func (h *DialogHandler) MarkRead(c *gin.Context) {
	rd, id, ok := h.scope(c)
	if !ok {
		return
	}
	n, err := h.dialogs.MarkRead(dbcOf(c), id, rd)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": n})
}

// scope resolves the caller's profile and the dialog path id, writing the
// error response itself.
func (h *DialogHandler) scope(c *gin.Context) (uint, uint, bool) {
	rd, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return 0, 0, false
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return 0, 0, false
	}
	return rd.ProfileID, id, true
}
