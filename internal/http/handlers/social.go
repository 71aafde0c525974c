package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/scool-backend/internal/http/response"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/services"
	"github.com/yungbote/scool-backend/internal/views"
)

type SocialHandler struct {
	social services.SocialService
}

func NewSocialHandler(social services.SocialService) *SocialHandler {
	return &SocialHandler{social: social}
}

// GET /profiles/:id/friends
func (h *SocialHandler) ListFriends(c *gin.Context) {
	h.listFor(c, h.social.ListFriends)
}

// GET /profiles/:id/followers
func (h *SocialHandler) ListFollowers(c *gin.Context) {
	h.listFor(c, h.social.ListFollowers)
}

func (h *SocialHandler) listFor(c *gin.Context, list func(dbc dbctx.Context, id uint) ([]views.UserView, error)) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := list(dbcOf(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /friend-requests
func (h *SocialHandler) ListRequests(c *gin.Context) {
	rd, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	in, err := h.social.ListIncoming(dbcOf(c), rd.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.social.ListOutgoing(dbcOf(c), rd.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, gin.H{"incoming": in, "outgoing": out})
}

// POST /friend-requests
// body: { "to": 5 }
func (h *SocialHandler) SendRequest(c *gin.Context) {
	rd, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var in views.FriendRequestInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.social.SendFriendRequest(dbcOf(c), rd.ProfileID, in.To); err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /friend-requests/:from/accept
func (h *SocialHandler) Accept(c *gin.Context) {
	h.answer(c, h.social.AcceptFriendRequest)
}

// POST /friend-requests/:from/decline
func (h *SocialHandler) Decline(c *gin.Context) {
	h.answer(c, h.social.DeclineFriendRequest)
}

func (h *SocialHandler) answer(c *gin.Context, fn func(dbc dbctx.Context, toID, fromID uint) error) {
	rd, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	from, err := pathID(c, "from")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := fn(dbcOf(c), rd.ProfileID, from); err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// DELETE /friends/:id
func (h *SocialHandler) RemoveFriend(c *gin.Context) {
	rd, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.social.RemoveFriend(dbcOf(c), rd.ProfileID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.RespondNoContent(c)
}
