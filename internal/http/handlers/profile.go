package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/scool-backend/internal/data/repos"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/http/response"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/services"
	"github.com/yungbote/scool-backend/internal/views"
)

type ProfileHandler struct {
	profiles services.ProfileService
}

func NewProfileHandler(profiles services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GET /me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	rd, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	me, err := h.profiles.GetDetail(dbcOf(c), rd.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, me)
}

// GET /profiles?role=teacher&search=iv&limit=20&offset=0
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	filter := repos.ProfileFilter{
		Role:   types.Role(strings.TrimSpace(c.Query("role"))),
		Search: strings.TrimSpace(c.Query("search")),
	}
	var err error
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.profiles.ListProfiles(dbcOf(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /profiles/:id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.profiles.GetProfileBase(dbcOf(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /profiles/:id/detail
func (h *ProfileHandler) GetDetail(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.profiles.GetDetail(dbcOf(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// PATCH /profiles/me
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	rd, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var in views.ProfileUpdateInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.profiles.UpdateProfile(dbcOf(c), rd.ProfileID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// PUT /profiles/me/avatar
// body: { "photo_id": 12 } or { "photo_id": null } to clear
func (h *ProfileHandler) SetAvatar(c *gin.Context) {
	rd, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var in views.AvatarInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.profiles.SetAvatar(dbcOf(c), rd.ProfileID, in.PhotoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /staff (educational managers only)
func (h *ProfileHandler) CreateStaff(c *gin.Context) {
	var in views.StaffInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.profiles.CreateStaff(dbcOf(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondCreated(c, "", out)
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apierr.Validation("%s: %q is not a non-negative integer", name, raw)
	}
	return n, nil
}
