package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/scool-backend/internal/http/response"
	"github.com/yungbote/scool-backend/internal/services"
)

type PhotoHandler struct {
	photos services.PhotoService
}

func NewPhotoHandler(photos services.PhotoService) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

// GET /photos
func (h *PhotoHandler) ListMine(c *gin.Context) {
	rd, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.photos.ListPhotos(dbcOf(c), rd.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /profiles/:id/photos
func (h *PhotoHandler) ListByProfile(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.photos.ListPhotos(dbcOf(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /photos (multipart, field "image")
func (h *PhotoHandler) Upload(c *gin.Context) {
	rd, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	_, raw, err := formFile(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.photos.UploadPhoto(dbcOf(c), rd.ProfileID, raw)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondCreated(c, "", out)
}

// POST /photos/:id/like
func (h *PhotoHandler) Like(c *gin.Context) {
	h.like(c, true)
}

// DELETE /photos/:id/like
func (h *PhotoHandler) Unlike(c *gin.Context) {
	h.like(c, false)
}

func (h *PhotoHandler) like(c *gin.Context, on bool) {
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
	fn := h.photos.UnlikePhoto
	if on {
		fn = h.photos.LikePhoto
	}
	out, err := fn(dbcOf(c), id, rd.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /photos/:id
func (h *PhotoHandler) Delete(c *gin.Context) {
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
	if err := h.photos.DeletePhoto(dbcOf(c), id, rd.ProfileID); err != nil {
		response.Error(c, err)
		return
	}
	response.RespondNoContent(c)
}
