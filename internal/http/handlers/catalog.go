package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/scool-backend/internal/http/response"
	"github.com/yungbote/scool-backend/internal/services"
	"github.com/yungbote/scool-backend/internal/views"
)

type CatalogHandler struct {
	catalog services.CatalogService
}

func NewCatalogHandler(catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GET /categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	out, err := h.catalog.ListCategories(dbcOf(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var in views.CategoryInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.catalog.CreateCategory(dbcOf(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondCreated(c, "", out)
}

// GET /courses?category=3
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	category, err := queryID(c, "category")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.catalog.ListCourses(dbcOf(c), category)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /courses
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var in views.CourseInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.catalog.CreateCourse(dbcOf(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondCreated(c, location("/courses/%d", out.ID), out)
}

// GET /courses/:id
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.catalog.GetCourse(dbcOf(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /courses/:id/lessons
func (h *CatalogHandler) ListLessons(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.catalog.ListLessons(dbcOf(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /lessons
func (h *CatalogHandler) CreateLesson(c *gin.Context) {
	var in views.LessonInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.catalog.CreateLesson(dbcOf(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondCreated(c, location("/lessons/%d", out.ID), out)
}

// GET /lessons/:id
func (h *CatalogHandler) GetLesson(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.catalog.GetLesson(dbcOf(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}
