package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/scool-backend/internal/data/repos"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/http/response"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/services"
	"github.com/yungbote/scool-backend/internal/views"
)

type AcademicHandler struct {
	groups       services.GroupService
	timetable    services.TimetableService
	certificates services.CertificateService
	performance  services.PerformanceService
}

func NewAcademicHandler(
	groups services.GroupService,
	timetable services.TimetableService,
	certificates services.CertificateService,
	performance services.PerformanceService,
) *AcademicHandler {
	return &AcademicHandler{
		groups:       groups,
		timetable:    timetable,
		certificates: certificates,
		performance:  performance,
	}
}

// GET /groups?teacher=2&manager=4
func (h *AcademicHandler) ListGroups(c *gin.Context) {
	var filter repos.GroupFilter
	var err error
	if filter.TeacherID, err = queryID(c, "teacher"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.ManagerID, err = queryID(c, "manager"); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.groups.ListGroups(dbcOf(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /groups
func (h *AcademicHandler) CreateGroup(c *gin.Context) {
	var in views.GroupInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.groups.CreateGroup(dbcOf(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondCreated(c, location("/groups/%d", out.ID), out)
}

// GET /groups/:id
// The roster of students is included under "students".
func (h *AcademicHandler) GetGroup(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	g, err := h.groups.GetGroup(dbcOf(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	roster, err := h.groups.ListRoster(dbcOf(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, gin.H{"group": g, "students": roster})
}

// DELETE /groups/:id
func (h *AcademicHandler) DeleteGroup(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.groups.DeleteGroup(dbcOf(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /groups/:id/members/:profile
func (h *AcademicHandler) AddMember(c *gin.Context) {
	h.member(c, h.groups.AddMember)
}

// DELETE /groups/:id/members/:profile
func (h *AcademicHandler) RemoveMember(c *gin.Context) {
	h.member(c, h.groups.RemoveMember)
}

func (h *AcademicHandler) member(c *gin.Context, fn func(dbc dbctx.Context, groupID, profileID uint) error) {
	groupID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	profileID, err := pathID(c, "profile")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := fn(dbcOf(c), groupID, profileID); err != nil {
		response.Error(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /timetable?group=1&from=2024-09-01&to=2024-09-07
func (h *AcademicHandler) ListTimetable(c *gin.Context) {
	group, err := queryID(c, "group")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.timetable.ListTimetable(dbcOf(c), services.TimetableQuery{
		GroupID: group,
		From:    c.Query("from"),
		To:      c.Query("to"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /timetable
func (h *AcademicHandler) CreateTimetable(c *gin.Context) {
	var in views.TimetableCreateInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.timetable.CreateTimetable(dbcOf(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondCreated(c, "", out.View)
}

// POST /timetable/:id/finish
func (h *AcademicHandler) FinishLesson(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.timetable.FinishLesson(dbcOf(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /certificates?profile=7 (defaults to the caller)
func (h *AcademicHandler) ListCertificates(c *gin.Context) {
	rd, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	profile, err := queryID(c, "profile")
	if err != nil {
		response.Error(c, err)
		return
	}
	if profile == 0 {
		profile = rd.ProfileID
	}
	out, err := h.certificates.ListCertificates(dbcOf(c), profile)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /certificates
func (h *AcademicHandler) IssueCertificate(c *gin.Context) {
	var in views.CertificateInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.certificates.IssueCertificate(dbcOf(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondCreated(c, "", out)
}

// GET /performance?student=7&course=2
// Students only see their own grades; student defaults to the caller.
func (h *AcademicHandler) ListPerformance(c *gin.Context) {
	rd, err := caller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := queryID(c, "student")
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := queryID(c, "course")
	if err != nil {
		response.Error(c, err)
		return
	}
	if student == 0 {
		student = rd.ProfileID
	}
	if types.Role(rd.Role) == types.RoleStudent && student != rd.ProfileID {
		response.Error(c, apierr.Forbidden("students can only read their own performance"))
		return
	}
	out, err := h.performance.ListPerformance(dbcOf(c), student, course)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /performance
func (h *AcademicHandler) RecordPerformance(c *gin.Context) {
	var in views.AcademicPerformanceInput
	if err := bindJSON(c, &in); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.performance.RecordPerformance(dbcOf(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RespondCreated(c, "", out.View)
}
