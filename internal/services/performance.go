package services

import (
	"gorm.io/gorm"

	"github.com/yungbote/scool-backend/internal/data/repos"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/domain/academic"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/ctxutil"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/views"
)

type PerformanceService interface {
	// RecordPerformance grades a student. The teacher defaults to the authenticated caller.
	RecordPerformance(dbc dbctx.Context, in views.AcademicPerformanceInput) (Created[views.AcademicPerformanceView], error)
	ListPerformance(dbc dbctx.Context, studentID, courseID uint) ([]views.AcademicPerformanceView, error)
}

type performanceService struct {
	db    *gorm.DB
	log   *logger.Logger
	repos repos.Set
}

func NewPerformanceService(db *gorm.DB, log *logger.Logger, r repos.Set) PerformanceService {
	return &performanceService{
		db:    db,
		log:   log.With("service", "PerformanceService"),
		repos: r,
	}
}

func (s *performanceService) RecordPerformance(dbc dbctx.Context, in views.AcademicPerformanceInput) (Created[views.AcademicPerformanceView], error) {
	if err := views.Validate(in); err != nil {
		return Created[views.AcademicPerformanceView]{}, err
	}
	for name, g := range map[string]*int{
		"homework_grade":    in.HomeworkGrade,
		"classwork_grade":   in.ClassworkGrade,
		"test_grade":        in.TestGrade,
		"examination_grade": in.ExaminationGrade,
	} {
		if g != nil && (*g < academic.MinGrade || *g > academic.MaxGrade) {
			return Created[views.AcademicPerformanceView]{}, apierr.Validation("%s: must be between %d and %d", name, academic.MinGrade, academic.MaxGrade)
		}
	}
	date, err := views.ParseDate(in.Date)
	if err != nil {
		return Created[views.AcademicPerformanceView]{}, apierr.Validation("date: %v", err)
	}
	teacherID, err := gradingTeacher(dbc, in.TeacherID)
	if err != nil {
		return Created[views.AcademicPerformanceView]{}, err
	}
	if err := expectRole(dbc, s.repos, in.StudentID, types.RoleStudent, "student"); err != nil {
		return Created[views.AcademicPerformanceView]{}, err
	}
	if err := expectRole(dbc, s.repos, teacherID, types.RoleTeacher, "teacher"); err != nil {
		return Created[views.AcademicPerformanceView]{}, err
	}
	lessons, err := s.repos.Lesson.GetByIDs(dbc, []uint{in.LessonID})
	if err != nil {
		return Created[views.AcademicPerformanceView]{}, apierr.Map("load lesson", err)
	}
	if len(lessons) == 0 {
		return Created[views.AcademicPerformanceView]{}, apierr.NotFound("lesson %d not found", in.LessonID)
	}

	row := &types.AcademicPerformance{
		StudentID:        in.StudentID,
		LessonID:         in.LessonID,
		TeacherID:        teacherID,
		Date:             date,
		HomeworkGrade:    in.HomeworkGrade,
		ClassworkGrade:   in.ClassworkGrade,
		TestGrade:        in.TestGrade,
		ExaminationGrade: in.ExaminationGrade,
		Late:             in.Late,
		Absent:           in.Absent,
	}
	if _, err := s.repos.Performance.Create(dbc, []*types.AcademicPerformance{row}); err != nil {
		return Created[views.AcademicPerformanceView]{}, apierr.Map("record performance", err)
	}
	return Created[views.AcademicPerformanceView]{ID: row.ID, View: views.NewAcademicPerformanceView(row)}, nil
}

// gradingTeacher resolves who a grade is attributed to. A teacher always
// grades as themselves; only a manager may name another teacher. Internal
// calls without an authenticated caller must name one.
func gradingTeacher(dbc dbctx.Context, requested uint) (uint, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.ProfileID == 0 {
		if requested == 0 {
			return 0, apierr.Unauthorized("no authenticated profile")
		}
		return requested, nil
	}
	if requested == 0 || requested == rd.ProfileID {
		return rd.ProfileID, nil
	}
	if types.Role(rd.Role) != types.RoleEducationalManager {
		return 0, apierr.Forbidden("teacher: grades can only be recorded as yourself")
	}
	return requested, nil
}

func (s *performanceService) ListPerformance(dbc dbctx.Context, studentID, courseID uint) ([]views.AcademicPerformanceView, error) {
	if err := expectRole(dbc, s.repos, studentID, types.RoleStudent, "student"); err != nil {
		return nil, err
	}
	rows, err := s.repos.Performance.List(dbc, repos.PerformanceFilter{StudentID: studentID, CourseID: courseID})
	if err != nil {
		return nil, apierr.Map("list performance", err)
	}
	return views.NewAcademicPerformanceViews(rows), nil
}
