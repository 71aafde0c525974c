package services

import (
	"bytes"
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/scool-backend/internal/data/repos"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/views"
)

type CatalogService interface {
	CreateCategory(dbc dbctx.Context, in views.CategoryInput) (views.CategoryView, error)
	ListCategories(dbc dbctx.Context) ([]views.CategoryView, error)

	CreateCourse(dbc dbctx.Context, in views.CourseInput) (views.CourseView, error)
	// ListCourses lists every course, or those of one category when categoryID is non-zero.
	ListCourses(dbc dbctx.Context, categoryID uint) ([]views.CourseView, error)
	GetCourse(dbc dbctx.Context, id uint) (views.CourseView, error)

	CreateLesson(dbc dbctx.Context, in views.LessonInput) (views.LessonDetailView, error)
	ListLessons(dbc dbctx.Context, courseID uint) ([]views.LessonView, error)
	GetLesson(dbc dbctx.Context, id uint) (views.LessonDetailView, error)
}

type catalogService struct {
	db     *gorm.DB
	log    *logger.Logger
	repos  repos.Set
	loader *Loader
	urls   views.URLResolver
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, r repos.Set, loader *Loader, urls views.URLResolver) CatalogService {
	return &catalogService{
		db:     db,
		log:    log.With("service", "CatalogService"),
		repos:  r,
		loader: loader,
		urls:   urls,
	}
}

func (s *catalogService) CreateCategory(dbc dbctx.Context, in views.CategoryInput) (views.CategoryView, error) {
	if err := views.Validate(in); err != nil {
		return views.CategoryView{}, err
	}
	name := strings.TrimSpace(in.Name)
	existing, err := s.repos.Category.GetByName(dbc, name)
	if err != nil {
		return views.CategoryView{}, apierr.Map("load category", err)
	}
	if existing != nil {
		return views.CategoryView{}, apierr.Conflict("category %q already exists", name)
	}
	c := &types.Category{Name: name, Description: in.Description}
	if _, err := s.repos.Category.Create(dbc, []*types.Category{c}); err != nil {
		return views.CategoryView{}, apierr.Map("create category", err)
	}
	return views.NewCategoryView(c), nil
}

func (s *catalogService) ListCategories(dbc dbctx.Context) ([]views.CategoryView, error) {
	rows, err := s.repos.Category.List(dbc)
	if err != nil {
		return nil, apierr.Map("list categories", err)
	}
	out := make([]views.CategoryView, 0, len(rows))
	for _, c := range rows {
		out = append(out, views.NewCategoryView(c))
	}
	return out, nil
}

func (s *catalogService) CreateCourse(dbc dbctx.Context, in views.CourseInput) (views.CourseView, error) {
	if err := views.Validate(in); err != nil {
		return views.CourseView{}, err
	}
	cats, err := s.repos.Category.GetByIDs(dbc, []uint{in.CategoryID})
	if err != nil {
		return views.CourseView{}, apierr.Map("load category", err)
	}
	if len(cats) == 0 {
		return views.CourseView{}, apierr.NotFound("category %d not found", in.CategoryID)
	}
	if err := expectRole(dbc, s.repos, in.TeacherID, types.RoleTeacher, "teacher"); err != nil {
		return views.CourseView{}, err
	}
	course := &types.Course{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		CategoryID:  in.CategoryID,
		TeacherID:   in.TeacherID,
	}
	if _, err := s.repos.Course.Create(dbc, []*types.Course{course}); err != nil {
		return views.CourseView{}, apierr.Map("create course", err)
	}
	s.log.Info("Created course", "course_id", course.ID, "category_id", course.CategoryID)
	return s.renderCourse(dbc, course)
}

func (s *catalogService) ListCourses(dbc dbctx.Context, categoryID uint) ([]views.CourseView, error) {
	rows, err := s.repos.Course.List(dbc, categoryID)
	if err != nil {
		return nil, apierr.Map("list courses", err)
	}
	recs, err := s.loader.Courses(dbc, rows)
	if err != nil {
		return nil, apierr.Map("load courses", err)
	}
	out, err := views.NewCourseViews(recs, s.urls)
	return render("render courses", out, err)
}

func (s *catalogService) GetCourse(dbc dbctx.Context, id uint) (views.CourseView, error) {
	course, err := s.course(dbc, id)
	if err != nil {
		return views.CourseView{}, err
	}
	return s.renderCourse(dbc, course)
}

func (s *catalogService) CreateLesson(dbc dbctx.Context, in views.LessonInput) (views.LessonDetailView, error) {
	if err := views.Validate(in); err != nil {
		return views.LessonDetailView{}, err
	}
	materials, err := normalizeMaterials(in.Materials)
	if err != nil {
		return views.LessonDetailView{}, err
	}
	if _, err := s.course(dbc, in.CourseID); err != nil {
		return views.LessonDetailView{}, err
	}
	existing, err := s.repos.Lesson.GetByNumber(dbc, in.CourseID, in.LessonNumber)
	if err != nil {
		return views.LessonDetailView{}, apierr.Map("load lesson", err)
	}
	if existing != nil {
		return views.LessonDetailView{}, apierr.Conflict("course %d already has lesson number %d", in.CourseID, in.LessonNumber)
	}
	lesson := &types.Lesson{
		CourseID:     in.CourseID,
		LessonNumber: in.LessonNumber,
		Theme:        strings.TrimSpace(in.Theme),
		Description:  in.Description,
		VideoURL:     in.VideoURL,
		Homework:     in.Homework,
		Materials:    materials,
	}
	if _, err := s.repos.Lesson.Create(dbc, []*types.Lesson{lesson}); err != nil {
		return views.LessonDetailView{}, apierr.Map("create lesson", err)
	}
	return s.renderLesson(dbc, lesson)
}

func (s *catalogService) ListLessons(dbc dbctx.Context, courseID uint) ([]views.LessonView, error) {
	if _, err := s.course(dbc, courseID); err != nil {
		return nil, err
	}
	rows, err := s.repos.Lesson.ListByCourse(dbc, courseID)
	if err != nil {
		return nil, apierr.Map("list lessons", err)
	}
	recs, err := s.loader.Lessons(dbc, rows)
	if err != nil {
		return nil, apierr.Map("load lessons", err)
	}
	out, err := views.NewLessonViews(recs, s.urls)
	return render("render lessons", out, err)
}

func (s *catalogService) GetLesson(dbc dbctx.Context, id uint) (views.LessonDetailView, error) {
	rows, err := s.repos.Lesson.GetByIDs(dbc, []uint{id})
	if err != nil {
		return views.LessonDetailView{}, apierr.Map("load lesson", err)
	}
	if len(rows) == 0 {
		return views.LessonDetailView{}, apierr.NotFound("lesson %d not found", id)
	}
	return s.renderLesson(dbc, rows[0])
}

func (s *catalogService) course(dbc dbctx.Context, id uint) (*types.Course, error) {
	rows, err := s.repos.Course.GetByIDs(dbc, []uint{id})
	if err != nil {
		return nil, apierr.Map("load course", err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound("course %d not found", id)
	}
	return rows[0], nil
}

func (s *catalogService) renderCourse(dbc dbctx.Context, course *types.Course) (views.CourseView, error) {
	recs, err := s.loader.Courses(dbc, []*types.Course{course})
	if err != nil {
		return views.CourseView{}, apierr.Map("load course", err)
	}
	v, err := views.NewCourseView(recs[0], s.urls)
	return render("render course", v, err)
}

func (s *catalogService) renderLesson(dbc dbctx.Context, lesson *types.Lesson) (views.LessonDetailView, error) {
	recs, err := s.loader.Lessons(dbc, []*types.Lesson{lesson})
	if err != nil {
		return views.LessonDetailView{}, apierr.Map("load lesson", err)
	}
	v, err := views.NewLessonDetailView(recs[0], s.urls)
	return render("render lesson", v, err)
}

// expectRole fails with not_found for a missing profile and validation for a
// profile holding another role.
func expectRole(dbc dbctx.Context, r repos.Set, profileID uint, role types.Role, field string) error {
	rows, err := r.Profile.GetByIDs(dbc, []uint{profileID})
	if err != nil {
		return apierr.Map("load "+field, err)
	}
	if len(rows) == 0 {
		return apierr.NotFound("%s: profile %d not found", field, profileID)
	}
	if rows[0].Role != role {
		return apierr.Validation("%s: profile %d is a %s, want %s", field, profileID, rows[0].Role, role)
	}
	return nil
}

// normalizeMaterials accepts an absent value, null, or a JSON array.
func normalizeMaterials(raw json.RawMessage) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return datatypes.JSON("[]"), nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, apierr.Validation("materials: must be a JSON array")
	}
	return datatypes.JSON(trimmed), nil
}
