package academic

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
)

type CategoryRepo interface {
	Create(dbc dbctx.Context, rows []*types.Category) ([]*types.Category, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Category, error)
	GetByName(dbc dbctx.Context, name string) (*types.Category, error)
	List(dbc dbctx.Context) ([]*types.Category, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) Create(dbc dbctx.Context, rows []*types.Category) ([]*types.Category, error) {
	if len(rows) == 0 {
		return []*types.Category{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *categoryRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Category, error) {
	out := []*types.Category{}
	if len(ids) == 0 {
		return out, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByName returns (nil, nil) when missing.
func (r *categoryRepo) GetByName(dbc dbctx.Context, name string) (*types.Category, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var row types.Category
	err := txx.WithContext(dbc.Ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *categoryRepo) List(dbc dbctx.Context) ([]*types.Category, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	out := []*types.Category{}
	if err := txx.WithContext(dbc.Ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type CourseRepo interface {
	Create(dbc dbctx.Context, rows []*types.Course) ([]*types.Course, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Course, error)
	GetByName(dbc dbctx.Context, categoryID uint, name string) (*types.Course, error)
	// List returns all courses, or the courses of one category when categoryID is non-zero.
	List(dbc dbctx.Context, categoryID uint) ([]*types.Course, error)
	CountByTeacher(dbc dbctx.Context, teacherID uint) (int64, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(dbc dbctx.Context, rows []*types.Course) ([]*types.Course, error) {
	if len(rows) == 0 {
		return []*types.Course{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *courseRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Course, error) {
	out := []*types.Course{}
	if len(ids) == 0 {
		return out, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) GetByName(dbc dbctx.Context, categoryID uint, name string) (*types.Course, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var row types.Course
	err := txx.WithContext(dbc.Ctx).
		Where("category_id = ? AND name = ?", categoryID, name).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *courseRepo) List(dbc dbctx.Context, categoryID uint) ([]*types.Course, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).Model(&types.Course{})
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	out := []*types.Course{}
	if err := q.Order("name ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) CountByTeacher(dbc dbctx.Context, teacherID uint) (int64, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var n int64
	err := txx.WithContext(dbc.Ctx).Model(&types.Course{}).Where("teacher_id = ?", teacherID).Count(&n).Error
	return n, err
}

func (r *courseRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Model(&types.Course{}).Where("id = ?", id).Updates(updates).Error
}

type LessonRepo interface {
	Create(dbc dbctx.Context, rows []*types.Lesson) ([]*types.Lesson, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Lesson, error)
	GetByNumber(dbc dbctx.Context, courseID uint, number int) (*types.Lesson, error)
	ListByCourse(dbc dbctx.Context, courseID uint) ([]*types.Lesson, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) Create(dbc dbctx.Context, rows []*types.Lesson) ([]*types.Lesson, error) {
	if len(rows) == 0 {
		return []*types.Lesson{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *lessonRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Lesson, error) {
	out := []*types.Lesson{}
	if len(ids) == 0 {
		return out, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByNumber returns (nil, nil) when the course has no such lesson.
func (r *lessonRepo) GetByNumber(dbc dbctx.Context, courseID uint, number int) (*types.Lesson, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var row types.Lesson
	err := txx.WithContext(dbc.Ctx).
		Where("course_id = ? AND lesson_number = ?", courseID, number).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *lessonRepo) ListByCourse(dbc dbctx.Context, courseID uint) ([]*types.Lesson, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	out := []*types.Lesson{}
	if err := txx.WithContext(dbc.Ctx).
		Where("course_id = ?", courseID).
		Order("lesson_number ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Model(&types.Lesson{}).Where("id = ?", id).Updates(updates).Error
}
