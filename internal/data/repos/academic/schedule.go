package academic

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
)

type TimetableFilter struct {
	GroupIDs []uint
	From     *datatypes.Date
	To       *datatypes.Date
}

type TimetableRepo interface {
	Create(dbc dbctx.Context, rows []*types.Timetable) ([]*types.Timetable, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Timetable, error)
	List(dbc dbctx.Context, filter TimetableFilter) ([]*types.Timetable, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	DeleteByGroupIDs(dbc dbctx.Context, groupIDs []uint) error
}

type timetableRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTimetableRepo(db *gorm.DB, baseLog *logger.Logger) TimetableRepo {
	return &timetableRepo{db: db, log: baseLog.With("repo", "TimetableRepo")}
}

func (r *timetableRepo) Create(dbc dbctx.Context, rows []*types.Timetable) ([]*types.Timetable, error) {
	if len(rows) == 0 {
		return []*types.Timetable{}, nil
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

func (r *timetableRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Timetable, error) {
	out := []*types.Timetable{}
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

func (r *timetableRepo) List(dbc dbctx.Context, filter TimetableFilter) ([]*types.Timetable, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).Model(&types.Timetable{})
	if len(filter.GroupIDs) > 0 {
		q = q.Where("group_id IN ?", filter.GroupIDs)
	}
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date <= ?", *filter.To)
	}
	out := []*types.Timetable{}
	if err := q.Order("date ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *timetableRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Model(&types.Timetable{}).Where("id = ?", id).Updates(updates).Error
}

func (r *timetableRepo) DeleteByGroupIDs(dbc dbctx.Context, groupIDs []uint) error {
	if len(groupIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Where("group_id IN ?", groupIDs).Delete(&types.Timetable{}).Error
}

type CertificateRepo interface {
	Create(dbc dbctx.Context, rows []*types.Certificate) ([]*types.Certificate, error)
	ListByProfile(dbc dbctx.Context, profileID uint) ([]*types.Certificate, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error
}

type certificateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCertificateRepo(db *gorm.DB, baseLog *logger.Logger) CertificateRepo {
	return &certificateRepo{db: db, log: baseLog.With("repo", "CertificateRepo")}
}

func (r *certificateRepo) Create(dbc dbctx.Context, rows []*types.Certificate) ([]*types.Certificate, error) {
	if len(rows) == 0 {
		return []*types.Certificate{}, nil
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

func (r *certificateRepo) ListByProfile(dbc dbctx.Context, profileID uint) ([]*types.Certificate, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	out := []*types.Certificate{}
	if err := txx.WithContext(dbc.Ctx).
		Where("profile_id = ?", profileID).
		Order("date DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *certificateRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Model(&types.Certificate{}).Where("id = ?", id).Updates(updates).Error
}

func (r *certificateRepo) DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error {
	if len(profileIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Where("profile_id IN ?", profileIDs).Delete(&types.Certificate{}).Error
}

type PerformanceFilter struct {
	StudentID uint
	CourseID  uint
}

type PerformanceRepo interface {
	Create(dbc dbctx.Context, rows []*types.AcademicPerformance) ([]*types.AcademicPerformance, error)
	List(dbc dbctx.Context, filter PerformanceFilter) ([]*types.AcademicPerformance, error)
	DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error
}

type performanceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPerformanceRepo(db *gorm.DB, baseLog *logger.Logger) PerformanceRepo {
	return &performanceRepo{db: db, log: baseLog.With("repo", "PerformanceRepo")}
}

func (r *performanceRepo) Create(dbc dbctx.Context, rows []*types.AcademicPerformance) ([]*types.AcademicPerformance, error) {
	if len(rows) == 0 {
		return []*types.AcademicPerformance{}, nil
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

func (r *performanceRepo) List(dbc dbctx.Context, filter PerformanceFilter) ([]*types.AcademicPerformance, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).Model(&types.AcademicPerformance{})
	if filter.StudentID != 0 {
		q = q.Where("academic_performance.student_id = ?", filter.StudentID)
	}
	if filter.CourseID != 0 {
		q = q.Joins("JOIN lesson ON lesson.id = academic_performance.lesson_id").
			Where("lesson.course_id = ?", filter.CourseID)
	}
	out := []*types.AcademicPerformance{}
	if err := q.
		Order("academic_performance.date ASC, academic_performance.id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *performanceRepo) DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error {
	if len(profileIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("student_id IN ? OR teacher_id IN ?", profileIDs, profileIDs).
		Delete(&types.AcademicPerformance{}).Error
}
