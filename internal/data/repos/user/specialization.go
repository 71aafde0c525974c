package user

import (
	"gorm.io/gorm"

	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
)

// Role rows share their primary key with the profile they specialise.

type StudentRepo interface {
	Create(dbc dbctx.Context, rows []*types.Student) ([]*types.Student, error)
	GetByProfileIDs(dbc dbctx.Context, profileIDs []uint) ([]*types.Student, error)
	UpdateFields(dbc dbctx.Context, profileID uint, updates map[string]interface{}) error
	DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error
}

type TeacherRepo interface {
	Create(dbc dbctx.Context, rows []*types.Teacher) ([]*types.Teacher, error)
	GetByProfileIDs(dbc dbctx.Context, profileIDs []uint) ([]*types.Teacher, error)
	UpdateFields(dbc dbctx.Context, profileID uint, updates map[string]interface{}) error
	DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error
}

type EducationalManagerRepo interface {
	Create(dbc dbctx.Context, rows []*types.EducationalManager) ([]*types.EducationalManager, error)
	GetByProfileIDs(dbc dbctx.Context, profileIDs []uint) ([]*types.EducationalManager, error)
	UpdateFields(dbc dbctx.Context, profileID uint, updates map[string]interface{}) error
	DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error
}

type roleTable struct {
	db  *gorm.DB
	log *logger.Logger
}

func (r *roleTable) handle(dbc dbctx.Context) *gorm.DB {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx)
}

func (r *roleTable) create(dbc dbctx.Context, rows any) error {
	return r.handle(dbc).Create(rows).Error
}

func (r *roleTable) getByProfileIDs(dbc dbctx.Context, profileIDs []uint, out any) error {
	return r.handle(dbc).Where("profile_id IN ?", profileIDs).Find(out).Error
}

func (r *roleTable) updateFields(dbc dbctx.Context, model any, profileID uint, updates map[string]interface{}) error {
	if profileID == 0 || len(updates) == 0 {
		return nil
	}
	return r.handle(dbc).Model(model).Where("profile_id = ?", profileID).Updates(updates).Error
}

func (r *roleTable) deleteByProfileIDs(dbc dbctx.Context, model any, profileIDs []uint) error {
	if len(profileIDs) == 0 {
		return nil
	}
	return r.handle(dbc).Where("profile_id IN ?", profileIDs).Delete(model).Error
}

type studentRepo struct{ roleTable }

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	return &studentRepo{roleTable{db: db, log: baseLog.With("repo", "StudentRepo")}}
}

func (r *studentRepo) Create(dbc dbctx.Context, rows []*types.Student) ([]*types.Student, error) {
	if len(rows) == 0 {
		return []*types.Student{}, nil
	}
	if err := r.create(dbc, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *studentRepo) GetByProfileIDs(dbc dbctx.Context, profileIDs []uint) ([]*types.Student, error) {
	out := []*types.Student{}
	if len(profileIDs) == 0 {
		return out, nil
	}
	if err := r.getByProfileIDs(dbc, profileIDs, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *studentRepo) UpdateFields(dbc dbctx.Context, profileID uint, updates map[string]interface{}) error {
	return r.updateFields(dbc, &types.Student{}, profileID, updates)
}

func (r *studentRepo) DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error {
	return r.deleteByProfileIDs(dbc, &types.Student{}, profileIDs)
}

type teacherRepo struct{ roleTable }

func NewTeacherRepo(db *gorm.DB, baseLog *logger.Logger) TeacherRepo {
	return &teacherRepo{roleTable{db: db, log: baseLog.With("repo", "TeacherRepo")}}
}

func (r *teacherRepo) Create(dbc dbctx.Context, rows []*types.Teacher) ([]*types.Teacher, error) {
	if len(rows) == 0 {
		return []*types.Teacher{}, nil
	}
	if err := r.create(dbc, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *teacherRepo) GetByProfileIDs(dbc dbctx.Context, profileIDs []uint) ([]*types.Teacher, error) {
	out := []*types.Teacher{}
	if len(profileIDs) == 0 {
		return out, nil
	}
	if err := r.getByProfileIDs(dbc, profileIDs, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *teacherRepo) UpdateFields(dbc dbctx.Context, profileID uint, updates map[string]interface{}) error {
	return r.updateFields(dbc, &types.Teacher{}, profileID, updates)
}

func (r *teacherRepo) DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error {
	return r.deleteByProfileIDs(dbc, &types.Teacher{}, profileIDs)
}

type educationalManagerRepo struct{ roleTable }

func NewEducationalManagerRepo(db *gorm.DB, baseLog *logger.Logger) EducationalManagerRepo {
	return &educationalManagerRepo{roleTable{db: db, log: baseLog.With("repo", "EducationalManagerRepo")}}
}

func (r *educationalManagerRepo) Create(dbc dbctx.Context, rows []*types.EducationalManager) ([]*types.EducationalManager, error) {
	if len(rows) == 0 {
		return []*types.EducationalManager{}, nil
	}
	if err := r.create(dbc, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *educationalManagerRepo) GetByProfileIDs(dbc dbctx.Context, profileIDs []uint) ([]*types.EducationalManager, error) {
	out := []*types.EducationalManager{}
	if len(profileIDs) == 0 {
		return out, nil
	}
	if err := r.getByProfileIDs(dbc, profileIDs, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *educationalManagerRepo) UpdateFields(dbc dbctx.Context, profileID uint, updates map[string]interface{}) error {
	return r.updateFields(dbc, &types.EducationalManager{}, profileID, updates)
}

func (r *educationalManagerRepo) DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error {
	return r.deleteByProfileIDs(dbc, &types.EducationalManager{}, profileIDs)
}
