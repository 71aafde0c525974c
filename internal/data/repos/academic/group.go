package academic

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
)

type GroupFilter struct {
	TeacherID uint
	ManagerID uint
}

type GroupRepo interface {
	Create(dbc dbctx.Context, rows []*types.Group) ([]*types.Group, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Group, error)
	List(dbc dbctx.Context, filter GroupFilter) ([]*types.Group, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	DeleteByIDs(dbc dbctx.Context, ids []uint) error
}

type groupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGroupRepo(db *gorm.DB, baseLog *logger.Logger) GroupRepo {
	return &groupRepo{db: db, log: baseLog.With("repo", "GroupRepo")}
}

func (r *groupRepo) Create(dbc dbctx.Context, rows []*types.Group) ([]*types.Group, error) {
	if len(rows) == 0 {
		return []*types.Group{}, nil
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

func (r *groupRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Group, error) {
	out := []*types.Group{}
	if len(ids) == 0 {
		return out, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Order("name ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *groupRepo) List(dbc dbctx.Context, filter GroupFilter) ([]*types.Group, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).Model(&types.Group{})
	if filter.TeacherID != 0 {
		q = q.Where("teacher_id = ?", filter.TeacherID)
	}
	if filter.ManagerID != 0 {
		q = q.Where("manager_id = ?", filter.ManagerID)
	}
	out := []*types.Group{}
	if err := q.Order("name ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *groupRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.Group{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *groupRepo) DeleteByIDs(dbc dbctx.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Delete(&types.Group{}).Error
}

type GroupMemberRepo interface {
	Add(dbc dbctx.Context, groupID, profileID uint) error
	Remove(dbc dbctx.Context, groupID, profileID uint) (int64, error)
	ListGroupIDsByProfile(dbc dbctx.Context, profileID uint) ([]uint, error)
	ListProfileIDsByGroup(dbc dbctx.Context, groupID uint) ([]uint, error)
	DeleteByGroupIDs(dbc dbctx.Context, groupIDs []uint) error
	DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error
}

type groupMemberRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGroupMemberRepo(db *gorm.DB, baseLog *logger.Logger) GroupMemberRepo {
	return &groupMemberRepo{db: db, log: baseLog.With("repo", "GroupMemberRepo")}
}

func (r *groupMemberRepo) Add(dbc dbctx.Context, groupID, profileID uint) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.GroupMember{GroupID: groupID, ProfileID: profileID}).Error
}

func (r *groupMemberRepo) Remove(dbc dbctx.Context, groupID, profileID uint) (int64, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("group_id = ? AND profile_id = ?", groupID, profileID).
		Delete(&types.GroupMember{})
	return res.RowsAffected, res.Error
}

func (r *groupMemberRepo) ListGroupIDsByProfile(dbc dbctx.Context, profileID uint) ([]uint, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	out := []uint{}
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.GroupMember{}).
		Where("profile_id = ?", profileID).
		Order("group_id ASC").
		Pluck("group_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *groupMemberRepo) ListProfileIDsByGroup(dbc dbctx.Context, groupID uint) ([]uint, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	out := []uint{}
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.GroupMember{}).
		Where("group_id = ?", groupID).
		Order("profile_id ASC").
		Pluck("profile_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *groupMemberRepo) DeleteByGroupIDs(dbc dbctx.Context, groupIDs []uint) error {
	if len(groupIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("group_id IN ?", groupIDs).
		Delete(&types.GroupMember{}).Error
}

func (r *groupMemberRepo) DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error {
	if len(profileIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("profile_id IN ?", profileIDs).
		Delete(&types.GroupMember{}).Error
}
