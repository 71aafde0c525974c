package user

import (
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
)

type ProfileFilter struct {
	Role   types.Role
	Search string
	Limit  int
	Offset int
}

type ProfileRepo interface {
	Create(dbc dbctx.Context, rows []*types.Profile) ([]*types.Profile, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Profile, error)
	GetByUserIDs(dbc dbctx.Context, userIDs []uint) ([]*types.Profile, error)
	List(dbc dbctx.Context, filter ProfileFilter) ([]*types.Profile, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	ClearAvatar(dbc dbctx.Context, photoIDs []uint) error
	DeleteByIDs(dbc dbctx.Context, ids []uint) error
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: baseLog.With("repo", "ProfileRepo")}
}

func (r *profileRepo) Create(dbc dbctx.Context, rows []*types.Profile) ([]*types.Profile, error) {
	if len(rows) == 0 {
		return []*types.Profile{}, nil
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

func (r *profileRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Profile, error) {
	out := []*types.Profile{}
	if len(ids) == 0 {
		return out, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *profileRepo) GetByUserIDs(dbc dbctx.Context, userIDs []uint) ([]*types.Profile, error) {
	out := []*types.Profile{}
	if len(userIDs) == 0 {
		return out, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).
		Where("user_id IN ?", userIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *profileRepo) List(dbc dbctx.Context, filter ProfileFilter) ([]*types.Profile, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).Model(&types.Profile{})
	if filter.Role != "" {
		q = q.Where("profile.role = ?", filter.Role)
	}
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		like := "%" + s + "%"
		q = q.Joins("JOIN auth_user ON auth_user.id = profile.user_id").
			Where("LOWER(auth_user.username) LIKE ? OR LOWER(auth_user.first_name) LIKE ? OR LOWER(auth_user.last_name) LIKE ?", like, like, like)
	}
	out := []*types.Profile{}
	if err := q.
		Order("profile.id ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *profileRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.Profile{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ClearAvatar unsets the avatar of every profile pointing at one of photoIDs.
func (r *profileRepo) ClearAvatar(dbc dbctx.Context, photoIDs []uint) error {
	if len(photoIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.Profile{}).
		Where("avatar_id IN ?", photoIDs).
		Update("avatar_id", nil).Error
}

func (r *profileRepo) DeleteByIDs(dbc dbctx.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Delete(&types.Profile{}).Error
}
