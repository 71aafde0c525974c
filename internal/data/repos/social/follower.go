package social

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
)

type FollowerRepo interface {
	Add(dbc dbctx.Context, profileID, followerID uint) error
	Remove(dbc dbctx.Context, profileID, followerID uint) error
	ListFollowerIDs(dbc dbctx.Context, profileID uint) ([]uint, error)
	DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error
}

type followerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFollowerRepo(db *gorm.DB, baseLog *logger.Logger) FollowerRepo {
	return &followerRepo{db: db, log: baseLog.With("repo", "FollowerRepo")}
}

func (r *followerRepo) Add(dbc dbctx.Context, profileID, followerID uint) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.ProfileFollower{ProfileID: profileID, FollowerID: followerID}).Error
}

func (r *followerRepo) Remove(dbc dbctx.Context, profileID, followerID uint) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("profile_id = ? AND follower_id = ?", profileID, followerID).
		Delete(&types.ProfileFollower{}).Error
}

func (r *followerRepo) ListFollowerIDs(dbc dbctx.Context, profileID uint) ([]uint, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	out := []uint{}
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.ProfileFollower{}).
		Where("profile_id = ?", profileID).
		Order("created_at ASC, follower_id ASC").
		Pluck("follower_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *followerRepo) DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error {
	if len(profileIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("profile_id IN ? OR follower_id IN ?", profileIDs, profileIDs).
		Delete(&types.ProfileFollower{}).Error
}
