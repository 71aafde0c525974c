package social

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
)

// FriendRepo stores friendships symmetrically: every pair is written in both
// directions so either side can list its friends with one indexed lookup.
type FriendRepo interface {
	AddPair(dbc dbctx.Context, a, b uint) error
	RemovePair(dbc dbctx.Context, a, b uint) (int64, error)
	AreFriends(dbc dbctx.Context, a, b uint) (bool, error)
	ListFriendIDs(dbc dbctx.Context, profileID uint) ([]uint, error)
	DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error
}

type friendRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFriendRepo(db *gorm.DB, baseLog *logger.Logger) FriendRepo {
	return &friendRepo{db: db, log: baseLog.With("repo", "FriendRepo")}
}

func (r *friendRepo) AddPair(dbc dbctx.Context, a, b uint) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	rows := []*types.ProfileFriend{
		{ProfileID: a, FriendID: b},
		{ProfileID: b, FriendID: a},
	}
	return txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *friendRepo) RemovePair(dbc dbctx.Context, a, b uint) (int64, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("(profile_id = ? AND friend_id = ?) OR (profile_id = ? AND friend_id = ?)", a, b, b, a).
		Delete(&types.ProfileFriend{})
	return res.RowsAffected, res.Error
}

func (r *friendRepo) AreFriends(dbc dbctx.Context, a, b uint) (bool, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var count int64
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.ProfileFriend{}).
		Where("profile_id = ? AND friend_id = ?", a, b).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *friendRepo) ListFriendIDs(dbc dbctx.Context, profileID uint) ([]uint, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	out := []uint{}
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.ProfileFriend{}).
		Where("profile_id = ?", profileID).
		Order("created_at ASC, friend_id ASC").
		Pluck("friend_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *friendRepo) DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error {
	if len(profileIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("profile_id IN ? OR friend_id IN ?", profileIDs, profileIDs).
		Delete(&types.ProfileFriend{}).Error
}
