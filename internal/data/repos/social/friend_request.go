package social

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
)

type FriendRequestRepo interface {
	Create(dbc dbctx.Context, fromID, toID uint) (*types.FriendRequest, error)
	Get(dbc dbctx.Context, fromID, toID uint) (*types.FriendRequest, error)
	Delete(dbc dbctx.Context, fromID, toID uint) (int64, error)
	// ListIncomingIDs returns the senders of requests addressed to profileID.
	ListIncomingIDs(dbc dbctx.Context, profileID uint) ([]uint, error)
	// ListOutgoingIDs returns the recipients of requests sent by profileID.
	ListOutgoingIDs(dbc dbctx.Context, profileID uint) ([]uint, error)
	DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error
}

type friendRequestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFriendRequestRepo(db *gorm.DB, baseLog *logger.Logger) FriendRequestRepo {
	return &friendRequestRepo{db: db, log: baseLog.With("repo", "FriendRequestRepo")}
}

func (r *friendRequestRepo) Create(dbc dbctx.Context, fromID, toID uint) (*types.FriendRequest, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	row := &types.FriendRequest{FromProfileID: fromID, ToProfileID: toID}
	if err := txx.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Get returns (nil, nil) when there is no pending request.
func (r *friendRequestRepo) Get(dbc dbctx.Context, fromID, toID uint) (*types.FriendRequest, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var row types.FriendRequest
	err := txx.WithContext(dbc.Ctx).
		Where("from_profile_id = ? AND to_profile_id = ?", fromID, toID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *friendRequestRepo) Delete(dbc dbctx.Context, fromID, toID uint) (int64, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("from_profile_id = ? AND to_profile_id = ?", fromID, toID).
		Delete(&types.FriendRequest{})
	return res.RowsAffected, res.Error
}

func (r *friendRequestRepo) ListIncomingIDs(dbc dbctx.Context, profileID uint) ([]uint, error) {
	return r.pluck(dbc, "to_profile_id = ?", profileID, "from_profile_id")
}

func (r *friendRequestRepo) ListOutgoingIDs(dbc dbctx.Context, profileID uint) ([]uint, error) {
	return r.pluck(dbc, "from_profile_id = ?", profileID, "to_profile_id")
}

func (r *friendRequestRepo) pluck(dbc dbctx.Context, where string, profileID uint, column string) ([]uint, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	out := []uint{}
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.FriendRequest{}).
		Where(where, profileID).
		Order("created_at ASC, id ASC").
		Pluck(column, &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *friendRequestRepo) DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error {
	if len(profileIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("from_profile_id IN ? OR to_profile_id IN ?", profileIDs, profileIDs).
		Delete(&types.FriendRequest{}).Error
}
