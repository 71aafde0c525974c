package media

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
)

type PhotoRepo interface {
	Create(dbc dbctx.Context, rows []*types.Photo) ([]*types.Photo, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Photo, error)
	ListByOwner(dbc dbctx.Context, profileID uint) ([]*types.Photo, error)
	DeleteByIDs(dbc dbctx.Context, ids []uint) error
}

type photoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPhotoRepo(db *gorm.DB, baseLog *logger.Logger) PhotoRepo {
	return &photoRepo{db: db, log: baseLog.With("repo", "PhotoRepo")}
}

func (r *photoRepo) Create(dbc dbctx.Context, rows []*types.Photo) ([]*types.Photo, error) {
	if len(rows) == 0 {
		return []*types.Photo{}, nil
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

func (r *photoRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Photo, error) {
	out := []*types.Photo{}
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

// ListByOwner returns the newest photos first.
func (r *photoRepo) ListByOwner(dbc dbctx.Context, profileID uint) ([]*types.Photo, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	out := []*types.Photo{}
	if err := txx.WithContext(dbc.Ctx).
		Where("profile_id = ?", profileID).
		Order("date DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *photoRepo) DeleteByIDs(dbc dbctx.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Delete(&types.Photo{}).Error
}

type PhotoLikeRepo interface {
	Add(dbc dbctx.Context, photoID, profileID uint) error
	Remove(dbc dbctx.Context, photoID, profileID uint) error
	ListByPhotoIDs(dbc dbctx.Context, photoIDs []uint) ([]*types.PhotoLike, error)
	DeleteByPhotoIDs(dbc dbctx.Context, photoIDs []uint) error
	DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error
}

type photoLikeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPhotoLikeRepo(db *gorm.DB, baseLog *logger.Logger) PhotoLikeRepo {
	return &photoLikeRepo{db: db, log: baseLog.With("repo", "PhotoLikeRepo")}
}

func (r *photoLikeRepo) Add(dbc dbctx.Context, photoID, profileID uint) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.PhotoLike{PhotoID: photoID, ProfileID: profileID}).Error
}

func (r *photoLikeRepo) Remove(dbc dbctx.Context, photoID, profileID uint) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("photo_id = ? AND profile_id = ?", photoID, profileID).
		Delete(&types.PhotoLike{}).Error
}

func (r *photoLikeRepo) ListByPhotoIDs(dbc dbctx.Context, photoIDs []uint) ([]*types.PhotoLike, error) {
	out := []*types.PhotoLike{}
	if len(photoIDs) == 0 {
		return out, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).
		Where("photo_id IN ?", photoIDs).
		Order("created_at ASC, profile_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *photoLikeRepo) DeleteByPhotoIDs(dbc dbctx.Context, photoIDs []uint) error {
	if len(photoIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("photo_id IN ?", photoIDs).
		Delete(&types.PhotoLike{}).Error
}

func (r *photoLikeRepo) DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error {
	if len(profileIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("profile_id IN ?", profileIDs).
		Delete(&types.PhotoLike{}).Error
}
