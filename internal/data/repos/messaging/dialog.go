package messaging

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
)

type DialogRepo interface {
	Create(dbc dbctx.Context, rows []*types.Dialog) ([]*types.Dialog, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Dialog, error)
	// ListByParticipant returns the dialogs of a profile, most recently active first.
	ListByParticipant(dbc dbctx.Context, profileID uint) ([]*types.Dialog, error)
	// FindDirect returns the one-to-one dialog between a and b, or (nil, nil).
	FindDirect(dbc dbctx.Context, a, b uint) (*types.Dialog, error)
	Touch(dbc dbctx.Context, id uint, at time.Time) error
	DeleteByIDs(dbc dbctx.Context, ids []uint) error
}

type dialogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDialogRepo(db *gorm.DB, baseLog *logger.Logger) DialogRepo {
	return &dialogRepo{db: db, log: baseLog.With("repo", "DialogRepo")}
}

func (r *dialogRepo) Create(dbc dbctx.Context, rows []*types.Dialog) ([]*types.Dialog, error) {
	if len(rows) == 0 {
		return []*types.Dialog{}, nil
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

func (r *dialogRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Dialog, error) {
	out := []*types.Dialog{}
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

func (r *dialogRepo) ListByParticipant(dbc dbctx.Context, profileID uint) ([]*types.Dialog, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	out := []*types.Dialog{}
	if err := txx.WithContext(dbc.Ctx).
		Joins("JOIN dialog_participants dp ON dp.dialog_id = dialog.id").
		Where("dp.profile_id = ?", profileID).
		Order("dialog.updated_at DESC, dialog.id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *dialogRepo) FindDirect(dbc dbctx.Context, a, b uint) (*types.Dialog, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	both := txx.Model(&types.DialogParticipant{}).
		Select("dialog_id").
		Where("profile_id IN ?", []uint{a, b}).
		Group("dialog_id").
		Having("COUNT(*) = 2")
	exactlyTwo := txx.Model(&types.DialogParticipant{}).
		Select("dialog_id").
		Group("dialog_id").
		Having("COUNT(*) = 2")

	var row types.Dialog
	err := txx.WithContext(dbc.Ctx).
		Where("is_group = ?", false).
		Where("id IN (?)", both).
		Where("id IN (?)", exactlyTwo).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *dialogRepo) Touch(dbc dbctx.Context, id uint, at time.Time) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.Dialog{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", at).Error
}

func (r *dialogRepo) DeleteByIDs(dbc dbctx.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.Dialog{}).Error
}

type ParticipantRepo interface {
	Add(dbc dbctx.Context, dialogID uint, profileIDs []uint) error
	ListByDialogIDs(dbc dbctx.Context, dialogIDs []uint) ([]*types.DialogParticipant, error)
	IsParticipant(dbc dbctx.Context, dialogID, profileID uint) (bool, error)
	DeleteByDialogIDs(dbc dbctx.Context, dialogIDs []uint) error
	DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error
}

type participantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewParticipantRepo(db *gorm.DB, baseLog *logger.Logger) ParticipantRepo {
	return &participantRepo{db: db, log: baseLog.With("repo", "ParticipantRepo")}
}

func (r *participantRepo) Add(dbc dbctx.Context, dialogID uint, profileIDs []uint) error {
	if len(profileIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	rows := make([]*types.DialogParticipant, 0, len(profileIDs))
	for _, pid := range profileIDs {
		rows = append(rows, &types.DialogParticipant{DialogID: dialogID, ProfileID: pid})
	}
	return txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *participantRepo) ListByDialogIDs(dbc dbctx.Context, dialogIDs []uint) ([]*types.DialogParticipant, error) {
	out := []*types.DialogParticipant{}
	if len(dialogIDs) == 0 {
		return out, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).
		Where("dialog_id IN ?", dialogIDs).
		Order("dialog_id ASC, profile_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *participantRepo) IsParticipant(dbc dbctx.Context, dialogID, profileID uint) (bool, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var n int64
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.DialogParticipant{}).
		Where("dialog_id = ? AND profile_id = ?", dialogID, profileID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *participantRepo) DeleteByDialogIDs(dbc dbctx.Context, dialogIDs []uint) error {
	if len(dialogIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Where("dialog_id IN ?", dialogIDs).Delete(&types.DialogParticipant{}).Error
}

func (r *participantRepo) DeleteByProfileIDs(dbc dbctx.Context, profileIDs []uint) error {
	if len(profileIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Where("profile_id IN ?", profileIDs).Delete(&types.DialogParticipant{}).Error
}
